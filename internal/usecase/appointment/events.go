package appointment

import (
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
)

// Actions passed to the event publisher.
const (
	ActionCreated     = "created"
	ActionConfirmed   = "confirmed"
	ActionCancelled   = "cancelled"
	ActionCompleted   = "completed"
	ActionNoShow      = "no_show"
	ActionRescheduled = "rescheduled"
)

func publisherOrNoop(p domain.EventPublisher) domain.EventPublisher {
	if p == nil {
		return domain.NoopPublisher{}
	}
	return p
}
