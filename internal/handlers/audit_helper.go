package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/middleware"
)

// writeAudit records a change made directly by a handler (simple CRUD that
// has no use case of its own).
func writeAudit(
	d *audit.Dispatcher,
	c *gin.Context,
	action string,
	entity string,
	entityID *uint,
	meta any,
) {
	uid := userID(c)
	d.Dispatch(audit.Event{
		SalonID:  salonID(c),
		UserID:   &uid,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: meta,

		RequestID: c.GetString(middleware.ContextRequestID),
	})
}
