package finance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// ===============================
// Ledger status
// ===============================

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"

	// StatusOverdue is never stored: it is a pending row past its due date.
	StatusOverdue = "overdue"
)

func ParseStatusFilter(s string) (string, error) {
	st := strings.ToLower(strings.TrimSpace(s))
	switch st {
	case "", StatusPending, StatusPaid, StatusCancelled, StatusOverdue:
		return st, nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// EffectiveStatus reports overdue for pending rows due before today.
func EffectiveStatus(status string, due, today time.Time) string {
	if status == StatusPending && due.Before(today) {
		return StatusOverdue
	}
	return status
}

// CanSettle checks that a ledger row can still be paid or cancelled.
func CanSettle(status string) error {
	if status != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

type Filter struct {
	SalonID    uint
	Status     string
	CustomerID uint
	From       *time.Time
	To         *time.Time

	// Today anchors the overdue filter.
	Today time.Time
}

type Totals struct {
	Open         decimal.Decimal `json:"open"`
	OpenCount    int             `json:"open_count"`
	Overdue      decimal.Decimal `json:"overdue"`
	OverdueCount int             `json:"overdue_count"`
}

type Summary struct {
	Payables    Totals          `json:"payables"`
	Receivables Totals          `json:"receivables"`
	Balance     decimal.Decimal `json:"balance"`
}

func (t *Totals) add(status string, amount decimal.Decimal, due, today time.Time) {
	if status != StatusPending {
		return
	}
	t.Open = t.Open.Add(amount)
	t.OpenCount++
	if EffectiveStatus(status, due, today) == StatusOverdue {
		t.Overdue = t.Overdue.Add(amount)
		t.OverdueCount++
	}
}

// Summarize totals the open and overdue amounts on both sides of the ledger.
// Balance is what is still to be received minus what is still to be paid.
func Summarize(payables []models.Payable, receivables []models.Receivable, today time.Time) Summary {
	var s Summary
	for _, p := range payables {
		s.Payables.add(p.Status, p.Amount, p.DueDate, today)
	}
	for _, r := range receivables {
		s.Receivables.add(r.Status, r.Amount, r.DueDate, today)
	}
	s.Balance = s.Receivables.Open.Sub(s.Payables.Open)
	return s
}
