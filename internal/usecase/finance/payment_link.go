package finance

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/finance"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// CreatePaymentLink asks the payment provider for a checkout URL and stores
// it on the receivable.
type CreatePaymentLink struct {
	repo     domain.Repository
	provider domain.PaymentLinkProvider
	audit    *audit.Dispatcher
}

func NewCreatePaymentLink(
	repo domain.Repository,
	provider domain.PaymentLinkProvider,
	audit *audit.Dispatcher,
) *CreatePaymentLink {
	return &CreatePaymentLink{repo: repo, provider: provider, audit: audit}
}

func (uc *CreatePaymentLink) Execute(ctx context.Context, salonID, userID, receivableID uint) (*models.Receivable, error) {
	if uc.provider == nil {
		return nil, httperr.ErrBusiness("payments_disabled")
	}

	r, err := uc.repo.GetReceivable(ctx, salonID, receivableID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanSettle(r.Status); err != nil {
		return nil, err
	}

	var email string
	if r.CustomerID != nil {
		if c, err := uc.repo.GetCustomer(ctx, salonID, *r.CustomerID); err == nil {
			email = c.Email
		}
	}

	link, err := uc.provider.CreateLink(
		ctx,
		fmt.Sprintf("receivable-%d", r.ID),
		r.Description,
		r.Amount,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("create payment link: %w", err)
	}

	r.PaymentLink = link
	if err := uc.repo.UpdateReceivable(ctx, r); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "receivable_payment_link",
		Entity:   "receivable",
		EntityID: &r.ID,
	})
	return r, nil
}
