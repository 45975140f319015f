package sale

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/domain/cashregister"
	"github.com/BruksfildServices01/salon-manager/internal/domain/commission"
	"github.com/BruksfildServices01/salon-manager/internal/domain/inventory"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/sale"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

const defaultOnAccountDays = 30

// ======================================================
// INPUT
// ======================================================

type ItemInput struct {
	Kind           string
	ProductID      uint
	ServiceID      uint
	ProfessionalID uint
	Quantity       int

	// UnitPrice overrides the catalog price when set.
	UnitPrice *decimal.Decimal
}

type CreateSaleInput struct {
	SalonID       uint
	UserID        uint
	CustomerID    *uint
	AppointmentID *uint

	Items         []ItemInput
	Discount      decimal.Decimal
	PaymentMethod string
	Notes         string
}

// ======================================================
// USE CASE
// ======================================================

type CreateSale struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events domain.EventPublisher
}

func NewCreateSale(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events domain.EventPublisher,
) *CreateSale {
	if events == nil {
		events = domain.NoopPublisher{}
	}
	return &CreateSale{repo: repo, audit: audit, events: events}
}

// line keeps what each item needs after the sale row exists.
type line struct {
	product      *models.Product
	balanceAfter int
	professional *models.Professional
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateSale) Execute(ctx context.Context, in CreateSaleInput) (*models.Sale, error) {
	if len(in.Items) == 0 {
		return nil, httperr.ErrBusiness("empty_sale")
	}

	method, err := cashregister.ParsePaymentMethod(in.PaymentMethod, true)
	if err != nil {
		return nil, err
	}
	if method == cashregister.MethodOnAccount && in.CustomerID == nil {
		return nil, httperr.ErrBusiness("customer_required")
	}

	var sale *models.Sale
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// 1️⃣ Caixa aberto
		// --------------------------------------------------
		reg, err := tx.OpenCashRegister(ctx, in.SalonID)
		if httperr.IsBusiness(err, "cash_register_not_found") {
			return httperr.ErrBusiness("cash_register_closed")
		}
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 2️⃣ Cliente + atendimento
		// --------------------------------------------------
		var customer *models.Customer
		if in.CustomerID != nil {
			if customer, err = tx.GetCustomer(ctx, in.SalonID, *in.CustomerID); err != nil {
				return err
			}
		}

		var booked *models.Appointment
		appointmentCovered := false
		if in.AppointmentID != nil {
			if booked, err = tx.GetAppointment(ctx, in.SalonID, *in.AppointmentID); err != nil {
				return err
			}
			if appointmentCovered, err = tx.HasAppointmentCommission(ctx, booked.ID); err != nil {
				return err
			}
		}

		// --------------------------------------------------
		// 3️⃣ Itens (estoque já baixado em memória)
		// --------------------------------------------------
		items := make([]models.SaleItem, 0, len(in.Items))
		lines := make([]line, 0, len(in.Items))
		products := map[uint]*models.Product{}
		for _, it := range in.Items {
			item, l, err := uc.buildItem(ctx, tx, in.SalonID, it, products)
			if err != nil {
				return err
			}
			items = append(items, *item)
			lines = append(lines, l)
		}

		subtotal, total, err := domain.Totals(items, in.Discount.Round(2))
		if err != nil {
			return err
		}

		sale = &models.Sale{
			SalonID:        in.SalonID,
			CashRegisterID: reg.ID,
			UserID:         in.UserID,
			CustomerID:     in.CustomerID,
			AppointmentID:  in.AppointmentID,
			Subtotal:       subtotal,
			Discount:       in.Discount.Round(2),
			Total:          total,
			PaymentMethod:  method,
			Status:         domain.StatusCompleted,
			Notes:          strings.TrimSpace(in.Notes),
			Items:          items,
		}
		if err := tx.CreateSale(ctx, sale); err != nil {
			return err
		}
		sale.Customer = customer

		// --------------------------------------------------
		// 4️⃣ Estoque + comissões por item
		// --------------------------------------------------
		for i, l := range lines {
			item := sale.Items[i]

			if l.product != nil {
				if err := tx.UpdateProduct(ctx, l.product); err != nil {
					return err
				}
				mv := inventory.Movement(l.product, inventory.MovementExit, inventory.ReasonSale, item.Quantity)
				mv.BalanceAfter = l.balanceAfter
				mv.ReferenceType = "sale"
				mv.ReferenceID = &sale.ID
				if err := tx.CreateStockMovement(ctx, mv); err != nil {
					return err
				}
			}

			base := domain.ProRate(item.Total, subtotal, total)
			c := commission.For(in.SalonID, l.professional, base)
			if c == nil {
				continue
			}
			// the appointment's own service earns one commission, whether
			// booked here or when the appointment was completed
			if booked != nil && domain.CoversAppointment(&item, booked) {
				if appointmentCovered {
					continue
				}
				c.AppointmentID = &booked.ID
				appointmentCovered = true
			}
			c.SaleID = &sale.ID
			c.SaleItemID = &sale.Items[i].ID
			if err := tx.CreateCommission(ctx, c); err != nil {
				return err
			}
		}

		// --------------------------------------------------
		// 5️⃣ Pagamento
		// --------------------------------------------------
		if !total.IsPositive() {
			return nil
		}

		if method == cashregister.MethodOnAccount {
			return tx.CreateReceivable(ctx, &models.Receivable{
				SalonID:     in.SalonID,
				CustomerID:  in.CustomerID,
				SaleID:      &sale.ID,
				Description: fmt.Sprintf("Venda #%d", sale.ID),
				Amount:      total,
				DueDate:     time.Now().AddDate(0, 0, defaultOnAccountDays),
				Status:      "pending",
			})
		}

		return tx.CreateCashMovement(ctx, &models.CashMovement{
			SalonID:        in.SalonID,
			CashRegisterID: &reg.ID,
			UserID:         &in.UserID,
			Type:           cashregister.MovementEntry,
			Category:       cashregister.CategorySale,
			PaymentMethod:  method,
			Amount:         total,
			Description:    fmt.Sprintf("Venda #%d", sale.ID),
			ReferenceType:  "sale",
			ReferenceID:    &sale.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "sale_created",
		Entity:   "sale",
		EntityID: &sale.ID,
		Metadata: map[string]any{"total": sale.Total.String(), "payment_method": method},
	})
	uc.events.SaleCompleted(ctx, sale)

	return sale, nil
}

func (uc *CreateSale) buildItem(
	ctx context.Context,
	tx domain.Repository,
	salonID uint,
	in ItemInput,
	products map[uint]*models.Product,
) (*models.SaleItem, line, error) {

	var l line

	kind, err := domain.ParseKind(in.Kind)
	if err != nil {
		return nil, l, err
	}
	if in.Quantity <= 0 {
		return nil, l, httperr.ErrBusiness("invalid_quantity")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, l, httperr.ErrBusiness("invalid_amount")
	}

	item := &models.SaleItem{Kind: kind, Quantity: in.Quantity}

	if in.ProfessionalID != 0 {
		if l.professional, err = tx.GetProfessional(ctx, salonID, in.ProfessionalID); err != nil {
			return nil, l, err
		}
		item.ProfessionalID = &l.professional.ID
	}

	var price decimal.Decimal
	switch kind {
	case domain.KindProduct:
		// the same product may appear on several lines
		p, ok := products[in.ProductID]
		if !ok {
			if p, err = tx.GetProduct(ctx, salonID, in.ProductID); err != nil {
				return nil, l, err
			}
			products[p.ID] = p
		}
		if err := inventory.RemoveStock(p, in.Quantity); err != nil {
			return nil, l, err
		}
		l.product = p
		l.balanceAfter = p.Quantity
		item.ProductID = &p.ID
		item.Description = p.Name
		price = p.SalePrice

		// Product sales earn no commission.
		l.professional = nil

	case domain.KindService:
		s, err := tx.GetService(ctx, salonID, in.ServiceID)
		if err != nil {
			return nil, l, err
		}
		item.ServiceID = &s.ID
		item.Description = s.Name
		price = s.Price
	}

	if in.UnitPrice != nil {
		price = *in.UnitPrice
	}
	item.UnitPrice = price.Round(2)
	item.Total = domain.LineTotal(in.Quantity, item.UnitPrice)

	return item, l, nil
}
