package inventory

import (
	"strings"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

const (
	MovementEntry = "entry"
	MovementExit  = "exit"
)

// Reasons
const (
	ReasonPurchase   = "purchase"
	ReasonReturn     = "return"
	ReasonUse        = "use"
	ReasonLoss       = "loss"
	ReasonSale       = "sale"
	ReasonAdjustment = "adjustment"
)

var entryReasons = map[string]bool{ReasonPurchase: true, ReasonReturn: true, ReasonAdjustment: true}
var exitReasons = map[string]bool{ReasonUse: true, ReasonLoss: true, ReasonSale: true, ReasonAdjustment: true}

// ParseReason validates the reason for the given movement type. An empty
// reason defaults to purchase for entries and use for exits.
func ParseReason(movementType, reason string) (string, error) {
	r := strings.ToLower(strings.TrimSpace(reason))
	switch movementType {
	case MovementEntry:
		if r == "" {
			return ReasonPurchase, nil
		}
		if entryReasons[r] {
			return r, nil
		}
	case MovementExit:
		if r == "" {
			return ReasonUse, nil
		}
		if exitReasons[r] {
			return r, nil
		}
	}
	return "", httperr.ErrBusiness("invalid_reason")
}

// AddStock increases the product balance.
func AddStock(p *models.Product, qty int) error {
	if qty <= 0 {
		return httperr.ErrBusiness("invalid_quantity")
	}
	p.Quantity += qty
	return nil
}

// RemoveStock decreases the product balance. Stock never goes negative.
func RemoveStock(p *models.Product, qty int) error {
	if qty <= 0 {
		return httperr.ErrBusiness("invalid_quantity")
	}
	if p.Quantity < qty {
		return httperr.ErrBusiness("insufficient_stock")
	}
	p.Quantity -= qty
	return nil
}

func IsLowStock(p *models.Product) bool {
	return p.Active && p.Quantity <= p.MinQuantity
}

// Movement builds the ledger row for a change already applied to p.
func Movement(p *models.Product, typ, reason string, qty int) *models.StockMovement {
	return &models.StockMovement{
		SalonID:      p.SalonID,
		ProductID:    p.ID,
		Type:         typ,
		Reason:       reason,
		Quantity:     qty,
		BalanceAfter: p.Quantity,
	}
}
