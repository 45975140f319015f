package cashregister

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// ===============================
// Register status
// ===============================

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// ===============================
// Movements
// ===============================

const (
	MovementEntry = "entry"
	MovementExit  = "exit"
)

const (
	MethodCash      = "cash"
	MethodDebit     = "debit"
	MethodCredit    = "credit"
	MethodPix       = "pix"
	MethodOnAccount = "on_account"
)

// Movement categories.
const (
	CategorySale       = "sale"
	CategoryManual     = "manual"
	CategoryPayable    = "payable"
	CategoryReceivable = "receivable"
	CategoryCommission = "commission"
	CategoryRefund     = "refund"
)

func ParseMovementType(s string) (string, error) {
	switch t := strings.ToLower(strings.TrimSpace(s)); t {
	case MovementEntry, MovementExit:
		return t, nil
	}
	return "", httperr.ErrBusiness("invalid_movement_type")
}

// ParsePaymentMethod normalizes a payment method. on_account is accepted only
// when allowOnAccount is set, since it never moves money.
func ParsePaymentMethod(s string, allowOnAccount bool) (string, error) {
	m := strings.ToLower(strings.TrimSpace(s))
	switch m {
	case MethodCash, MethodDebit, MethodCredit, MethodPix:
		return m, nil
	case MethodOnAccount:
		if allowOnAccount {
			return m, nil
		}
	}
	return "", httperr.ErrBusiness("invalid_payment_method")
}

// ===============================
// Closing
// ===============================

const (
	ClassificationOK       = "ok"
	ClassificationWarning  = "warning"
	ClassificationCritical = "critical"
)

type Thresholds struct {
	WarnPct     float64
	CriticalPct float64
}

// ExpectedCash is what should be in the drawer: the opening float plus cash
// entries minus cash exits. Card and pix movements never touch the drawer.
func ExpectedCash(opening decimal.Decimal, movements []models.CashMovement) decimal.Decimal {
	total := opening
	for _, m := range movements {
		if m.PaymentMethod != MethodCash {
			continue
		}
		switch m.Type {
		case MovementEntry:
			total = total.Add(m.Amount)
		case MovementExit:
			total = total.Sub(m.Amount)
		}
	}
	return total
}

// Classify grades a closing difference as a percentage of the expected cash.
func Classify(difference, expected decimal.Decimal, th Thresholds) string {
	if difference.IsZero() {
		return ClassificationOK
	}
	if !expected.IsPositive() {
		return ClassificationCritical
	}

	pct, _ := difference.Abs().Div(expected).Mul(decimal.NewFromInt(100)).Float64()
	switch {
	case pct <= th.WarnPct:
		return ClassificationOK
	case pct <= th.CriticalPct:
		return ClassificationWarning
	default:
		return ClassificationCritical
	}
}

// ===============================
// Report
// ===============================

type MethodTotals struct {
	Entries decimal.Decimal `json:"entries"`
	Exits   decimal.Decimal `json:"exits"`
}

type Report struct {
	Register *models.CashRegister `json:"register"`

	TotalEntries decimal.Decimal         `json:"total_entries"`
	TotalExits   decimal.Decimal         `json:"total_exits"`
	ByMethod     map[string]MethodTotals `json:"by_method"`
	ByCategory   map[string]MethodTotals `json:"by_category"`
	ExpectedCash decimal.Decimal         `json:"expected_cash"`
	Movements    int                     `json:"movements"`
}

func BuildReport(reg *models.CashRegister, movements []models.CashMovement) Report {
	r := Report{
		Register:     reg,
		ByMethod:     map[string]MethodTotals{},
		ByCategory:   map[string]MethodTotals{},
		ExpectedCash: ExpectedCash(reg.OpeningAmount, movements),
		Movements:    len(movements),
	}

	add := func(m map[string]MethodTotals, key string, mv models.CashMovement) {
		t := m[key]
		if mv.Type == MovementEntry {
			t.Entries = t.Entries.Add(mv.Amount)
		} else {
			t.Exits = t.Exits.Add(mv.Amount)
		}
		m[key] = t
	}

	for _, mv := range movements {
		if mv.Type == MovementEntry {
			r.TotalEntries = r.TotalEntries.Add(mv.Amount)
		} else {
			r.TotalExits = r.TotalExits.Add(mv.Amount)
		}
		add(r.ByMethod, mv.PaymentMethod, mv)
		add(r.ByCategory, mv.Category, mv)
	}

	return r
}
