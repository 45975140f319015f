package cashregister

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var th = Thresholds{WarnPct: 1, CriticalPct: 5}

func TestExpectedCashOnlyCountsCash(t *testing.T) {
	movements := []models.CashMovement{
		{Type: MovementEntry, PaymentMethod: MethodCash, Amount: d("50")},
		{Type: MovementEntry, PaymentMethod: MethodPix, Amount: d("80")},
		{Type: MovementExit, PaymentMethod: MethodCash, Amount: d("20")},
		{Type: MovementEntry, PaymentMethod: MethodCredit, Amount: d("120")},
	}

	assert.True(t, d("130").Equal(ExpectedCash(d("100"), movements)))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ClassificationOK, Classify(d("0"), d("0"), th))
	assert.Equal(t, ClassificationOK, Classify(d("-1"), d("100"), th))
	assert.Equal(t, ClassificationWarning, Classify(d("3"), d("100"), th))
	assert.Equal(t, ClassificationWarning, Classify(d("-5"), d("100"), th))
	assert.Equal(t, ClassificationCritical, Classify(d("5.01"), d("100"), th))
	assert.Equal(t, ClassificationCritical, Classify(d("10"), d("0"), th))
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod(" PIX ", false)
	assert.NoError(t, err)
	assert.Equal(t, MethodPix, m)

	_, err = ParsePaymentMethod("on_account", false)
	assert.True(t, httperr.IsBusiness(err, "invalid_payment_method"))

	m, err = ParsePaymentMethod("On_Account", true)
	assert.NoError(t, err)
	assert.Equal(t, MethodOnAccount, m)

	_, err = ParseMovementType("saida")
	assert.True(t, httperr.IsBusiness(err, "invalid_movement_type"))
}

func TestBuildReport(t *testing.T) {
	reg := &models.CashRegister{OpeningAmount: d("100")}
	movements := []models.CashMovement{
		{Type: MovementEntry, Category: CategorySale, PaymentMethod: MethodCash, Amount: d("50")},
		{Type: MovementEntry, Category: CategorySale, PaymentMethod: MethodDebit, Amount: d("70")},
		{Type: MovementExit, Category: CategoryPayable, PaymentMethod: MethodCash, Amount: d("30")},
	}

	r := BuildReport(reg, movements)

	assert.True(t, d("120").Equal(r.TotalEntries))
	assert.True(t, d("30").Equal(r.TotalExits))
	assert.True(t, d("120").Equal(r.ExpectedCash))
	assert.True(t, d("50").Equal(r.ByMethod[MethodCash].Entries))
	assert.True(t, d("30").Equal(r.ByMethod[MethodCash].Exits))
	assert.True(t, d("120").Equal(r.ByCategory[CategorySale].Entries))
	assert.Equal(t, 3, r.Movements)
}
