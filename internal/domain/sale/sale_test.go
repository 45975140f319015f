package sale

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTotals(t *testing.T) {
	items := []models.SaleItem{
		{Total: LineTotal(2, d("19.90"))},
		{Total: LineTotal(1, d("60"))},
	}

	sub, total, err := Totals(items, d("9.80"))
	require.NoError(t, err)
	assert.True(t, d("99.80").Equal(sub))
	assert.True(t, d("90").Equal(total))

	_, _, err = Totals(items, d("100"))
	assert.True(t, httperr.IsBusiness(err, "invalid_discount"))

	_, _, err = Totals(items, d("-1"))
	assert.True(t, httperr.IsBusiness(err, "invalid_discount"))
}

func TestProRate(t *testing.T) {
	assert.True(t, d("45").Equal(ProRate(d("50"), d("100"), d("90"))))
	assert.True(t, d("0").Equal(ProRate(d("50"), d("0"), d("0"))))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Service")
	require.NoError(t, err)
	assert.Equal(t, KindService, k)

	_, err = ParseKind("combo")
	assert.True(t, httperr.IsBusiness(err, "invalid_item_kind"))
}
