package commission

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculate(t *testing.T) {
	assert.True(t, d("12.35").Equal(Calculate(d("82.33"), d("15"))))
	assert.True(t, d("0").Equal(Calculate(d("100"), d("0"))))
}

func TestForSkipsZeroRate(t *testing.T) {
	assert.Nil(t, For(1, &models.Professional{ID: 2}, d("50")))
	assert.Nil(t, For(1, nil, d("50")))

	c := For(1, &models.Professional{ID: 2, CommissionRate: d("40")}, d("50"))
	require.NotNil(t, c)
	assert.Equal(t, uint(2), c.ProfessionalID)
	assert.True(t, d("20").Equal(c.Amount))
	assert.Equal(t, StatusPending, c.Status)
}

func TestSummarize(t *testing.T) {
	rows := []models.Commission{
		{ProfessionalID: 1, Amount: d("10"), Status: StatusPending},
		{ProfessionalID: 1, Amount: d("5"), Status: StatusPaid},
		{ProfessionalID: 2, Amount: d("7"), Status: StatusPending},
		{ProfessionalID: 2, Amount: d("99"), Status: StatusCancelled},
	}

	out := Summarize(rows, map[uint]string{1: "Ana", 2: "Bia"})
	require.Len(t, out, 2)

	assert.Equal(t, "Ana", out[0].ProfessionalName)
	assert.True(t, d("10").Equal(out[0].Pending))
	assert.True(t, d("5").Equal(out[0].Paid))
	assert.Equal(t, 2, out[0].Count)

	assert.True(t, d("7").Equal(out[1].Pending))
	assert.Equal(t, 1, out[1].Count)
}
