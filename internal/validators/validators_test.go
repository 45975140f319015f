package validators

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type priced struct {
	Amount   decimal.Decimal `validate:"required,gt=0"`
	Discount decimal.Decimal `validate:"gte=0"`
}

func TestDecimalTags(t *testing.T) {
	v := validator.New()
	RegisterDecimal(v)

	assert.NoError(t, v.Struct(priced{Amount: decimal.RequireFromString("10.50")}))
	assert.Error(t, v.Struct(priced{}))
	assert.Error(t, v.Struct(priced{Amount: decimal.NewFromInt(-1)}))
	assert.Error(t, v.Struct(priced{Amount: decimal.NewFromInt(1), Discount: decimal.RequireFromString("-0.01")}))
}

type fakeResolver struct {
	mx    map[string]int
	hosts map[string]int
	calls int
}

func (f *fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	f.calls++
	if n := f.mx[name]; n > 0 {
		return make([]*net.MX, n), nil
	}
	return nil, errors.New("no such host")
}

func (f *fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if n := f.hosts[host]; n > 0 {
		return make([]string, n), nil
	}
	return nil, errors.New("no such host")
}

func TestEmailDomainChecker(t *testing.T) {
	r := &fakeResolver{
		mx:    map[string]int{"salao.com.br": 2},
		hosts: map[string]int{"sem-mx.com": 1},
	}
	c := NewEmailDomainChecker(r, time.Second)
	ctx := context.Background()

	assert.True(t, c.Valid(ctx, "ana@salao.com.br"))
	assert.True(t, c.Valid(ctx, "ana@SALAO.com.br"))
	assert.True(t, c.Valid(ctx, "bia@sem-mx.com"))
	assert.False(t, c.Valid(ctx, "caio@inexistente.xyz"))

	calls := r.calls
	assert.False(t, c.Valid(ctx, "no-at-sign"))
	assert.False(t, c.Valid(ctx, "trailing@"))
	assert.False(t, c.Valid(ctx, "@salao.com.br"))
	assert.Equal(t, calls, r.calls, "malformed addresses never hit DNS")
}
