package payment

import (
	"context"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/domain/finance"
)

// MercadoPago creates checkout preferences and returns their payment link.
type MercadoPago struct {
	client   preference.Client
	currency string
}

var _ finance.PaymentLinkProvider = (*MercadoPago)(nil)

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		client:   preference.NewClient(cfg),
		currency: "BRL",
	}, nil
}

func (m *MercadoPago) CreateLink(
	ctx context.Context,
	reference string,
	title string,
	amount decimal.Decimal,
	payerEmail string,
) (string, error) {

	req := preference.Request{
		ExternalReference: reference,
		Items: []preference.ItemRequest{
			{
				ID:         reference,
				Title:      title,
				Quantity:   1,
				UnitPrice:  amount.InexactFloat64(),
				CurrencyID: m.currency,
			},
		},
	}
	if payerEmail != "" {
		req.Payer = &preference.PayerRequest{Email: payerEmail}
	}

	res, err := m.client.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("mercadopago preference: %w", err)
	}
	return res.InitPoint, nil
}
