// Package payment adapts the hosted Braintree gateway to the
// ports.PaymentGateway interface. Tokenization of card data happens entirely
// inside the vendor's drop-in widget; this adapter only issues client tokens
// and redeems single-use nonces.
package payment

import (
	"context"

	braintree "github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"

	"github.com/ecomarket/storefront-api/internal/core/domain"
)

// Config captures the gateway credentials.
type Config struct {
	Environment string // "sandbox" or "production"
	MerchantID  string
	PublicKey   string
	PrivateKey  string
}

// BraintreeGateway implements ports.PaymentGateway.
type BraintreeGateway struct {
	bt *braintree.Braintree
}

func NewBraintreeGateway(cfg Config) *BraintreeGateway {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}
	return &BraintreeGateway{
		bt: braintree.New(env, cfg.MerchantID, cfg.PublicKey, cfg.PrivateKey),
	}
}

func (g *BraintreeGateway) GenerateClientToken(ctx context.Context) (string, error) {
	return g.bt.ClientToken().Generate(ctx)
}

// Sale redeems the nonce for the given amount and submits the transaction
// for settlement. A gateway decline is not an error: it comes back as a
// PaymentResult with Success=false so the order still records the attempt.
func (g *BraintreeGateway) Sale(ctx context.Context, nonce string, amount decimal.Decimal) (*domain.PaymentResult, error) {
	tx, err := g.bt.Transaction().Create(ctx, &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             toBraintreeDecimal(amount),
		PaymentMethodNonce: nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	})
	if err != nil {
		if apiErr, ok := err.(*braintree.BraintreeError); ok {
			return &domain.PaymentResult{Success: false, Message: apiErr.Error()}, nil
		}
		return nil, err
	}

	return &domain.PaymentResult{
		Success:       true,
		TransactionID: tx.Id,
		Message:       string(tx.Status),
	}, nil
}

// toBraintreeDecimal converts a 2dp decimal amount to the SDK's fixed-point
// representation (unscaled value + scale).
func toBraintreeDecimal(amount decimal.Decimal) *braintree.Decimal {
	cents := amount.Round(2).Shift(2).IntPart()
	return braintree.NewDecimal(cents, 2)
}
