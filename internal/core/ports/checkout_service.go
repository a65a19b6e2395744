package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ecomarket/storefront-api/internal/core/domain"
)

// PaymentGateway is the narrow port over the hosted payment provider.
// The provider owns tokenization end to end: the server only issues client
// tokens and redeems single-use nonces.
type PaymentGateway interface {
	// GenerateClientToken returns a short-lived credential that authorizes
	// the browser-side widget to tokenize card data.
	GenerateClientToken(ctx context.Context) (string, error)
	// Sale redeems a payment-method nonce for the given amount.
	Sale(ctx context.Context, nonce string, amount decimal.Decimal) (*domain.PaymentResult, error)
}

// InFlightGuard serializes payment submissions per buyer so a double-click
// cannot create two orders. Release is called once the submission settles.
type InFlightGuard interface {
	Acquire(ctx context.Context, buyerID string) (bool, error)
	Release(ctx context.Context, buyerID string) error
}

// OrderNotification is handed to the notification dispatcher after a
// successful checkout.
type OrderNotification struct {
	OrderID string
	Email   string
	Name    string
	Total   decimal.Decimal
}

// NotificationDispatcher enqueues order notifications for async delivery.
type NotificationDispatcher interface {
	Enqueue(n OrderNotification)
}

// SubmitPaymentInput is the {nonce, cart} payload of a checkout submission.
type SubmitPaymentInput struct {
	BuyerID string
	Nonce   string
	Cart    []domain.CartItem
}

// CheckoutService orchestrates the payment flow.
type CheckoutService interface {
	ClientToken(ctx context.Context) (string, error)
	// SubmitPayment charges the cart total and creates the order. The total
	// is recomputed server-side from the submitted lines; client-supplied
	// totals are never trusted.
	SubmitPayment(ctx context.Context, in SubmitPaymentInput) (*domain.Order, error)
}
