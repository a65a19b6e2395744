package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecomarket/storefront-api/internal/api/metrics"
	"github.com/ecomarket/storefront-api/internal/core/domain"
	"github.com/ecomarket/storefront-api/internal/core/ports"
)

// CheckoutService orchestrates the payment flow: issue client tokens, redeem
// nonces against the gateway, and persist the resulting order.
type CheckoutService struct {
	orders   ports.OrderRepository
	users    ports.UserRepository
	gateway  ports.PaymentGateway
	guard    ports.InFlightGuard
	notifier ports.NotificationDispatcher
	logger   zerolog.Logger
}

func NewCheckoutService(
	orders ports.OrderRepository,
	users ports.UserRepository,
	gateway ports.PaymentGateway,
	guard ports.InFlightGuard,
	notifier ports.NotificationDispatcher,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		users:    users,
		gateway:  gateway,
		guard:    guard,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *CheckoutService) ClientToken(ctx context.Context) (string, error) {
	token, err := s.gateway.GenerateClientToken(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate client token")
		return "", err
	}
	metrics.ClientTokensIssuedTotal.Inc()
	return token, nil
}

// SubmitPayment charges the cart total and creates the order exactly once.
// The total is recomputed from the submitted line items; a concurrent
// submission by the same buyer is rejected while the first is in flight.
// Declined payments still produce an order carrying the failed payment
// result, so the buyer's history shows the attempt.
func (s *CheckoutService) SubmitPayment(ctx context.Context, in ports.SubmitPaymentInput) (*domain.Order, error) {
	if len(in.Cart) == 0 {
		return nil, domain.ErrCartEmpty
	}
	if in.Nonce == "" {
		return nil, domain.ErrPaymentDeclined
	}

	acquired, err := s.guard.Acquire(ctx, in.BuyerID)
	if err != nil {
		s.logger.Warn().Err(err).Str("buyer_id", in.BuyerID).Msg("in-flight guard unavailable, proceeding")
	} else if !acquired {
		metrics.PaymentsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrPaymentInFlight
	}
	// Release only a slot this call took. When the guard was unavailable no
	// slot is held, and deleting the key could free a concurrent submission's
	// lock.
	if acquired {
		defer func() {
			if err := s.guard.Release(ctx, in.BuyerID); err != nil {
				s.logger.Warn().Err(err).Str("buyer_id", in.BuyerID).Msg("failed to release in-flight guard")
			}
		}()
	}

	buyer, err := s.users.FindByID(ctx, in.BuyerID)
	if err != nil {
		return nil, err
	}

	total := domain.CartTotal(in.Cart)

	result, err := s.gateway.Sale(ctx, in.Nonce, total)
	if err != nil {
		metrics.PaymentsTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Str("buyer_id", in.BuyerID).Msg("gateway sale failed")
		return nil, err
	}

	order := &domain.Order{
		BuyerID:   buyer.ID,
		BuyerName: buyer.Name,
		Items:     cartToItems(in.Cart),
		Total:     total,
		Payment:   *result,
		Status:    domain.StatusNotProcessed,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Str("buyer_id", in.BuyerID).Msg("failed to create order")
		return nil, err
	}

	outcome := "declined"
	if result.Success {
		outcome = "success"
	}
	metrics.PaymentsTotal.WithLabelValues(outcome).Inc()
	metrics.OrdersCreatedTotal.Inc()
	amount, _ := total.Float64()
	metrics.OrderAmount.Observe(amount)

	if result.Success && s.notifier != nil {
		s.notifier.Enqueue(ports.OrderNotification{
			OrderID: created.ID,
			Email:   buyer.Email,
			Name:    buyer.Name,
			Total:   total,
		})
	}

	s.logger.Info().
		Str("order_id", created.ID).
		Str("buyer_id", buyer.ID).
		Str("total", total.StringFixed(2)).
		Bool("paid", result.Success).
		Msg("order created")

	return created, nil
}

func cartToItems(cart []domain.CartItem) []domain.OrderItem {
	items := make([]domain.OrderItem, len(cart))
	for i, line := range cart {
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		items[i] = domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  qty,
		}
	}
	return items
}
