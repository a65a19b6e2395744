package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ecomarket/storefront-api/internal/api/metrics"
	"github.com/ecomarket/storefront-api/internal/core/domain"
	"github.com/ecomarket/storefront-api/internal/core/ports"
)

// OrderService implements order listing and the admin status workflow.
type OrderService struct {
	repo   ports.OrderRepository
	logger zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger}
}

func (s *OrderService) ListOwn(ctx context.Context, buyerID string) ([]*domain.Order, error) {
	if buyerID == "" {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListByBuyer(ctx, buyerID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// UpdateStatus assigns a new lifecycle status. Any value outside the closed
// status set is rejected before the repository is touched, so an invalid
// request can never mutate the stored order.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status string) (*domain.Order, error) {
	next := domain.OrderStatus(status)
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	order, err := s.repo.UpdateStatus(ctx, orderID, next)
	if err != nil {
		return nil, err
	}

	metrics.OrderStatusUpdatesTotal.WithLabelValues(status).Inc()
	s.logger.Info().Str("order_id", orderID).Str("status", status).Msg("order status updated")
	return order, nil
}
