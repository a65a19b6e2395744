package ports

import (
	"context"

	"github.com/ecomarket/storefront-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders. Orders are
// append-only documents: the only mutation after creation is UpdateStatus.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// ListByBuyer returns the buyer's orders, newest first.
	ListByBuyer(ctx context.Context, buyerID string) ([]*domain.Order, error)
	// ListAll returns every order, newest first.
	ListAll(ctx context.Context) ([]*domain.Order, error)
	// UpdateStatus sets only the status field of the order.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}
