package ports

import (
	"context"

	"github.com/ecomarket/storefront-api/internal/core/domain"
)

// OrderService defines order listing and the admin status workflow.
type OrderService interface {
	// ListOwn returns the authenticated buyer's orders, newest first.
	ListOwn(ctx context.Context, buyerID string) ([]*domain.Order, error)
	// ListAll returns every order. Admin only.
	ListAll(ctx context.Context) ([]*domain.Order, error)
	// UpdateStatus assigns a new status to an order. The value must be a
	// member of the closed status set; anything else is rejected without
	// touching the stored order. Admin only.
	UpdateStatus(ctx context.Context, orderID string, status string) (*domain.Order, error)
}
