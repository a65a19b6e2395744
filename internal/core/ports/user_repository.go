package ports

import (
	"context"

	"github.com/ecomarket/storefront-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update overwrites the mutable profile fields (name, phone, address,
	// password hash) of an existing user.
	Update(ctx context.Context, user *domain.User) error
}
