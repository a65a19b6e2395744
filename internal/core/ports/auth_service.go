package ports

import (
	"context"

	"github.com/ecomarket/storefront-api/internal/core/domain"
)

// RegisterInput carries all data needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	Answer   string
}

// UpdateProfileInput carries the mutable profile fields. Empty fields are
// left unchanged.
type UpdateProfileInput struct {
	UserID   string
	Name     string
	Password string
	Phone    string
	Address  string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// ResetPassword sets a new password when the security answer matches.
	ResetPassword(ctx context.Context, email, answer, newPassword string) error
	UpdateProfile(ctx context.Context, in UpdateProfileInput) (*domain.User, error)
}
