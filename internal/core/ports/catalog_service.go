package ports

import (
	"context"

	"github.com/ecomarket/storefront-api/internal/core/domain"
)

// CreateProductInput carries all data needed to create or replace a product.
// Price travels as a string so the transport layer never handles floats.
type CreateProductInput struct {
	Name        string
	Description string
	Price       string
	CategoryID  string
	Quantity    int
	Shipping    bool
	PhotoData   []byte
	PhotoType   string
}

// CatalogService defines use-case operations for products and categories.
// Mutating operations are admin-only; enforcement happens at the router.
type CatalogService interface {
	CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in CreateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, slug string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	ProductPhoto(ctx context.Context, id string) (*domain.Photo, error)

	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}
