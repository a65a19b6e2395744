package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ecomarket/storefront-api/internal/core/domain"
	"github.com/ecomarket/storefront-api/internal/core/ports"
)

// CatalogService implements product and category management.
type CatalogService struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	logger     zerolog.Logger
}

func NewCatalogService(products ports.ProductRepository, categories ports.CategoryRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{products: products, categories: categories, logger: logger}
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		Name:        in.Name,
		Slug:        domain.Slugify(in.Name),
		Description: in.Description,
		Price:       price,
		CategoryID:  in.CategoryID,
		Quantity:    in.Quantity,
		Shipping:    in.Shipping,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(in.PhotoData) > 0 {
		product.Photo = domain.Photo{Data: in.PhotoData, ContentType: in.PhotoType}
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("name", in.Name).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Str("slug", created.Slug).Msg("product created")
	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ports.CreateProductInput) (*domain.Product, error) {
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Slug = domain.Slugify(in.Name)
	product.Description = in.Description
	product.Price = price
	product.CategoryID = in.CategoryID
	product.Quantity = in.Quantity
	product.Shipping = in.Shipping
	if len(in.PhotoData) > 0 {
		product.Photo = domain.Photo{Data: in.PhotoData, ContentType: in.PhotoType}
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

func (s *CatalogService) ProductPhoto(ctx context.Context, id string) (*domain.Photo, error) {
	return s.products.FindPhoto(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	category := &domain.Category{Name: name, Slug: domain.Slugify(name)}
	return s.categories.Create(ctx, category)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	category := &domain.Category{ID: id, Name: name, Slug: domain.Slugify(name)}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return decimal.Zero, domain.ErrInvalidPrice
	}
	return price, nil
}
