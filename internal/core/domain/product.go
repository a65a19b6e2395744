package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")
var ErrCategoryNotFound = errors.New("category not found")
var ErrInvalidPrice = errors.New("price must be non-negative")

// Photo is an optional binary image payload stored with a product.
type Photo struct {
	Data        []byte `json:"-" bson:"data,omitempty"`
	ContentType string `json:"-" bson:"content_type,omitempty"`
}

// Product is managed by admins only and referenced by cart lines and orders.
type Product struct {
	ID          string          `json:"id" bson:"_id,omitempty"`
	Name        string          `json:"name" bson:"name"`
	Slug        string          `json:"slug" bson:"slug"`
	Description string          `json:"description" bson:"description"`
	Price       decimal.Decimal `json:"price" bson:"price"`
	CategoryID  string          `json:"category_id" bson:"category_id"`
	Quantity    int             `json:"quantity" bson:"quantity"`
	Photo       Photo           `json:"-" bson:"photo,omitempty"`
	Shipping    bool            `json:"shipping" bson:"shipping"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" bson:"updated_at"`
}

// Category groups products. Slug is derived from the name, unique.
type Category struct {
	ID   string `json:"id" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
	Slug string `json:"slug" bson:"slug"`
}

// Slugify derives a URL slug: lowercase, whitespace collapsed to dashes.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}
