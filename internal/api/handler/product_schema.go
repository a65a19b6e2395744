package handler

import "time"

// productForm carries the multipart form fields of a create/update request.
// The photo file travels separately.
type productForm struct {
	Name        string `form:"name"        validate:"required"`
	Description string `form:"description" validate:"required"`
	Price       string `form:"price"       validate:"required"`
	CategoryID  string `form:"category_id" validate:"required"`
	Quantity    int    `form:"quantity"    validate:"gte=0"`
	Shipping    bool   `form:"shipping"`
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	CategoryID  string    `json:"category_id"`
	Quantity    int       `json:"quantity"`
	Shipping    bool      `json:"shipping"`
	PhotoURL    string    `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type listProductsResponse struct {
	Products []productResponse `json:"products"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type listCategoriesResponse struct {
	Categories []categoryResponse `json:"categories"`
}
