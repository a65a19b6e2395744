package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomarket/storefront-api/internal/core/domain"
	"github.com/ecomarket/storefront-api/internal/core/ports"
)

// maxPhotoBytes caps uploaded product photos at 1 MB, matching the limit
// the storefront UI enforces.
const maxPhotoBytes = 1 << 20

// ProductHandler handles product catalog requests.
type ProductHandler struct {
	service ports.CatalogService
}

func NewProductHandler(service ports.CatalogService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create handles POST /api/v1/product (multipart form). Admin only.
//
// @Summary      Create a product
// @Tags         products
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  productResponse
// @Failure      400  {object}  errorResponse
// @Router       /api/v1/product [post]
func (h *ProductHandler) Create(c echo.Context) error {
	in, err := h.bindProductForm(c)
	if err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.Request().Context(), *in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toProductResponse(product))
}

// Update handles PUT /api/v1/product/:id (multipart form). Admin only.
//
// @Summary      Update a product
// @Tags         products
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/product/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	in, err := h.bindProductForm(c)
	if err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.Request().Context(), c.Param("id"), *in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /api/v1/product/:id. Admin only.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id  path  string  true  "Product ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/product/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /api/v1/product.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {object}  listProductsResponse
// @Router       /api/v1/product [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return c.JSON(http.StatusOK, listProductsResponse{Products: out})
}

// Get handles GET /api/v1/product/:slug.
//
// @Summary      Get a product by slug
// @Tags         products
// @Produce      json
// @Param        slug  path  string  true  "Product slug"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/product/{slug} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.service.GetProduct(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Photo handles GET /api/v1/product/product-photo/:id — the raw image bytes,
// served with the stored content type for use as an <img src>.
//
// @Summary      Get a product photo
// @Tags         products
// @Produce      octet-stream
// @Param        id  path  string  true  "Product ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/product/product-photo/{id} [get]
func (h *ProductHandler) Photo(c echo.Context) error {
	photo, err := h.service.ProductPhoto(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	contentType := photo.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.Blob(http.StatusOK, contentType, photo.Data)
}

// bindProductForm reads the multipart fields and the optional photo file.
func (h *ProductHandler) bindProductForm(c echo.Context) (*ports.CreateProductInput, error) {
	var form productForm
	if err := c.Bind(&form); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := &ports.CreateProductInput{
		Name:        form.Name,
		Description: form.Description,
		Price:       form.Price,
		CategoryID:  form.CategoryID,
		Quantity:    form.Quantity,
		Shipping:    form.Shipping,
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		// photo is optional
		return in, nil
	}
	if fh.Size > maxPhotoBytes {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "photo must be smaller than 1MB")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable photo")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable photo")
	}

	in.PhotoData = data
	in.PhotoType = fh.Header.Get("Content-Type")
	return in, nil
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		CategoryID:  p.CategoryID,
		Quantity:    p.Quantity,
		Shipping:    p.Shipping,
		PhotoURL:    "/api/v1/product/product-photo/" + p.ID,
		CreatedAt:   p.CreatedAt.UTC(),
	}
}
