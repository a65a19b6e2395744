package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomarket/storefront-api/internal/core/domain"
	"github.com/ecomarket/storefront-api/internal/core/ports"
)

// CategoryHandler handles category management requests.
type CategoryHandler struct {
	service ports.CatalogService
}

func NewCategoryHandler(service ports.CatalogService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Create handles POST /api/v1/category. Admin only.
func (h *CategoryHandler) Create(c echo.Context) error {
	req, err := bindCategory(c)
	if err != nil {
		return err
	}

	category, err := h.service.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// Update handles PUT /api/v1/category/:id. Admin only.
func (h *CategoryHandler) Update(c echo.Context) error {
	req, err := bindCategory(c)
	if err != nil {
		return err
	}

	category, err := h.service.UpdateCategory(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// Delete handles DELETE /api/v1/category/:id. Admin only.
func (h *CategoryHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /api/v1/category.
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.service.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]categoryResponse, len(categories))
	for i, cat := range categories {
		out[i] = toCategoryResponse(cat)
	}
	return c.JSON(http.StatusOK, listCategoriesResponse{Categories: out})
}

func bindCategory(c echo.Context) (*categoryRequest, error) {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return &req, nil
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}
