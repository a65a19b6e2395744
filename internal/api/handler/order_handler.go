package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomarket/storefront-api/internal/core/ports"
)

// OrderHandler handles order listing and the admin status workflow.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// ListOwn handles GET /api/v1/order/orders — the buyer's own orders.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listOrdersResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/order/orders [get]
func (h *OrderHandler) ListOwn(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListOwn(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListOrdersResponse(orders))
}

// ListAll handles GET /api/v1/order/all-orders — every order. Admin only.
//
// @Summary      List all orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listOrdersResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/order/all-orders [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	orders, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListOrdersResponse(orders))
}

// UpdateStatus handles PUT /api/v1/order/order-status/:orderId. Admin only.
// The submitted status must be a member of the closed status set; any other
// value is rejected with 422 and the stored order is left untouched.
//
// @Summary      Update an order's status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string               true  "Order ID"
// @Param        body     body      updateStatusRequest  true  "New status"
// @Success      200      {object}  orderResponse
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /api/v1/order/order-status/{orderId} [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.service.UpdateStatus(c.Request().Context(), c.Param("orderId"), req.Status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toOrderResponse(order))
}
