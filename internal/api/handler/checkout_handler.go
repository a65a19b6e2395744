package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomarket/storefront-api/internal/core/ports"
)

// CheckoutHandler exposes the payment-gateway token and payment endpoints.
type CheckoutHandler struct {
	service ports.CheckoutService
}

func NewCheckoutHandler(service ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// ClientToken handles GET /api/v1/product/braintree/token. Public: the
// client-side flow decides whether to request one.
//
// @Summary      Issue a payment-gateway client token
// @Tags         checkout
// @Produce      json
// @Success      200  {object}  clientTokenResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/product/braintree/token [get]
func (h *CheckoutHandler) ClientToken(c echo.Context) error {
	token, err := h.service.ClientToken(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientTokenResponse{ClientToken: token})
}

// SubmitPayment handles POST /api/v1/product/braintree/payment.
// Body: {nonce, cart}. The charge amount is recomputed server-side.
//
// @Summary      Submit a payment and create the order
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      paymentRequest  true  "Nonce and cart"
// @Success      201   {object}  paymentSubmitResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/product/braintree/payment [post]
func (h *CheckoutHandler) SubmitPayment(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.service.SubmitPayment(c.Request().Context(), ports.SubmitPaymentInput{
		BuyerID: userID,
		Nonce:   req.Nonce,
		Cart:    toCartItems(req.Cart),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, paymentSubmitResponse{
		Success: order.Payment.Success,
		Order:   toOrderResponse(order),
	})
}
