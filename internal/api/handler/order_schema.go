package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Response-only types owned by the transport layer. Money renders as
// fixed-point strings so clients never see float artifacts.

type orderItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	PhotoURL  string `json:"photo_url"`
}

type paymentResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id,omitempty"`
	Message       string `json:"message,omitempty"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	BuyerName string              `json:"buyer_name"`
	Items     []orderItemResponse `json:"items"`
	Total     string              `json:"total"`
	Payment   paymentResponse     `json:"payment"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

type listOrdersResponse struct {
	Orders []orderResponse `json:"orders"`
}

// --- checkout ---

type cartItemRequest struct {
	ProductID string `json:"_id"      validate:"required"`
	Name      string `json:"name"`
	Price     string `json:"price"    validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
}

type paymentRequest struct {
	Nonce string            `json:"nonce" validate:"required"`
	Cart  []cartItemRequest `json:"cart"  validate:"required,min=1,dive"`
}

type clientTokenResponse struct {
	ClientToken string `json:"clientToken"`
}

type paymentSubmitResponse struct {
	Success bool          `json:"success"`
	Order   orderResponse `json:"order"`
}
