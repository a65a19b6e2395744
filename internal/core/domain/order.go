package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusNotProcessed OrderStatus = "Not Processed"
	StatusProcessing   OrderStatus = "Processing"
	StatusShipped      OrderStatus = "Shipped"
	StatusDelivered    OrderStatus = "Delivered"
	StatusCancelled    OrderStatus = "Cancelled"
)

// OrderStatuses is the closed set of states an admin may assign.
// The order of entries matches the lifecycle progression.
var OrderStatuses = []OrderStatus{
	StatusNotProcessed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

var ErrInvalidStatus = errors.New("invalid order status")
var ErrOrderNotFound = errors.New("order not found")
var ErrCartEmpty = errors.New("cart is empty")
var ErrPaymentInFlight = errors.New("payment already in progress")
var ErrPaymentDeclined = errors.New("payment declined")
var ErrForbidden = errors.New("access forbidden")

// Valid reports whether s is a member of the closed status set.
// The server rejects any status outside this set; selectors in admin UIs
// are constrained to the same values.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrderItem is a denormalized snapshot of one cart line at checkout time.
// Quantity is explicit; a product never appears on more than one line.
type OrderItem struct {
	ProductID string          `json:"product_id" bson:"product_id"`
	Name      string          `json:"name" bson:"name"`
	Price     decimal.Decimal `json:"price" bson:"price"`
	Quantity  int             `json:"quantity" bson:"quantity"`
}

// PaymentResult is the opaque gateway response stored with the order.
// Success is the only field the rest of the system interprets.
type PaymentResult struct {
	Success       bool   `json:"success" bson:"success"`
	TransactionID string `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	Message       string `json:"message,omitempty" bson:"message,omitempty"`
}

// Order is created exactly once at checkout completion and is immutable
// afterwards except for Status, which only an admin may change.
type Order struct {
	ID        string          `json:"id" bson:"_id,omitempty"`
	BuyerID   string          `json:"buyer_id" bson:"buyer_id"`
	BuyerName string          `json:"buyer_name" bson:"buyer_name"`
	Items     []OrderItem     `json:"items" bson:"items"`
	Total     decimal.Decimal `json:"total" bson:"total"`
	Payment   PaymentResult   `json:"payment" bson:"payment"`
	Status    OrderStatus     `json:"status" bson:"status"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}
