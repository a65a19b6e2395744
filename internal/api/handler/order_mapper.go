package handler

import (
	"github.com/shopspring/decimal"

	"github.com/ecomarket/storefront-api/internal/core/domain"
)

// --- Request → Service input ---

func toCartItems(reqs []cartItemRequest) []domain.CartItem {
	items := make([]domain.CartItem, len(reqs))
	for i, r := range reqs {
		price, err := decimal.NewFromString(r.Price)
		if err != nil {
			price = decimal.Zero
		}
		qty := r.Quantity
		if qty < 1 {
			qty = 1
		}
		items[i] = domain.CartItem{
			ProductID: r.ProductID,
			Name:      r.Name,
			Price:     price,
			Quantity:  qty,
		}
	}
	return items
}

// --- Service result → HTTP response ---

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.StringFixed(2),
			Quantity:  it.Quantity,
			PhotoURL:  "/api/v1/product/product-photo/" + it.ProductID,
		}
	}
	return orderResponse{
		ID:        o.ID,
		BuyerName: o.BuyerName,
		Items:     items,
		Total:     o.Total.StringFixed(2),
		Payment: paymentResponse{
			Success:       o.Payment.Success,
			TransactionID: o.Payment.TransactionID,
			Message:       o.Payment.Message,
		},
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC(),
	}
}

func toListOrdersResponse(orders []*domain.Order) listOrdersResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return listOrdersResponse{Orders: out}
}
