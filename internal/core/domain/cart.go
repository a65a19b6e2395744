package domain

import "github.com/shopspring/decimal"

// CartItem is one line of a shopping cart. Quantity is explicit rather than
// represented by repeated entries, so a product occupies at most one line.
type CartItem struct {
	ProductID string          `json:"product_id" bson:"product_id"`
	Name      string          `json:"name" bson:"name"`
	Price     decimal.Decimal `json:"price" bson:"price"`
	Quantity  int             `json:"quantity" bson:"quantity"`
}

// CartTotal sums price x quantity across lines and rounds to 2 decimal
// places, half away from zero. Prices are never negative, so the effective
// policy is round half up.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total.Round(2)
}
