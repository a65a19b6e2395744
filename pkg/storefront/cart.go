package storefront

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ecomarket/storefront-api/internal/core/domain"
)

// cartKey is the fixed persistence key of the cart.
const cartKey = "cart"

// Formatter renders a 2dp total as a display string, e.g. as locale
// currency. Implementations may be arbitrary caller code, so CartContainer
// treats them as untrusted: a panicking formatter is contained.
type Formatter func(decimal.Decimal) string

// CartContainer holds the ordered cart lines with the same write-through
// persistence contract as AuthContainer. A product occupies at most one
// line; quantity is explicit.
type CartContainer struct {
	mu    sync.Mutex
	store Store
	log   zerolog.Logger
	items []domain.CartItem
	subs  []func([]domain.CartItem)
}

// NewCartContainer builds the container and loads any persisted cart.
// A corrupted blob reads as an empty cart.
func NewCartContainer(store Store, log zerolog.Logger) *CartContainer {
	c := &CartContainer{store: store, log: log}

	data, err := store.Get(cartKey)
	if err != nil {
		log.Warn().Err(err).Msg("cart store unreadable, starting empty")
		return c
	}
	if len(data) == 0 {
		return c
	}
	if err := json.Unmarshal(data, &c.items); err != nil {
		log.Debug().Err(err).Msg("corrupted cart blob ignored")
		c.items = nil
	}
	return c
}

// Items returns a copy of the current cart lines.
func (c *CartContainer) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// AddItem appends a line, or increments the quantity of an existing line
// for the same product.
func (c *CartContainer) AddItem(item domain.CartItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	c.mu.Lock()
	found := false
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		c.items = append(c.items, item)
	}
	c.mutatedLocked()
}

// RemoveItem drops the entire line for the product, whatever its quantity.
// Callers wanting unit-at-a-time removal use DecrementItem.
func (c *CartContainer) RemoveItem(productID string) {
	c.mu.Lock()
	kept := c.items[:0]
	for _, it := range c.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.mutatedLocked()
}

// DecrementItem removes one unit of the product, dropping the line when
// the quantity reaches zero.
func (c *CartContainer) DecrementItem(productID string) {
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ProductID != productID {
			continue
		}
		c.items[i].Quantity--
		if c.items[i].Quantity < 1 {
			c.items = append(c.items[:i], c.items[i+1:]...)
		}
		break
	}
	c.mutatedLocked()
}

// Clear empties the cart, both state and storage.
func (c *CartContainer) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mutatedLocked()
}

// Total returns the cart total: sum of price x quantity, rounded to 2
// decimal places half away from zero.
func (c *CartContainer) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CartTotal(c.items)
}

// FormatTotal renders the total through f. A panic inside the formatter is
// recovered and logged, and the plain fixed-point amount is returned, so
// the render path never throws.
func (c *CartContainer) FormatTotal(f Formatter) (out string) {
	total := c.Total()

	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("currency formatter panicked")
			out = total.StringFixed(2)
		}
	}()

	if f == nil {
		return "$" + total.StringFixed(2)
	}
	return f(total)
}

// Subscribe registers a callback invoked after every mutation.
func (c *CartContainer) Subscribe(fn func([]domain.CartItem)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// mutatedLocked persists the cart and notifies subscribers. It releases
// the mutex acquired by the caller.
func (c *CartContainer) mutatedLocked() {
	data, err := json.Marshal(c.items)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to serialize cart")
	} else if err := c.store.Set(cartKey, data); err != nil {
		c.log.Error().Err(err).Msg("failed to persist cart")
	}

	items := make([]domain.CartItem, len(c.items))
	copy(items, c.items)
	subs := append([]func([]domain.CartItem){}, c.subs...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(items)
	}
}
