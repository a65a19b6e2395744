package storefront

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Checkout errors.
var (
	// ErrCartEmpty is returned when checkout begins or pays with no items.
	ErrCartEmpty = errors.New("storefront: cart is empty")

	// ErrAddressRequired is returned by Pay when the session user has no
	// delivery address on file.
	ErrAddressRequired = errors.New("storefront: delivery address required")

	// ErrNotReady is returned by Pay before a payment method is attached.
	ErrNotReady = errors.New("storefront: checkout not ready")

	// ErrPaymentInProgress is returned by Pay while a previous Pay call is
	// still running.
	ErrPaymentInProgress = errors.New("storefront: payment already in progress")
)

// State is the checkout lifecycle position.
type State int

const (
	// StateIdle means checkout has not begun; no client token is held.
	StateIdle State = iota
	// StateTokenReady means the gateway client token has been fetched but
	// no payment method is attached yet.
	StateTokenReady
	// StateReady means a payment method is attached and Pay may be called.
	StateReady
	// StateSubmitting means a Pay call is in flight. Further Pay calls are
	// rejected until it returns.
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTokenReady:
		return "token_ready"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// PaymentMethod produces a one-time payment nonce, typically from a
// gateway drop-in UI primed with the client token.
type PaymentMethod interface {
	Nonce(ctx context.Context) (string, error)
}

// Checkout drives a purchase from an authenticated session and a cart:
// fetch a client token once, attach a payment method, submit exactly one
// payment per Pay call. It is safe for concurrent use.
type Checkout struct {
	client *Client
	auth   *AuthContainer
	cart   *CartContainer
	log    zerolog.Logger

	mu     sync.Mutex
	state  State
	token  string
	method PaymentMethod
}

// NewCheckout builds an idle checkout over the given client and containers.
func NewCheckout(client *Client, auth *AuthContainer, cart *CartContainer, log zerolog.Logger) *Checkout {
	return &Checkout{client: client, auth: auth, cart: cart, log: log}
}

// State reports the current lifecycle position.
func (c *Checkout) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ClientToken returns the held gateway token, empty before Begin.
func (c *Checkout) ClientToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Begin fetches the gateway client token and moves to StateTokenReady.
// Without a session no request is made at all. Calling Begin again while a
// token is already held is a no-op, so the token is fetched exactly once
// per checkout.
func (c *Checkout) Begin() error {
	if c.auth.Get().Token == "" {
		return ErrLoginRequired
	}
	if len(c.cart.Items()) == 0 {
		return ErrCartEmpty
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	token, err := c.client.FetchClientToken()
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.state == StateIdle {
		c.token = token
		c.state = StateTokenReady
	}
	c.mu.Unlock()
	return nil
}

// AttachPaymentMethod moves TokenReady to Ready. Attaching before Begin or
// during submission is rejected.
func (c *Checkout) AttachPaymentMethod(m PaymentMethod) error {
	if m == nil {
		return ErrNotReady
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateTokenReady, StateReady:
		c.method = m
		c.state = StateReady
		return nil
	case StateSubmitting:
		return ErrPaymentInProgress
	default:
		return ErrNotReady
	}
}

// CanPay reports whether Pay would be allowed to start right now: a
// payment method is attached, the cart has items, and the session user has
// a delivery address.
func (c *Checkout) CanPay() bool {
	s := c.auth.Get()
	if s.Token == "" || s.User == nil || s.User.Address == "" {
		return false
	}
	if len(c.cart.Items()) == 0 {
		return false
	}
	return c.State() == StateReady
}

// Pay obtains a nonce from the attached payment method and submits the
// cart. Exactly one submission is made per successful entry into Pay;
// calls arriving while one is in flight fail with ErrPaymentInProgress.
// On success the cart is cleared and the checkout resets to idle. On
// failure the checkout returns to Ready so the user can retry.
func (c *Checkout) Pay(ctx context.Context) (Order, error) {
	s := c.auth.Get()
	if s.Token == "" {
		return Order{}, ErrLoginRequired
	}
	if s.User == nil || s.User.Address == "" {
		return Order{}, ErrAddressRequired
	}

	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return Order{}, ErrPaymentInProgress
	case StateReady:
	default:
		c.mu.Unlock()
		return Order{}, ErrNotReady
	}
	method := c.method
	c.state = StateSubmitting
	c.mu.Unlock()

	items := c.cart.Items()
	if len(items) == 0 {
		c.setState(StateReady)
		return Order{}, ErrCartEmpty
	}

	nonce, err := method.Nonce(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("payment method failed to produce nonce")
		c.setState(StateReady)
		return Order{}, err
	}

	order, err := c.client.SubmitPayment(nonce, items)
	if err != nil {
		c.setState(StateReady)
		return Order{}, err
	}

	c.cart.Clear()
	c.mu.Lock()
	c.state = StateIdle
	c.token = ""
	c.method = nil
	c.mu.Unlock()
	return order, nil
}

func (c *Checkout) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
