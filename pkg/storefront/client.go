package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/guonaihong/gout"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ecomarket/storefront-api/internal/core/domain"
)

// Client API errors.
var (
	// ErrLoginRequired is returned by calls that need an authenticated
	// session when none is present.
	ErrLoginRequired = errors.New("storefront: login required")

	// ErrSessionExpired is returned when the server rejects the bearer
	// token. The local session has already been cleared.
	ErrSessionExpired = errors.New("storefront: session expired")
)

// APIError is a non-2xx response from the server, carrying the message
// from its error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: api error %d: %s", e.StatusCode, e.Message)
}

// Order is an order as the server reports it to its owner.
type Order struct {
	ID        string      `json:"id"`
	BuyerName string      `json:"buyer_name"`
	Items     []OrderItem `json:"items"`
	Total     string      `json:"total"`
	Payment   Payment     `json:"payment"`
	Status    string      `json:"status"`
	CreatedAt string      `json:"created_at"`
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	PhotoURL  string `json:"photo_url"`
}

type Payment struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// wireCartItem is a cart line as the payment endpoint expects it. The
// product id travels under the "_id" key.
type wireCartItem struct {
	ProductID string `json:"_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// Client talks to the storefront API and keeps the AuthContainer in sync
// with the outcome of auth calls.
type Client struct {
	baseURL string
	auth    *AuthContainer
	log     zerolog.Logger
}

// NewClient builds a client for the API at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, auth *AuthContainer, log zerolog.Logger) *Client {
	return &Client{baseURL: baseURL, auth: auth, log: log}
}

// Login authenticates and stores the resulting session.
func (c *Client) Login(email, password string) (Session, error) {
	var (
		out  struct {
			Token string `json:"token"`
			User  *User  `json:"user"`
		}
		code int
		raw  []byte
	)

	err := gout.POST(c.baseURL + "/api/v1/auth/login").
		SetJSON(gout.H{"email": email, "password": password}).
		BindBody(&raw).
		Code(&code).
		Do()
	if err != nil {
		c.log.Error().Err(err).Msg("login request failed")
		return Session{}, err
	}
	if code != http.StatusOK {
		return Session{}, c.apiError(code, raw)
	}
	if err := decodeJSON(raw, &out); err != nil {
		return Session{}, err
	}

	s := Session{User: out.User, Token: out.Token}
	c.auth.Set(s)
	return s, nil
}

// Register creates an account and logs the new user in.
func (c *Client) Register(name, email, password, phone, address, answer string) (Session, error) {
	var (
		code int
		raw  []byte
	)

	err := gout.POST(c.baseURL + "/api/v1/auth/register").
		SetJSON(gout.H{
			"name":     name,
			"email":    email,
			"password": password,
			"phone":    phone,
			"address":  address,
			"answer":   answer,
		}).
		BindBody(&raw).
		Code(&code).
		Do()
	if err != nil {
		c.log.Error().Err(err).Msg("register request failed")
		return Session{}, err
	}
	if code != http.StatusCreated {
		return Session{}, c.apiError(code, raw)
	}

	return c.Login(email, password)
}

// Logout clears the local session. There is no server-side call: the
// bearer token simply stops being presented.
func (c *Client) Logout() {
	c.auth.Clear()
}

// FetchClientToken retrieves a Braintree client token for the payment UI.
// The endpoint is public; no session is required.
func (c *Client) FetchClientToken() (string, error) {
	var (
		out  struct {
			ClientToken string `json:"clientToken"`
		}
		code int
		raw  []byte
	)

	err := gout.GET(c.baseURL + "/api/v1/product/braintree/token").
		BindBody(&raw).
		Code(&code).
		Do()
	if err != nil {
		c.log.Error().Err(err).Msg("client token request failed")
		return "", err
	}
	if code != http.StatusOK {
		return "", c.apiError(code, raw)
	}
	if err := decodeJSON(raw, &out); err != nil {
		return "", err
	}
	return out.ClientToken, nil
}

// SubmitPayment posts the nonce and cart to the payment endpoint and
// returns the created order. Requires a session.
func (c *Client) SubmitPayment(nonce string, items []domain.CartItem) (Order, error) {
	token := c.auth.Get().Token
	if token == "" {
		return Order{}, ErrLoginRequired
	}

	var (
		out  struct {
			Success bool  `json:"success"`
			Order   Order `json:"order"`
		}
		code int
		raw  []byte
	)

	err := gout.POST(c.baseURL + "/api/v1/product/braintree/payment").
		SetHeader(gout.H{"Authorization": "Bearer " + token}).
		SetJSON(gout.H{"nonce": nonce, "cart": toWireCart(items)}).
		BindBody(&raw).
		Code(&code).
		Do()
	if err != nil {
		c.log.Error().Err(err).Msg("payment request failed")
		return Order{}, err
	}
	if code == http.StatusUnauthorized {
		c.auth.Clear()
		return Order{}, ErrSessionExpired
	}
	if code != http.StatusCreated {
		return Order{}, c.apiError(code, raw)
	}
	if err := decodeJSON(raw, &out); err != nil {
		return Order{}, err
	}
	return out.Order, nil
}

// MyOrders lists the session user's orders, newest first. Without a
// session it returns an empty list and performs no request.
func (c *Client) MyOrders() ([]Order, error) {
	token := c.auth.Get().Token
	if token == "" {
		return []Order{}, nil
	}

	var (
		out  struct {
			Orders []Order `json:"orders"`
		}
		code int
		raw  []byte
	)

	err := gout.GET(c.baseURL + "/api/v1/order/orders").
		SetHeader(gout.H{"Authorization": "Bearer " + token}).
		BindBody(&raw).
		Code(&code).
		Do()
	if err != nil {
		c.log.Error().Err(err).Msg("order list request failed")
		return nil, err
	}
	if code == http.StatusUnauthorized {
		c.auth.Clear()
		return nil, ErrSessionExpired
	}
	if code != http.StatusOK {
		return nil, c.apiError(code, raw)
	}
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	if out.Orders == nil {
		out.Orders = []Order{}
	}
	return out.Orders, nil
}

func (c *Client) apiError(code int, raw []byte) error {
	var env errorEnvelope
	_ = decodeJSON(raw, &env)
	if env.Error == "" {
		env.Error = http.StatusText(code)
	}
	return &APIError{StatusCode: code, Message: env.Error}
}

func decodeJSON(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func toWireCart(items []domain.CartItem) []wireCartItem {
	out := make([]wireCartItem, 0, len(items))
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		price := it.Price
		if price.IsNegative() {
			price = decimal.Zero
		}
		out = append(out, wireCartItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     price.StringFixed(2),
			Quantity:  qty,
		})
	}
	return out
}
