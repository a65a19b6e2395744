package storefront

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ecomarket/storefront-api/internal/core/domain"
)

func newClientFixture(t *testing.T, h http.Handler) (*Client, *AuthContainer, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	auth := NewAuthContainer(NewMemStore(), zerolog.Nop())
	return NewClient(srv.URL, auth, zerolog.Nop()), auth, srv
}

func TestClient_Login_StoresSession(t *testing.T) {
	client, auth, _ := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "a@example.com" {
			t.Errorf("email = %q", body["email"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "jwt-token",
			"user":  map[string]string{"id": "u1", "name": "Alice", "role": "user"},
		})
	}))

	s, err := client.Login("a@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.Token != "jwt-token" || s.User == nil || s.User.ID != "u1" {
		t.Fatalf("session = %+v", s)
	}
	if auth.Get().Token != "jwt-token" {
		t.Errorf("session not stored in container")
	}
}

func TestClient_Login_BadCredentials(t *testing.T) {
	client, auth, _ := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	}))

	_, err := client.Login("a@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "invalid credentials" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if auth.Get().Token != "" {
		t.Errorf("failed login stored a session")
	}
}

// Without a session no request goes out at all; the result is an empty
// list, not an error.
func TestClient_MyOrders_NoSession(t *testing.T) {
	var hits int32
	client, _, _ := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))

	orders, err := client.MyOrders()
	if err != nil {
		t.Fatalf("MyOrders: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("expected no orders, got %d", len(orders))
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("request sent despite missing session")
	}
}

func TestClient_MyOrders(t *testing.T) {
	client, auth, _ := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer jwt-token" {
			t.Errorf("authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"orders": []map[string]any{
				{"id": "o1", "total": "39.98", "status": "Not Processed"},
			},
		})
	}))
	auth.Set(Session{User: &User{ID: "u1"}, Token: "jwt-token"})

	orders, err := client.MyOrders()
	if err != nil {
		t.Fatalf("MyOrders: %v", err)
	}
	if len(orders) != 1 || orders[0].Total != "39.98" || orders[0].Status != "Not Processed" {
		t.Errorf("orders = %+v", orders)
	}
}

// A rejected token clears the local session so the UI drops back to
// logged-out state.
func TestClient_MyOrders_ExpiredToken(t *testing.T) {
	client, auth, _ := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid token"})
	}))
	auth.Set(Session{User: &User{ID: "u1"}, Token: "stale"})

	_, err := client.MyOrders()
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if auth.Get().Token != "" {
		t.Errorf("stale session not cleared")
	}
}

// A network failure surfaces as an error without a panic, and the session
// survives so the caller can retry later. No automatic retry happens.
func TestClient_MyOrders_NetworkError(t *testing.T) {
	var hits int32
	client, auth, srv := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	auth.Set(Session{User: &User{ID: "u1"}, Token: "jwt-token"})
	srv.Close()

	if _, err := client.MyOrders(); err == nil {
		t.Fatalf("expected error on closed server")
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("request reached closed server")
	}
	if auth.Get().Token != "jwt-token" {
		t.Errorf("network error cleared the session")
	}
}

// The payment endpoint expects cart lines keyed by "_id".
func TestClient_SubmitPayment_WireFormat(t *testing.T) {
	client, auth, _ := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Nonce string           `json:"nonce"`
			Cart  []map[string]any `json:"cart"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Nonce != "nonce-1" {
			t.Errorf("nonce = %q", body.Nonce)
		}
		if len(body.Cart) != 1 || body.Cart[0]["_id"] != "p1" {
			t.Errorf("cart wire format wrong: %+v", body.Cart)
		}
		if body.Cart[0]["price"] != "19.99" {
			t.Errorf("price wire format wrong: %v", body.Cart[0]["price"])
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"order":   map[string]any{"id": "o1", "total": "39.98"},
		})
	}))
	auth.Set(Session{User: &User{ID: "u1"}, Token: "jwt-token"})

	order, err := client.SubmitPayment("nonce-1", []domain.CartItem{
		{ProductID: "p1", Name: "Widget", Price: decimal.RequireFromString("19.99"), Quantity: 2},
	})
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
	if order.ID != "o1" {
		t.Errorf("order = %+v", order)
	}
}

func TestClient_SubmitPayment_NoSession(t *testing.T) {
	var hits int32
	client, _, _ := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))

	_, err := client.SubmitPayment("nonce-1", []domain.CartItem{cartLine("p1", "Widget", "19.99", 1)})
	if !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("request sent despite missing session")
	}
}

func TestClient_FetchClientToken(t *testing.T) {
	client, _, _ := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/product/braintree/token" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("token endpoint should be unauthenticated, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"clientToken": "tok_abc"})
	}))

	token, err := client.FetchClientToken()
	if err != nil {
		t.Fatalf("FetchClientToken: %v", err)
	}
	if token != "tok_abc" {
		t.Errorf("token = %q", token)
	}
}
