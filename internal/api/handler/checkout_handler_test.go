package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ecomarket/storefront-api/internal/api/handler"
	"github.com/ecomarket/storefront-api/internal/core/domain"
	"github.com/ecomarket/storefront-api/internal/core/ports"
)

type stubCheckoutService struct {
	clientTokenFn   func(ctx context.Context) (string, error)
	submitPaymentFn func(ctx context.Context, in ports.SubmitPaymentInput) (*domain.Order, error)
}

func (s *stubCheckoutService) ClientToken(ctx context.Context) (string, error) {
	return s.clientTokenFn(ctx)
}

func (s *stubCheckoutService) SubmitPayment(ctx context.Context, in ports.SubmitPaymentInput) (*domain.Order, error) {
	return s.submitPaymentFn(ctx, in)
}

func TestCheckoutHandler_ClientToken(t *testing.T) {
	e := newTestEcho()
	stub := &stubCheckoutService{
		clientTokenFn: func(context.Context) (string, error) { return "tok_abc", nil },
	}
	h := handler.NewCheckoutHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/product/braintree/token", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ClientToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["clientToken"] != "tok_abc" {
		t.Errorf("clientToken = %q", resp["clientToken"])
	}
}

// Cart items arrive with the product id under the "_id" key and string
// prices; both must survive the mapping into the service input.
func TestCheckoutHandler_SubmitPayment(t *testing.T) {
	e := newTestEcho()
	stub := &stubCheckoutService{
		submitPaymentFn: func(_ context.Context, in ports.SubmitPaymentInput) (*domain.Order, error) {
			if in.BuyerID != "u1" {
				t.Fatalf("buyerID = %q", in.BuyerID)
			}
			if in.Nonce != "nonce-1" {
				t.Fatalf("nonce = %q", in.Nonce)
			}
			if len(in.Cart) != 1 || in.Cart[0].ProductID != "p1" {
				t.Fatalf("cart not mapped: %+v", in.Cart)
			}
			if got := in.Cart[0].Price.StringFixed(2); got != "19.99" {
				t.Fatalf("price = %s", got)
			}
			if in.Cart[0].Quantity != 2 {
				t.Fatalf("quantity = %d", in.Cart[0].Quantity)
			}
			return sampleOrder(), nil
		},
	}
	h := handler.NewCheckoutHandler(stub)

	body := strings.NewReader(`{"nonce":"nonce-1","cart":[{"_id":"p1","name":"Widget","price":"19.99","quantity":2}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/product/braintree/payment", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")
	c.Set("role", "user")

	if err := h.SubmitPayment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Order   struct {
			ID    string `json:"id"`
			Total string `json:"total"`
		} `json:"order"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Order.ID != "o1" {
		t.Errorf("unexpected payload: %+v", resp)
	}
}

func TestCheckoutHandler_SubmitPayment_NoClaims(t *testing.T) {
	e := newTestEcho()
	h := handler.NewCheckoutHandler(&stubCheckoutService{})

	body := strings.NewReader(`{"nonce":"n","cart":[{"_id":"p1","price":"1.00"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/product/braintree/payment", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SubmitPayment(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCheckoutHandler_SubmitPayment_EmptyCart(t *testing.T) {
	e := newTestEcho()
	h := handler.NewCheckoutHandler(&stubCheckoutService{})

	body := strings.NewReader(`{"nonce":"n","cart":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/product/braintree/payment", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")
	c.Set("role", "user")

	if err := h.SubmitPayment(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCheckoutHandler_SubmitPayment_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubCheckoutService{
		submitPaymentFn: func(context.Context, ports.SubmitPaymentInput) (*domain.Order, error) {
			return nil, domain.ErrPaymentInFlight
		},
	}
	h := handler.NewCheckoutHandler(stub)

	body := strings.NewReader(`{"nonce":"n","cart":[{"_id":"p1","price":"1.00"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/product/braintree/payment", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")
	c.Set("role", "user")

	if err := h.SubmitPayment(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
