package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ecomarket/storefront-api/internal/core/domain"
	"github.com/ecomarket/storefront-api/internal/core/ports"
)

func checkoutFixture() (*CheckoutService, *stubOrderRepo, *stubUserRepo, *stubGateway, *stubGuard, *stubNotifier) {
	orders := newStubOrderRepo()
	users := newStubUserRepo()
	gateway := &stubGateway{token: "tok_abc"}
	guard := newStubGuard()
	notifier := &stubNotifier{}
	svc := NewCheckoutService(orders, users, gateway, guard, notifier, zerolog.Nop())
	return svc, orders, users, gateway, guard, notifier
}

func seedBuyer(t *testing.T, users *stubUserRepo) *domain.User {
	t.Helper()
	u, err := users.Create(context.Background(), &domain.User{
		Name:    "Alice",
		Email:   "alice@example.com",
		Address: "1 Main St",
		Role:    domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("seed buyer: %v", err)
	}
	return u
}

func sampleCart() []domain.CartItem {
	return []domain.CartItem{
		{ProductID: "p1", Name: "Widget", Price: decimal.RequireFromString("19.99"), Quantity: 2},
		{ProductID: "p2", Name: "Gadget", Price: decimal.RequireFromString("5.01"), Quantity: 1},
	}
}

func TestCheckoutService_ClientToken(t *testing.T) {
	svc, _, _, _, _, _ := checkoutFixture()

	token, err := svc.ClientToken(context.Background())
	if err != nil {
		t.Fatalf("ClientToken: %v", err)
	}
	if token != "tok_abc" {
		t.Errorf("expected tok_abc, got %q", token)
	}
}

func TestCheckoutService_SubmitPayment(t *testing.T) {
	svc, orders, users, gateway, guard, notifier := checkoutFixture()
	buyer := seedBuyer(t, users)

	order, err := svc.SubmitPayment(context.Background(), ports.SubmitPaymentInput{
		BuyerID: buyer.ID,
		Nonce:   "nonce-1",
		Cart:    sampleCart(),
	})
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}

	if order.ID == "" {
		t.Fatalf("order not assigned an id")
	}
	if order.Status != domain.StatusNotProcessed {
		t.Errorf("new order status = %q, want %q", order.Status, domain.StatusNotProcessed)
	}
	if got := order.Total.StringFixed(2); got != "44.99" {
		t.Errorf("order total = %s, want 44.99", got)
	}
	if !order.Payment.Success {
		t.Errorf("payment result not recorded as success")
	}
	if gateway.lastNonce != "nonce-1" {
		t.Errorf("gateway charged nonce %q", gateway.lastNonce)
	}
	if got := gateway.lastAmount.StringFixed(2); got != "44.99" {
		t.Errorf("gateway charged %s, want 44.99", got)
	}
	if len(orders.byID) != 1 {
		t.Errorf("expected exactly one stored order, got %d", len(orders.byID))
	}
	if guard.releases != 1 {
		t.Errorf("guard released %d times, want 1", guard.releases)
	}
	if len(notifier.enqueued) != 1 || notifier.enqueued[0].Email != buyer.Email {
		t.Errorf("confirmation not enqueued for buyer, got %+v", notifier.enqueued)
	}
}

func TestCheckoutService_SubmitPayment_EmptyCart(t *testing.T) {
	svc, _, users, gateway, _, _ := checkoutFixture()
	buyer := seedBuyer(t, users)

	_, err := svc.SubmitPayment(context.Background(), ports.SubmitPaymentInput{
		BuyerID: buyer.ID,
		Nonce:   "nonce-1",
	})
	if !errors.Is(err, domain.ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
	if gateway.saleCalls != 0 {
		t.Errorf("gateway charged despite empty cart")
	}
}

// A declined charge still creates the order, carrying the failed payment
// result in the buyer's history.
func TestCheckoutService_SubmitPayment_Declined(t *testing.T) {
	svc, orders, users, gateway, _, notifier := checkoutFixture()
	buyer := seedBuyer(t, users)
	gateway.saleResult = &domain.PaymentResult{Success: false, Message: "insufficient funds"}

	order, err := svc.SubmitPayment(context.Background(), ports.SubmitPaymentInput{
		BuyerID: buyer.ID,
		Nonce:   "nonce-1",
		Cart:    sampleCart(),
	})
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
	if order.Payment.Success {
		t.Errorf("declined payment stored as success")
	}
	if len(orders.byID) != 1 {
		t.Errorf("expected the declined order to be stored, got %d", len(orders.byID))
	}
	if len(notifier.enqueued) != 0 {
		t.Errorf("confirmation enqueued for a declined payment")
	}
}

// While a submission is in flight, a second one from the same buyer is
// rejected and no extra order appears.
func TestCheckoutService_SubmitPayment_Duplicate(t *testing.T) {
	svc, orders, users, _, guard, _ := checkoutFixture()
	buyer := seedBuyer(t, users)
	guard.held[buyer.ID] = true

	_, err := svc.SubmitPayment(context.Background(), ports.SubmitPaymentInput{
		BuyerID: buyer.ID,
		Nonce:   "nonce-1",
		Cart:    sampleCart(),
	})
	if !errors.Is(err, domain.ErrPaymentInFlight) {
		t.Fatalf("expected ErrPaymentInFlight, got %v", err)
	}
	if len(orders.byID) != 0 {
		t.Errorf("duplicate submission created an order")
	}
}

// An unavailable guard degrades to letting the payment through rather than
// blocking all checkouts.
func TestCheckoutService_SubmitPayment_GuardUnavailable(t *testing.T) {
	svc, orders, users, _, guard, _ := checkoutFixture()
	buyer := seedBuyer(t, users)
	guard.acquireErr = errors.New("redis down")

	_, err := svc.SubmitPayment(context.Background(), ports.SubmitPaymentInput{
		BuyerID: buyer.ID,
		Nonce:   "nonce-1",
		Cart:    sampleCart(),
	})
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
	if len(orders.byID) != 1 {
		t.Errorf("expected order despite guard outage, got %d", len(orders.byID))
	}
	if guard.releases != 0 {
		t.Errorf("guard released %d times despite never being acquired", guard.releases)
	}
}

func TestCheckoutService_SubmitPayment_GatewayError(t *testing.T) {
	svc, orders, users, gateway, guard, _ := checkoutFixture()
	buyer := seedBuyer(t, users)
	gateway.saleErr = errors.New("gateway timeout")

	_, err := svc.SubmitPayment(context.Background(), ports.SubmitPaymentInput{
		BuyerID: buyer.ID,
		Nonce:   "nonce-1",
		Cart:    sampleCart(),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(orders.byID) != 0 {
		t.Errorf("order created despite gateway error")
	}
	if guard.releases != 1 {
		t.Errorf("guard not released after gateway error")
	}
}
