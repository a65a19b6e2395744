package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ecomarket/storefront-api/internal/core/domain"
	"github.com/ecomarket/storefront-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	clone := *u
	clone.ID = fmt.Sprintf("u%d", r.nextID)
	r.byID[clone.ID] = &clone
	r.byEmail[clone.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *u
	r.byID[u.ID] = &clone
	r.byEmail[u.Email] = &clone
	return nil
}

type stubOrderRepo struct {
	byID      map[string]*domain.Order
	nextID    int
	createErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *o
	clone.ID = fmt.Sprintf("o%d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) ListByBuyer(_ context.Context, buyerID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.byID {
		if o.BuyerID == buyerID {
			clone := *o
			out = append(out, &clone)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *stubOrderRepo) ListAll(_ context.Context) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.byID {
		clone := *o
		out = append(out, &clone)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = status
	clone := *o
	return &clone, nil
}

func sortNewestFirst(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

type stubGateway struct {
	token    string
	tokenErr error

	saleResult *domain.PaymentResult
	saleErr    error
	saleCalls  int
	lastNonce  string
	lastAmount decimal.Decimal
}

func (g *stubGateway) GenerateClientToken(_ context.Context) (string, error) {
	if g.tokenErr != nil {
		return "", g.tokenErr
	}
	return g.token, nil
}

func (g *stubGateway) Sale(_ context.Context, nonce string, amount decimal.Decimal) (*domain.PaymentResult, error) {
	g.saleCalls++
	g.lastNonce = nonce
	g.lastAmount = amount
	if g.saleErr != nil {
		return nil, g.saleErr
	}
	if g.saleResult != nil {
		res := *g.saleResult
		return &res, nil
	}
	return &domain.PaymentResult{Success: true, TransactionID: "tx1"}, nil
}

// stubGuard mimics the Redis in-flight guard on a plain map.
type stubGuard struct {
	held       map[string]bool
	acquireErr error
	releases   int
}

func newStubGuard() *stubGuard {
	return &stubGuard{held: make(map[string]bool)}
}

func (g *stubGuard) Acquire(_ context.Context, buyerID string) (bool, error) {
	if g.acquireErr != nil {
		return false, g.acquireErr
	}
	if g.held[buyerID] {
		return false, nil
	}
	g.held[buyerID] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, buyerID string) error {
	g.releases++
	delete(g.held, buyerID)
	return nil
}

type stubNotifier struct {
	enqueued []ports.OrderNotification
}

func (n *stubNotifier) Enqueue(notif ports.OrderNotification) {
	n.enqueued = append(n.enqueued, notif)
}
