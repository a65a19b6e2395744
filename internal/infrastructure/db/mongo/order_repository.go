package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecomarket/storefront-api/internal/core/domain"
)

const ordersCollection = "orders"

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(ordersCollection)}
}

// Money travels through BSON as strings so decimal precision survives the
// round trip.
type mongoOrderItem struct {
	ProductID string `bson:"product_id"`
	Name      string `bson:"name"`
	Price     string `bson:"price"`
	Quantity  int    `bson:"quantity"`
}

type mongoPayment struct {
	Success       bool   `bson:"success"`
	TransactionID string `bson:"transaction_id,omitempty"`
	Message       string `bson:"message,omitempty"`
}

type mongoOrder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	BuyerID   string             `bson:"buyer_id"`
	BuyerName string             `bson:"buyer_name"`
	Items     []mongoOrderItem   `bson:"items"`
	Total     string             `bson:"total"`
	Payment   mongoPayment       `bson:"payment"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toMongoOrder(o))
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	created := *o
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	var mo mongoOrder
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return toDomainOrder(mo), nil
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*domain.Order, error) {
	return r.list(ctx, bson.M{"buyer_id": buyerID})
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := make([]*domain.Order, 0)
	for cur.Next(ctx) {
		var mo mongoOrder
		if err := cur.Decode(&mo); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, toDomainOrder(mo))
	}
	return orders, cur.Err()
}

// UpdateStatus sets only the status field; every other field of the order
// document is immutable after creation.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var mo mongoOrder
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(status)}},
		opts,
	).Decode(&mo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return toDomainOrder(mo), nil
}

// EnsureIndexes creates the buyer and creation-time indexes.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "buyer_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func toMongoOrder(o *domain.Order) mongoOrder {
	items := make([]mongoOrderItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = mongoOrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.String(),
			Quantity:  it.Quantity,
		}
	}
	return mongoOrder{
		BuyerID:   o.BuyerID,
		BuyerName: o.BuyerName,
		Items:     items,
		Total:     o.Total.String(),
		Payment: mongoPayment{
			Success:       o.Payment.Success,
			TransactionID: o.Payment.TransactionID,
			Message:       o.Payment.Message,
		},
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC(),
	}
}

func toDomainOrder(mo mongoOrder) *domain.Order {
	items := make([]domain.OrderItem, len(mo.Items))
	for i, it := range mo.Items {
		items[i] = domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     mustDecimal(it.Price),
			Quantity:  it.Quantity,
		}
	}
	return &domain.Order{
		ID:        mo.ID.Hex(),
		BuyerID:   mo.BuyerID,
		BuyerName: mo.BuyerName,
		Items:     items,
		Total:     mustDecimal(mo.Total),
		Payment: domain.PaymentResult{
			Success:       mo.Payment.Success,
			TransactionID: mo.Payment.TransactionID,
			Message:       mo.Payment.Message,
		},
		Status:    domain.OrderStatus(mo.Status),
		CreatedAt: mo.CreatedAt.UTC(),
	}
}

// mustDecimal treats an unparseable stored amount as zero rather than
// failing the whole read.
func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
