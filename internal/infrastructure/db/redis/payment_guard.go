package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const guardTTL = 30 * time.Second

// PaymentGuard serializes payment submissions per buyer using a Redis
// SETNX lock. The TTL bounds how long a crashed submission can block the
// buyer. Key format: payment:inflight:<buyer_id>
type PaymentGuard struct {
	client *redis.Client
}

// NewPaymentGuard creates a PaymentGuard wrapping the given Redis client.
func NewPaymentGuard(client *redis.Client) *PaymentGuard {
	return &PaymentGuard{client: client}
}

// Acquire returns true when no other submission by this buyer is in flight.
func (g *PaymentGuard) Acquire(ctx context.Context, buyerID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(buyerID), "1", guardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("payment guard acquire: %w", err)
	}
	return ok, nil
}

// Release frees the buyer's slot once the submission settles.
func (g *PaymentGuard) Release(ctx context.Context, buyerID string) error {
	return g.client.Del(ctx, g.key(buyerID)).Err()
}

func (g *PaymentGuard) key(buyerID string) string {
	return fmt.Sprintf("payment:inflight:%s", buyerID)
}
