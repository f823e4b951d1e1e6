package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrIdempotencyInFlight means another request holding the same key has
// started but not yet recorded its result. Callers should retry shortly;
// the first request's outcome will be replayed once recorded.
var ErrIdempotencyInFlight = errors.New("request with this idempotency key is in flight")

const idempotencyPending = "__pending__"

// IdempotencyStore reserves client-supplied idempotency keys and replays
// the recorded checkout result for duplicates within the TTL window.
type IdempotencyStore interface {
	// Reserve claims the key. It returns the prior result when the key was
	// already completed, ErrIdempotencyInFlight when another claim is
	// pending, and (nil, nil) when the claim is fresh.
	Reserve(ctx context.Context, key string) (*CheckoutResult, error)
	// Complete records the result under a previously reserved key.
	Complete(ctx context.Context, key string, result *CheckoutResult) error
	// Release frees a reserved key after a failed attempt so the caller
	// can retry with the same key.
	Release(ctx context.Context, key string) error
}

type redisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) IdempotencyStore {
	return &redisIdempotencyStore{client: client, ttl: ttl}
}

func (s *redisIdempotencyStore) key(k string) string {
	return "checkout:idem:" + k
}

func (s *redisIdempotencyStore) Reserve(ctx context.Context, key string) (*CheckoutResult, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), idempotencyPending, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("idempotency reserve failed: %w", err)
	}
	if ok {
		return nil, nil
	}

	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		// Reservation expired between SetNX and Get; treat as in flight.
		return nil, ErrIdempotencyInFlight
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup failed: %w", err)
	}
	if val == idempotencyPending {
		return nil, ErrIdempotencyInFlight
	}

	var result CheckoutResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("corrupt idempotency record: %w", err)
	}
	return &result, nil
}

func (s *redisIdempotencyStore) Complete(ctx context.Context, key string, result *CheckoutResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), b, s.ttl).Err()
}

func (s *redisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}
