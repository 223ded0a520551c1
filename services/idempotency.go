package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore records payment keys whose approval side effects already
// ran, so duplicate gateway callbacks return success without re-persisting.
type IdempotencyStore interface {
	Seen(ctx context.Context, paymentKey string) bool
	Mark(ctx context.Context, paymentKey string)
}

// MemoryIdempotencyStore keeps processed keys for the life of the process.
type MemoryIdempotencyStore struct {
	mu   sync.RWMutex
	keys map[string]bool
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{keys: make(map[string]bool)}
}

func (s *MemoryIdempotencyStore) Seen(_ context.Context, paymentKey string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[paymentKey]
}

func (s *MemoryIdempotencyStore) Mark(_ context.Context, paymentKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[paymentKey] = true
}

const redisIdempotencyPrefix = "payments:processed:"

// RedisIdempotencyStore shares processed keys across instances and restarts.
// Lookups are best-effort: on a Redis error the key counts as unseen and the
// append-only ledger remains the source of truth.
type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyStore{client: client, ttl: ttl}
}

func (s *RedisIdempotencyStore) Seen(ctx context.Context, paymentKey string) bool {
	n, err := s.client.Exists(ctx, redisIdempotencyPrefix+paymentKey).Result()
	return err == nil && n > 0
}

func (s *RedisIdempotencyStore) Mark(ctx context.Context, paymentKey string) {
	s.client.Set(ctx, redisIdempotencyPrefix+paymentKey, "1", s.ttl)
}
