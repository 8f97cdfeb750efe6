package service

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ICounterStore is the contract for the PIN failure counters. The
// abstraction decouples the AuthGuard from a concrete Redis client so the
// guard can run against process memory when no Redis is configured.
type ICounterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Del(ctx context.Context, key string) error
}

// RedisCounterStore keeps counters in Redis so lockout progress survives
// process restarts.
type RedisCounterStore struct {
	client *redis.Client
}

func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

func (s *RedisCounterStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// MemoryCounterStore keeps counters in process memory. Counters reset on
// restart.
type MemoryCounterStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{counts: make(map[string]int64)}
}

func (s *MemoryCounterStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func (s *MemoryCounterStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, key)
	return nil
}
