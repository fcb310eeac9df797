// Package botstate keeps the per-chat conversation state the menu flow
// needs ("is this chat waiting for a record text"). Redis backs it in
// production so state survives restarts; the in-memory implementation
// serves local runs and tests.
package botstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Conversation states.
const (
	StateNone           = ""
	StateAwaitingRecord = "awaiting_record"
)

// Store is the per-chat state machine storage.
type Store interface {
	Get(ctx context.Context, chatID int64) (string, error)
	Set(ctx context.Context, chatID int64, state string) error
	Clear(ctx context.Context, chatID int64) error
}

// RedisStore keeps states under "botstate:<chatID>" with a TTL so an
// abandoned dialog does not wait for input forever.
type RedisStore struct {
	c   *redis.Client
	ttl time.Duration
}

func NewRedisStore(c *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisStore{c: c, ttl: ttl}
}

func stateKey(chatID int64) string {
	return fmt.Sprintf("botstate:%d", chatID)
}

func (r *RedisStore) Get(ctx context.Context, chatID int64) (string, error) {
	val, err := r.c.Get(ctx, stateKey(chatID)).Result()
	if err != nil {
		if err == redis.Nil {
			return StateNone, nil
		}
		return StateNone, err
	}
	return val, nil
}

func (r *RedisStore) Set(ctx context.Context, chatID int64, state string) error {
	return r.c.Set(ctx, stateKey(chatID), state, r.ttl).Err()
}

func (r *RedisStore) Clear(ctx context.Context, chatID int64) error {
	return r.c.Del(ctx, stateKey(chatID)).Err()
}

// MemoryStore is the fallback when no Redis address is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[int64]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: map[int64]string{}}
}

func (m *MemoryStore) Get(_ context.Context, chatID int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[chatID], nil
}

func (m *MemoryStore) Set(_ context.Context, chatID int64, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[chatID] = state
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, chatID)
	return nil
}
