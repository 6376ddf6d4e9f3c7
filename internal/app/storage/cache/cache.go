// Package cache memoises session-question lookups. Join rows never change
// once written, so entries only expire by TTL.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "neetprep:sq:"

func key(sessionID, questionID int64) string {
	return fmt.Sprintf("%s%d:%d", keyPrefix, sessionID, questionID)
}

// Redis stores lookups in a Redis instance.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the Redis server at url (redis://...).
func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Redis{client: redis.NewClient(opts), ttl: ttl}, nil
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, sessionID, questionID int64) (int64, bool, error) {
	id, err := r.client.Get(ctx, key(sessionID, questionID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (r *Redis) Set(ctx context.Context, sessionID, questionID, id int64) error {
	return r.client.Set(ctx, key(sessionID, questionID), id, r.ttl).Err()
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Memory is a process-local cache used when no Redis is configured.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	id      int64
	expires time.Time
}

// NewMemory returns an empty Memory cache. A zero ttl never expires.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, sessionID, questionID int64) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key(sessionID, questionID)]
	if !ok {
		return 0, false, nil
	}
	if !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		return 0, false, nil
	}
	return entry.id, true, nil
}

func (m *Memory) Set(_ context.Context, sessionID, questionID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{id: id}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.entries[key(sessionID, questionID)] = entry
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
