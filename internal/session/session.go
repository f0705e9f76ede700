package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/cache"
)

// Store tracks live admin sessions by token id so logout revokes a token
// before its JWT expiry.
type Store interface {
	// Put registers a session id with a time-to-live.
	Put(ctx context.Context, id string, ttl time.Duration) error

	// Exists reports whether the session id is still live.
	Exists(ctx context.Context, id string) (bool, error)

	// Revoke removes a session id. Revoking an unknown id is not an error.
	Revoke(ctx context.Context, id string) error
}

// RedisStore keeps sessions in Redis; expiry is handled by key TTL.
type RedisStore struct {
	redis *cache.RedisClient
}

// NewRedisStore creates a RedisStore.
func NewRedisStore(redis *cache.RedisClient) *RedisStore {
	return &RedisStore{redis: redis}
}

func sessionKey(id string) string { return fmt.Sprintf("session:admin:%s", id) }

func (s *RedisStore) Put(ctx context.Context, id string, ttl time.Duration) error {
	return s.redis.Set(ctx, sessionKey(id), "1", ttl)
}

func (s *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	return s.redis.Exists(ctx, sessionKey(id))
}

func (s *RedisStore) Revoke(ctx context.Context, id string) error {
	return s.redis.Delete(ctx, sessionKey(id))
}

// MemoryStore keeps sessions in-process, for deployments without Redis.
// Expired entries are dropped lazily on lookup and swept periodically by the
// session sweep worker.
type MemoryStore struct {
	mu       sync.Mutex
	deadline map[string]time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{deadline: make(map[string]time.Time)}
}

func (s *MemoryStore) Put(ctx context.Context, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deadline[id] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryStore) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dl, ok := s.deadline[id]
	if !ok {
		return false, nil
	}
	if time.Now().After(dl) {
		delete(s.deadline, id)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Revoke(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deadline, id)
	return nil
}

// Sweep removes expired sessions and returns how many it dropped.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	dropped := 0
	for id, dl := range s.deadline {
		if now.After(dl) {
			delete(s.deadline, id)
			dropped++
		}
	}
	return dropped
}
