package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"turnero/models"

	"github.com/go-redis/redis/v8"
)

// SessionStore keeps at most one live conversation session per customer
// identity. Entries expire on inactivity: every write refreshes the TTL, so
// abandoned conversations evict themselves instead of accumulating.
type SessionStore interface {
	// Get returns (nil, nil) when no live session exists for the customer.
	Get(ctx context.Context, customerID string) (*models.Session, error)
	Put(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, customerID string) error
}

const sessionKeyPrefix = "session:"

// RedisSessionStore stores JSON-marshalled sessions in Redis with a TTL.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, customerID string) (*models.Session, error) {
	data, err := s.Client.Get(ctx, sessionKeyPrefix+customerID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewStorageError("get session", err)
	}
	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		// A corrupt entry is treated as absent so the conversation can restart.
		return nil, nil
	}
	return &session, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return models.NewStorageError("marshal session", err)
	}
	if err := s.Client.Set(ctx, sessionKeyPrefix+session.CustomerID, data, s.TTL).Err(); err != nil {
		return models.NewStorageError("put session", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, customerID string) error {
	if err := s.Client.Del(ctx, sessionKeyPrefix+customerID).Err(); err != nil {
		return models.NewStorageError("delete session", err)
	}
	return nil
}

// MemorySessionStore is an in-process store used in tests and as a fallback
// when no Redis is configured. Same eviction semantics, enforced lazily.
type MemorySessionStore struct {
	TTL time.Duration

	mu       sync.Mutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	session models.Session
	expires time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &MemorySessionStore{
		TTL:      ttl,
		sessions: make(map[string]memoryEntry),
	}
}

func (s *MemorySessionStore) Get(ctx context.Context, customerID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[customerID]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expires) {
		delete(s.sessions, customerID)
		return nil, nil
	}
	session := entry.session
	return &session, nil
}

func (s *MemorySessionStore) Put(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.CustomerID] = memoryEntry{
		session: *session,
		expires: time.Now().Add(s.TTL),
	}
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, customerID)
	return nil
}
