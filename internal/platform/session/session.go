package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// User is the cached shape of an authenticated user, kept between requests
// so hot paths do not hit the users table.
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// Store caches session users with a TTL.
type Store interface {
	Put(ctx context.Context, u *User, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrNotFound is returned when no cached session exists for the user.
var ErrNotFound = fmt.Errorf("session not found")

const keyPrefix = "session:"

// RedisStore keeps sessions in redis.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient connects to redis at the given URL and verifies the
// connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Put(ctx context.Context, u *User, ttl time.Duration) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, keyPrefix+u.ID.String(), payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id.String()).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var u User
	if err := json.Unmarshal(payload, &u); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &u, nil
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, keyPrefix+id.String()).Err()
}

// MemoryStore is an in-process session cache used in development when no
// redis is configured, and by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
}

type memoryEntry struct {
	user   User
	expiry time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[uuid.UUID]memoryEntry)}
}

func (s *MemoryStore) Put(_ context.Context, u *User, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[u.ID] = memoryEntry{user: *u, expiry: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiry) {
		return nil, ErrNotFound
	}
	u := entry.user
	return &u, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}
