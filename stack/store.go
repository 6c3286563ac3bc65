package stack

//go:generate mockgen -destination=stacktest/store.go -package=stacktest github.com/xy-planning-network/junction/stack Store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/junction"
)

var (
	_ Store = new(MemoryStore)
	_ Store = RedisStore{}
)

// A Store persists navigation history under a key,
// so a Navigator can restore it after a restart.
//
// Load returns no entries and no error for a key never saved.
type Store interface {
	Load(ctx context.Context, key string) ([]Entry, error)
	Save(ctx context.Context, key string, entries []Entry) error
}

// A MemoryStore keeps serialized history in memory.
//
// Process restarts reset a MemoryStore.
// A MemoryStore ought not be used for production environments.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Load decodes the history saved under key.
func (m *MemoryStore) Load(ctx context.Context, key string) ([]Entry, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.mu.Lock()
	b, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s", junction.ErrUnexpected, err)
	}
	return entries, nil
}

// Save overwrites the history saved under key.
func (m *MemoryStore) Save(ctx context.Context, key string, entries []Entry) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: %s", junction.ErrUnexpected, err)
	}

	m.mu.Lock()
	m.data[key] = b
	m.mu.Unlock()
	return nil
}

// A RedisStore keeps serialized history in a Redis backend.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore connecting with opts.
// History expires ttl after it was last saved; a zero ttl keeps it indefinitely.
func NewRedisStore(opts *redis.Options, ttl time.Duration) RedisStore {
	return RedisStore{client: redis.NewClient(opts), ttl: ttl}
}

// NewRedisStoreURL constructs a RedisStore from a redis:// URL.
func NewRedisStoreURL(url string, ttl time.Duration) (RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return RedisStore{}, fmt.Errorf("%w: %s", junction.ErrBadConfig, err)
	}
	return NewRedisStore(opts, ttl), nil
}

// Load decodes the history saved under key in Redis.
func (r RedisStore) Load(ctx context.Context, key string) ([]Entry, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s: %s", junction.ErrUnexpected, key, err)
	}

	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s", junction.ErrUnexpected, err)
	}
	return entries, nil
}

// Save overwrites the history saved under key in Redis.
func (r RedisStore) Save(ctx context.Context, key string, entries []Entry) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: %s", junction.ErrUnexpected, err)
	}

	if err := r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: saving %s: %s", junction.ErrUnexpected, key, err)
	}
	return nil
}

// Close closes the connection to Redis.
func (r RedisStore) Close() error { return r.client.Close() }
