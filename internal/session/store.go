package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"storefront/internal/cache"

	"github.com/go-redis/redis/v8"
)

// Store persists the session between runs.
type Store interface {
	Load(ctx context.Context) (Session, bool, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

type MemoryStore struct {
	mu  sync.Mutex
	s   Session
	set bool
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(context.Context) (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, m.set, nil
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s, m.set = s, true
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s, m.set = Session{}, false
	return nil
}

const keyPrefix = "storefront:session:"

// RedisStore keeps the session under a named key so several processes on one
// machine share a sign-in.
type RedisStore struct {
	kv  cache.KV
	key string
}

func NewRedisStore(kv cache.KV, name string) *RedisStore {
	if name == "" {
		name = "default"
	}
	return &RedisStore{kv: kv, key: keyPrefix + name}
}

func (r *RedisStore) Load(ctx context.Context) (Session, bool, error) {
	raw, err := r.kv.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, false, err
	}
	return s, true, nil
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, r.key, raw, 0).Err()
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.kv.Del(ctx, r.key).Err()
}
