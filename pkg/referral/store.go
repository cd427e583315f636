package referral

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/DeBrosOfficial/indexer-client/pkg/config"
)

// Store is the persistent key/value slot holding the referral code.
type Store interface {
	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// OpenStore builds the store selected by cfg. The caller closes the returned
// closer when done; it is a no-op for stores without resources.
func OpenStore(cfg config.ReferralConfig) (Store, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Store) {
	case "memory":
		return NewMemoryStore(), noop, nil
	case "", "file":
		path := cfg.Path
		if path == "" {
			p, err := config.DefaultPath(DefaultFileName)
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		return NewFileStore(path), noop, nil
	case "sqlite":
		s, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "redis":
		s := NewRedisStore(cfg.RedisAddr, "", cfg.RedisDB)
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown referral store %q", cfg.Store)
	}
}
