package repository

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Store is a TTL-bounded in-memory map. Entries live only as long as the process.
type Store[T any] struct {
	items *cache.Cache
	ttl   time.Duration
}

func newStore[T any](ttl, cleanupInterval time.Duration) *Store[T] {
	return &Store[T]{
		items: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func (s *Store[T]) get(key string) (T, bool) {
	var zero T
	v, ok := s.items.Get(key)
	if !ok {
		return zero, false
	}
	item, ok := v.(T)
	if !ok {
		return zero, false
	}
	return item, true
}

// add fails if the key is already taken.
func (s *Store[T]) add(key string, item T) error {
	return s.items.Add(key, item, s.ttl)
}

// touch pushes the expiration of an existing entry forward.
func (s *Store[T]) touch(key string, item T) {
	s.items.Set(key, item, s.ttl)
}

func (s *Store[T]) delete(key string) {
	s.items.Delete(key)
}

func (s *Store[T]) count() int {
	return s.items.ItemCount()
}
