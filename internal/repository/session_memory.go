package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/permitcheck/internal/entity"
	"github.com/futig/permitcheck/internal/pkg/metrics"
)

// SessionRepository keeps live workflow sessions keyed by session ID.
// Idle sessions are dropped after the TTL, the same way a reload drops browser state.
type SessionRepository[T any] struct {
	store *Store[T]
}

func NewSessionRepository[T any](ttl time.Duration) *SessionRepository[T] {
	r := &SessionRepository[T]{
		store: newStore[T](ttl, cleanupInterval(ttl)),
	}
	r.store.items.OnEvicted(func(string, any) {
		metrics.UpdateSessionsActiveMetric(r.store.count())
	})
	return r
}

func (r *SessionRepository[T]) Create(_ context.Context, id string, session T) error {
	if err := r.store.add(id, session); err != nil {
		return fmt.Errorf("create session %s: %w", id, err)
	}
	metrics.UpdateSessionsActiveMetric(r.store.count())
	return nil
}

// Get returns the session and refreshes its idle timer.
func (r *SessionRepository[T]) Get(_ context.Context, id string) (T, error) {
	session, ok := r.store.get(id)
	if !ok {
		return session, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	r.store.touch(id, session)
	return session, nil
}

func (r *SessionRepository[T]) Delete(_ context.Context, id string) error {
	if _, ok := r.store.get(id); !ok {
		return fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	r.store.delete(id)
	return nil
}

func (r *SessionRepository[T]) Count() int {
	return r.store.count()
}

func cleanupInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		return time.Second
	}
	return interval
}
