package throttle

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the single-instance counter backend: a mutex-guarded map of
// fixed windows. Suitable for one process; multi-instance deployments need
// the Redis store so all replicas share counters.
type MemoryStore struct {
	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

type window struct {
	start   time.Time
	count   int
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*window)}
}

func (s *MemoryStore) Take(ctx context.Context, b Bucket, clientKey string, now time.Time) (bool, error) {
	_ = ctx

	key := b.Name + "\x00" + clientKey

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(now)

	w := s.windows[key]
	if w == nil || now.Sub(w.start) >= b.Window {
		w = &window{start: now}
		s.windows[key] = w
	}
	w.expires = now.Add(2 * b.Window)

	if w.count >= b.Limit {
		return false, nil
	}
	w.count++
	return true, nil
}

// sweep drops long-idle windows so the map does not grow with one entry per
// client forever. Runs at most once per minute, under the lock.
func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < time.Minute {
		return
	}
	s.lastSweep = now
	for k, w := range s.windows {
		if now.After(w.expires) {
			delete(s.windows, k)
		}
	}
}
