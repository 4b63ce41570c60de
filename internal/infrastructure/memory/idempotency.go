package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
)

var _ ledger.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore reservas de RequestID con expiración, en memoria del proceso.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]time.Time // clave -> expiración
	now  func() time.Time
}

// NewIdempotencyStore crea la guardia en memoria.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{keys: make(map[string]time.Time), now: time.Now}
}

// Reserve devuelve false si la clave sigue vigente.
func (s *IdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if exp, ok := s.keys[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.keys[key] = now.Add(ttl)
	s.gc(now)
	return true, nil
}

// Release libera la clave.
func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
	return nil
}

func (s *IdempotencyStore) gc(now time.Time) {
	for k, exp := range s.keys {
		if !now.Before(exp) {
			delete(s.keys, k)
		}
	}
}
