// Package revocation tracks access tokens that were explicitly logged out.
package revocation

import (
	"context"
	"time"

	"github.com/geocoder89/fittrack/internal/cache"
)

type Store interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryStore keeps revocations in process. Entries vanish on restart, so it
// only suits single-instance deployments and tests.
type MemoryStore struct {
	entries *cache.Cache[struct{}]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: cache.New[struct{}]()}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, until time.Time) error {
	s.entries.SetWithTTL(jti, struct{}{}, time.Until(until))
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := s.entries.Get(jti)
	return ok, nil
}

// Sweep drops revocations whose tokens have expired.
func (s *MemoryStore) Sweep() int {
	return s.entries.Sweep()
}
