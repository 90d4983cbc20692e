package recommend

import (
	"context"
	"sync"
	"time"

	"github.com/reelmetrics/reelmetrics/pkg/interfaces"
)

// ExclusionStore tracks the movies a user dismissed from their personalized
// recommendations. Exclusions are scoped to a session, never persisted: a
// dismissal is a "not right now", not a permanent deletion.
type ExclusionStore interface {
	// Exclude adds a movie to the session's exclusion set.
	Exclude(ctx context.Context, sessionID string, movieID uint) error

	// Excluded returns the session's exclusion set.
	Excluded(ctx context.Context, sessionID string) ([]uint, error)
}

// CacheExclusionStore keeps exclusion sets in a TTL cache so they expire
// with the session.
type CacheExclusionStore struct {
	cache interfaces.Cache
	ttl   time.Duration

	// mu serializes the read-modify-write in Exclude so concurrent
	// dismissals for the same session cannot drop each other.
	mu sync.Mutex
}

// NewCacheExclusionStore creates an exclusion store on top of a cache.
func NewCacheExclusionStore(cache interfaces.Cache, ttl time.Duration) *CacheExclusionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CacheExclusionStore{cache: cache, ttl: ttl}
}

// Exclude adds a movie to the session's exclusion set, refreshing its TTL.
func (s *CacheExclusionStore) Exclude(ctx context.Context, sessionID string, movieID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	excluded, err := s.Excluded(ctx, sessionID)
	if err != nil {
		return err
	}
	for _, id := range excluded {
		if id == movieID {
			return nil
		}
	}
	return s.cache.Set(ctx, exclusionKey(sessionID), append(excluded, movieID), s.ttl)
}

// Excluded returns the session's exclusion set; a missing or expired entry
// is an empty set. The returned slice never aliases the cached entry, so
// callers may append to it.
func (s *CacheExclusionStore) Excluded(ctx context.Context, sessionID string) ([]uint, error) {
	cached, err := s.cache.Get(ctx, exclusionKey(sessionID))
	if err != nil {
		return nil, nil
	}
	ids, ok := cached.([]uint)
	if !ok {
		return nil, nil
	}
	out := make([]uint, len(ids))
	copy(out, ids)
	return out, nil
}

func exclusionKey(sessionID string) string {
	return "exclusions:" + sessionID
}
