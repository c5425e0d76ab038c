package stats

import (
	"context"
	"slices"
	"sync"
	"time"
)

type RepositoryStub struct {
	mu    sync.RWMutex
	stats []Stats
	Err   error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{}
}

func (s *RepositoryStub) StatsForUserInRange(ctx context.Context, userId int, from, to time.Time) ([]Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]Stats, 0)
	for _, st := range s.stats {
		if st.UserId == userId && !st.Date.Before(from) && !st.Date.After(to) {
			result = append(result, st)
		}
	}
	slices.SortStableFunc(result, func(a, b Stats) int { return a.Date.Compare(b.Date) })
	return result, nil
}

func (s *RepositoryStub) Upsert(ctx context.Context, stats Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i, existing := range s.stats {
		if existing.UserId == stats.UserId && existing.Date.Equal(stats.Date) {
			s.stats[i] = stats
			return nil
		}
	}
	s.stats = append(s.stats, stats)
	return nil
}

func (s *RepositoryStub) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = nil
	s.Err = nil
}
