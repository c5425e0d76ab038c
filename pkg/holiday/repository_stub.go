package holiday

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type RepositoryStub struct {
	mu   sync.RWMutex
	days []Day
	Err  error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{}
}

func (s *RepositoryStub) BusinessHolidaysInRange(ctx context.Context, from, to time.Time) ([]Day, error) {
	return s.filter(func(d Day) bool {
		return d.Type == BusinessHoliday && inRange(d.Date, from, to)
	})
}

func (s *RepositoryStub) PersonalHolidaysInRange(ctx context.Context, userId int, from, to time.Time) ([]Day, error) {
	return s.filter(func(d Day) bool {
		return d.Type == PersonalHoliday && d.UserId != nil && *d.UserId == userId && inRange(d.Date, from, to)
	})
}

func (s *RepositoryStub) Upsert(ctx context.Context, day Day) (Day, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return Day{}, s.Err
	}
	for i, existing := range s.days {
		if existing.Uuid == day.Uuid && existing.Date.Equal(day.Date) && sameUser(existing.UserId, day.UserId) {
			day.Id = existing.Id
			s.days[i] = day
			return day, nil
		}
	}
	if day.Id == uuid.Nil {
		day.Id = uuid.New()
	}
	s.days = append(s.days, day)
	return day, nil
}

func (s *RepositoryStub) All() []Day {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.days)
}

func (s *RepositoryStub) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = nil
	s.Err = nil
}

func (s *RepositoryStub) filter(keep func(Day) bool) ([]Day, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]Day, 0)
	for _, d := range s.days {
		if keep(d) {
			result = append(result, d)
		}
	}
	slices.SortStableFunc(result, func(a, b Day) int { return a.Date.Compare(b.Date) })
	return result, nil
}

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

func sameUser(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
