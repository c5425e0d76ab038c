package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/klokku/ledger/pkg/calendar"
)

type Service interface {
	BusinessHolidays(ctx context.Context, from, to time.Time) ([]Day, error)
	PersonalHolidays(ctx context.Context, userId int, from, to time.Time) ([]Day, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) BusinessHolidays(ctx context.Context, from, to time.Time) ([]Day, error) {
	days, err := s.repo.BusinessHolidaysInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load business holidays: %w", err)
	}
	return days, nil
}

func (s *ServiceImpl) PersonalHolidays(ctx context.Context, userId int, from, to time.Time) ([]Day, error) {
	days, err := s.repo.PersonalHolidaysInRange(ctx, userId, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load personal holidays of user %d: %w", userId, err)
	}
	return days, nil
}

// BusinessHolidayLoader feeds the year statistics cache.
func (s *ServiceImpl) BusinessHolidayLoader() calendar.HolidayLoader {
	return func(ctx context.Context, from, to time.Time) ([]calendar.NamedDate, error) {
		days, err := s.BusinessHolidays(ctx, from, to)
		if err != nil {
			return nil, err
		}
		named := make([]calendar.NamedDate, 0, len(days))
		for _, d := range days {
			named = append(named, calendar.NamedDate{Date: d.Date, Name: d.Name})
		}
		return named, nil
	}
}
