package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klokku/ledger/internal/event_bus"
	"github.com/klokku/ledger/internal/utils"
	"github.com/klokku/ledger/pkg/calendar"
	"github.com/klokku/ledger/pkg/contract"
	"github.com/klokku/ledger/pkg/holiday"
	"github.com/klokku/ledger/pkg/stats"
	"github.com/klokku/ledger/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Settings struct {
	Location *time.Location
	// Rate is the billable hourly rate.
	Rate      float64
	WeekStart time.Weekday
	// Workers limits the reports built concurrently for a team.
	Workers int
}

type Service interface {
	BuildReport(ctx context.Context, u user.User, from, to time.Time) (*UserReport, error)
	ByYear(ctx context.Context, u user.User, year int) (*UserReport, error)
	TeamReports(ctx context.Context, year int) ([]*UserReport, error)
}

type ServiceImpl struct {
	users     user.Service
	contracts contract.Service
	holidays  holiday.Service
	stats     stats.Service
	yearStats *calendar.YearStatsCache
	clock     utils.Clock
	settings  Settings
}

func NewService(
	users user.Service,
	contracts contract.Service,
	holidays holiday.Service,
	stats stats.Service,
	yearStats *calendar.YearStatsCache,
	clock utils.Clock,
	settings Settings,
) *ServiceImpl {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.Workers <= 0 {
		settings.Workers = 4
	}
	return &ServiceImpl{
		users:     users,
		contracts: contracts,
		holidays:  holidays,
		stats:     stats,
		yearStats: yearStats,
		clock:     clock,
		settings:  settings,
	}
}

func (s *ServiceImpl) Settings() Settings {
	return s.settings
}

// SubscribeInvalidation drops cached year statistics whenever business holidays were imported.
func (s *ServiceImpl) SubscribeInvalidation(bus *event_bus.EventBus) (unsubscribe func()) {
	return event_bus.SubscribeTyped(bus, event_bus.HolidaysImportedType, func(e event_bus.EventT[event_bus.HolidaysImported]) error {
		if !e.Data.Business {
			return nil
		}
		years := e.Data.Years()
		log.Debugf("invalidating year statistics of %v after holiday import", years)
		s.yearStats.Invalidate(years...)
		return nil
	})
}

func (s *ServiceImpl) BuildReport(ctx context.Context, u user.User, from, to time.Time) (*UserReport, error) {
	from = calendar.Midnight(from, s.settings.Location)
	to = calendar.Midnight(to, s.settings.Location)
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	contracts, err := s.contracts.ContractsForRange(ctx, u.Id, from, to)
	if err != nil {
		return nil, err
	}
	yearStats, err := s.yearStats.Get(ctx, from.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to load year statistics: %w", err)
	}
	personal, err := s.holidays.PersonalHolidays(ctx, u.Id, from, to)
	if err != nil {
		return nil, err
	}
	tracked, err := s.stats.StatsForRange(ctx, u.Id, from, to)
	if err != nil {
		return nil, err
	}

	return Build(Input{
		User:             u,
		From:             from,
		To:               to,
		Rate:             s.settings.Rate,
		Today:            utils.Today(s.clock, s.settings.Location),
		Contracts:        contracts,
		BusinessHolidays: yearStats.BusinessHolidaysBetween(from, to, s.settings.Location),
		PersonalHolidays: personal,
		Stats:            tracked,
	})
}

func (s *ServiceImpl) ByYear(ctx context.Context, u user.User, year int) (*UserReport, error) {
	from, to := calendar.YearBounds(year, s.settings.Location)
	return s.BuildReport(ctx, u, from, to)
}

// TeamReports builds the yearly reports of all active users. Users without a contract in
// that year are left out.
func (s *ServiceImpl) TeamReports(ctx context.Context, year int) ([]*UserReport, error) {
	users, err := s.users.GetActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active users: %w", err)
	}

	reports := make([]*UserReport, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.Workers)
	for i, u := range users {
		g.Go(func() error {
			r, err := s.ByYear(gctx, u, year)
			if errors.Is(err, contract.ErrNoEffectiveContract) {
				log.Warnf("skipping user %s: %v", u.Name, err)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to build report of user %s: %w", u.Name, err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*UserReport, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			result = append(result, r)
		}
	}
	return result, nil
}
