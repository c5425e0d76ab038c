package overtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klokku/ledger/internal/utils"
	"github.com/klokku/ledger/pkg/calendar"
	"github.com/klokku/ledger/pkg/contract"
	"github.com/klokku/ledger/pkg/report"
	"github.com/klokku/ledger/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Balance is the overtime of a user in hours. Negative values are missing hours.
type Balance struct {
	User     user.User
	Overtime float64
}

type UpdateResult struct {
	Balances []Balance
	// Skipped lists the names of users without an effective contract.
	Skipped []string
}

type Service interface {
	Calculate(ctx context.Context, u user.User) (float64, error)
	UpdateAll(ctx context.Context) (UpdateResult, error)
}

type ServiceImpl struct {
	users     user.Service
	contracts contract.Service
	reports   report.Service
	clock     utils.Clock
	loc       *time.Location
}

func NewService(users user.Service, contracts contract.Service, reports report.Service, clock utils.Clock, loc *time.Location) *ServiceImpl {
	return &ServiceImpl{
		users:     users,
		contracts: contracts,
		reports:   reports,
		clock:     clock,
		loc:       loc,
	}
}

// Calculate walks the reports from the start of the user's current contract up to yesterday.
// Every working day that is neither a true holiday nor excused costs the contract hours,
// every tracked hour is credited.
func (s *ServiceImpl) Calculate(ctx context.Context, u user.User) (float64, error) {
	today := utils.Today(s.clock, s.loc)
	current, err := s.contracts.EffectiveContract(ctx, u.Id, today)
	if err != nil {
		return 0, err
	}

	contractStart := calendar.Midnight(current.Date, s.loc)
	balance := current.OvertimeOffset
	for year := contractStart.Year(); year <= today.Year(); year++ {
		r, err := s.reports.ByYear(ctx, u, year)
		if err != nil {
			return 0, fmt.Errorf("failed to build %d report of user %s: %w", year, u.Name, err)
		}

		start := 0
		if year == contractStart.Year() {
			start = calendar.YearDay(contractStart)
		}
		end := calendar.DaysInYear(year)
		if year == today.Year() {
			end = calendar.YearDay(today)
		}

		for _, day := range r.GetRange(start, end) {
			balance += dayBalance(day)
		}
		log.Tracef("overtime of user %s after %d: %.2f", u.Name, year, balance)
	}
	return balance, nil
}

func dayBalance(day report.DayEntry) float64 {
	balance := day.TimeActual.Hours()
	if day.Contract != nil && day.IsWorkingDay() && !day.IsHoliday(true) && !day.Excused {
		balance -= day.Contract.WorkingHoursPerDay
	}
	return balance
}

// UpdateAll recalculates and stores the balance of every active user.
func (s *ServiceImpl) UpdateAll(ctx context.Context) (UpdateResult, error) {
	users, err := s.users.GetActiveUsers(ctx)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to load active users: %w", err)
	}

	result := UpdateResult{
		Balances: make([]Balance, 0, len(users)),
		Skipped:  make([]string, 0),
	}
	for _, u := range users {
		log.Infof("Updating overtime of %s", u.Name)
		balance, err := s.Calculate(ctx, u)
		if errors.Is(err, contract.ErrNoEffectiveContract) {
			log.Warnf("No effective contract for %s, skipping", u.Name)
			result.Skipped = append(result.Skipped, u.Name)
			continue
		}
		if err != nil {
			return result, err
		}
		if err := s.users.UpdateOvertime(ctx, u.Id, balance); err != nil {
			return result, fmt.Errorf("failed to store overtime of user %s: %w", u.Name, err)
		}
		log.Infof("Overtime balance of %s: %.2f", u.Name, balance)
		result.Balances = append(result.Balances, Balance{User: u, Overtime: balance})
	}
	return result, nil
}
