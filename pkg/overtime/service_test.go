package overtime

import (
	"context"
	"testing"
	"time"

	"github.com/klokku/ledger/internal/utils"
	"github.com/klokku/ledger/pkg/calendar"
	"github.com/klokku/ledger/pkg/contract"
	"github.com/klokku/ledger/pkg/holiday"
	"github.com/klokku/ledger/pkg/report"
	"github.com/klokku/ledger/pkg/stats"
	"github.com/klokku/ledger/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var loc, _ = time.LoadLocation("Europe/Berlin")

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

type fixture struct {
	service   *ServiceImpl
	users     *user.UserServiceImpl
	contracts *contract.ServiceImpl
	holidays  *holiday.RepositoryStub
	stats     *stats.RepositoryStub
	clock     *utils.FixedClock
}

func setup(t *testing.T, now time.Time) fixture {
	t.Helper()
	users := user.NewUserService(user.NewStubUserRepository())
	contracts := contract.NewService(contract.NewRepositoryStub())
	holidayRepo := holiday.NewRepositoryStub()
	statsRepo := stats.NewRepositoryStub()
	holidays := holiday.NewService(holidayRepo)
	clock := &utils.FixedClock{At: now}

	reports := report.NewService(users, contracts, holidays, stats.NewService(statsRepo),
		calendar.NewYearStatsCache(holidays.BusinessHolidayLoader(), loc), clock, report.Settings{Location: loc})

	return fixture{
		service:   NewService(users, contracts, reports, clock, loc),
		users:     users,
		contracts: contracts,
		holidays:  holidayRepo,
		stats:     statsRepo,
		clock:     clock,
	}
}

func (f fixture) createUser(t *testing.T, token string) user.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), user.User{Token: token, Name: token, Active: true})
	require.NoError(t, err)
	return u
}

func (f fixture) createContract(t *testing.T, u user.User, from time.Time, offset float64) {
	t.Helper()
	_, err := f.contracts.CreateContract(context.Background(), contract.Contract{
		UserId:             u.Id,
		Date:               from,
		WorkingDays:        contract.MondayToFriday,
		WorkingHoursPerDay: 8,
		HolidaysPerYear:    30,
		CostsPerMonth:      3000,
		OvertimeOffset:     offset,
	})
	require.NoError(t, err)
}

func (f fixture) track(t *testing.T, u user.User, d time.Time, total time.Duration) {
	t.Helper()
	require.NoError(t, f.stats.Upsert(context.Background(), stats.Stats{UserId: u.Id, Date: d, Total: total}))
}

func (f fixture) takeHoliday(t *testing.T, u user.User, d time.Time, excused, overtime bool) {
	t.Helper()
	userId := u.Id
	_, err := f.holidays.Upsert(context.Background(), holiday.Day{
		Uuid:     d.Format(time.DateOnly),
		Type:     holiday.PersonalHoliday,
		Date:     d,
		UserId:   &userId,
		Excused:  excused,
		Overtime: overtime,
	})
	require.NoError(t, err)
}

func TestService_Calculate(t *testing.T) {
	f := setup(t, time.Date(2016, time.January, 11, 12, 0, 0, 0, loc))
	anna := f.createUser(t, "anna")
	f.createContract(t, anna, date(2016, time.January, 4), 10)

	f.track(t, anna, date(2016, time.January, 4), 9*time.Hour)
	f.track(t, anna, date(2016, time.January, 5), 8*time.Hour)
	f.takeHoliday(t, anna, date(2016, time.January, 6), true, false)
	f.takeHoliday(t, anna, date(2016, time.January, 7), false, false)
	f.takeHoliday(t, anna, date(2016, time.January, 8), false, true)
	f.track(t, anna, date(2016, time.January, 9), 2*time.Hour)
	// today is not counted yet
	f.track(t, anna, date(2016, time.January, 11), 8*time.Hour)

	balance, err := f.service.Calculate(context.Background(), anna)

	require.NoError(t, err)
	// 10 + 1 (monday) + 0 (tuesday) - 8 (overtime reduction on friday) + 2 (saturday)
	assert.InDelta(t, 5.0, balance, 1e-9)
}

func TestService_Calculate_AcrossYears(t *testing.T) {
	f := setup(t, time.Date(2016, time.January, 5, 12, 0, 0, 0, loc))
	anna := f.createUser(t, "anna")
	f.createContract(t, anna, date(2015, time.December, 28), 0)
	f.track(t, anna, date(2015, time.December, 28), 8*time.Hour)

	balance, err := f.service.Calculate(context.Background(), anna)

	require.NoError(t, err)
	// four working days in 2015, January 1st and 4th in 2016, one of them tracked
	assert.InDelta(t, -40.0, balance, 1e-9)
}

func TestService_Calculate_NoContract(t *testing.T) {
	f := setup(t, time.Date(2016, time.January, 5, 12, 0, 0, 0, loc))
	anna := f.createUser(t, "anna")

	_, err := f.service.Calculate(context.Background(), anna)

	assert.ErrorIs(t, err, contract.ErrNoEffectiveContract)
}

func TestService_UpdateAll(t *testing.T) {
	ctx := context.Background()
	f := setup(t, time.Date(2016, time.January, 11, 12, 0, 0, 0, loc))
	anna := f.createUser(t, "anna")
	bert := f.createUser(t, "bert")
	f.createContract(t, anna, date(2016, time.January, 4), 0)
	f.track(t, anna, date(2016, time.January, 4), 10*time.Hour)
	f.track(t, anna, date(2016, time.January, 5), 8*time.Hour)
	f.track(t, anna, date(2016, time.January, 6), 8*time.Hour)
	f.track(t, anna, date(2016, time.January, 7), 8*time.Hour)
	f.track(t, anna, date(2016, time.January, 8), 8*time.Hour)

	result, err := f.service.UpdateAll(ctx)

	require.NoError(t, err)
	require.Len(t, result.Balances, 1)
	assert.Equal(t, anna.Id, result.Balances[0].User.Id)
	assert.InDelta(t, 2.0, result.Balances[0].Overtime, 1e-9)
	assert.Equal(t, []string{bert.Name}, result.Skipped)

	stored, err := f.users.GetUser(ctx, anna.Id)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, stored.Overtime, 1e-9)
}
