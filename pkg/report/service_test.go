package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/klokku/ledger/internal/event_bus"
	"github.com/klokku/ledger/internal/utils"
	"github.com/klokku/ledger/pkg/calendar"
	"github.com/klokku/ledger/pkg/contract"
	"github.com/klokku/ledger/pkg/holiday"
	"github.com/klokku/ledger/pkg/stats"
	"github.com/klokku/ledger/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	service   *ServiceImpl
	users     *user.UserServiceImpl
	contracts *contract.ServiceImpl
	holidays  *holiday.RepositoryStub
	stats     *stats.RepositoryStub
	bus       *event_bus.EventBus
}

func setupService(t *testing.T) serviceFixture {
	t.Helper()
	userRepo := user.NewStubUserRepository()
	contractRepo := contract.NewRepositoryStub()
	holidayRepo := holiday.NewRepositoryStub()
	statsRepo := stats.NewRepositoryStub()

	users := user.NewUserService(userRepo)
	contracts := contract.NewService(contractRepo)
	holidays := holiday.NewService(holidayRepo)
	yearStats := calendar.NewYearStatsCache(holidays.BusinessHolidayLoader(), loc)
	clock := &utils.FixedClock{At: time.Date(2016, time.October, 15, 12, 0, 0, 0, loc)}

	service := NewService(users, contracts, holidays, stats.NewService(statsRepo), yearStats, clock, Settings{
		Location:  loc,
		Rate:      100,
		WeekStart: time.Monday,
		Workers:   2,
	})
	bus := event_bus.NewEventBus()
	t.Cleanup(service.SubscribeInvalidation(bus))

	return serviceFixture{
		service:   service,
		users:     users,
		contracts: contracts,
		holidays:  holidayRepo,
		stats:     statsRepo,
		bus:       bus,
	}
}

func (f serviceFixture) createUser(t *testing.T, token string, active bool) user.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), user.User{Token: token, Name: token, Active: active})
	require.NoError(t, err)
	return u
}

func (f serviceFixture) createContract(t *testing.T, u user.User, from time.Time) contract.Contract {
	t.Helper()
	c := fullTime(0, from, 8, 24, 4000)
	c.UserId = u.Id
	created, err := f.contracts.CreateContract(context.Background(), c)
	require.NoError(t, err)
	return created
}

func (f serviceFixture) addBusinessHoliday(t *testing.T, d time.Time, name string) {
	t.Helper()
	_, err := f.holidays.Upsert(context.Background(), holiday.Day{Uuid: name, Type: holiday.BusinessHoliday, Name: name, Date: d})
	require.NoError(t, err)
}

func TestService_ByYear(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	u := f.createUser(t, "anna", true)
	f.createContract(t, u, date(2015, time.March, 1))
	f.addBusinessHoliday(t, date(2016, time.January, 1), "Neujahr")
	userId := u.Id
	_, err := f.holidays.Upsert(ctx, holiday.Day{Uuid: "vacation", Type: holiday.PersonalHoliday, Name: "Urlaub", Date: date(2016, time.July, 4), UserId: &userId})
	require.NoError(t, err)
	require.NoError(t, f.stats.Upsert(ctx, stats.Stats{UserId: u.Id, Date: date(2016, time.July, 5), Total: 6 * time.Hour, Billable: 2 * time.Hour, BillableSum: 200}))

	r, err := f.service.ByYear(ctx, u, 2016)

	require.NoError(t, err)
	assert.Equal(t, 2016, r.Year)
	assert.Len(t, r.Days(), 366)

	newYear, ok := r.Day(date(2016, time.January, 1))
	require.True(t, ok)
	assert.Equal(t, "Neujahr", newYear.BusinessHoliday)
	assert.Zero(t, newYear.TimeTarget)

	vacation, ok := r.Day(date(2016, time.July, 4))
	require.True(t, ok)
	assert.Equal(t, "Urlaub", vacation.PersonalHoliday)
	assert.Equal(t, 1, r.PersonalHolidaysPlanned())
	assert.Equal(t, 1, r.PersonalHolidaysPast())
	assert.Equal(t, 24, r.PersonalHolidays())

	tracked, ok := r.Day(date(2016, time.July, 5))
	require.True(t, ok)
	assert.Equal(t, 8*time.Hour, tracked.TimeTarget)
	assert.Equal(t, 6*time.Hour, tracked.TimeActual)
	require.NotNil(t, tracked.TimeStatus)
	assert.InDelta(t, 0.75, *tracked.TimeStatus, 1e-12)
}

func TestService_BuildReport_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no contract", func(t *testing.T) {
		f := setupService(t)
		u := f.createUser(t, "anna", true)

		_, err := f.service.ByYear(ctx, u, 2016)

		assert.ErrorIs(t, err, contract.ErrNoEffectiveContract)
	})

	t.Run("range across two years", func(t *testing.T) {
		f := setupService(t)
		u := f.createUser(t, "anna", true)
		f.createContract(t, u, date(2015, time.January, 1))

		_, err := f.service.BuildReport(ctx, u, date(2015, time.December, 1), date(2016, time.January, 31))

		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("store failure", func(t *testing.T) {
		f := setupService(t)
		u := f.createUser(t, "anna", true)
		f.createContract(t, u, date(2015, time.January, 1))
		storeErr := errors.New("connection refused")
		f.stats.Err = storeErr

		_, err := f.service.ByYear(ctx, u, 2016)

		assert.ErrorIs(t, err, storeErr)
	})
}

func TestService_BuildReport_PartialRange(t *testing.T) {
	f := setupService(t)
	u := f.createUser(t, "anna", true)
	f.createContract(t, u, date(2015, time.January, 1))

	r, err := f.service.BuildReport(context.Background(), u,
		time.Date(2016, time.March, 1, 15, 30, 0, 0, loc), date(2016, time.March, 31))

	require.NoError(t, err)
	require.Len(t, r.Days(), 31)
	assert.True(t, calendar.SameDay(date(2016, time.March, 1), r.From))
	assert.Equal(t, []time.Month{time.March}, r.Months())
}

func TestService_InvalidatesYearStatsAfterImport(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	u := f.createUser(t, "anna", true)
	f.createContract(t, u, date(2015, time.January, 1))

	_, err := f.service.ByYear(ctx, u, 2016)
	require.NoError(t, err)

	f.addBusinessHoliday(t, date(2016, time.May, 5), "Himmelfahrt")

	r, err := f.service.ByYear(ctx, u, 2016)
	require.NoError(t, err)
	day, _ := r.Day(date(2016, time.May, 5))
	assert.Empty(t, day.BusinessHoliday, "cached year statistics are used until invalidated")

	// personal imports keep the cache
	require.NoError(t, f.bus.Publish(event_bus.NewEvent(ctx, event_bus.HolidaysImportedType, event_bus.HolidaysImported{
		Business: false, From: date(2016, time.May, 5), To: date(2016, time.May, 5), Records: 1,
	})))
	r, err = f.service.ByYear(ctx, u, 2016)
	require.NoError(t, err)
	day, _ = r.Day(date(2016, time.May, 5))
	assert.Empty(t, day.BusinessHoliday)

	require.NoError(t, f.bus.Publish(event_bus.NewEvent(ctx, event_bus.HolidaysImportedType, event_bus.HolidaysImported{
		Business: true, From: date(2016, time.May, 5), To: date(2016, time.May, 5), Records: 1,
	})))
	r, err = f.service.ByYear(ctx, u, 2016)
	require.NoError(t, err)
	day, _ = r.Day(date(2016, time.May, 5))
	assert.Equal(t, "Himmelfahrt", day.BusinessHoliday)
	assert.Zero(t, day.TimeTarget)
}

// relayNotifier hands notifications straight to the bus of another process.
type relayNotifier struct {
	bus *event_bus.EventBus
}

func (n relayNotifier) Notify(ctx context.Context, channel string, payload string) error {
	return event_bus.RelayHolidayImport(ctx, n.bus, payload)
}

func TestService_InvalidatesYearStatsAfterImportInOtherProcess(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	u := f.createUser(t, "anna", true)
	f.createContract(t, u, date(2015, time.January, 1))

	_, err := f.service.ByYear(ctx, u, 2016)
	require.NoError(t, err)

	importerBus := event_bus.NewEventBus()
	t.Cleanup(event_bus.ForwardHolidayImports(importerBus, relayNotifier{bus: f.bus}))
	// the serving process forwards too, relayed events must not bounce back
	t.Cleanup(event_bus.ForwardHolidayImports(f.bus, relayNotifier{bus: importerBus}))

	f.addBusinessHoliday(t, date(2016, time.May, 5), "Himmelfahrt")
	require.NoError(t, importerBus.Publish(event_bus.NewEvent(ctx, event_bus.HolidaysImportedType, event_bus.HolidaysImported{
		Business: true, From: date(2016, time.May, 5), To: date(2016, time.May, 5), Records: 1,
	})))

	r, err := f.service.ByYear(ctx, u, 2016)
	require.NoError(t, err)
	day, _ := r.Day(date(2016, time.May, 5))
	assert.Equal(t, "Himmelfahrt", day.BusinessHoliday)
	assert.Zero(t, day.TimeTarget)
}

func TestService_TeamReports(t *testing.T) {
	ctx := context.Background()

	t.Run("skips users without contract", func(t *testing.T) {
		f := setupService(t)
		anna := f.createUser(t, "anna", true)
		f.createUser(t, "bert", true)
		clara := f.createUser(t, "clara", true)
		dora := f.createUser(t, "dora", false)
		f.createContract(t, anna, date(2015, time.January, 1))
		f.createContract(t, clara, date(2016, time.June, 1))
		f.createContract(t, dora, date(2015, time.January, 1))

		reports, err := f.service.TeamReports(ctx, 2016)

		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, "anna", reports[0].User.Name)
		assert.Equal(t, "clara", reports[1].User.Name)
	})

	t.Run("store failure", func(t *testing.T) {
		f := setupService(t)
		anna := f.createUser(t, "anna", true)
		f.createContract(t, anna, date(2015, time.January, 1))
		storeErr := errors.New("connection refused")
		f.holidays.Err = storeErr

		_, err := f.service.TeamReports(ctx, 2016)

		assert.ErrorIs(t, err, storeErr)
	})
}
