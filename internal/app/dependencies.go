package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/internal/cli"
	"github.com/klokku/ledger/internal/config"
	"github.com/klokku/ledger/internal/database"
	"github.com/klokku/ledger/internal/event_bus"
	"github.com/klokku/ledger/internal/utils"
	"github.com/klokku/ledger/pkg/calendar"
	"github.com/klokku/ledger/pkg/contract"
	"github.com/klokku/ledger/pkg/google"
	"github.com/klokku/ledger/pkg/holiday"
	"github.com/klokku/ledger/pkg/overtime"
	"github.com/klokku/ledger/pkg/report"
	"github.com/klokku/ledger/pkg/stats"
	"github.com/klokku/ledger/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Location *time.Location
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	ContractService contract.Service

	HolidayRepository holiday.Repository
	HolidayService    *holiday.ServiceImpl
	HolidayImporter   *holiday.Importer
	Feeds             []holiday.Feed

	StatsService stats.Service

	YearStats         *calendar.YearStatsCache
	ReportService     *report.ServiceImpl
	CsvReportRenderer *report.CsvReportRendererImpl
	ReportHandler     *report.Handler

	OvertimeService *overtime.ServiceImpl

	unsubscribe func()
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(ctx context.Context, db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	loc, err := cfg.Common.Location()
	if err != nil {
		return nil, err
	}
	feeds, err := feedsFromConfig(cfg.Calendars)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Location: loc,
		Clock:    utils.SystemClock{},
		EventBus: event_bus.NewEventBus(),
		Feeds:    feeds,
	}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.ContractService = contract.NewService(contract.NewRepository(db, loc))

	deps.HolidayRepository = holiday.NewRepository(db, loc)
	deps.HolidayService = holiday.NewService(deps.HolidayRepository)

	deps.StatsService = stats.NewService(stats.NewRepository(db, loc))

	deps.YearStats = calendar.NewYearStatsCache(deps.HolidayService.BusinessHolidayLoader(), loc)
	settings := report.Settings{
		Location:  loc,
		Rate:      cfg.Common.Rate,
		WeekStart: cfg.Common.WeekStart(),
	}
	deps.ReportService = report.NewService(deps.UserService, deps.ContractService, deps.HolidayService,
		deps.StatsService, deps.YearStats, deps.Clock, settings)
	unsubscribeInvalidation := deps.ReportService.SubscribeInvalidation(deps.EventBus)
	unsubscribeForward := event_bus.ForwardHolidayImports(deps.EventBus, database.NewNotifier(db))
	deps.unsubscribe = func() {
		unsubscribeForward()
		unsubscribeInvalidation()
	}
	deps.CsvReportRenderer = report.NewCsvReportRenderer()
	deps.ReportHandler = report.NewHandler(deps.ReportService, deps.CsvReportRenderer, deps.Clock, settings)

	deps.OvertimeService = overtime.NewService(deps.UserService, deps.ContractService, deps.ReportService, deps.Clock, loc)

	calendarService, err := google.NewCalendarService(ctx, cfg.Google)
	switch {
	case errors.Is(err, google.ErrNoCredentials):
		log.Warn("No google credentials configured, holiday import is disabled")
	case err != nil:
		return nil, err
	default:
		deps.HolidayImporter = holiday.NewImporter(deps.HolidayRepository, google.NewFeedReader(calendarService, loc),
			deps.EventBus, deps.Clock, loc)
	}

	return deps, nil
}

// holidayImporter keeps a missing importer a nil interface.
func (d *Dependencies) holidayImporter() cli.HolidayImporter {
	if d.HolidayImporter == nil {
		return nil
	}
	return d.HolidayImporter
}

func feedsFromConfig(calendars []config.CalendarFeed) ([]holiday.Feed, error) {
	feeds := make([]holiday.Feed, 0, len(calendars))
	for _, c := range calendars {
		t, ok := holiday.ParseType(c.Type)
		if !ok {
			return nil, fmt.Errorf("calendar %s: unknown holiday type %q", c.Id, c.Type)
		}
		feeds = append(feeds, holiday.Feed{
			CalendarId: c.Id,
			Type:       t,
			Excused:    c.Excused,
			Overtime:   c.Overtime,
		})
	}
	return feeds, nil
}
