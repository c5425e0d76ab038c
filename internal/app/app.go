package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/internal/cli"
	"github.com/klokku/ledger/internal/config"
	"github.com/klokku/ledger/internal/database"
	"github.com/klokku/ledger/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

const listenRetryDelay = 5 * time.Second

// Application wires configuration, database, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	db     *pgxpool.Pool
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full application, ready to Run() or to drive the CLI.
func NewApplication(ctx context.Context, configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// DB + migrations
	if err := database.Migrate(cfg.Database); err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	deps, err := BuildDependencies(ctx, db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	r := mux.NewRouter()

	// Middleware chain
	SetupMiddleware(r, deps)

	// Routes
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, db: db, deps: deps, router: r, srv: srv}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	listenCtx, stopListening := context.WithCancel(ctx)
	defer stopListening()
	go a.listenForHolidayImports(listenCtx)

	errs := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		errs <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// listenForHolidayImports relays holiday imports of other processes, such as the
// import-holidays command, onto the local event bus. Cached year statistics are dropped
// whenever the subscription is (re)established, since notifications sent in between are lost.
func (a *Application) listenForHolidayImports(ctx context.Context) {
	for {
		err := database.Listen(ctx, a.db, event_bus.HolidaysImportedChannel, a.deps.YearStats.InvalidateAll,
			func(ctx context.Context, payload string) error {
				return event_bus.RelayHolidayImport(ctx, a.deps.EventBus, payload)
			})
		if ctx.Err() != nil {
			return
		}
		log.Errorf("holiday import listener stopped, retrying in %s: %v", listenRetryDelay, err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(listenRetryDelay):
		}
	}
}

// CLI exposes the services to the command line.
func (a *Application) CLI() *cli.App {
	return &cli.App{
		Users:     a.deps.UserService,
		Contracts: a.deps.ContractService,
		Reports:   a.deps.ReportService,
		Renderer:  a.deps.CsvReportRenderer,
		Overtime:  a.deps.OvertimeService,
		Stats:     a.deps.StatsService,
		Holidays:  a.deps.holidayImporter(),
		Feeds:     a.deps.Feeds,
		Aliases:   a.cfg.Users,
		Location:  a.deps.Location,
		Clock:     a.deps.Clock,
		Serve:     a.Run,
	}
}

func (a *Application) Close() {
	a.deps.unsubscribe()
	a.db.Close()
}
