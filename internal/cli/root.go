package cli

import (
	"context"
	"errors"
	"time"

	"github.com/klokku/ledger/internal/utils"
	"github.com/klokku/ledger/pkg/contract"
	"github.com/klokku/ledger/pkg/holiday"
	"github.com/klokku/ledger/pkg/overtime"
	"github.com/klokku/ledger/pkg/report"
	"github.com/klokku/ledger/pkg/stats"
	"github.com/klokku/ledger/pkg/user"
	"github.com/spf13/cobra"
)

var ErrNoHolidaySource = errors.New("no holiday calendar source configured")

type HolidayImporter interface {
	Import(ctx context.Context, feeds []holiday.Feed, users user.AliasMap) ([]holiday.ImportResult, error)
}

// App holds references to all services used by CLI commands.
type App struct {
	Users     user.Service
	Contracts contract.Service
	Reports   report.Service
	Renderer  report.Renderer
	Overtime  overtime.Service
	Stats     stats.Service
	// Holidays is nil when no calendar credentials are configured.
	Holidays HolidayImporter
	Feeds    []holiday.Feed
	// Aliases maps user tokens to the names they appear with in calendars and exports.
	Aliases  map[string][]string
	Location *time.Location
	Clock    utils.Clock
	Serve    func(ctx context.Context) error
}

// NewRootCmd creates the top-level "ledger" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ledger",
		Short:         "Working time, holiday and revenue reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(app),
		newImportHolidaysCmd(app),
		newUpdateOvertimesCmd(app),
		newStatsCmd(app),
		newUserCmd(app),
		newContractCmd(app),
		newReportCmd(app),
	)

	return root
}

func (app *App) aliasMap(ctx context.Context) (user.AliasMap, error) {
	users, err := app.Users.GetActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	return user.NewAliasMap(users, app.Aliases), nil
}

func (app *App) parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, value, app.Location)
}
