package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportHolidaysCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import-holidays",
		Short: "Import business and personal holidays from the configured calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Holidays == nil {
				return ErrNoHolidaySource
			}
			if len(app.Feeds) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No calendars configured")
				return nil
			}

			users, err := app.aliasMap(cmd.Context())
			if err != nil {
				return err
			}
			results, err := app.Holidays.Import(cmd.Context(), app.Feeds, users)
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d holidays imported, %d events skipped\n", r.CalendarId, r.Records, r.Skipped)
			}
			return err
		},
	}
}
