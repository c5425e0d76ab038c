package cli

import (
	"fmt"
	"os"

	"github.com/klokku/ledger/pkg/stats"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Manage tracked time",
	}

	cmd.AddCommand(newStatsImportCmd(app))

	return cmd
}

func newStatsImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import daily stats (date, user, total, billable, billable_sum)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening stats file: %w", err)
			}
			defer file.Close()

			records, err := stats.ReadCSV(file, app.Location)
			if err != nil {
				return err
			}
			users, err := app.aliasMap(cmd.Context())
			if err != nil {
				return err
			}
			result, err := app.Stats.Import(cmd.Context(), records, users)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records, skipped %d\n", result.Stored, result.Skipped)
			return nil
		},
	}
}
