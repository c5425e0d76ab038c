package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUpdateOvertimesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "update-overtimes",
		Short: "Recalculate the overtime balance of all active users",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Overtime.UpdateAll(cmd.Context())
			for _, b := range result.Balances {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2f h\n", b.User.Name, b.Overtime)
			}
			for _, name := range result.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no effective contract, skipped\n", name)
			}
			return err
		},
	}
}
