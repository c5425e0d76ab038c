package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var token string
	var year int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the yearly report of a user as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Users.GetUserByToken(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("user %q: %w", token, err)
			}
			if year == 0 {
				year = app.Clock.Now().In(app.Location).Year()
			}

			r, err := app.Reports.ByYear(cmd.Context(), u, year)
			if err != nil {
				return err
			}
			csv, err := app.Renderer.Render(r)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), csv)
			return err
		},
	}

	cmd.Flags().StringVar(&token, "user", "", "User token")
	cmd.Flags().IntVar(&year, "year", 0, "Year, defaults to the current year")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
