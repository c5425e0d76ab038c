package cli

import (
	"fmt"

	"github.com/klokku/ledger/pkg/contract"
	"github.com/spf13/cobra"
)

func newContractCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Manage contracts",
	}

	cmd.AddCommand(newContractAddCmd(app))

	return cmd
}

func newContractAddCmd(app *App) *cobra.Command {
	var token, from, days string
	var hours, costs, offset float64
	var holidays int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contract that applies from a given day on",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Users.GetUserByToken(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("user %q: %w", token, err)
			}
			date, err := app.parseDate(from)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", from, err)
			}
			workingDays, ok := contract.ParseWeekdaySet(days)
			if !ok {
				return fmt.Errorf("invalid working days %q", days)
			}

			created, err := app.Contracts.CreateContract(cmd.Context(), contract.Contract{
				UserId:             u.Id,
				Date:               date,
				WorkingDays:        workingDays,
				WorkingHoursPerDay: hours,
				HolidaysPerYear:    holidays,
				CostsPerMonth:      costs,
				OvertimeOffset:     offset,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created contract %d for %s from %s (%s, %.2f h/day)\n",
				created.Id, u.Name, from, created.WorkingDays, created.WorkingHoursPerDay)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "user", "", "User token")
	cmd.Flags().StringVar(&from, "from", "", "First day of the contract (YYYY-MM-DD)")
	cmd.Flags().StringVar(&days, "days", "mon,tue,wed,thu,fri", "Working days")
	cmd.Flags().Float64Var(&hours, "hours", 8, "Working hours per day")
	cmd.Flags().IntVar(&holidays, "holidays", 0, "Holidays per year")
	cmd.Flags().Float64Var(&costs, "costs", 0, "Costs per month")
	cmd.Flags().Float64Var(&offset, "overtime-offset", 0, "Overtime balance at the start of the contract")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}
