package cli

import (
	"fmt"

	"github.com/klokku/ledger/pkg/user"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
	)

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var token, name string
	var togglId int64
	var inactive bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := user.User{
				Name:   name,
				Token:  token,
				Active: !inactive,
			}
			if togglId > 0 {
				u.TogglId = &togglId
			}

			created, err := app.Users.CreateUser(cmd.Context(), u)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s [%s] with id %d\n", created.Name, created.Token, created.Id)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Login token, also used to match calendar entries")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the token)")
	cmd.Flags().Int64Var(&togglId, "toggl-id", 0, "Toggl user id")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Exclude the user from imports and team reports")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.GetActiveUsers(cmd.Context())
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%.2f\n", u.Id, u.Token, u.Name, u.Overtime)
			}
			return nil
		},
	}
}
