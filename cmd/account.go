package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(app),
		newAccountRenameCmd(app),
		newAccountRemoveCmd(app),
	)

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := app.service.GetStatusAll(cmd.Context(), app.settings.Runner.StalenessThreshold)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}

			for _, status := range statuses {
				state := "no key"
				switch {
				case status.Stale:
					state = "stale since " + status.Account.Profile.VerifiedAt.Local().Format(time.DateTime)
				case status.Verified:
					state = "verified as " + status.Account.Profile.Username
				case status.HasCredential:
					state = "unverified"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", status.Account.ID, status.Account.Name, state)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print accounts as JSON")

	return cmd
}

func newAccountRenameCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "rename <name>",
		Short: "Change the display name of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveAccountID(cmd.Context(), app, accountID)
			if err != nil {
				return err
			}
			return app.service.SetAccountName(cmd.Context(), id, args[0])
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")

	return cmd
}

func newAccountRemoveCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove an account and its golden key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.service.RemoveAccount(cmd.Context(), domainAccountID(accountID))
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
