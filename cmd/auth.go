package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Halone228/funpay-api/internal/application"
	"github.com/Halone228/funpay-api/internal/domain"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage account golden keys",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var accountID string
	var name string
	var goldenKey string
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the golden_key cookie of an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fromStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read golden key from stdin: %w", err)
				}
				goldenKey = line
			}
			if strings.TrimSpace(goldenKey) == "" {
				return errors.New("a golden key is required: pass --golden-key or --stdin")
			}

			id, err := resolveAccountID(cmd.Context(), app, accountID)
			if err != nil {
				return err
			}

			if err := app.service.SetAuth(cmd.Context(), application.SetAuthCommand{
				ID:        id,
				Name:      name,
				GoldenKey: goldenKey,
			}); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "golden key stored for account %s\n", id)
			return err
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID (defaults to the only account, or \"main\")")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&goldenKey, "golden-key", "", "Value of the golden_key cookie")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the golden key from stdin")
	cmd.MarkFlagsMutuallyExclusive("golden-key", "stdin")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the golden key of an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.service.RemoveAuth(cmd.Context(), application.RemoveAuthCommand{ID: domainAccountID(accountID)})
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func domainAccountID(raw string) domain.AccountID {
	return domain.AccountID(strings.TrimSpace(raw))
}
