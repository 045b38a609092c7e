package cmd

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Halone228/funpay-api/internal/account"
	statusadapter "github.com/Halone228/funpay-api/internal/adapters/render/status"
	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/updater"
)

func newWhoamiCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Sign in with the stored golden key and show the account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := resolveAccountID(cmd.Context(), app, accountID)
			if err != nil {
				return err
			}

			var overview statusadapter.Overview
			err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Signing in to FunPay...", func(ctx context.Context) error {
				_, acc, identity, err := app.openFacade(ctx, id, modeBlocking)
				if err != nil {
					return err
				}
				overview = statusadapter.Overview{Account: acc, Identity: identity}
				return nil
			})
			if err != nil {
				return err
			}

			rendered, err := app.render(overview, statusadapter.RenderOptions{
				Now:        app.now(),
				StaleAfter: app.settings.Runner.StalenessThreshold,
			})
			if err != nil {
				return fmt.Errorf("render account: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")

	return cmd
}

func newChatsCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "chats",
		Short: "List chats with their newest message",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := resolveAccountID(cmd.Context(), app, accountID)
			if err != nil {
				return err
			}

			facade, _, _, err := app.openFacade(cmd.Context(), id, modeBlocking)
			if err != nil {
				return err
			}
			chats, err := facade.Chats(cmd.Context())
			if err != nil {
				return fmt.Errorf("list chats: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), statusadapter.RenderChats(chats))
			return err
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")

	return cmd
}

func newOrdersCmd(app *app) *cobra.Command {
	var accountID string
	var status string

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List sales, following pagination up to runner.page_cap pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter domain.OrderStatus
			if status != "" {
				parsed, err := domain.ParseOrderStatus(status)
				if err != nil {
					return err
				}
				filter = parsed
			}

			id, err := resolveAccountID(cmd.Context(), app, accountID)
			if err != nil {
				return err
			}

			facade, _, _, err := app.openFacade(cmd.Context(), id, modeBlocking)
			if err != nil {
				return err
			}
			orders, err := listOrders(cmd.Context(), facade, app.settings.Runner.PageCap, filter)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), statusadapter.RenderOrders(orders))
			return err
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	cmd.Flags().StringVar(&status, "status", "", "Only show orders with this status (new|paid|in_progress|closed|refunded)")

	return cmd
}

// listOrders collects the sales pages the way one runner cycle does and
// returns them newest id first.
func listOrders(ctx context.Context, facade account.Facade, pageCap int, filter domain.OrderStatus) ([]domain.OrderState, error) {
	snapshot, err := updater.NewBuilder(facade, pageCap).Orders(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := slices.SortedFunc(maps.Values(snapshot.Entities), func(a, b domain.OrderState) int {
		return cmp.Compare(b.ID, a.ID)
	})
	if filter != "" {
		orders = slices.DeleteFunc(orders, func(order domain.OrderState) bool {
			return order.Status != filter
		})
	}
	return orders, nil
}
