package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Halone228/funpay-api/internal/domain"
)

func newSendCmd(app *app) *cobra.Command {
	var accountID string
	var mode string

	cmd := &cobra.Command{
		Use:   "send <chat-id> <text...>",
		Short: "Send a message to a chat",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || chatID <= 0 {
				return fmt.Errorf("invalid chat id %q", args[0])
			}
			text := strings.Join(args[1:], " ")

			scheduling, err := parseFacadeMode(mode)
			if err != nil {
				return err
			}
			id, err := resolveAccountID(cmd.Context(), app, accountID)
			if err != nil {
				return err
			}

			facade, _, _, err := app.openFacade(cmd.Context(), id, scheduling)
			if err != nil {
				return err
			}
			message, err := facade.SendMessage(cmd.Context(), domain.ChatID(chatID), text)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "sent message %d to chat %d\n", message.ID, message.ChatID)
			return err
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	cmd.Flags().StringVar(&mode, "mode", string(modeBlocking), "Scheduling mode (blocking|concurrent)")

	return cmd
}
