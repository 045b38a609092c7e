package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Halone228/funpay-api/internal/account"
	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/updater"
)

func newListenCmd(app *app) *cobra.Command {
	var accountID string
	var mode string
	var sinkNames []string
	var emitInitial bool
	var autoReply string

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Poll the account and stream new messages and order changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			scheduling, err := parseFacadeMode(mode)
			if err != nil {
				return err
			}
			id, err := resolveAccountID(cmd.Context(), app, accountID)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sinks, err := app.openSinks(ctx, cmd.OutOrStdout(), sinkNames)
			if err != nil {
				return err
			}
			defer func() {
				if err := sinks.Close(); err != nil {
					app.logger.Warn("close sinks", zap.Error(err))
				}
			}()

			// Messages this process sends must not come back as events.
			var runner *updater.Runner
			facade, _, identity, err := app.openFacade(ctx, id, scheduling, account.OnSent(func(message domain.Message) {
				runner.IgnoreSent(message)
			}))
			if err != nil {
				return err
			}

			cfg := app.settings.Runner
			if emitInitial {
				cfg.EmitInitial = true
			}
			runner = updater.New(facade, cfg, updater.WithLogger(app.logger.Named("updater")))

			app.logger.Info("listening",
				zap.String("account", string(id)),
				zap.String("username", identity.Username),
				zap.String("mode", string(scheduling)),
				zap.Strings("sinks", sinkNames),
			)

			handle := func(event domain.Event) {
				if err := sinks.Publish(ctx, event); err != nil {
					app.logger.Warn("publish event", zap.Uint64("seq", event.Meta().Seq), zap.Error(err))
				}
				if autoReply == "" {
					return
				}
				if err := replyTo(ctx, facade, identity, event, autoReply); err != nil {
					app.logger.Warn("auto reply", zap.Error(err))
				}
			}

			return consume(ctx, runner, scheduling, handle)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	cmd.Flags().StringVar(&mode, "mode", string(modeBlocking), "Scheduling mode (blocking|concurrent)")
	cmd.Flags().StringSliceVar(&sinkNames, "sink", []string{"text"}, "Event sinks (text|json|redis|websocket), repeatable")
	cmd.Flags().BoolVar(&emitInitial, "emit-initial", false, "Announce every chat and order found by the first poll")
	cmd.Flags().StringVar(&autoReply, "auto-reply", "", "Answer every incoming message with this text")

	return cmd
}

// consume drains the runner through the iterator in blocking mode and
// through Listen in concurrent mode.
func consume(ctx context.Context, runner *updater.Runner, mode facadeMode, handle func(domain.Event)) error {
	if mode == modeConcurrent {
		updates, err := runner.Listen(ctx)
		if err != nil {
			return err
		}
		for update := range updates {
			if update.Err != nil {
				return update.Err
			}
			handle(update.Event)
		}
		return nil
	}

	for event, err := range runner.Events(ctx) {
		if err != nil {
			return err
		}
		handle(event)
	}
	return nil
}

// replyTo answers messages written by the counterpart. Preview messages are
// skipped since their author is unknown.
func replyTo(ctx context.Context, facade account.Facade, self domain.Identity, event domain.Event, text string) error {
	incoming, ok := event.(domain.NewMessageEvent)
	if !ok {
		return nil
	}
	message := incoming.Message
	if message.FromPreview || message.ByBot || message.AuthorID == 0 || message.AuthorID == self.UserID {
		return nil
	}

	_, err := facade.SendMessage(ctx, message.ChatID, text)
	return err
}
