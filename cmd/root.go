package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fp",
		Short:         "FunPay CLI (fp): watch chats and orders of a FunPay account",
		Long:          "fp stores FunPay golden keys, shows chats and sales, sends messages and streams new messages and order status changes as events.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		_ = app.logger.Sync()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newAuthCmd(app),
		newWhoamiCmd(app),
		newChatsCmd(app),
		newOrdersCmd(app),
		newSendCmd(app),
		newListenCmd(app),
	)

	return rootCmd
}
