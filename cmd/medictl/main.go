// Command medictl runs the response pipeline locally, holds interactive
// dialogues, prepares training datasets and shows stored history.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"medi-response-service/internal/app"
	"medi-response-service/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var application *app.Application

	root := &cobra.Command{
		Use:           "medictl",
		Short:         "Operate the medi response pipeline",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			application = app.New(config.Load())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if application != nil {
				application.Shutdown()
			}
		},
	}
	appFn := func() *app.Application { return application }

	root.AddCommand(
		newRespondCmd(appFn),
		newChatCmd(appFn),
		newDatasetCmd(),
		newHistoryCmd(appFn),
	)
	return root
}
