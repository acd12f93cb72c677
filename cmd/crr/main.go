// Command crr prices European and American options on a CRR binomial lattice.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"crr-pricer/internal/cli"
	"crr-pricer/internal/logging"
)

func main() {
	logger := logging.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd(logger)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}
