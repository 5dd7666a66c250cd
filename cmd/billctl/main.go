package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mrstraders/paddybill/internal/cli"
	"github.com/mrstraders/paddybill/internal/config"
	"github.com/mrstraders/paddybill/internal/wire"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	// Console output belongs to the command; only warnings reach the log.
	cfg.Log.Level = "warn"
	cfg.App.Debug = false

	logger, err := config.NewLogger(cfg.Log, cfg.App)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	rootCmd := cli.RootCmd(func(ctx context.Context) (*wire.Container, error) {
		return wire.Build(ctx, cfg, logger.Named("billctl"))
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Debug("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
