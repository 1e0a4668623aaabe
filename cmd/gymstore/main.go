package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/gymstore/adapter/cli"
	"github.com/felixgeelhaar/gymstore/adapter/cli/account"
	"github.com/felixgeelhaar/gymstore/adapter/cli/catalog"
	"github.com/felixgeelhaar/gymstore/internal/app"
	"github.com/felixgeelhaar/gymstore/pkg/config"
	"github.com/felixgeelhaar/gymstore/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		// Only commands without a store (version) work in this mode.
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()
		cli.SetApp(container)
	}

	cli.AddCommand(account.Cmd)
	cli.AddCommand(catalog.Cmd)

	cli.Execute(ctx)
}
