package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mahfuzr/hisab/app"
	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/infra"
	"github.com/mahfuzr/hisab/infra/lock"
	infrarepo "github.com/mahfuzr/hisab/infra/repository"
	"github.com/mahfuzr/hisab/infra/scheduler"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.Default()

	cfg, err := config.Load(logger)
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	db, err := infra.NewDBConnection(cfg.DB.Url)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	uow := infrarepo.NewUoW(db)
	svcs := app.BuildServices(uow, cfg, logger)

	sweeper := scheduler.New(uow, svcs.Recurring,
		lock.NewPostgresAdvisory(db, cfg.Recurring.LockKey), cfg.Recurring, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	fiberApp := app.New(svcs, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	logger.Info("starting server", "env", cfg.Env, "address", addr)
	return fiberApp.Listen(addr)
}
