// Command arena-stats is an interactive menu over the Cassandra history
// tables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	service "github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/app"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/config"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/inspect"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	_ = logger.SetLevelString(cfg.LogLevel)
	log := logger.Named("arena-stats")

	store, err := service.ConnectWideColumn(cfg.Cassandra)
	if err != nil {
		log.Error(ctx, "failed to connect to cassandra", logger.Any("hosts", cfg.Cassandra.Hosts), logger.Error(err))
		return
	}
	defer store.Close()

	if err := inspect.NewStatsMenu(store, os.Stdin, os.Stdout).Run(ctx); err != nil {
		log.Error(ctx, "menu stopped", logger.Error(err))
	}
}
