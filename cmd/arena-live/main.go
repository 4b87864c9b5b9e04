// Command arena-live is an interactive menu over the Redis live store.
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
	// Menu output owns stdout; logs go to stderr.
	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	_ = logger.SetLevelString(cfg.LogLevel)
	log := logger.Named("arena-live")

	store, err := service.ConnectLive(ctx, cfg.Redis, log)
	if err != nil {
		log.Error(ctx, "failed to connect to redis", logger.String("addr", cfg.Redis.Addr), logger.Error(err))
		return
	}
	defer func() { _ = store.Close() }()

	if err := inspect.NewLiveMenu(store, os.Stdin, os.Stdout).Run(ctx); err != nil {
		log.Error(ctx, "menu stopped", logger.Error(err))
	}
}
