// Command arena-load submits concurrent hits to a running arena server and
// verifies the resulting leaderboard.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/loadgen"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/logger"
)

// Default configuration constants.
const (
	defaultHits     = 1000
	defaultPlayers  = 20
	defaultWorkers  = 2 // multiplier for runtime.NumCPU()
	defaultTimeout  = 10 * time.Second
	defaultDeadline = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8501", "Base URL of the arena server")
		hits    = flag.Int("hits", defaultHits, "Number of hits to submit")
		players = flag.Int("players", defaultPlayers, "Number of distinct player ids")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		format  = flag.String("log-format", "text", "Log format: text or json")
		verbose = flag.Bool("verbose", false, "Log every failed request")
	)
	flag.Parse()

	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultDeadline)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)

	_, err := loadgen.Run(ctx, &loadgen.Config{
		BaseURL: *baseURL,
		Hits:    *hits,
		Players: *players,
		Workers: *workers,
		Timeout: *timeout,
		Verbose: *verbose,
	})
	stop()
	cancel()
	if err != nil {
		logger.Get().Error(context.Background(), "load run failed", logger.Error(err))
		os.Exit(1)
	}
}
