package loadgen

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/logger"
)

// Run executes a complete load run: health check, hit submission and
// leaderboard verification.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting arena load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("hits", cfg.Hits),
		logger.Int("players", cfg.Players),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	if err := checkServiceHealth(ctx, cfg); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	hits := generateHits(cfg.Hits, cfg.Players)
	stats.HitsGenerated = len(hits)

	submitHits(ctx, cfg, hits, stats)

	entries, err := getLeaderboard(ctx, cfg, stats)
	if err != nil {
		return stats, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	if err := verifyLeaderboard(ctx, entries, stats); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.BaseURL == "":
		return fmt.Errorf("%w: base url must not be empty", ErrInvalidConfig)
	case cfg.Hits < 1:
		return fmt.Errorf("%w: hits must be positive", ErrInvalidConfig)
	case cfg.Players < minPlayers:
		return fmt.Errorf("%w: need at least %d players", ErrInvalidConfig, minPlayers)
	case cfg.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	return nil
}

// checkServiceHealth verifies the server is up.
func checkServiceHealth(ctx context.Context, cfg *Config) error {
	client := newHTTPClient(cfg.Timeout)
	resp, err := client.Get(ctx, cfg.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return err
	}
	// Any 200 is healthy; the body is the Prometheus exposition.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// displayFinalStats logs the run summary.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, hitsPerSecond float64
	if stats.HitsSubmitted > 0 {
		successRate = float64(stats.HitsSuccessful) / float64(stats.HitsSubmitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		hitsPerSecond = float64(stats.HitsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("hitsGenerated", stats.HitsGenerated),
		logger.Int("hitsSubmitted", stats.HitsSubmitted),
		logger.Int("hitsSuccessful", stats.HitsSuccessful),
		logger.Int("hitsFailed", stats.HitsFailed),
		logger.Int("relationalErrors", stats.RelationalErrors),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("hitsPerSecond", hitsPerSecond))
}
