package loadgen

import (
	"context"
	"fmt"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/logger"
)

// verifyLeaderboard checks that entries are ranked by descending score and
// that no listed player scores below the damage acknowledged for them.
// Scores may exceed the tally when the game already had history.
func verifyLeaderboard(ctx context.Context, entries []Entry, stats *Stats) error {
	for i := 1; i < len(entries); i++ {
		if entries[i].Score > entries[i-1].Score {
			return fmt.Errorf("%w: entry %d outranks entry %d", ErrInconsistent, i, i-1)
		}
	}
	for _, e := range entries {
		want, ok := stats.DamageByPlayer[e.PlayerID]
		if !ok {
			continue
		}
		if e.Score < float64(want) {
			return fmt.Errorf("%w: player %s has %.0f, submitted %d damage",
				ErrInconsistent, e.PlayerID, e.Score, want)
		}
	}

	log := logger.Get()
	for _, e := range entries {
		log.Info(ctx, "leaderboard",
			logger.Int("rank", e.Rank),
			logger.String("player", e.PlayerID),
			logger.Float64("score", e.Score),
			logger.Int("submitted", stats.DamageByPlayer[e.PlayerID]))
	}
	return nil
}
