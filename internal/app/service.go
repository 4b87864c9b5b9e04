// Package service records player hits across the live, wide-column and
// relational stores and aggregates their views for the dashboard.
package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/combat"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/logger"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/metrics"
)

// Shown rows per dashboard panel.
const (
	LeaderboardSize = 10
	HistorySize     = 5
)

// LiveStore holds running leaderboard scores.
type LiveStore interface {
	IncrementScore(ctx context.Context, gameID, playerID string, delta float64) (float64, error)
	TopScores(ctx context.Context, gameID string, n int) ([]model.LeaderboardEntry, error)
}

// HistoryStore is the wide-column append log.
type HistoryStore interface {
	AppendSnapshot(ctx context.Context, snap model.StatSnapshot) error
	AppendEvent(ctx context.Context, ev model.GameEvent) error
	RecentSnapshots(ctx context.Context, playerID, limit int) ([]model.StatSnapshot, error)
	AppendArchive(ctx context.Context, rows []model.LeaderboardArchive) error
}

// StatsStore is the relational copy of player statistics.
type StatsStore interface {
	AppendStats(ctx context.Context, snap model.StatSnapshot) error
	RecentStats(ctx context.Context, playerID, limit int) ([]model.StatSnapshot, error)
}

// Service implements the arena operations shared by the dashboard and API.
type Service struct {
	live    LiveStore
	history HistoryStore
	stats   StatsStore

	gameID int
	now    func() time.Time
	nextID func() uuid.UUID
	logger logger.Logger
}

// New constructs a Service over the three stores.
func New(live LiveStore, history HistoryStore, stats StatsStore, opts ...Option) *Service {
	s := &Service{
		live:    live,
		history: history,
		stats:   stats,
		gameID:  1,
		now:     time.Now,
		nextID:  uuid.New,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GameID returns the game hits are recorded against.
func (s *Service) GameID() int { return s.gameID }

// HitResult reports the outcome of a hit. RelationalErr is set when the
// relational copy could not be written; the hit itself still counts.
type HitResult struct {
	Damage        int
	Score         float64
	EventID       uuid.UUID
	RelationalErr error
}

// PlayerHit records attacker hitting defender in every store, in order: live
// score, wide-column snapshot, wide-column event, relational snapshot. A live
// or wide-column failure aborts the remaining steps and leaves earlier writes
// in place. A relational failure is only reported in the result.
func (s *Service) PlayerHit(ctx context.Context, attackerID, defenderID int) (HitResult, error) {
	const op = "service.PlayerHit"
	if attackerID < 1 || defenderID < 1 {
		return HitResult{}, fmt.Errorf("%s: %w: %d -> %d", op, ErrInvalidPlayer, attackerID, defenderID)
	}

	hit := combat.NewHit(attackerID, defenderID)
	at := s.now()
	log := s.logger.With(
		logger.Int("attacker_id", attackerID),
		logger.Int("defender_id", defenderID),
	)

	score, err := s.live.IncrementScore(ctx, strconv.Itoa(s.gameID), strconv.Itoa(attackerID), float64(hit.Damage))
	if err != nil {
		return HitResult{}, fmt.Errorf("%s: live score: %w", op, err)
	}

	snap := hit.Snapshot(at)
	if err := s.history.AppendSnapshot(ctx, snap); err != nil {
		return HitResult{}, fmt.Errorf("%s: wide-column snapshot: %w", op, err)
	}

	ev, err := hit.Event(s.nextID(), at, s.gameID)
	if err != nil {
		return HitResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.history.AppendEvent(ctx, ev); err != nil {
		return HitResult{}, fmt.Errorf("%s: wide-column event: %w", op, err)
	}

	res := HitResult{Damage: hit.Damage, Score: score, EventID: ev.EventID}
	if err := s.stats.AppendStats(ctx, snap); err != nil {
		res.RelationalErr = err
		log.Warn(ctx, "relational copy not written", logger.Error(err))
		metrics.RecordErrorByComponent(metrics.StoreRelational, "dual_write")
	}

	metrics.RecordHit(hit.Damage)
	log.Debug(ctx, "hit recorded", logger.Float64("score", score))
	return res, nil
}

// Panel is one read-only view of a store. Err holds the read failure, if any.
type Panel[T any] struct {
	Rows []T
	Err  error
}

// PlayerPanels holds both persistent copies of one player's history.
type PlayerPanels struct {
	PlayerID   int
	WideColumn Panel[model.StatSnapshot]
	Relational Panel[model.StatSnapshot]
	// Divergence is set when both reads succeeded but the copies disagree.
	Divergence error
}

// Dashboard is the aggregated read view.
type Dashboard struct {
	Leaderboard Panel[model.LeaderboardEntry]
	Players     []PlayerPanels
}

// Dashboard reads the top leaderboard and recent history of each player.
// Every read is independent; a failing store only fills its own panel's Err.
func (s *Service) Dashboard(ctx context.Context, playerIDs ...int) Dashboard {
	var d Dashboard
	d.Leaderboard.Rows, d.Leaderboard.Err = s.live.TopScores(ctx, strconv.Itoa(s.gameID), LeaderboardSize)
	if d.Leaderboard.Err != nil {
		s.logger.Warn(ctx, "leaderboard panel failed", logger.Error(d.Leaderboard.Err))
	}

	for _, id := range playerIDs {
		d.Players = append(d.Players, s.PlayerHistory(ctx, id))
	}
	return d
}

// Leaderboard returns the top n live scores of the configured game.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]model.LeaderboardEntry, error) {
	entries, err := s.live.TopScores(ctx, strconv.Itoa(s.gameID), n)
	if err != nil {
		return nil, fmt.Errorf("service.Leaderboard: %w", err)
	}
	return entries, nil
}

// PlayerHistory reads both persistent copies of a player's recent stats and
// compares them when both reads succeed.
func (s *Service) PlayerHistory(ctx context.Context, playerID int) PlayerPanels {
	p := PlayerPanels{PlayerID: playerID}
	p.WideColumn.Rows, p.WideColumn.Err = s.history.RecentSnapshots(ctx, playerID, HistorySize)
	p.Relational.Rows, p.Relational.Err = s.stats.RecentStats(ctx, playerID, HistorySize)
	switch {
	case p.WideColumn.Err != nil:
		s.logger.Warn(ctx, "wide-column panel failed", logger.Int("player_id", playerID), logger.Error(p.WideColumn.Err))
	case p.Relational.Err != nil:
		s.logger.Warn(ctx, "relational panel failed", logger.Int("player_id", playerID), logger.Error(p.Relational.Err))
	default:
		p.Divergence = CompareCopies(p.WideColumn.Rows, p.Relational.Rows)
	}
	return p
}

// CompareCopies checks two newest-first histories of the same player row by
// row on player, kills and damage. Rows beyond the shorter history are not
// compared, but a length mismatch is reported.
func CompareCopies(wide, relational []model.StatSnapshot) error {
	n := min(len(wide), len(relational))
	for i := range n {
		w, r := wide[i], relational[i]
		if w.PlayerID != r.PlayerID || w.Kills != r.Kills || w.DamageDealt != r.DamageDealt {
			return fmt.Errorf("%w: row %d: wide-column %d/%d/%d, relational %d/%d/%d",
				ErrDivergentCopies, i,
				w.PlayerID, w.Kills, w.DamageDealt,
				r.PlayerID, r.Kills, r.DamageDealt)
		}
	}
	if len(wide) != len(relational) {
		return fmt.Errorf("%w: %d wide-column rows, %d relational rows",
			ErrDivergentCopies, len(wide), len(relational))
	}
	return nil
}

// ArchiveLeaderboard freezes the current top leaderboard into the
// wide-column archive, ranked from 1, under one snapshot time.
func (s *Service) ArchiveLeaderboard(ctx context.Context) ([]model.LeaderboardArchive, error) {
	const op = "service.ArchiveLeaderboard"

	top, err := s.live.TopScores(ctx, strconv.Itoa(s.gameID), LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	at := s.now()
	rows := make([]model.LeaderboardArchive, 0, len(top))
	for _, e := range top {
		playerID, err := strconv.Atoi(e.PlayerID)
		if err != nil {
			s.logger.Warn(ctx, "skipping non-numeric leaderboard member", logger.String("player_id", e.PlayerID))
			continue
		}
		rows = append(rows, model.LeaderboardArchive{
			GameID:       s.gameID,
			SnapshotTime: at,
			PlayerID:     playerID,
			Rank:         len(rows) + 1,
			Score:        e.Score,
		})
	}
	if len(rows) == 0 {
		return rows, nil
	}

	if err := s.history.AppendArchive(ctx, rows); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordArchiveRows(len(rows))
	s.logger.Info(ctx, "leaderboard archived", logger.Int("rows", len(rows)))
	return rows, nil
}
