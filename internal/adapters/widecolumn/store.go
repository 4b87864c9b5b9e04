// Package widecolumn appends player statistics, analytics events and
// leaderboard archives to Cassandra.
package widecolumn

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/metrics"
)

// RecentLimit is the number of snapshots shown per player.
const RecentLimit = 5

const (
	insertSnapshot = `INSERT INTO player_statistics ` +
		`(player_id, snapshot_time, kills, damage_dealt, playtime_seconds, resources_collected) ` +
		`VALUES (?, ?, ?, ?, ?, ?)`
	selectSnapshots = `SELECT player_id, snapshot_time, kills, damage_dealt, playtime_seconds, resources_collected ` +
		`FROM player_statistics WHERE player_id = ?`
	selectRecentSnapshots = selectSnapshots + ` LIMIT ?`

	insertEvent = `INSERT INTO game_analytics_events ` +
		`(event_id, event_type, event_time, player_id, game_id, details) ` +
		`VALUES (?, ?, ?, ?, ?, ?)`
	selectEventsByPlayer = `SELECT event_id, event_type, event_time, player_id, game_id, details ` +
		`FROM game_analytics_events WHERE player_id = ? ALLOW FILTERING`

	insertArchive = `INSERT INTO leaderboard_archives ` +
		`(game_id, snapshot_time, player_id, rank, score) VALUES (?, ?, ?, ?, ?)`
	selectArchivesByGame = `SELECT game_id, snapshot_time, player_id, rank, score ` +
		`FROM leaderboard_archives WHERE game_id = ? ALLOW FILTERING`
)

// Store is the Cassandra-backed history store.
type Store struct {
	session Session
}

// New wraps a session.
func New(session Session) *Store {
	return &Store{session: session}
}

// Close closes the underlying session.
func (s *Store) Close() {
	s.session.Close()
}

func observe(op string, start time.Time, err error) {
	metrics.RecordStoreOperation(metrics.StoreWideColumn, op, time.Since(start), err)
}

// AppendSnapshot inserts one player_statistics row.
func (s *Store) AppendSnapshot(ctx context.Context, snap model.StatSnapshot) (err error) {
	const op = "insert_snapshot"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	err = s.session.Exec(ctx, insertSnapshot,
		snap.PlayerID, snap.Timestamp, snap.Kills,
		snap.DamageDealt, snap.PlaytimeSeconds, snap.ResourcesCollected)
	if err != nil {
		return fmt.Errorf("widecolumn.AppendSnapshot: %w", err)
	}
	return nil
}

// RecentSnapshots returns up to limit snapshots of a player in clustering
// order (newest first).
func (s *Store) RecentSnapshots(ctx context.Context, playerID, limit int) (out []model.StatSnapshot, err error) {
	const op = "select_recent_snapshots"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	out, err = scanSnapshots(s.session.Iter(ctx, selectRecentSnapshots, playerID, limit))
	if err != nil {
		return nil, fmt.Errorf("widecolumn.RecentSnapshots: %w", err)
	}
	return out, nil
}

// Snapshots returns every snapshot of a player, newest first.
func (s *Store) Snapshots(ctx context.Context, playerID int) (out []model.StatSnapshot, err error) {
	const op = "select_snapshots"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	out, err = scanSnapshots(s.session.Iter(ctx, selectSnapshots, playerID))
	if err != nil {
		return nil, fmt.Errorf("widecolumn.Snapshots: %w", err)
	}
	return out, nil
}

func scanSnapshots(iter Iter) ([]model.StatSnapshot, error) {
	var (
		out []model.StatSnapshot
		row model.StatSnapshot
	)
	for iter.Scan(&row.PlayerID, &row.Timestamp, &row.Kills,
		&row.DamageDealt, &row.PlaytimeSeconds, &row.ResourcesCollected) {
		out = append(out, row)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendEvent inserts one game_analytics_events row. Details are stored as
// text.
func (s *Store) AppendEvent(ctx context.Context, ev model.GameEvent) (err error) {
	const op = "insert_event"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	err = s.session.Exec(ctx, insertEvent,
		gocql.UUID(ev.EventID), ev.EventType, ev.EventTime,
		ev.PlayerID, ev.GameID, string(ev.Details))
	if err != nil {
		return fmt.Errorf("widecolumn.AppendEvent: %w", err)
	}
	return nil
}

// EventsByPlayer scans every event of a player. The filter is not on the
// partition key, so this walks the whole table.
func (s *Store) EventsByPlayer(ctx context.Context, playerID int) (out []model.GameEvent, err error) {
	const op = "select_events"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	iter := s.session.Iter(ctx, selectEventsByPlayer, playerID)
	var (
		id      gocql.UUID
		details string
		ev      model.GameEvent
	)
	for iter.Scan(&id, &ev.EventType, &ev.EventTime, &ev.PlayerID, &ev.GameID, &details) {
		ev.EventID = uuid.UUID(id)
		ev.Details = []byte(details)
		out = append(out, ev)
	}
	if err = iter.Close(); err != nil {
		return nil, fmt.Errorf("widecolumn.EventsByPlayer: %w", err)
	}
	return out, nil
}

// AppendArchive inserts the given leaderboard rows one by one. Rows written
// before a failure stay written.
func (s *Store) AppendArchive(ctx context.Context, rows []model.LeaderboardArchive) (err error) {
	const op = "insert_archive"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	for _, r := range rows {
		err = s.session.Exec(ctx, insertArchive, r.GameID, r.SnapshotTime, r.PlayerID, r.Rank, r.Score)
		if err != nil {
			return fmt.Errorf("widecolumn.AppendArchive: rank %d: %w", r.Rank, err)
		}
	}
	return nil
}

// ArchivesByGame returns every archived leaderboard row of a game.
func (s *Store) ArchivesByGame(ctx context.Context, gameID int) (out []model.LeaderboardArchive, err error) {
	const op = "select_archives"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	iter := s.session.Iter(ctx, selectArchivesByGame, gameID)
	var row model.LeaderboardArchive
	for iter.Scan(&row.GameID, &row.SnapshotTime, &row.PlayerID, &row.Rank, &row.Score) {
		out = append(out, row)
	}
	if err = iter.Close(); err != nil {
		return nil, fmt.Errorf("widecolumn.ArchivesByGame: %w", err)
	}
	return out, nil
}
