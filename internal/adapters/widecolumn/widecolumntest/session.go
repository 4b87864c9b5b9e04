// Package widecolumntest provides an in-memory widecolumn.Session that
// understands the statements issued by widecolumn.Store.
package widecolumntest

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/widecolumn"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
)

// Session keeps rows in memory. Timestamps are truncated to milliseconds and
// a snapshot with the same (player_id, snapshot_time) replaces the old one,
// as Cassandra upserts do.
type Session struct {
	mu sync.Mutex

	snapshots []model.StatSnapshot
	events    []model.GameEvent
	archives  []model.LeaderboardArchive

	// Err, when set, fails every statement.
	Err    error
	Closed bool
	// Statements lists every statement in issue order.
	Statements []string
}

var _ widecolumn.Session = (*Session)(nil)

// New returns an empty session.
func New() *Session { return &Session{} }

// Snapshots returns a copy of the stored player statistics.
func (s *Session) Snapshots() []model.StatSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.snapshots)
}

// Events returns a copy of the stored analytics events.
func (s *Session) Events() []model.GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}

// Archives returns a copy of the stored leaderboard archives.
func (s *Session) Archives() []model.LeaderboardArchive {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.archives)
}

func (s *Session) Exec(_ context.Context, stmt string, values ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Statements = append(s.Statements, stmt)
	if s.Err != nil {
		return s.Err
	}

	switch {
	case strings.HasPrefix(stmt, "INSERT INTO player_statistics"):
		snap := model.StatSnapshot{
			PlayerID:           values[0].(int),
			Timestamp:          ms(values[1].(time.Time)),
			Kills:              values[2].(int),
			DamageDealt:        values[3].(int),
			PlaytimeSeconds:    values[4].(int),
			ResourcesCollected: values[5].(int),
		}
		s.snapshots = slices.DeleteFunc(s.snapshots, func(o model.StatSnapshot) bool {
			return o.PlayerID == snap.PlayerID && o.Timestamp.Equal(snap.Timestamp)
		})
		s.snapshots = append(s.snapshots, snap)
	case strings.HasPrefix(stmt, "INSERT INTO game_analytics_events"):
		s.events = append(s.events, model.GameEvent{
			EventID:   uuid.UUID(values[0].(gocql.UUID)),
			EventType: values[1].(string),
			EventTime: ms(values[2].(time.Time)),
			PlayerID:  values[3].(int),
			GameID:    values[4].(int),
			Details:   []byte(values[5].(string)),
		})
	case strings.HasPrefix(stmt, "INSERT INTO leaderboard_archives"):
		s.archives = append(s.archives, model.LeaderboardArchive{
			GameID:       values[0].(int),
			SnapshotTime: ms(values[1].(time.Time)),
			PlayerID:     values[2].(int),
			Rank:         values[3].(int),
			Score:        values[4].(float64),
		})
	default:
		return fmt.Errorf("widecolumntest: unsupported statement %q", stmt)
	}
	return nil
}

func (s *Session) Iter(_ context.Context, stmt string, values ...any) widecolumn.Iter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Statements = append(s.Statements, stmt)
	if s.Err != nil {
		return &iter{err: s.Err}
	}

	var rows [][]any
	switch {
	case strings.Contains(stmt, "FROM player_statistics"):
		playerID, limit := values[0].(int), -1
		if len(values) > 1 {
			limit = values[1].(int)
		}
		var match []model.StatSnapshot
		for _, r := range s.snapshots {
			if r.PlayerID == playerID {
				match = append(match, r)
			}
		}
		slices.SortFunc(match, func(a, b model.StatSnapshot) int { return b.Timestamp.Compare(a.Timestamp) })
		for i, r := range match {
			if i == limit {
				break
			}
			rows = append(rows, []any{r.PlayerID, r.Timestamp, r.Kills, r.DamageDealt, r.PlaytimeSeconds, r.ResourcesCollected})
		}
	case strings.Contains(stmt, "FROM game_analytics_events"):
		for _, e := range s.events {
			if e.PlayerID == values[0].(int) {
				rows = append(rows, []any{gocql.UUID(e.EventID), e.EventType, e.EventTime, e.PlayerID, e.GameID, string(e.Details)})
			}
		}
	case strings.Contains(stmt, "FROM leaderboard_archives"):
		for _, a := range s.archives {
			if a.GameID == values[0].(int) {
				rows = append(rows, []any{a.GameID, a.SnapshotTime, a.PlayerID, a.Rank, a.Score})
			}
		}
	default:
		return &iter{err: fmt.Errorf("widecolumntest: unsupported statement %q", stmt)}
	}
	return &iter{rows: rows}
}

func (s *Session) Close() {
	s.mu.Lock()
	s.Closed = true
	s.mu.Unlock()
}

func ms(t time.Time) time.Time { return t.Truncate(time.Millisecond) }

type iter struct {
	rows [][]any
	pos  int
	err  error
}

func (it *iter) Scan(dest ...any) bool {
	if it.err != nil || it.pos >= len(it.rows) {
		return false
	}
	row := it.rows[it.pos]
	it.pos++
	for i := range dest {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(row[i]))
	}
	return true
}

func (it *iter) Close() error { return it.err }
