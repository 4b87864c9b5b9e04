// Package sqlstore appends player statistics to a relational database.
// Postgres is reached through lib/pq ("postgres") or pgx ("pgx"); SQLite
// ("sqlite") serves local runs and tests.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/metrics"
)

// RecentLimit is the number of rows shown per player.
const RecentLimit = 5

const (
	insertStats = `INSERT INTO player_stats (player_id, timestamp, kills, damage, playtime, resources) ` +
		`VALUES (?, ?, ?, ?, ?, ?)`
	selectRecent = `SELECT player_id, timestamp, kills, damage, playtime, resources FROM player_stats ` +
		`WHERE player_id = ? ORDER BY timestamp DESC LIMIT ?`
)

// Store is the relational copy of player statistics.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects with the named driver and checks the connection.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case "postgres", "pgx", "sqlite":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	return New(db, driver), nil
}

// New wraps an open handle. driver selects the placeholder style.
func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// DB exposes the handle.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func observe(op string, start time.Time, err error) {
	metrics.RecordStoreOperation(metrics.StoreRelational, op, time.Since(start), err)
}

// AppendStats inserts one player_stats row.
func (s *Store) AppendStats(ctx context.Context, snap model.StatSnapshot) (err error) {
	const op = "insert_stats"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	_, err = s.db.ExecContext(ctx, s.rebind(insertStats),
		snap.PlayerID, snap.Timestamp.UTC(), snap.Kills,
		snap.DamageDealt, snap.PlaytimeSeconds, snap.ResourcesCollected)
	if err != nil {
		return fmt.Errorf("sqlstore.AppendStats: %w", err)
	}
	return nil
}

// RecentStats returns up to limit rows of a player, newest first.
func (s *Store) RecentStats(ctx context.Context, playerID, limit int) (out []model.StatSnapshot, err error) {
	const op = "select_stats"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	rows, err := s.db.QueryContext(ctx, s.rebind(selectRecent), playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlstore.RecentStats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r model.StatSnapshot
		if err = rows.Scan(&r.PlayerID, &r.Timestamp, &r.Kills,
			&r.DamageDealt, &r.PlaytimeSeconds, &r.ResourcesCollected); err != nil {
			return nil, fmt.Errorf("sqlstore.RecentStats: scan: %w", err)
		}
		out = append(out, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore.RecentStats: %w", err)
	}
	return out, nil
}

// rebind turns ? placeholders into $n for the Postgres drivers.
func (s *Store) rebind(query string) string {
	if s.driver == "sqlite" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
