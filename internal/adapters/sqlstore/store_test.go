package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	_, err = s.DB().Exec(SQLiteSchema)
	require.NoError(t, err)
	return s
}

func TestAppendAndRecentStats(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := range 7 {
		err := s.AppendStats(ctx, model.StatSnapshot{
			PlayerID:    1,
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
			Kills:       1,
			DamageDealt: 5,
		})
		require.NoError(t, err)
	}
	require.NoError(t, s.AppendStats(ctx, model.StatSnapshot{PlayerID: 2, Timestamp: base, Kills: 1, DamageDealt: 5}))

	rows, err := s.RecentStats(ctx, 1, RecentLimit)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.True(t, rows[0].Timestamp.Equal(base.Add(6*time.Minute)), "newest first, got %v", rows[0].Timestamp)
	assert.True(t, rows[4].Timestamp.Equal(base.Add(2*time.Minute)), "got %v", rows[4].Timestamp)
	for _, r := range rows {
		assert.Equal(t, 1, r.PlayerID)
		assert.Equal(t, 1, r.Kills)
		assert.Equal(t, 5, r.DamageDealt)
		assert.Zero(t, r.PlaytimeSeconds)
		assert.Zero(t, r.ResourcesCollected)
	}
}

func TestRecentStatsUnknownPlayer(t *testing.T) {
	s := openTestStore(t)

	rows, err := s.RecentStats(context.Background(), 99, RecentLimit)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAppendStatsMissingTable(t *testing.T) {
	s, err := Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	err = s.AppendStats(context.Background(), model.StatSnapshot{PlayerID: 1, Timestamp: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlstore.AppendStats")
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "root@/arena")
	assert.True(t, errors.Is(err, ErrUnknownDriver))
}

func TestRebind(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"sqlite", "SELECT a FROM t WHERE x = ? AND y = ?"},
		{"postgres", "SELECT a FROM t WHERE x = $1 AND y = $2"},
		{"pgx", "SELECT a FROM t WHERE x = $1 AND y = $2"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s := New(nil, tt.driver)
			assert.Equal(t, tt.want, s.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))
		})
	}
}
