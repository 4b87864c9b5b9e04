package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/livestore"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/sqlstore"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/widecolumn"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/widecolumn/widecolumntest"
	service "github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/app"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/config"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/combat"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/logger"
)

type harness struct {
	svc     *service.Service
	redis   *miniredis.Miniredis
	session *widecolumntest.Session
	sql     *sqlstore.Store
	clock   *fakeClock
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newHarness(t *testing.T, stats service.StatsStore) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	live := livestore.New(client)
	t.Cleanup(func() { _ = live.Close() })

	session := widecolumntest.New()

	sqlStore, err := sqlstore.Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sqlStore.Close() })
	if _, err := sqlStore.DB().Exec(sqlstore.SQLiteSchema); err != nil {
		t.Fatal(err)
	}
	if stats == nil {
		stats = sqlStore
	}

	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc := service.New(live, widecolumn.New(session), stats,
		service.WithGameID(1),
		service.WithClock(clock.Now),
	)
	return &harness{svc: svc, redis: mr, session: session, sql: sqlStore, clock: clock}
}

// failingStats rejects every write and read.
type failingStats struct{ err error }

func (f failingStats) AppendStats(context.Context, model.StatSnapshot) error { return f.err }
func (f failingStats) RecentStats(context.Context, int, int) ([]model.StatSnapshot, error) {
	return nil, f.err
}

func TestPlayerHit(t *testing.T) {
	Convey("Given a service over all three stores", t, func() {
		ctx := context.Background()
		h := newHarness(t, nil)

		Convey("When player 1 hits player 2", func() {
			res, err := h.svc.PlayerHit(ctx, 1, 2)

			Convey("Then the damage is 5 and player 1 scores 5", func() {
				So(err, ShouldBeNil)
				So(res.Damage, ShouldEqual, 5)
				So(res.Score, ShouldEqual, 5)
				So(res.RelationalErr, ShouldBeNil)
				score, err := h.redis.ZScore(livestore.LeaderboardKey("1"), "1")
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 5)
			})

			Convey("And both persistent stores hold one matching stats row", func() {
				wide := h.session.Snapshots()
				So(wide, ShouldHaveLength, 1)
				So(wide[0].PlayerID, ShouldEqual, 1)
				So(wide[0].Kills, ShouldEqual, 1)
				So(wide[0].DamageDealt, ShouldEqual, 5)
				So(wide[0].PlaytimeSeconds, ShouldEqual, 0)
				So(wide[0].ResourcesCollected, ShouldEqual, 0)

				rel, err := h.sql.RecentStats(ctx, 1, 5)
				So(err, ShouldBeNil)
				So(rel, ShouldHaveLength, 1)
				So(service.CompareCopies(wide, rel), ShouldBeNil)
				So(rel[0].Timestamp.Equal(wide[0].Timestamp), ShouldBeTrue)
			})

			Convey("And one hit event is stored with from, to and damage", func() {
				events := h.session.Events()
				So(events, ShouldHaveLength, 1)
				So(events[0].EventType, ShouldEqual, "hit")
				So(events[0].GameID, ShouldEqual, 1)
				So(events[0].PlayerID, ShouldEqual, 1)
				So(events[0].EventID, ShouldResemble, res.EventID)
				d, err := combat.DecodeDetails(events[0].Details)
				So(err, ShouldBeNil)
				So(d, ShouldResemble, model.HitDetails{From: 1, To: 2, Damage: 5})
			})

			Convey("And the defender gets nothing", func() {
				_, err := h.redis.ZScore(livestore.LeaderboardKey("1"), "2")
				So(err, ShouldNotBeNil)
				So(h.session.Snapshots()[0].PlayerID, ShouldNotEqual, 2)
			})
		})

		Convey("When one attacker hits N times", func() {
			const n = 7
			for range n {
				_, err := h.svc.PlayerHit(ctx, 3, 4)
				So(err, ShouldBeNil)
			}

			Convey("Then the live score is N times the damage", func() {
				score, err := h.redis.ZScore(livestore.LeaderboardKey("1"), "3")
				So(err, ShouldBeNil)
				So(score, ShouldEqual, n*combat.HitDamagePercent)
			})

			Convey("And N events are recorded", func() {
				So(h.session.Events(), ShouldHaveLength, n)
			})
		})

		Convey("When a player id is not positive", func() {
			_, err := h.svc.PlayerHit(ctx, 0, 2)

			Convey("Then ErrInvalidPlayer is returned and nothing is written", func() {
				So(errors.Is(err, service.ErrInvalidPlayer), ShouldBeTrue)
				So(h.redis.Keys(), ShouldBeEmpty)
			})
		})

		Convey("When the live store fails", func() {
			h.redis.SetError("ERR injected failure")
			_, err := h.svc.PlayerHit(ctx, 1, 2)

			Convey("Then the hit fails before touching the other stores", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "live score")
				So(h.session.Statements, ShouldBeEmpty)
			})
		})

		Convey("When the wide-column store fails", func() {
			h.session.Err = errors.New("unavailable")
			_, err := h.svc.PlayerHit(ctx, 1, 2)

			Convey("Then the error is returned and the live increment stays", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "wide-column snapshot")
				score, zerr := h.redis.ZScore(livestore.LeaderboardKey("1"), "1")
				So(zerr, ShouldBeNil)
				So(score, ShouldEqual, 5)
			})

			Convey("And no relational row is written", func() {
				rel, err := h.sql.RecentStats(ctx, 1, 5)
				So(err, ShouldBeNil)
				So(rel, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a relational store that rejects writes", t, func() {
		ctx := context.Background()
		relErr := errors.New("connection refused")
		h := newHarness(t, failingStats{err: relErr})

		Convey("When a hit is recorded", func() {
			res, err := h.svc.PlayerHit(ctx, 1, 2)

			Convey("Then the hit still succeeds and reports the relational error", func() {
				So(err, ShouldBeNil)
				So(res.Damage, ShouldEqual, 5)
				So(errors.Is(res.RelationalErr, relErr), ShouldBeTrue)
				So(h.session.Snapshots(), ShouldHaveLength, 1)
			})
		})
	})
}

func TestDashboard(t *testing.T) {
	Convey("Given a few recorded hits", t, func() {
		ctx := context.Background()
		h := newHarness(t, nil)
		for range 6 {
			_, err := h.svc.PlayerHit(ctx, 1, 2)
			So(err, ShouldBeNil)
		}
		_, err := h.svc.PlayerHit(ctx, 2, 1)
		So(err, ShouldBeNil)

		Convey("When reading the dashboard for both players", func() {
			d := h.svc.Dashboard(ctx, 1, 2)

			Convey("Then the leaderboard is ordered by score", func() {
				So(d.Leaderboard.Err, ShouldBeNil)
				So(d.Leaderboard.Rows, ShouldHaveLength, 2)
				So(d.Leaderboard.Rows[0].PlayerID, ShouldEqual, "1")
				So(d.Leaderboard.Rows[0].Score, ShouldEqual, 30)
			})

			Convey("And history is capped at five rows per store", func() {
				So(d.Players, ShouldHaveLength, 2)
				So(d.Players[0].WideColumn.Rows, ShouldHaveLength, 5)
				So(d.Players[0].Relational.Rows, ShouldHaveLength, 5)
				So(d.Players[0].Divergence, ShouldBeNil)
				So(d.Players[1].WideColumn.Rows, ShouldHaveLength, 1)
			})
		})

		Convey("When the wide-column store is down", func() {
			h.session.Err = errors.New("unavailable")
			d := h.svc.Dashboard(ctx, 1)

			Convey("Then only its panel carries the error", func() {
				So(d.Leaderboard.Err, ShouldBeNil)
				So(d.Players[0].WideColumn.Err, ShouldNotBeNil)
				So(d.Players[0].Relational.Err, ShouldBeNil)
				So(d.Players[0].Relational.Rows, ShouldHaveLength, 5)
			})
		})

		Convey("When the live store is down", func() {
			h.redis.SetError("ERR injected failure")
			d := h.svc.Dashboard(ctx, 1)

			Convey("Then the history panels still load", func() {
				So(d.Leaderboard.Err, ShouldNotBeNil)
				So(d.Players[0].WideColumn.Err, ShouldBeNil)
				So(d.Players[0].Relational.Err, ShouldBeNil)
			})
		})
	})

	Convey("Given a relational store that missed writes", t, func() {
		ctx := context.Background()
		h := newHarness(t, nil)
		_, err := h.svc.PlayerHit(ctx, 1, 2)
		So(err, ShouldBeNil)
		So(widecolumn.New(h.session).AppendSnapshot(ctx, model.StatSnapshot{
			PlayerID: 1, Timestamp: h.clock.Now(), Kills: 1, DamageDealt: 5,
		}), ShouldBeNil)

		Convey("Then the dashboard flags the divergence", func() {
			d := h.svc.Dashboard(ctx, 1)
			So(errors.Is(d.Players[0].Divergence, service.ErrDivergentCopies), ShouldBeTrue)
		})
	})
}

func TestCompareCopies(t *testing.T) {
	Convey("Given two histories", t, func() {
		at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		row := model.StatSnapshot{PlayerID: 1, Timestamp: at, Kills: 1, DamageDealt: 5}

		So(service.CompareCopies(nil, nil), ShouldBeNil)
		So(service.CompareCopies([]model.StatSnapshot{row}, []model.StatSnapshot{row}), ShouldBeNil)

		other := row
		other.DamageDealt = 6
		err := service.CompareCopies([]model.StatSnapshot{row}, []model.StatSnapshot{other})
		So(errors.Is(err, service.ErrDivergentCopies), ShouldBeTrue)

		err = service.CompareCopies([]model.StatSnapshot{row, row}, []model.StatSnapshot{row})
		So(errors.Is(err, service.ErrDivergentCopies), ShouldBeTrue)
	})
}

func TestArchiveLeaderboard(t *testing.T) {
	Convey("Given a leaderboard with a non-numeric member", t, func() {
		ctx := context.Background()
		h := newHarness(t, nil)
		for range 3 {
			_, err := h.svc.PlayerHit(ctx, 4, 1)
			So(err, ShouldBeNil)
		}
		_, err := h.svc.PlayerHit(ctx, 2, 1)
		So(err, ShouldBeNil)
		h.redis.ZAdd(livestore.LeaderboardKey("1"), 100, "bot")

		Convey("When the leaderboard is archived", func() {
			rows, err := h.svc.ArchiveLeaderboard(ctx)

			Convey("Then numeric players are ranked from 1 under one snapshot time", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].PlayerID, ShouldEqual, 4)
				So(rows[0].Rank, ShouldEqual, 1)
				So(rows[0].Score, ShouldEqual, 15)
				So(rows[1].PlayerID, ShouldEqual, 2)
				So(rows[1].Rank, ShouldEqual, 2)
				So(rows[1].SnapshotTime, ShouldResemble, rows[0].SnapshotTime)
				So(h.session.Archives(), ShouldHaveLength, 2)
			})
		})

		Convey("When the archive write fails", func() {
			h.session.Err = errors.New("unavailable")
			_, err := h.svc.ArchiveLeaderboard(ctx)

			Convey("Then the error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestConnect(t *testing.T) {
	Convey("Given a reachable Redis", t, func() {
		ctx := context.Background()
		mr := miniredis.RunT(t)

		Convey("When the live store is dialed", func() {
			store, err := service.ConnectLive(ctx, config.RedisConfig{Addr: mr.Addr()}, logger.Nop())

			Convey("Then it answers pings", func() {
				So(err, ShouldBeNil)
				So(store.Ping(ctx), ShouldBeNil)
				So(store.Close(), ShouldBeNil)
			})
		})

		Convey("When the wide-column settings are invalid", func() {
			cfg := config.New()
			cfg.Redis.Addr = mr.Addr()
			cfg.Cassandra.Consistency = "sometimes"
			_, err := service.Connect(ctx, cfg, logger.Nop())

			Convey("Then Connect fails naming the store", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "connect wide-column store")
				So(errors.Is(err, widecolumn.ErrBadConsistency), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unreachable Redis", t, func() {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := service.ConnectLive(context.Background(), config.RedisConfig{Addr: addr}, logger.Nop())
		So(err, ShouldNotBeNil)
	})
}
