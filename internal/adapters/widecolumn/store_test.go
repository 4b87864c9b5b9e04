package widecolumn_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/widecolumn"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/widecolumn/widecolumntest"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
)

func TestSnapshots(t *testing.T) {
	Convey("Given a store over an in-memory session", t, func() {
		ctx := context.Background()
		session := widecolumntest.New()
		store := widecolumn.New(session)
		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		Convey("When seven snapshots are appended for a player", func() {
			for i := range 7 {
				err := store.AppendSnapshot(ctx, model.StatSnapshot{
					PlayerID:    1,
					Timestamp:   base.Add(time.Duration(i) * time.Second),
					Kills:       1,
					DamageDealt: 5,
				})
				So(err, ShouldBeNil)
			}
			So(store.AppendSnapshot(ctx, model.StatSnapshot{PlayerID: 2, Timestamp: base, Kills: 1, DamageDealt: 5}), ShouldBeNil)

			Convey("Then the insert names every column", func() {
				So(session.Statements[0], ShouldContainSubstring,
					"INSERT INTO player_statistics (player_id, snapshot_time, kills, damage_dealt, playtime_seconds, resources_collected)")
			})

			Convey("Then reading returns the newest five of that player only", func() {
				rows, err := store.RecentSnapshots(ctx, 1, widecolumn.RecentLimit)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 5)
				So(rows[0].Timestamp, ShouldResemble, base.Add(6*time.Second))
				So(rows[4].Timestamp, ShouldResemble, base.Add(2*time.Second))
				for _, r := range rows {
					So(r.PlayerID, ShouldEqual, 1)
					So(r.DamageDealt, ShouldEqual, 5)
				}
				So(session.Statements[len(session.Statements)-1], ShouldEndWith, "LIMIT ?")
			})

			Convey("Then the unlimited read returns all seven", func() {
				rows, err := store.Snapshots(ctx, 1)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 7)
				So(rows[0].Timestamp, ShouldResemble, base.Add(6*time.Second))
			})
		})

		Convey("When the session fails", func() {
			session.Err = errors.New("no hosts available")
			err := store.AppendSnapshot(ctx, model.StatSnapshot{PlayerID: 1, Timestamp: base})
			_, readErr := store.RecentSnapshots(ctx, 1, 5)

			Convey("Then both directions report the failure", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "widecolumn.AppendSnapshot")
				So(readErr, ShouldNotBeNil)
			})
		})
	})
}

func TestEvents(t *testing.T) {
	Convey("Given a store over an in-memory session", t, func() {
		ctx := context.Background()
		session := widecolumntest.New()
		store := widecolumn.New(session)
		at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		Convey("When events of two players are appended", func() {
			id := uuid.New()
			So(store.AppendEvent(ctx, model.GameEvent{
				EventID: id, EventType: "hit", EventTime: at, PlayerID: 1, GameID: 1,
				Details: []byte(`{"from":1,"to":2,"damage":5}`),
			}), ShouldBeNil)
			So(store.AppendEvent(ctx, model.GameEvent{
				EventID: uuid.New(), EventType: "hit", EventTime: at, PlayerID: 2, GameID: 1,
				Details: []byte(`{"from":2,"to":1,"damage":5}`),
			}), ShouldBeNil)

			events, err := store.EventsByPlayer(ctx, 1)

			Convey("Then filtering by player returns the event intact", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 1)
				So(events[0].EventID, ShouldResemble, id)
				So(string(events[0].Details), ShouldEqual, `{"from":1,"to":2,"damage":5}`)
				So(session.Statements[len(session.Statements)-1], ShouldEndWith, "ALLOW FILTERING")
			})
		})
	})
}

func TestArchives(t *testing.T) {
	Convey("Given a store over an in-memory session", t, func() {
		ctx := context.Background()
		session := widecolumntest.New()
		store := widecolumn.New(session)
		at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		Convey("When a ranked leaderboard is archived", func() {
			rows := []model.LeaderboardArchive{
				{GameID: 1, SnapshotTime: at, PlayerID: 4, Rank: 1, Score: 30},
				{GameID: 1, SnapshotTime: at, PlayerID: 2, Rank: 2, Score: 10},
			}
			So(store.AppendArchive(ctx, rows), ShouldBeNil)

			Convey("Then reading the game returns the same rows", func() {
				got, err := store.ArchivesByGame(ctx, 1)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, rows)
			})

			Convey("And other games stay empty", func() {
				got, err := store.ArchivesByGame(ctx, 2)
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})
	})
}

func TestConnect(t *testing.T) {
	Convey("Given an unknown consistency level", t, func() {
		_, err := widecolumn.Connect(widecolumn.ClusterConfig{
			Hosts:       []string{"127.0.0.1"},
			Keyspace:    "monster_arena",
			Consistency: "sometimes",
		})

		Convey("Then Connect fails before dialing", func() {
			So(errors.Is(err, widecolumn.ErrBadConsistency), ShouldBeTrue)
		})
	})
}
