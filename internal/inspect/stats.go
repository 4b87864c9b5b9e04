package inspect

import (
	"bytes"
	"context"
	"io"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/widecolumn"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
)

// HistoryStore is the subset of the wide-column store the stats menu reads.
type HistoryStore interface {
	Snapshots(ctx context.Context, playerID int) ([]model.StatSnapshot, error)
	EventsByPlayer(ctx context.Context, playerID int) ([]model.GameEvent, error)
	ArchivesByGame(ctx context.Context, gameID int) ([]model.LeaderboardArchive, error)
}

type statsMenu struct {
	store HistoryStore
}

// NewStatsMenu builds the Cassandra inspection menu.
func NewStatsMenu(store HistoryStore, in io.Reader, out io.Writer) *Menu {
	s := &statsMenu{store: store}
	return &Menu{
		header: "What data do you want to see? (Enter number)",
		items: []Item{
			{"Player Statistics", s.playerStats},
			{"Game Analytics Events", s.events},
			{"Leaderboard Archives", s.archives},
		},
		exit:    "Exit",
		goodbye: "Goodbye!",
		invalid: "Invalid choice, try again.",
		prompt:  NewPrompt(in, out),
	}
}

func (s *statsMenu) playerStats(ctx context.Context, p *Prompt) error {
	playerID, err := p.AskInt(askPlayer)
	if err != nil {
		return err
	}
	snaps, err := s.store.Snapshots(ctx, playerID)
	if err != nil {
		return err
	}

	rows := make([]table.Row, 0, len(snaps))
	for _, r := range snaps {
		rows = append(rows, table.Row{
			r.PlayerID, r.Timestamp.Format(timeLayout), r.Kills,
			r.DamageDealt, r.PlaytimeSeconds, r.ResourcesCollected,
		})
	}
	renderTable(p.Out(), table.Row{
		"Player ID", "Snapshot Time", "Kills", "Damage Dealt", "Playtime (sec)", "Resources Collected",
	}, rows)
	return nil
}

func (s *statsMenu) events(ctx context.Context, p *Prompt) error {
	playerID, err := p.AskInt(askPlayer)
	if err != nil {
		return err
	}
	events, err := s.store.EventsByPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	rows := make([]table.Row, 0, len(events))
	for _, ev := range events {
		rows = append(rows, table.Row{
			ev.EventID.String(), ev.EventType, ev.EventTime.Format(timeLayout),
			ev.PlayerID, ev.GameID, compactDetails(ev.Details),
		})
	}
	renderTable(p.Out(), table.Row{
		"Event ID", "Event Type", "Event Time", "Player ID", "Game ID", "Details",
	}, rows)
	return nil
}

func (s *statsMenu) archives(ctx context.Context, p *Prompt) error {
	gameID, err := p.AskInt(askGame)
	if err != nil {
		return err
	}
	p.Printf("Fetching all leaderboard archives for Game ID = %d (using ALLOW FILTERING)...\n", gameID)
	archived, err := s.store.ArchivesByGame(ctx, gameID)
	if err != nil {
		return err
	}

	rows := make([]table.Row, 0, len(archived))
	for _, r := range archived {
		rows = append(rows, table.Row{r.GameID, r.SnapshotTime.Format(timeLayout), r.PlayerID, r.Rank, r.Score})
	}
	renderTable(p.Out(), table.Row{"Game ID", "Snapshot Time", "Player ID", "Rank", "Score"}, rows)
	return nil
}

// compactDetails re-encodes stored details as compact JSON. Text that is not
// JSON is shown as stored.
func compactDetails(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

var _ HistoryStore = (*widecolumn.Store)(nil)
