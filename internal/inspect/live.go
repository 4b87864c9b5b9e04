package inspect

import (
	"context"
	"errors"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/livestore"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
)

// LiveStore is the subset of the live store the Redis menu drives.
type LiveStore interface {
	PushChat(ctx context.Context, msg model.ChatMessage) error
	RecentChat(ctx context.Context, gameID, channelID string) ([]model.ChatMessage, error)
	SetScore(ctx context.Context, gameID, playerID string, score float64) error
	TopScores(ctx context.Context, gameID string, n int) ([]model.LeaderboardEntry, error)
	SetPlayerState(ctx context.Context, state model.PlayerState) error
	PlayerState(ctx context.Context, playerID string) (model.PlayerState, error)
	AddGameObject(ctx context.Context, obj model.GameObject) (model.GameObject, error)
	ListGameObjects(ctx context.Context, gameID string) ([]model.GameObject, error)
}

const (
	askGame     = "Enter Game ID: "
	askChannel  = "Enter Channel ID: "
	askPlayer   = "Enter Player ID: "
	askMessage  = "Enter message: "
	askScore    = "Enter Score: "
	askType     = "Enter Object Type ID: "
	askPosition = "Enter Position (e.g. '50,75'): "
	askHealth   = "Enter Current Health: "
	askStatus   = "Enter Status: "
)

type liveMenu struct {
	store LiveStore
}

// NewLiveMenu builds the Redis inspection menu.
func NewLiveMenu(store LiveStore, in io.Reader, out io.Writer) *Menu {
	l := &liveMenu{store: store}
	return &Menu{
		header: "Choose Redis action:",
		items: []Item{
			{"Add chat message", l.addChat},
			{"Get chat messages", l.getChat},
			{"Update leaderboard score", l.setScore},
			{"Get leaderboard top 10", l.top},
			{"Update player state", l.setState},
			{"Get player state", l.getState},
			{"Add game object", l.addObject},
			{"List game objects", l.listObjects},
		},
		exit:    "Exit",
		goodbye: "Exiting. Goodbye!",
		invalid: "Invalid choice, please try again.",
		prompt:  NewPrompt(in, out),
	}
}

func (l *liveMenu) addChat(ctx context.Context, p *Prompt) error {
	var msg model.ChatMessage
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{askGame, &msg.GameID},
		{askChannel, &msg.ChannelID},
		{askPlayer, &msg.PlayerID},
		{askMessage, &msg.Text},
	} {
		v, err := p.Ask(f.label)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	if err := l.store.PushChat(ctx, msg); err != nil {
		return err
	}
	p.Println("Chat message added.")
	return nil
}

func (l *liveMenu) getChat(ctx context.Context, p *Prompt) error {
	gameID, err := p.Ask(askGame)
	if err != nil {
		return err
	}
	channelID, err := p.Ask(askChannel)
	if err != nil {
		return err
	}
	msgs, err := l.store.RecentChat(ctx, gameID, channelID)
	if err != nil {
		return err
	}

	rows := make([]table.Row, 0, len(msgs))
	for i, m := range msgs {
		rows = append(rows, table.Row{i + 1, livestore.FormatChat(m.PlayerID, m.Text)})
	}
	p.Println("Recent Chat Messages:")
	renderTable(p.Out(), table.Row{"No.", "Message"}, rows)
	return nil
}

func (l *liveMenu) setScore(ctx context.Context, p *Prompt) error {
	gameID, err := p.Ask(askGame)
	if err != nil {
		return err
	}
	playerID, err := p.Ask(askPlayer)
	if err != nil {
		return err
	}
	score, err := p.AskFloat(askScore)
	if err != nil {
		return err
	}
	if err := l.store.SetScore(ctx, gameID, playerID, score); err != nil {
		return err
	}
	p.Printf("Leaderboard updated for player %s.\n", playerID)
	return nil
}

func (l *liveMenu) top(ctx context.Context, p *Prompt) error {
	gameID, err := p.Ask(askGame)
	if err != nil {
		return err
	}
	entries, err := l.store.TopScores(ctx, gameID, livestore.MaxTop)
	if err != nil {
		return err
	}

	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{e.PlayerID, strconv.FormatFloat(e.Score, 'f', -1, 64)})
	}
	p.Println("Leaderboard Top 10:")
	renderTable(p.Out(), table.Row{"Player ID", "Score"}, rows)
	return nil
}

func (l *liveMenu) setState(ctx context.Context, p *Prompt) error {
	playerID, err := p.Ask(askPlayer)
	if err != nil {
		return err
	}

	state := model.PlayerState{PlayerID: playerID, Fields: map[string]string{}}
	p.Println("Enter state as key=value pairs (empty line to finish):")
	for {
		line, err := p.Line()
		if errors.Is(err, ErrEndOfInput) {
			break
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) == "" {
			p.Println("Invalid format, use key=value")
			continue
		}
		state.Fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := l.store.SetPlayerState(ctx, state); err != nil {
		return err
	}
	p.Printf("Player %s state updated.\n", playerID)
	return nil
}

func (l *liveMenu) getState(ctx context.Context, p *Prompt) error {
	playerID, err := p.Ask(askPlayer)
	if err != nil {
		return err
	}
	state, err := l.store.PlayerState(ctx, playerID)
	if errors.Is(err, livestore.ErrNotFound) {
		p.Printf("No state found for player %s.\n", playerID)
		return nil
	}
	if err != nil {
		return err
	}

	keys := slices.Sorted(maps.Keys(state.Fields))
	rows := make([]table.Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, table.Row{k, state.Fields[k]})
	}
	p.Printf("Player %s State:\n", playerID)
	renderTable(p.Out(), table.Row{"Field", "Value"}, rows)
	return nil
}

func (l *liveMenu) addObject(ctx context.Context, p *Prompt) error {
	var obj model.GameObject
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{askGame, &obj.GameID},
		{askType, &obj.TypeID},
		{askPosition, &obj.Position},
		{askHealth, &obj.Health},
		{askStatus, &obj.Status},
	} {
		v, err := p.Ask(f.label)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	saved, err := l.store.AddGameObject(ctx, obj)
	if err != nil {
		return err
	}
	p.Printf("Game object %s added.\n", saved.ObjectID)
	return nil
}

func (l *liveMenu) listObjects(ctx context.Context, p *Prompt) error {
	gameID, err := p.Ask(askGame)
	if err != nil {
		return err
	}
	objs, err := l.store.ListGameObjects(ctx, gameID)
	if err != nil {
		return err
	}
	if len(objs) == 0 {
		p.Printf("No game objects found for game %s.\n", gameID)
		return nil
	}

	names := slices.Sorted(maps.Keys(objectRecord(model.GameObject{})))
	header := make(table.Row, 0, len(names))
	for _, n := range names {
		header = append(header, n)
	}
	rows := make([]table.Row, 0, len(objs))
	for _, o := range objs {
		rec := objectRecord(o)
		row := make(table.Row, 0, len(names))
		for _, n := range names {
			row = append(row, rec[n])
		}
		rows = append(rows, row)
	}
	p.Printf("Game Objects in Game %s:\n", gameID)
	renderTable(p.Out(), header, rows)
	return nil
}

func objectRecord(o model.GameObject) map[string]string {
	return map[string]string{
		"object_id":      o.ObjectID,
		"object_type_id": o.TypeID,
		"position":       o.Position,
		"current_health": o.Health,
		"status":         o.Status,
	}
}

var _ LiveStore = (*livestore.Store)(nil)
