// Package livestore keeps the fast-changing game state in Redis: leaderboards,
// chat channels, player state hashes and game objects.
package livestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/logger"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/metrics"
)

// MaxTop is the largest leaderboard slice and the chat history length.
const MaxTop = 10

// Store is the Redis-backed live store.
type Store struct {
	client redis.UniversalClient
	log    logger.Logger
}

// New wraps an existing client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("livestore.Ping: %w", err)
	}
	return nil
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func observe(op string, start time.Time, err error) {
	metrics.RecordStoreOperation(metrics.StoreLive, op, time.Since(start), err)
}

// IncrementScore adds delta to the player's score in a game and returns the
// new score. Unknown players start at 0.
func (s *Store) IncrementScore(ctx context.Context, gameID, playerID string, delta float64) (score float64, err error) {
	const op = "incr_score"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	score, err = s.client.ZIncrBy(ctx, LeaderboardKey(gameID), delta, playerID).Result()
	if err != nil {
		return 0, fmt.Errorf("livestore.IncrementScore: %w", err)
	}
	s.log.Debug(ctx, "score incremented",
		logger.String("game_id", gameID),
		logger.String("player_id", playerID),
		logger.Float64("score", score))
	return score, nil
}

// SetScore overwrites the player's score in a game.
func (s *Store) SetScore(ctx context.Context, gameID, playerID string, score float64) (err error) {
	const op = "set_score"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	z := redis.Z{Score: score, Member: playerID}
	if err = s.client.ZAdd(ctx, LeaderboardKey(gameID), z).Err(); err != nil {
		return fmt.Errorf("livestore.SetScore: %w", err)
	}
	return nil
}

// TopScores returns up to n entries ordered by descending score. Equal scores
// keep Redis order (reverse lexicographic by player id).
func (s *Store) TopScores(ctx context.Context, gameID string, n int) (entries []model.LeaderboardEntry, err error) {
	if n < 1 || n > MaxTop {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	const op = "top_scores"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	zs, err := s.client.ZRevRangeWithScores(ctx, LeaderboardKey(gameID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("livestore.TopScores: %w", err)
	}
	entries = make([]model.LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		entries = append(entries, model.LeaderboardEntry{
			GameID:   gameID,
			PlayerID: fmt.Sprint(z.Member),
			Score:    z.Score,
		})
	}
	return entries, nil
}

// PushChat prepends a message to its channel.
func (s *Store) PushChat(ctx context.Context, msg model.ChatMessage) (err error) {
	const op = "push_chat"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	line := FormatChat(msg.PlayerID, msg.Text)
	if err = s.client.LPush(ctx, ChatKey(msg.GameID, msg.ChannelID), line).Err(); err != nil {
		return fmt.Errorf("livestore.PushChat: %w", err)
	}
	return nil
}

// RecentChat returns the last MaxTop messages of a channel, oldest first.
func (s *Store) RecentChat(ctx context.Context, gameID, channelID string) (msgs []model.ChatMessage, err error) {
	const op = "recent_chat"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	lines, err := s.client.LRange(ctx, ChatKey(gameID, channelID), 0, MaxTop-1).Result()
	if err != nil {
		return nil, fmt.Errorf("livestore.RecentChat: %w", err)
	}
	msgs = make([]model.ChatMessage, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		playerID, text := ParseChat(lines[i])
		msgs = append(msgs, model.ChatMessage{
			GameID:    gameID,
			ChannelID: channelID,
			PlayerID:  playerID,
			Text:      text,
		})
	}
	return msgs, nil
}

// SetPlayerState writes the given fields into the player's state hash. Fields
// not named are left untouched.
func (s *Store) SetPlayerState(ctx context.Context, state model.PlayerState) (err error) {
	if len(state.Fields) == 0 {
		return ErrEmptyState
	}
	const op = "set_player_state"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	values := make([]any, 0, 2*len(state.Fields))
	for k, v := range state.Fields {
		values = append(values, k, v)
	}
	if err = s.client.HSet(ctx, PlayerStateKey(state.PlayerID), values...).Err(); err != nil {
		return fmt.Errorf("livestore.SetPlayerState: %w", err)
	}
	return nil
}

// PlayerState reads the player's state hash. ErrNotFound is returned when
// the hash is empty or missing.
func (s *Store) PlayerState(ctx context.Context, playerID string) (state model.PlayerState, err error) {
	const op = "get_player_state"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	fields, err := s.client.HGetAll(ctx, PlayerStateKey(playerID)).Result()
	if err != nil {
		return model.PlayerState{}, fmt.Errorf("livestore.PlayerState: %w", err)
	}
	if len(fields) == 0 {
		return model.PlayerState{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	return model.PlayerState{PlayerID: playerID, Fields: fields}, nil
}

// AddGameObject registers an object in its game. A missing ObjectID is
// filled with a random UUID. The set membership and the hash are written in
// one pipeline without a transaction.
func (s *Store) AddGameObject(ctx context.Context, obj model.GameObject) (_ model.GameObject, err error) {
	const op = "add_game_object"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	if obj.ObjectID == "" {
		obj.ObjectID = uuid.NewString()
	}
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.SAdd(ctx, GameObjectsKey(obj.GameID), obj.ObjectID)
		p.HSet(ctx, GameObjectKey(obj.GameID, obj.ObjectID), objectFields(obj)...)
		return nil
	})
	if err != nil {
		return model.GameObject{}, fmt.Errorf("livestore.AddGameObject: %w", err)
	}
	return obj, nil
}

// ListGameObjects returns every object of a game ordered by id. Members whose
// hash is missing are returned with empty fields.
func (s *Store) ListGameObjects(ctx context.Context, gameID string) (objs []model.GameObject, err error) {
	const op = "list_game_objects"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	ids, err := s.client.SMembers(ctx, GameObjectsKey(gameID)).Result()
	if err != nil {
		return nil, fmt.Errorf("livestore.ListGameObjects: %w", err)
	}
	sort.Strings(ids)

	objs = make([]model.GameObject, 0, len(ids))
	for _, id := range ids {
		h, herr := s.client.HGetAll(ctx, GameObjectKey(gameID, id)).Result()
		if herr != nil && !errors.Is(herr, redis.Nil) {
			return nil, fmt.Errorf("livestore.ListGameObjects: %s: %w", id, herr)
		}
		objs = append(objs, objectFromHash(gameID, id, h))
	}
	return objs, nil
}
