package livestore

import (
	"fmt"
	"strings"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
)

// LeaderboardKey is the sorted set of scores of a game.
func LeaderboardKey(gameID string) string { return "leaderboard:game:" + gameID }

// ChatKey is the list of messages posted to a channel of a game.
func ChatKey(gameID, channelID string) string {
	return fmt.Sprintf("chat:game:%s:channel:%s", gameID, channelID)
}

// PlayerStateKey is the hash of a player's free-form state.
func PlayerStateKey(playerID string) string { return "player:" + playerID + ":state" }

// GameObjectsKey is the set of object ids placed in a game.
func GameObjectsKey(gameID string) string { return "game:" + gameID + ":objects" }

// GameObjectKey is the hash holding one object's fields.
func GameObjectKey(gameID, objectID string) string {
	return fmt.Sprintf("game:%s:object:%s", gameID, objectID)
}

// Object hash fields.
const (
	fieldObjectType = "object_type_id"
	fieldPosition   = "position"
	fieldHealth     = "current_health"
	fieldStatus     = "status"
)

const (
	chatPlayerPrefix = "player_id:"
	chatTextSep      = " message:"
)

// FormatChat renders a chat message as it is stored in the list.
func FormatChat(playerID, text string) string {
	return chatPlayerPrefix + playerID + chatTextSep + text
}

// ParseChat splits a stored chat line. Lines not written by FormatChat are
// returned whole as the message text.
func ParseChat(line string) (playerID, text string) {
	rest, ok := strings.CutPrefix(line, chatPlayerPrefix)
	if !ok {
		return "", line
	}
	playerID, text, ok = strings.Cut(rest, chatTextSep)
	if !ok {
		return "", line
	}
	return playerID, text
}

func objectFields(o model.GameObject) []any {
	return []any{
		fieldObjectType, o.TypeID,
		fieldPosition, o.Position,
		fieldHealth, o.Health,
		fieldStatus, o.Status,
	}
}

func objectFromHash(gameID, objectID string, h map[string]string) model.GameObject {
	return model.GameObject{
		ObjectID: objectID,
		GameID:   gameID,
		TypeID:   h[fieldObjectType],
		Position: h[fieldPosition],
		Health:   h[fieldHealth],
		Status:   h[fieldStatus],
	}
}
