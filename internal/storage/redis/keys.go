package redis

import (
	"fmt"

	"github.com/mcoot/happygarden/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "hgarden"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of all player ids
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// playerNameIndexKey returns the Redis key for the name -> player_id index
func playerNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:player_name:%s", keyPrefix, name)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of all game ids
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}
