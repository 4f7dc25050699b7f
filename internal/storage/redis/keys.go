package redis

import (
	"fmt"
	"strings"

	"github.com/jordanjustice/gotcha-api/internal/model"
)

// Key prefix for all gotcha data
const keyPrefix = "gotcha"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// credentialsKey returns the Redis key for a player's Credentials
func credentialsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:credentials:%s", keyPrefix, playerID)
}

// emailIndexKey returns the Redis key for the email -> player_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, strings.ToLower(email))
}

// arenaKey returns the Redis key for an Arena
func arenaKey(id model.ArenaID) string {
	return fmt.Sprintf("%s:arena:%s", keyPrefix, id)
}

// arenaIndexKey returns the Redis key for the SET of all arena ids
func arenaIndexKey() string {
	return fmt.Sprintf("%s:idx:arenas", keyPrefix)
}

// arenaPlayersKey returns the Redis key for the HASH of players present
// in an arena (player_id -> ArenaPlayer JSON)
func arenaPlayersKey(arenaID model.ArenaID) string {
	return fmt.Sprintf("%s:arena_players:%s", keyPrefix, arenaID)
}

// matchKey returns the Redis key for a Match
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchesForPlayerIndexKey returns the Redis key for the SET of match ids
// a player participates in
func matchesForPlayerIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:matches_for_player:%s", keyPrefix, playerID)
}

// matchesInArenaIndexKey returns the Redis key for the SET of match ids
// in an arena
func matchesInArenaIndexKey(arenaID model.ArenaID) string {
	return fmt.Sprintf("%s:idx:matches_in_arena:%s", keyPrefix, arenaID)
}

// openInArenaKey returns the Redis key for the HASH of players with an
// open match in an arena (player_id -> match_id). This hash is the
// uniqueness constraint behind CreateMatch and the WATCH target for its
// transaction.
func openInArenaKey(arenaID model.ArenaID) string {
	return fmt.Sprintf("%s:idx:open_in_arena:%s", keyPrefix, arenaID)
}

// deviceKey returns the Redis key for a Device
func deviceKey(playerID model.PlayerID, token string) string {
	return fmt.Sprintf("%s:device:%s:%s", keyPrefix, playerID, token)
}

// devicesForPlayerIndexKey returns the Redis key for the SET of device
// keys registered to a player
func devicesForPlayerIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:devices_for_player:%s", keyPrefix, playerID)
}

// deviceTokenIndexKey returns the Redis key for the token -> device key index
func deviceTokenIndexKey(token string) string {
	return fmt.Sprintf("%s:idx:device_token:%s", keyPrefix, token)
}
