package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jordanjustice/gotcha-api/internal/model"
	"github.com/jordanjustice/gotcha-api/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerKey(player.ID), data, 0).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.NewPlayerNotFound(id)
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

// Credentials operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	// Pipeline keeps the record and the email index in step
	pipe := s.client.Pipeline()
	pipe.Set(ctx, credentialsKey(creds.PlayerID), data, 0)
	pipe.Set(ctx, emailIndexKey(creds.EmailAddress), string(creds.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCredentialsByEmail(ctx context.Context, email string) (*model.Credentials, error) {
	playerIDStr, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	data, err := s.client.Get(ctx, credentialsKey(model.PlayerID(playerIDStr))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Arena operations

func (s *Storage) SaveArena(ctx context.Context, arena *model.Arena) error {
	data, err := json.Marshal(arena)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, arenaKey(arena.ID), data, 0)
	pipe.SAdd(ctx, arenaIndexKey(), string(arena.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetArena(ctx context.Context, id model.ArenaID) (*model.Arena, error) {
	data, err := s.client.Get(ctx, arenaKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.NewArenaNotFound(id)
		}
		return nil, err
	}

	var arena model.Arena
	if err := json.Unmarshal(data, &arena); err != nil {
		return nil, err
	}
	return &arena, nil
}

func (s *Storage) ListArenas(ctx context.Context) ([]*model.Arena, error) {
	ids, err := s.client.SMembers(ctx, arenaIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Arena{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = arenaKey(model.ArenaID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	arenas := make([]*model.Arena, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var arena model.Arena
		if err := json.Unmarshal([]byte(val.(string)), &arena); err != nil {
			continue // Skip invalid data
		}
		arenas = append(arenas, &arena)
	}

	return arenas, nil
}

// Arena membership operations

func (s *Storage) AddArenaPlayer(ctx context.Context, arenaID model.ArenaID, playerID model.PlayerID, joinedAt time.Time) (bool, error) {
	ap := model.ArenaPlayer{
		ArenaID:  arenaID,
		PlayerID: playerID,
		JoinedAt: joinedAt,
	}
	data, err := json.Marshal(ap)
	if err != nil {
		return false, err
	}

	// HSetNX preserves the original join time on re-join
	added, err := s.client.HSetNX(ctx, arenaPlayersKey(arenaID), string(playerID), data).Result()
	if err != nil {
		return false, err
	}
	return added, nil
}

func (s *Storage) RemoveArenaPlayer(ctx context.Context, arenaID model.ArenaID, playerID model.PlayerID) error {
	return s.client.HDel(ctx, arenaPlayersKey(arenaID), string(playerID)).Err()
}

func (s *Storage) IsArenaPlayer(ctx context.Context, arenaID model.ArenaID, playerID model.PlayerID) (bool, error) {
	return s.client.HExists(ctx, arenaPlayersKey(arenaID), string(playerID)).Result()
}

func (s *Storage) GetArenaPlayers(ctx context.Context, arenaID model.ArenaID) ([]*model.ArenaPlayer, error) {
	entries, err := s.client.HGetAll(ctx, arenaPlayersKey(arenaID)).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.ArenaPlayer, 0, len(entries))
	for _, raw := range entries {
		var ap model.ArenaPlayer
		if err := json.Unmarshal([]byte(raw), &ap); err != nil {
			continue // Skip invalid data
		}
		players = append(players, &ap)
	}
	return players, nil
}

// Match operations

func (s *Storage) CreateMatch(ctx context.Context, match *model.Match) error {
	if err := match.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	openKey := openInArenaKey(match.ArenaID)

	// WATCH the open-match hash so two seekers racing for the same
	// opponent cannot both create a match: the loser's EXEC fails and
	// surfaces as a retryable conflict.
	txErr := s.client.Watch(ctx, func(tx *redis.Tx) error {
		for _, pid := range []model.PlayerID{match.SeekerID, match.OpponentID} {
			taken, err := tx.HExists(ctx, openKey, string(pid)).Result()
			if err != nil {
				return err
			}
			if taken {
				return model.ErrMatchConflict
			}
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, matchKey(match.ID), data, 0)
			pipe.HSet(ctx, openKey,
				string(match.SeekerID), string(match.ID),
				string(match.OpponentID), string(match.ID),
			)
			pipe.SAdd(ctx, matchesForPlayerIndexKey(match.SeekerID), string(match.ID))
			pipe.SAdd(ctx, matchesForPlayerIndexKey(match.OpponentID), string(match.ID))
			pipe.SAdd(ctx, matchesInArenaIndexKey(match.ArenaID), string(match.ID))
			return nil
		})
		return err
	}, openKey)

	if errors.Is(txErr, redis.TxFailedErr) {
		return model.ErrMatchConflict
	}
	return txErr
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.NewMatchNotFound(id)
		}
		return nil, err
	}

	var match model.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *Storage) UpdateMatch(ctx context.Context, match *model.Match) error {
	if err := match.Validate(); err != nil {
		return err
	}

	key := matchKey(match.ID)

	// WATCH the match and compare versions inside the transaction. At
	// most one of two concurrent transitions commits; the other sees a
	// conflict.
	txErr := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.NewMatchNotFound(match.ID)
			}
			return err
		}

		var stored model.Match
		if err := json.Unmarshal(data, &stored); err != nil {
			return err
		}
		if stored.Version != match.Version {
			return model.ErrMatchConflict
		}

		updated := *match
		updated.Version++
		updatedData, err := json.Marshal(&updated)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updatedData, 0)
			if !updated.IsOpen() {
				// Terminal matches free both participants for new pairings
				pipe.HDel(ctx, openInArenaKey(updated.ArenaID),
					string(updated.SeekerID), string(updated.OpponentID))
			}
			return nil
		})
		return err
	}, key)

	if txErr != nil {
		if errors.Is(txErr, redis.TxFailedErr) {
			return model.ErrMatchConflict
		}
		return txErr
	}

	match.Version++
	return nil
}

func (s *Storage) GetMatchesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Match, error) {
	return s.matchesByIndex(ctx, matchesForPlayerIndexKey(playerID))
}

func (s *Storage) GetMatchesInArena(ctx context.Context, arenaID model.ArenaID) ([]*model.Match, error) {
	return s.matchesByIndex(ctx, matchesInArenaIndexKey(arenaID))
}

func (s *Storage) matchesByIndex(ctx context.Context, indexKey string) ([]*model.Match, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Match{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = matchKey(model.MatchID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Match, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var match model.Match
		if err := json.Unmarshal([]byte(val.(string)), &match); err != nil {
			continue // Skip invalid data
		}
		matches = append(matches, &match)
	}

	return matches, nil
}

// Device operations

func (s *Storage) SaveDevice(ctx context.Context, device *model.Device) error {
	data, err := json.Marshal(device)
	if err != nil {
		return err
	}

	dKey := deviceKey(device.PlayerID, device.Token)

	// Pipeline keeps the record and both indexes in step
	pipe := s.client.Pipeline()
	pipe.Set(ctx, dKey, data, 0)
	pipe.SAdd(ctx, devicesForPlayerIndexKey(device.PlayerID), dKey)
	pipe.Set(ctx, deviceTokenIndexKey(device.Token), dKey, 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetDevice(ctx context.Context, playerID model.PlayerID, token string) (*model.Device, error) {
	data, err := s.client.Get(ctx, deviceKey(playerID, token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrDeviceNotFound
		}
		return nil, err
	}

	var device model.Device
	if err := json.Unmarshal(data, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

func (s *Storage) GetDevicesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Device, error) {
	deviceKeys, err := s.client.SMembers(ctx, devicesForPlayerIndexKey(playerID)).Result()
	if err != nil {
		return nil, err
	}

	if len(deviceKeys) == 0 {
		return []*model.Device{}, nil
	}

	values, err := s.client.MGet(ctx, deviceKeys...).Result()
	if err != nil {
		return nil, err
	}

	devices := make([]*model.Device, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var device model.Device
		if err := json.Unmarshal([]byte(val.(string)), &device); err != nil {
			continue // Skip invalid data
		}
		devices = append(devices, &device)
	}

	return devices, nil
}

func (s *Storage) DeleteDeviceByToken(ctx context.Context, token string) error {
	tokenKey := deviceTokenIndexKey(token)

	dKey, err := s.client.Get(ctx, tokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ErrDeviceNotFound
		}
		return err
	}

	data, err := s.client.Get(ctx, dKey).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, dKey)
	pipe.Del(ctx, tokenKey)
	if err == nil {
		var device model.Device
		if jsonErr := json.Unmarshal(data, &device); jsonErr == nil {
			pipe.SRem(ctx, devicesForPlayerIndexKey(device.PlayerID), dKey)
		}
	}
	_, pipeErr := pipe.Exec(ctx)
	return pipeErr
}
