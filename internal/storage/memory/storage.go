package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jordanjustice/gotcha-api/internal/model"
	"github.com/jordanjustice/gotcha-api/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// A single mutex serialises every operation, which is what gives
// CreateMatch and UpdateMatch their atomicity guarantees here.
type Storage struct {
	mu sync.RWMutex

	players      map[model.PlayerID]*model.Player
	credentials  map[model.PlayerID]*model.Credentials
	emailIndex   map[string]model.PlayerID
	arenas       map[model.ArenaID]*model.Arena
	arenaOrder   []model.ArenaID
	arenaPlayers map[arenaPlayerKey]*model.ArenaPlayer
	matches      map[model.MatchID]*model.Match
	devices      map[deviceKey]*model.Device
	tokenIndex   map[string]deviceKey
}

type arenaPlayerKey struct {
	arenaID  model.ArenaID
	playerID model.PlayerID
}

type deviceKey struct {
	playerID model.PlayerID
	token    string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:      make(map[model.PlayerID]*model.Player),
		credentials:  make(map[model.PlayerID]*model.Credentials),
		emailIndex:   make(map[string]model.PlayerID),
		arenas:       make(map[model.ArenaID]*model.Arena),
		arenaPlayers: make(map[arenaPlayerKey]*model.ArenaPlayer),
		matches:      make(map[model.MatchID]*model.Match),
		devices:      make(map[deviceKey]*model.Device),
		tokenIndex:   make(map[string]deviceKey),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.NewPlayerNotFound(id)
	}
	return player, nil
}

// Credentials operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[creds.PlayerID] = creds
	s.emailIndex[strings.ToLower(creds.EmailAddress)] = creds.PlayerID
	return nil
}

func (s *Storage) GetCredentialsByEmail(ctx context.Context, email string) (*model.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	creds, ok := s.credentials[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return creds, nil
}

// Arena operations

func (s *Storage) SaveArena(ctx context.Context, arena *model.Arena) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.arenas[arena.ID]; !ok {
		s.arenaOrder = append(s.arenaOrder, arena.ID)
	}
	s.arenas[arena.ID] = arena
	return nil
}

func (s *Storage) GetArena(ctx context.Context, id model.ArenaID) (*model.Arena, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arena, ok := s.arenas[id]
	if !ok {
		return nil, model.NewArenaNotFound(id)
	}
	return arena, nil
}

func (s *Storage) ListArenas(ctx context.Context) ([]*model.Arena, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arenas := make([]*model.Arena, 0, len(s.arenaOrder))
	for _, id := range s.arenaOrder {
		arenas = append(arenas, s.arenas[id])
	}
	return arenas, nil
}

// Arena membership operations

func (s *Storage) AddArenaPlayer(ctx context.Context, arenaID model.ArenaID, playerID model.PlayerID, joinedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := arenaPlayerKey{arenaID: arenaID, playerID: playerID}
	if _, ok := s.arenaPlayers[key]; ok {
		return false, nil
	}
	s.arenaPlayers[key] = &model.ArenaPlayer{
		ArenaID:  arenaID,
		PlayerID: playerID,
		JoinedAt: joinedAt,
	}
	return true, nil
}

func (s *Storage) RemoveArenaPlayer(ctx context.Context, arenaID model.ArenaID, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.arenaPlayers, arenaPlayerKey{arenaID: arenaID, playerID: playerID})
	return nil
}

func (s *Storage) IsArenaPlayer(ctx context.Context, arenaID model.ArenaID, playerID model.PlayerID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.arenaPlayers[arenaPlayerKey{arenaID: arenaID, playerID: playerID}]
	return ok, nil
}

func (s *Storage) GetArenaPlayers(ctx context.Context, arenaID model.ArenaID) ([]*model.ArenaPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var players []*model.ArenaPlayer
	for key, ap := range s.arenaPlayers {
		if key.arenaID == arenaID {
			players = append(players, ap)
		}
	}
	return players, nil
}

// Match operations

func (s *Storage) CreateMatch(ctx context.Context, match *model.Match) error {
	if err := match.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Uniqueness constraint: neither participant may already be in an
	// open match in this arena. Concurrent seekers lose here.
	for _, existing := range s.matches {
		if existing.ArenaID != match.ArenaID || !existing.IsOpen() {
			continue
		}
		if existing.HasParticipant(match.SeekerID) || existing.HasParticipant(match.OpponentID) {
			return model.ErrMatchConflict
		}
	}

	stored := *match
	s.matches[match.ID] = &stored
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok {
		return nil, model.NewMatchNotFound(id)
	}
	copied := *match
	return &copied, nil
}

func (s *Storage) UpdateMatch(ctx context.Context, match *model.Match) error {
	if err := match.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.matches[match.ID]
	if !ok {
		return model.NewMatchNotFound(match.ID)
	}
	if stored.Version != match.Version {
		return model.ErrMatchConflict
	}

	match.Version++
	updated := *match
	s.matches[match.ID] = &updated
	return nil
}

func (s *Storage) GetMatchesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []*model.Match
	for _, m := range s.matches {
		if m.HasParticipant(playerID) {
			copied := *m
			matches = append(matches, &copied)
		}
	}
	return matches, nil
}

func (s *Storage) GetMatchesInArena(ctx context.Context, arenaID model.ArenaID) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []*model.Match
	for _, m := range s.matches {
		if m.ArenaID == arenaID {
			copied := *m
			matches = append(matches, &copied)
		}
	}
	return matches, nil
}

// Device operations

func (s *Storage) SaveDevice(ctx context.Context, device *model.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := deviceKey{playerID: device.PlayerID, token: device.Token}
	s.devices[key] = device
	s.tokenIndex[device.Token] = key
	return nil
}

func (s *Storage) GetDevice(ctx context.Context, playerID model.PlayerID, token string) (*model.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	device, ok := s.devices[deviceKey{playerID: playerID, token: token}]
	if !ok {
		return nil, model.ErrDeviceNotFound
	}
	return device, nil
}

func (s *Storage) GetDevicesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var devices []*model.Device
	for key, d := range s.devices {
		if key.playerID == playerID {
			devices = append(devices, d)
		}
	}
	return devices, nil
}

func (s *Storage) DeleteDeviceByToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.tokenIndex[token]
	if !ok {
		return model.ErrDeviceNotFound
	}
	delete(s.devices, key)
	delete(s.tokenIndex, token)
	return nil
}
