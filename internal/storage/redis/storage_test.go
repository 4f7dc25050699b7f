package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/jordanjustice/gotcha-api/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) openMatch(id model.MatchID, seeker, opponent model.PlayerID, arenaID model.ArenaID) *model.Match {
	match := &model.Match{
		ID:         id,
		SeekerID:   seeker,
		OpponentID: opponent,
		ArenaID:    arenaID,
		MatchedAt:  s.now,
	}
	s.Require().NoError(s.storage.CreateMatch(s.ctx, match))
	return match
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:           "p_1",
		Name:         "Alice",
		EmailAddress: "alice@example.com",
		CreatedAt:    s.now,
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "p_1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.Name, retrieved.Name)
	s.True(retrieved.CreatedAt.Equal(s.now))
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Credentials tests

func (s *StorageSuite) TestSaveAndGetCredentials() {
	creds := &model.Credentials{
		PlayerID:     "p_1",
		EmailAddress: "alice@example.com",
		PasswordHash: "hash123",
		CreatedAt:    s.now,
	}

	err := s.storage.SaveCredentials(s.ctx, creds)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetCredentialsByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p_1"), retrieved.PlayerID)
	s.Equal("hash123", retrieved.PasswordHash)
}

func (s *StorageSuite) TestGetCredentialsByEmailIsCaseInsensitive() {
	creds := &model.Credentials{
		PlayerID:     "p_1",
		EmailAddress: "alice@example.com",
		PasswordHash: "hash123",
	}
	_ = s.storage.SaveCredentials(s.ctx, creds)

	retrieved, err := s.storage.GetCredentialsByEmail(s.ctx, "Alice@Example.COM")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p_1"), retrieved.PlayerID)
}

func (s *StorageSuite) TestGetCredentialsByEmailNotFound() {
	_, err := s.storage.GetCredentialsByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Arena tests

func (s *StorageSuite) TestSaveAndGetArena() {
	arena := &model.Arena{
		ID:           "a_1",
		LocationName: "Congress Hall",
		Latitude:     30.2652,
		Longitude:    -97.7451,
		City:         "Austin",
	}

	err := s.storage.SaveArena(s.ctx, arena)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetArena(s.ctx, "a_1")
	s.Require().NoError(err)
	s.Equal(arena.LocationName, retrieved.LocationName)
	s.Equal(arena.Latitude, retrieved.Latitude)
}

func (s *StorageSuite) TestGetArenaNotFound() {
	_, err := s.storage.GetArena(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrArenaNotFound)
}

func (s *StorageSuite) TestListArenas() {
	_ = s.storage.SaveArena(s.ctx, &model.Arena{ID: "a_1", LocationName: "First"})
	_ = s.storage.SaveArena(s.ctx, &model.Arena{ID: "a_2", LocationName: "Second"})

	arenas, err := s.storage.ListArenas(s.ctx)
	s.Require().NoError(err)
	s.Len(arenas, 2)
}

func (s *StorageSuite) TestListArenasEmpty() {
	arenas, err := s.storage.ListArenas(s.ctx)
	s.Require().NoError(err)
	s.Empty(arenas)
}

// Arena membership tests

func (s *StorageSuite) TestAddArenaPlayer() {
	added, err := s.storage.AddArenaPlayer(s.ctx, "a_1", "p_1", s.now)
	s.Require().NoError(err)
	s.True(added)

	playing, err := s.storage.IsArenaPlayer(s.ctx, "a_1", "p_1")
	s.Require().NoError(err)
	s.True(playing)
}

func (s *StorageSuite) TestAddArenaPlayerTwicePreservesJoinTime() {
	later := s.now.Add(time.Hour)

	added, err := s.storage.AddArenaPlayer(s.ctx, "a_1", "p_1", s.now)
	s.Require().NoError(err)
	s.True(added)

	added, err = s.storage.AddArenaPlayer(s.ctx, "a_1", "p_1", later)
	s.Require().NoError(err)
	s.False(added)

	players, err := s.storage.GetArenaPlayers(s.ctx, "a_1")
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.True(players[0].JoinedAt.Equal(s.now))
}

func (s *StorageSuite) TestRemoveArenaPlayer() {
	_, _ = s.storage.AddArenaPlayer(s.ctx, "a_1", "p_1", s.now)

	err := s.storage.RemoveArenaPlayer(s.ctx, "a_1", "p_1")
	s.Require().NoError(err)

	playing, err := s.storage.IsArenaPlayer(s.ctx, "a_1", "p_1")
	s.Require().NoError(err)
	s.False(playing)
}

func (s *StorageSuite) TestGetArenaPlayersScopedToArena() {
	_, _ = s.storage.AddArenaPlayer(s.ctx, "a_1", "p_1", s.now)
	_, _ = s.storage.AddArenaPlayer(s.ctx, "a_1", "p_2", s.now.Add(time.Minute))
	_, _ = s.storage.AddArenaPlayer(s.ctx, "a_2", "p_3", s.now)

	players, err := s.storage.GetArenaPlayers(s.ctx, "a_1")
	s.Require().NoError(err)
	s.Len(players, 2)
}

// Match tests

func (s *StorageSuite) TestCreateAndGetMatch() {
	match := s.openMatch("m_1", "p_1", "p_2", "a_1")

	retrieved, err := s.storage.GetMatch(s.ctx, "m_1")
	s.Require().NoError(err)
	s.Equal(match.SeekerID, retrieved.SeekerID)
	s.Equal(match.OpponentID, retrieved.OpponentID)
	s.Equal(model.MatchStateOpen, retrieved.State())
	s.True(retrieved.MatchedAt.Equal(s.now))
}

func (s *StorageSuite) TestGetMatchNotFound() {
	_, err := s.storage.GetMatch(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestCreateMatchRejectsInvalid() {
	err := s.storage.CreateMatch(s.ctx, &model.Match{
		ID:         "m_1",
		SeekerID:   "p_1",
		OpponentID: "p_1",
		ArenaID:    "a_1",
		MatchedAt:  s.now,
	})
	s.ErrorIs(err, model.ErrSeekerIsOpponent)
}

func (s *StorageSuite) TestCreateMatchConflictsWithOpenMatch() {
	s.openMatch("m_1", "p_1", "p_2", "a_1")

	err := s.storage.CreateMatch(s.ctx, &model.Match{
		ID:         "m_2",
		SeekerID:   "p_3",
		OpponentID: "p_2",
		ArenaID:    "a_1",
		MatchedAt:  s.now,
	})
	s.ErrorIs(err, model.ErrMatchConflict)
}

func (s *StorageSuite) TestCreateMatchAllowedInOtherArena() {
	s.openMatch("m_1", "p_1", "p_2", "a_1")

	err := s.storage.CreateMatch(s.ctx, &model.Match{
		ID:         "m_2",
		SeekerID:   "p_1",
		OpponentID: "p_3",
		ArenaID:    "a_2",
		MatchedAt:  s.now,
	})
	s.NoError(err)
}

func (s *StorageSuite) TestCreateMatchAllowedAfterTerminalState() {
	match := s.openMatch("m_1", "p_1", "p_2", "a_1")
	ignoredAt := s.now.Add(time.Minute)
	match.IgnoredAt = &ignoredAt
	s.Require().NoError(s.storage.UpdateMatch(s.ctx, match))

	err := s.storage.CreateMatch(s.ctx, &model.Match{
		ID:         "m_2",
		SeekerID:   "p_1",
		OpponentID: "p_2",
		ArenaID:    "a_1",
		MatchedAt:  s.now.Add(2 * time.Minute),
	})
	s.NoError(err)
}

func (s *StorageSuite) TestUpdateMatchBumpsVersion() {
	match := s.openMatch("m_1", "p_1", "p_2", "a_1")
	s.Equal(0, match.Version)

	pendingAt := s.now.Add(time.Minute)
	match.ConfirmationCode = "0042"
	match.PendingAt = &pendingAt
	s.Require().NoError(s.storage.UpdateMatch(s.ctx, match))
	s.Equal(1, match.Version)

	retrieved, err := s.storage.GetMatch(s.ctx, "m_1")
	s.Require().NoError(err)
	s.Equal(1, retrieved.Version)
	s.Equal(model.MatchStatePending, retrieved.State())
	s.Equal("0042", retrieved.ConfirmationCode)
}

func (s *StorageSuite) TestUpdateMatchStaleVersionConflicts() {
	s.openMatch("m_1", "p_1", "p_2", "a_1")

	first, err := s.storage.GetMatch(s.ctx, "m_1")
	s.Require().NoError(err)
	second, err := s.storage.GetMatch(s.ctx, "m_1")
	s.Require().NoError(err)

	pendingAt := s.now.Add(time.Minute)
	first.ConfirmationCode = "0042"
	first.PendingAt = &pendingAt
	s.Require().NoError(s.storage.UpdateMatch(s.ctx, first))

	ignoredAt := s.now.Add(2 * time.Minute)
	second.IgnoredAt = &ignoredAt
	err = s.storage.UpdateMatch(s.ctx, second)
	s.ErrorIs(err, model.ErrMatchConflict)

	retrieved, err := s.storage.GetMatch(s.ctx, "m_1")
	s.Require().NoError(err)
	s.Equal(model.MatchStatePending, retrieved.State())
}

func (s *StorageSuite) TestUpdateMatchNotFound() {
	err := s.storage.UpdateMatch(s.ctx, &model.Match{
		ID:         "m_missing",
		SeekerID:   "p_1",
		OpponentID: "p_2",
		ArenaID:    "a_1",
		MatchedAt:  s.now,
	})
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestGetMatchesForPlayer() {
	s.openMatch("m_1", "p_1", "p_2", "a_1")
	s.openMatch("m_2", "p_3", "p_1", "a_2")
	s.openMatch("m_3", "p_4", "p_5", "a_1")

	matches, err := s.storage.GetMatchesForPlayer(s.ctx, "p_1")
	s.Require().NoError(err)
	s.Len(matches, 2)
}

func (s *StorageSuite) TestGetMatchesInArena() {
	s.openMatch("m_1", "p_1", "p_2", "a_1")
	s.openMatch("m_2", "p_3", "p_4", "a_1")
	s.openMatch("m_3", "p_5", "p_6", "a_2")

	matches, err := s.storage.GetMatchesInArena(s.ctx, "a_1")
	s.Require().NoError(err)
	s.Len(matches, 2)
}

// Device tests

func (s *StorageSuite) TestSaveAndGetDevice() {
	device := &model.Device{
		PlayerID:     "p_1",
		Token:        "apns-token-1",
		RegisteredAt: s.now,
	}

	err := s.storage.SaveDevice(s.ctx, device)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetDevice(s.ctx, "p_1", "apns-token-1")
	s.Require().NoError(err)
	s.Equal(device.Token, retrieved.Token)
}

func (s *StorageSuite) TestGetDeviceNotFound() {
	_, err := s.storage.GetDevice(s.ctx, "p_1", "nonexistent")
	s.ErrorIs(err, model.ErrDeviceNotFound)
}

func (s *StorageSuite) TestGetDevicesForPlayer() {
	_ = s.storage.SaveDevice(s.ctx, &model.Device{PlayerID: "p_1", Token: "t_1", RegisteredAt: s.now})
	_ = s.storage.SaveDevice(s.ctx, &model.Device{PlayerID: "p_1", Token: "t_2", RegisteredAt: s.now})
	_ = s.storage.SaveDevice(s.ctx, &model.Device{PlayerID: "p_2", Token: "t_3", RegisteredAt: s.now})

	devices, err := s.storage.GetDevicesForPlayer(s.ctx, "p_1")
	s.Require().NoError(err)
	s.Len(devices, 2)
}

func (s *StorageSuite) TestDeleteDeviceByToken() {
	_ = s.storage.SaveDevice(s.ctx, &model.Device{PlayerID: "p_1", Token: "t_1", RegisteredAt: s.now})

	err := s.storage.DeleteDeviceByToken(s.ctx, "t_1")
	s.Require().NoError(err)

	_, err = s.storage.GetDevice(s.ctx, "p_1", "t_1")
	s.ErrorIs(err, model.ErrDeviceNotFound)

	devices, err := s.storage.GetDevicesForPlayer(s.ctx, "p_1")
	s.Require().NoError(err)
	s.Empty(devices)
}

func (s *StorageSuite) TestDeleteDeviceByTokenNotFound() {
	err := s.storage.DeleteDeviceByToken(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrDeviceNotFound)
}
