package match

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jordanjustice/gotcha-api/internal/dependencies/clock"
	"github.com/jordanjustice/gotcha-api/internal/dependencies/random"
	"github.com/jordanjustice/gotcha-api/internal/model"
	"github.com/jordanjustice/gotcha-api/internal/services/arena"
	"github.com/jordanjustice/gotcha-api/internal/services/notify"
	"github.com/jordanjustice/gotcha-api/internal/storage"
)

const (
	// ConfirmationCodeLength is the digit count of capture codes
	ConfirmationCodeLength = 4

	matchIDLength   = 12
	matchIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Service drives the match lifecycle: pairing a seeker with an opponent,
// the capture/confirmation workflow, and the notifications around it.
type Service struct {
	storage      storage.Storage
	arenaService *arena.Service
	dispatcher   *notify.Dispatcher
	clock        clock.Clock
	random       random.Random
	logger       *slog.Logger
}

// New creates a new match Service
func New(
	storage storage.Storage,
	arenaService *arena.Service,
	dispatcher *notify.Dispatcher,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:      storage,
		arenaService: arenaService,
		dispatcher:   dispatcher,
		clock:        clock,
		random:       random,
		logger:       logger,
	}
}

// RequestMatch pairs the seeker with an opponent present in the arena.
// The seeker must currently be playing in the arena. When nobody is
// available the call returns model.ErrNoOpponentAvailable, which is an
// expected outcome rather than a failure.
func (s *Service) RequestMatch(ctx context.Context, seekerID model.PlayerID, arenaID model.ArenaID) (*model.Match, error) {
	// Unknown arenas surface as not-found before the membership check
	if _, err := s.storage.GetArena(ctx, arenaID); err != nil {
		return nil, err
	}

	if err := s.arenaService.EnsurePlaying(ctx, seekerID, arenaID); err != nil {
		return nil, err
	}

	opponentID, err := s.selectOpponent(ctx, arenaID, seekerID)
	if err != nil {
		return nil, err
	}

	match := &model.Match{
		ID:         model.MatchID("m_" + s.random.String(matchIDLength, matchIDAlphabet)),
		SeekerID:   seekerID,
		OpponentID: opponentID,
		ArenaID:    arenaID,
		MatchedAt:  s.clock.Now(),
	}

	if err := s.storage.CreateMatch(ctx, match); err != nil {
		return nil, err
	}

	s.logger.Info("match created",
		slog.String("match_id", string(match.ID)),
		slog.String("arena_id", string(arenaID)),
		slog.String("seeker_id", string(seekerID)),
		slog.String("opponent_id", string(opponentID)),
	)

	return match, nil
}

// selectOpponent picks an eligible opponent in the arena. Eligible means
// present, not the seeker, and not already in an open match there.
// Candidates are taken in order of earliest arena join time, ties broken
// by lowest player id, so selection is deterministic.
func (s *Service) selectOpponent(ctx context.Context, arenaID model.ArenaID, seekerID model.PlayerID) (model.PlayerID, error) {
	present, err := s.storage.GetArenaPlayers(ctx, arenaID)
	if err != nil {
		return "", err
	}

	busy, err := s.openPlayersInArena(ctx, arenaID)
	if err != nil {
		return "", err
	}

	var candidates []*model.ArenaPlayer
	for _, ap := range present {
		if ap.PlayerID == seekerID || busy[ap.PlayerID] {
			continue
		}
		candidates = append(candidates, ap)
	}

	if len(candidates) == 0 {
		return "", model.ErrNoOpponentAvailable
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].JoinedAt.Equal(candidates[j].JoinedAt) {
			return candidates[i].JoinedAt.Before(candidates[j].JoinedAt)
		}
		return candidates[i].PlayerID < candidates[j].PlayerID
	})

	return candidates[0].PlayerID, nil
}

// openPlayersInArena returns the set of players with a non-terminal
// match in the arena
func (s *Service) openPlayersInArena(ctx context.Context, arenaID model.ArenaID) (map[model.PlayerID]bool, error) {
	matches, err := s.storage.GetMatchesInArena(ctx, arenaID)
	if err != nil {
		return nil, err
	}

	busy := make(map[model.PlayerID]bool)
	for _, m := range matches {
		if m.IsOpen() {
			busy[m.SeekerID] = true
			busy[m.OpponentID] = true
		}
	}
	return busy, nil
}

// Capture begins the confirmation workflow on an open match: generates a
// 4-digit confirmation code, marks the match pending, and alerts the
// acting player's counterpart with the code.
func (s *Service) Capture(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) (*model.Match, error) {
	match, err := s.authorizedMatch(ctx, matchID, playerID)
	if err != nil {
		return nil, err
	}

	if match.State() != model.MatchStateOpen {
		return nil, model.ErrMatchNotOpen
	}

	now := s.clock.Now()
	match.ConfirmationCode = s.random.Code(ConfirmationCodeLength)
	match.PendingAt = &now

	if err := s.storage.UpdateMatch(ctx, match); err != nil {
		return nil, err
	}

	s.logger.Info("match pending",
		slog.String("match_id", string(match.ID)),
		slog.String("player_id", string(playerID)),
	)

	// Transition is committed; notification is best-effort from here
	s.notifyCounterpart(ctx, match, playerID)

	return match, nil
}

// ConfirmCapture finalizes a pending match when the submitted code
// matches. Codes compare as exact strings, so "43" never matches "0043".
// A mismatch leaves the match pending and retryable.
func (s *Service) ConfirmCapture(ctx context.Context, matchID model.MatchID, playerID model.PlayerID, code string) (*model.Match, error) {
	match, err := s.authorizedMatch(ctx, matchID, playerID)
	if err != nil {
		return nil, err
	}

	if match.State() != model.MatchStatePending {
		return nil, model.ErrMatchNotPending
	}

	if code != match.ConfirmationCode {
		return nil, model.ErrConfirmationMismatch
	}

	now := s.clock.Now()
	match.FoundAt = &now

	if err := s.storage.UpdateMatch(ctx, match); err != nil {
		return nil, err
	}

	s.logger.Info("match found",
		slog.String("match_id", string(match.ID)),
		slog.String("seeker_id", string(match.SeekerID)),
		slog.String("opponent_id", string(match.OpponentID)),
	)

	s.notifyFound(ctx, match, match.SeekerID)
	s.notifyFound(ctx, match, match.OpponentID)

	return match, nil
}

// Ignore abandons a pending match. Ignored is terminal.
func (s *Service) Ignore(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) (*model.Match, error) {
	match, err := s.authorizedMatch(ctx, matchID, playerID)
	if err != nil {
		return nil, err
	}

	if match.State() != model.MatchStatePending {
		return nil, model.ErrMatchNotPending
	}

	now := s.clock.Now()
	match.IgnoredAt = &now

	if err := s.storage.UpdateMatch(ctx, match); err != nil {
		return nil, err
	}

	s.logger.Info("match ignored", slog.String("match_id", string(match.ID)))

	return match, nil
}

// GetMatch retrieves a match the player participates in
func (s *Service) GetMatch(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) (*model.Match, error) {
	return s.authorizedMatch(ctx, matchID, playerID)
}

// MatchesFor returns every match where the player is seeker or opponent
func (s *Service) MatchesFor(ctx context.Context, playerID model.PlayerID) ([]*model.Match, error) {
	return s.storage.GetMatchesForPlayer(ctx, playerID)
}

// OpenMatchCount counts the player's non-terminal matches
func (s *Service) OpenMatchCount(ctx context.Context, playerID model.PlayerID) (int, error) {
	matches, err := s.storage.GetMatchesForPlayer(ctx, playerID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range matches {
		if m.IsOpen() {
			count++
		}
	}
	return count, nil
}

// authorizedMatch loads a match and verifies the acting player is a
// participant still playing in its arena. Fails closed.
func (s *Service) authorizedMatch(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) (*model.Match, error) {
	match, err := s.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if !match.HasParticipant(playerID) {
		return nil, model.ErrNotPlayingMatch
	}

	if err := s.arenaService.EnsurePlaying(ctx, playerID, match.ArenaID); err != nil {
		return nil, model.ErrNotPlayingMatch
	}

	return match, nil
}

// notifyCounterpart alerts the actor's counterpart that they were met
// and need to confirm with the code on the match
func (s *Service) notifyCounterpart(ctx context.Context, match *model.Match, actorID model.PlayerID) {
	recipientID := match.OpponentFor(actorID)

	actor, err := s.storage.GetPlayer(ctx, actorID)
	if err != nil {
		s.logger.Error("notify skipped, player lookup failed",
			slog.String("match_id", string(match.ID)),
			slog.String("error", err.Error()),
		)
		return
	}

	alert := fmt.Sprintf("Gotcha! Looks like you met %s. Please confirm with their code.", actor.Name)
	s.dispatcher.Notify(ctx, recipientID, notify.CategoryConfirmCapture, alert, match)
}

// notifyFound tells a participant the match was confirmed
func (s *Service) notifyFound(ctx context.Context, match *model.Match, recipientID model.PlayerID) {
	counterpart, err := s.storage.GetPlayer(ctx, match.OpponentFor(recipientID))
	if err != nil {
		s.logger.Error("notify skipped, player lookup failed",
			slog.String("match_id", string(match.ID)),
			slog.String("error", err.Error()),
		)
		return
	}

	alert := fmt.Sprintf("Gotcha! You and %s found each other.", counterpart.Name)
	s.dispatcher.Notify(ctx, recipientID, notify.CategoryMatchFound, alert, match)
}
