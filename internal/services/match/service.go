// Package match implements single-slot matchmaking: at most one player waits
// at a time, and the next request pairs with them.
package match

import (
	"log/slog"
	"sync"

	"github.com/mcoot/tictacgame-go/internal/dependencies/random"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/services/session"
)

// Pairing is the outcome of an enqueue that completed a match. First plays
// mark 1 and takes the opening turn; Second plays mark 0.
type Pairing struct {
	Session *model.GameSession
	First   model.ConnID
	Second  model.ConnID
}

// Service holds the single waiting slot and creates sessions when it fills.
type Service struct {
	registry *session.Registry
	random   random.Random
	logger   *slog.Logger

	mu      sync.Mutex
	waiting model.ConnID
	hasWait bool
}

// New creates a new matchmaking Service
func New(registry *session.Registry, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		registry: registry,
		random:   random,
		logger:   logger,
	}
}

// Enqueue adds id to the matchmaking queue. With the slot empty the player
// waits and nil is returned. With the slot occupied the waiting player is
// consumed, a session is created and turn order is decided by a coin flip.
// A repeat enqueue from the player already waiting keeps them waiting.
func (s *Service) Enqueue(id model.ConnID) *Pairing {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasWait || s.waiting == id {
		s.waiting = id
		s.hasWait = true
		s.logger.Info("player waiting for match", slog.Int("conn", int(id)))
		return nil
	}

	opponent := s.waiting
	s.hasWait = false

	gs := s.registry.Create(opponent, id)

	first, second := opponent, id
	if s.random.Intn(2) == 1 {
		first, second = id, opponent
	}

	s.logger.Info("players paired",
		slog.String("session", string(gs.ID)),
		slog.Int("first", int(first)),
		slog.Int("second", int(second)),
	)

	return &Pairing{Session: gs, First: first, Second: second}
}

// ClearIfWaiting empties the slot when it holds id. Called on disconnect so
// a dead connection cannot occupy the queue.
func (s *Service) ClearIfWaiting(id model.ConnID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasWait && s.waiting == id {
		s.hasWait = false
		s.logger.Info("waiting player removed", slog.Int("conn", int(id)))
		return true
	}
	return false
}

// Waiting reports the currently waiting connection, if any.
func (s *Service) Waiting() (model.ConnID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting, s.hasWait
}
