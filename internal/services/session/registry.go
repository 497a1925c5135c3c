// Package session owns the set of live game sessions.
package session

import (
	"log/slog"
	"sync"

	"github.com/mcoot/tictacgame-go/internal/dependencies/clock"
	"github.com/mcoot/tictacgame-go/internal/dependencies/random"
	"github.com/mcoot/tictacgame-go/internal/model"
)

const (
	// SessionIDLength is the length of generated session ids
	SessionIDLength = 8
	// SessionIDAlphabet is the characters used in session ids
	SessionIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Registry is the single owner of all live sessions. Lookup is a linear scan
// with first-match-wins; sessions are few enough that this is a deliberate
// simplification rather than a map keyed by connection.
type Registry struct {
	clock  clock.Clock
	random random.Random
	logger *slog.Logger

	mu       sync.RWMutex
	sessions []*model.GameSession
}

// NewRegistry creates a new session Registry
func NewRegistry(clock clock.Clock, random random.Random, logger *slog.Logger) *Registry {
	return &Registry{
		clock:  clock,
		random: random,
		logger: logger,
	}
}

// Create allocates a new session for the two players and adds it to the live
// set.
func (r *Registry) Create(playerA, playerB model.ConnID) *model.GameSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &model.GameSession{
		ID:        model.SessionID(r.random.String(SessionIDLength, SessionIDAlphabet)),
		PlayerA:   playerA,
		PlayerB:   playerB,
		CreatedAt: r.clock.Now(),
	}
	r.sessions = append(r.sessions, s)

	r.logger.Info("session created",
		slog.String("session", string(s.ID)),
		slog.Int("player_a", int(playerA)),
		slog.Int("player_b", int(playerB)),
	)
	return s
}

// FindByPlayer returns the first live session in which id is a participant,
// or model.ErrSessionNotFound.
func (r *Registry) FindByPlayer(id model.ConnID) (*model.GameSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findByPlayerLocked(id)
}

func (r *Registry) findByPlayerLocked(id model.ConnID) (*model.GameSession, error) {
	for _, s := range r.sessions {
		if s.HasPlayer(id) {
			return s, nil
		}
	}
	return nil, model.ErrSessionNotFound
}

// AppendMove records a move and returns its 0-based position in replay order.
func (r *Registry) AppendMove(s *model.GameSession, move model.Move) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.Moves = append(s.Moves, move)
	return len(s.Moves) - 1
}

// Moves returns a copy of the session's move list in replay order.
func (r *Registry) Moves(s *model.GameSession) []model.Move {
	r.mu.RLock()
	defer r.mu.RUnlock()

	moves := make([]model.Move, len(s.Moves))
	copy(moves, s.Moves)
	return moves
}

// AddSpectator attaches id to the session. Duplicate requests are ignored so
// a spectator never receives doubled broadcasts.
func (r *Registry) AddSpectator(s *model.GameSession, id model.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.HasSpectator(id) {
		return false
	}
	s.Spectators = append(s.Spectators, id)
	return true
}

// Spectators returns a copy of the session's spectator list.
func (r *Registry) Spectators(s *model.GameSession) []model.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]model.ConnID, len(s.Spectators))
	copy(specs, s.Spectators)
	return specs
}

// Remove drops the session from the live set.
func (r *Registry) Remove(s *model.GameSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(s)
}

func (r *Registry) removeLocked(s *model.GameSession) {
	for i, live := range r.sessions {
		if live == s {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			r.logger.Info("session removed", slog.String("session", string(s.ID)))
			return
		}
	}
}

// Random picks a live session by sampling a random participant from the
// flattened (playerA, playerB) list across all sessions, then resolving it
// via the usual first-match-wins lookup. Returns model.ErrNoLiveSessions
// when nothing is live.
func (r *Registry) Random() (*model.GameSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.sessions) == 0 {
		return nil, model.ErrNoLiveSessions
	}

	players := make([]model.ConnID, 0, len(r.sessions)*2)
	for _, s := range r.sessions {
		players = append(players, s.PlayerA, s.PlayerB)
	}

	pick := players[r.random.Intn(len(players))]
	return r.findByPlayerLocked(pick)
}

// DetachConn reacts to a connection going away: the connection is removed
// from every spectator list, and any session it was playing in is dropped.
func (r *Registry) DetachConn(id model.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		for i, sp := range s.Spectators {
			if sp == id {
				s.Spectators = append(s.Spectators[:i], s.Spectators[i+1:]...)
				break
			}
		}
	}

	if s, err := r.findByPlayerLocked(id); err == nil {
		r.logger.Info("session abandoned by disconnect",
			slog.String("session", string(s.ID)),
			slog.Int("conn", int(id)),
		)
		r.removeLocked(s)
	}
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshot returns copies of all live sessions, for the admin API.
func (r *Registry) Snapshot() []model.GameSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.GameSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		c := *s
		c.Moves = append([]model.Move(nil), s.Moves...)
		c.Spectators = append([]model.ConnID(nil), s.Spectators...)
		out = append(out, c)
	}
	return out
}
