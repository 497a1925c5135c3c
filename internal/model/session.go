package model

import "time"

// ConnID is the opaque connection identity assigned by the transport for one
// live connection. The core never validates it beyond equality checks.
type ConnID int

// SessionID identifies a live game session. Used for logging and the admin
// API; the wire protocol itself addresses sessions by participant ConnID.
type SessionID string

// GameSession is one active two-player match plus its spectators and move
// history. PlayerA and PlayerB are fixed for the session's life; Moves and
// Spectators only grow, except for disconnect detach.
type GameSession struct {
	ID         SessionID `json:"id"`
	PlayerA    ConnID    `json:"player_a"`
	PlayerB    ConnID    `json:"player_b"`
	Moves      []Move    `json:"moves"`
	Spectators []ConnID  `json:"spectators"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasPlayer reports whether id is one of the two participants.
func (s *GameSession) HasPlayer(id ConnID) bool {
	return s.PlayerA == id || s.PlayerB == id
}

// Opponent returns the other participant. The caller must have checked
// HasPlayer first; for a non-participant it returns PlayerA.
func (s *GameSession) Opponent(id ConnID) ConnID {
	if s.PlayerA == id {
		return s.PlayerB
	}
	return s.PlayerA
}

// HasSpectator reports whether id is already attached as a spectator.
func (s *GameSession) HasSpectator(id ConnID) bool {
	for _, sp := range s.Spectators {
		if sp == id {
			return true
		}
	}
	return false
}
