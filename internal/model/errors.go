package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrNameInUse         = errors.New("account name already in use")
	ErrNameNotFound      = errors.New("account name not found")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Session errors
	ErrSessionNotFound = errors.New("no session for this connection")
	ErrNoLiveSessions  = errors.New("no live sessions to watch")

	// Replay errors
	ErrReplayNotFound = errors.New("replay not found")
)
