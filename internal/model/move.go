package model

// Move is a single placement in a match: a board cell index and the mark
// placed there. Moves are append-only within a session; append order is the
// authoritative replay order.
type Move struct {
	Position int `json:"position"`
	Mark     int `json:"mark"`
}
