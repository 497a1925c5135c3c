package storage

import (
	"context"

	"github.com/mcoot/tictacgame-go/internal/model"
)

// Storage defines the interface for durable persistence. The account set is
// written wholesale on every change (the persisted format is part of the
// protocol contract); replays are written once under their index and never
// mutated.
type Storage interface {
	// Account operations
	SaveAccounts(ctx context.Context, accounts []model.Account) error
	LoadAccounts(ctx context.Context) ([]model.Account, error)

	// Replay operations
	NextReplayIndex(ctx context.Context) (int, error)
	SaveReplay(ctx context.Context, index int, moves []model.Move) error
	LoadReplay(ctx context.Context, index int) ([]model.Move, error)
}
