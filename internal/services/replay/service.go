// Package replay persists completed matches' move lists under an
// auto-incrementing index and reads them back.
package replay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// Service records and retrieves replays. Indices are assigned once and never
// reused; a failed save burns its index rather than filling gaps.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new replay Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Save persists the move list and returns its assigned index.
func (s *Service) Save(ctx context.Context, moves []model.Move) (int, error) {
	index, err := s.storage.NextReplayIndex(ctx)
	if err != nil {
		return 0, fmt.Errorf("assign replay index: %w", err)
	}

	if err := s.storage.SaveReplay(ctx, index, moves); err != nil {
		return 0, fmt.Errorf("persist replay %d: %w", index, err)
	}

	s.logger.Info("replay saved", slog.Int("index", index), slog.Int("moves", len(moves)))
	return index, nil
}

// Load reads back the move list saved under index, in original order.
// Returns model.ErrReplayNotFound when no replay has that index.
func (s *Service) Load(ctx context.Context, index int) ([]model.Move, error) {
	return s.storage.LoadReplay(ctx, index)
}
