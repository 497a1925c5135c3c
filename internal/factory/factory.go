// Package factory wires the application's services together.
package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/tictacgame-go/internal/dependencies/clock"
	"github.com/mcoot/tictacgame-go/internal/dependencies/random"
	"github.com/mcoot/tictacgame-go/internal/services/account"
	"github.com/mcoot/tictacgame-go/internal/services/match"
	"github.com/mcoot/tictacgame-go/internal/services/replay"
	"github.com/mcoot/tictacgame-go/internal/services/session"
	"github.com/mcoot/tictacgame-go/internal/storage"
	filestorage "github.com/mcoot/tictacgame-go/internal/storage/file"
	redisstorage "github.com/mcoot/tictacgame-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeFile  = "file"
	StorageTypeRedis = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Accounts   *account.Service
	Registry   *session.Registry
	Matchmaker *match.Service
	Replays    *replay.Service
}

// Config holds configuration for the application factory
type Config struct {
	// StorageType selects the storage backend ("file" or "redis")
	// If empty, defaults to "file"
	StorageType string
	// DataDir is the directory for the file backend
	DataDir string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired. It loads the
// persisted account set before returning.
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeFile
	}

	var store storage.Storage
	switch storageType {
	case StorageTypeFile:
		dir := cfg.DataDir
		if dir == "" {
			dir = "data"
		}
		fileStore, err := filestorage.New(dir)
		if err != nil {
			return nil, err
		}
		store = fileStore
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'file' or 'redis'")
	}

	app := NewWithDependencies(store, clock.New(), random.New(), logger)

	if err := app.Accounts.Load(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

// NewWithDependencies creates an App with the given dependencies (useful for
// testing). It does not load persisted accounts.
func NewWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	registry := session.NewRegistry(clk, rnd, logger)

	return &App{
		Storage:    store,
		Clock:      clk,
		Random:     rnd,
		Accounts:   account.New(store, logger),
		Registry:   registry,
		Matchmaker: match.New(registry, rnd, logger),
		Replays:    replay.New(store, logger),
	}
}
