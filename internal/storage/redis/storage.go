package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface. The
// account set lives under a single key and is rewritten wholesale, matching
// the file backend's whole-set-replace semantics; replays are one key per
// index and the counter is a Redis INCR.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) SaveAccounts(ctx context.Context, accounts []model.Account) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, accountsKey(), data, 0).Err()
}

func (s *Storage) LoadAccounts(ctx context.Context) ([]model.Account, error) {
	data, err := s.client.Get(ctx, accountsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var accounts []model.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return accounts, nil
}

// Replay operations

func (s *Storage) NextReplayIndex(ctx context.Context) (int, error) {
	next, err := s.client.Incr(ctx, replayCounterKey()).Result()
	if err != nil {
		return 0, err
	}
	return int(next), nil
}

func (s *Storage) SaveReplay(ctx context.Context, index int, moves []model.Move) error {
	data, err := json.Marshal(moves)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, replayKey(index), data, 0).Err()
}

func (s *Storage) LoadReplay(ctx context.Context, index int) ([]model.Move, error) {
	data, err := s.client.Get(ctx, replayKey(index)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrReplayNotFound
		}
		return nil, err
	}

	var moves []model.Move
	if err := json.Unmarshal(data, &moves); err != nil {
		return nil, fmt.Errorf("decode replay %d: %w", index, err)
	}
	return moves, nil
}
