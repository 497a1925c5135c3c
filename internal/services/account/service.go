// Package account implements the durable registry of player accounts.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// Service holds the full account set in memory and rewrites it to storage on
// every successful creation. Names are the unique key, compared exactly and
// case-sensitively.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger

	mu       sync.RWMutex
	accounts []model.Account
	byName   map[string]int
}

// New creates a new account Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		byName:  make(map[string]int),
	}
}

// Load reads the persisted account set into memory. Call once at startup.
func (s *Service) Load(ctx context.Context) error {
	accounts, err := s.storage.LoadAccounts(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = accounts
	s.byName = make(map[string]int, len(accounts))
	for i, a := range accounts {
		s.byName[a.Name] = i
	}

	s.logger.Info("accounts loaded", slog.Int("count", len(accounts)))
	return nil
}

// Create registers a new account. It fails with model.ErrNameInUse when the
// name is taken. The in-memory insert is rolled back if the durable write
// fails, so the set only grows when persistence succeeded.
func (s *Service) Create(ctx context.Context, name, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[name]; exists {
		return model.ErrNameInUse
	}

	s.accounts = append(s.accounts, model.Account{Name: name, Password: password})

	if err := s.storage.SaveAccounts(ctx, s.accounts); err != nil {
		s.accounts = s.accounts[:len(s.accounts)-1]
		return fmt.Errorf("persist accounts: %w", err)
	}

	s.byName[name] = len(s.accounts) - 1
	s.logger.Info("account created", slog.String("name", name))
	return nil
}

// Authenticate checks a name/password pair against the registry.
func (s *Service) Authenticate(ctx context.Context, name, password string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, exists := s.byName[name]
	if !exists {
		return model.ErrNameNotFound
	}
	if s.accounts[i].Password != password {
		return model.ErrIncorrectPassword
	}
	return nil
}

// Count returns the number of registered accounts.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}
