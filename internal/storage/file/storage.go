// Package file implements storage on the local filesystem using the original
// plain-text encodings: one `name,password` line per account, one
// `position,mark` line per replay move, one replay file per index.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

const (
	accountsFile = "PlayerAccountData.txt"
	counterFile  = "ReplayIndex.txt"
)

// Storage is a filesystem-backed implementation of the storage interface.
// All writes go to a temp file first and are renamed into place, so a crash
// mid-write cannot corrupt an existing file.
type Storage struct {
	mu  sync.Mutex
	dir string
}

// New creates a file storage rooted at dir, creating it if needed.
func New(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) SaveAccounts(ctx context.Context, accounts []model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	for _, a := range accounts {
		sb.WriteString(a.Name)
		sb.WriteByte(',')
		sb.WriteString(a.Password)
		sb.WriteByte('\n')
	}

	return s.writeAtomic(accountsFile, []byte(sb.String()))
}

func (s *Storage) LoadAccounts(ctx context.Context) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, accountsFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read accounts: %w", err)
	}

	var accounts []model.Account
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		name, password, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("malformed account line %q", line)
		}
		accounts = append(accounts, model.Account{Name: name, Password: password})
	}
	return accounts, nil
}

// Replay operations

func (s *Storage) NextReplayIndex(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := 0
	data, err := os.ReadFile(filepath.Join(s.dir, counterFile))
	if err == nil {
		last, err = strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			return 0, fmt.Errorf("malformed replay counter: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("read replay counter: %w", err)
	}

	next := last + 1
	if err := s.writeAtomic(counterFile, []byte(strconv.Itoa(next)+"\n")); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *Storage) SaveReplay(ctx context.Context, index int, moves []model.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	for _, m := range moves {
		sb.WriteString(strconv.Itoa(m.Position))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(m.Mark))
		sb.WriteByte('\n')
	}

	return s.writeAtomic(replayFile(index), []byte(sb.String()))
}

func (s *Storage) LoadReplay(ctx context.Context, index int) ([]model.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, replayFile(index)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.ErrReplayNotFound
		}
		return nil, fmt.Errorf("read replay %d: %w", index, err)
	}

	moves := []model.Move{}
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		posStr, markStr, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("malformed replay line %q", line)
		}
		pos, err := strconv.Atoi(posStr)
		if err != nil {
			return nil, fmt.Errorf("malformed replay position %q", posStr)
		}
		mark, err := strconv.Atoi(markStr)
		if err != nil {
			return nil, fmt.Errorf("malformed replay mark %q", markStr)
		}
		moves = append(moves, model.Move{Position: pos, Mark: mark})
	}
	return moves, nil
}

// writeAtomic writes data to a temp file in the storage dir and renames it
// over name. Caller holds s.mu.
func (s *Storage) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s into place: %w", name, err)
	}
	return nil
}

// replayFile returns the file name for a replay index, matching the
// original's `<index>.txt` layout.
func replayFile(index int) string {
	return strconv.Itoa(index) + ".txt"
}
