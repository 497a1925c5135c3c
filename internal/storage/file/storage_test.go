package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictacgame-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	dir     string
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.dir = s.T().TempDir()

	st, err := New(s.dir)
	s.Require().NoError(err)

	s.storage = st
	s.ctx = context.Background()
}

// Account tests

func (s *StorageSuite) TestLoadAccountsEmptyDir() {
	accounts, err := s.storage.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Empty(accounts)
}

func (s *StorageSuite) TestSaveAndLoadAccounts() {
	in := []model.Account{
		{Name: "alice", Password: "hunter2"},
		{Name: "bob", Password: "swordfish"},
	}

	s.Require().NoError(s.storage.SaveAccounts(s.ctx, in))

	out, err := s.storage.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(in, out)
}

func (s *StorageSuite) TestSaveAccountsRewritesWholeSet() {
	s.Require().NoError(s.storage.SaveAccounts(s.ctx, []model.Account{
		{Name: "alice", Password: "hunter2"},
		{Name: "bob", Password: "swordfish"},
	}))
	s.Require().NoError(s.storage.SaveAccounts(s.ctx, []model.Account{
		{Name: "alice", Password: "hunter2"},
	}))

	out, err := s.storage.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Len(out, 1)
}

func (s *StorageSuite) TestAccountFileFormat() {
	s.Require().NoError(s.storage.SaveAccounts(s.ctx, []model.Account{
		{Name: "alice", Password: "hunter2"},
		{Name: "bob", Password: "swordfish"},
	}))

	data, err := os.ReadFile(filepath.Join(s.dir, "PlayerAccountData.txt"))
	s.Require().NoError(err)
	s.Equal("alice,hunter2\nbob,swordfish\n", string(data))
}

func (s *StorageSuite) TestNoTempFilesLeftBehind() {
	s.Require().NoError(s.storage.SaveAccounts(s.ctx, []model.Account{
		{Name: "alice", Password: "hunter2"},
	}))

	entries, err := os.ReadDir(s.dir)
	s.Require().NoError(err)
	s.Len(entries, 1)
}

// Replay tests

func (s *StorageSuite) TestNextReplayIndexIncrements() {
	first, err := s.storage.NextReplayIndex(s.ctx)
	s.Require().NoError(err)
	second, err := s.storage.NextReplayIndex(s.ctx)
	s.Require().NoError(err)

	s.Equal(1, first)
	s.Equal(2, second)
}

func (s *StorageSuite) TestReplayIndexSurvivesReopen() {
	_, err := s.storage.NextReplayIndex(s.ctx)
	s.Require().NoError(err)

	reopened, err := New(s.dir)
	s.Require().NoError(err)

	second, err := reopened.NextReplayIndex(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, second)
}

func (s *StorageSuite) TestSaveAndLoadReplay() {
	moves := []model.Move{
		{Position: 4, Mark: 1},
		{Position: 0, Mark: 0},
		{Position: 8, Mark: 1},
	}

	s.Require().NoError(s.storage.SaveReplay(s.ctx, 1, moves))

	out, err := s.storage.LoadReplay(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(moves, out)
}

func (s *StorageSuite) TestLoadReplayEmptyMoveList() {
	s.Require().NoError(s.storage.SaveReplay(s.ctx, 1, nil))

	out, err := s.storage.LoadReplay(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(out)
}

func (s *StorageSuite) TestLoadReplayNotFound() {
	_, err := s.storage.LoadReplay(s.ctx, 42)
	s.ErrorIs(err, model.ErrReplayNotFound)
}

func (s *StorageSuite) TestReplayFileFormat() {
	s.Require().NoError(s.storage.SaveReplay(s.ctx, 3, []model.Move{
		{Position: 4, Mark: 1},
		{Position: 0, Mark: 0},
	}))

	data, err := os.ReadFile(filepath.Join(s.dir, "3.txt"))
	s.Require().NoError(err)
	s.Equal("4,1\n0,0\n", string(data))
}
