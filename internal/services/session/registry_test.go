package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictacgame-go/internal/dependencies/mocks"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.registry = NewRegistry(s.clock, s.random, testutil.NopLogger())
}

// Create / FindByPlayer tests

func (s *RegistrySuite) TestCreateAndFindByPlayer() {
	gs := s.registry.Create(100, 200)

	forA, err := s.registry.FindByPlayer(100)
	s.Require().NoError(err)
	s.Same(gs, forA)

	forB, err := s.registry.FindByPlayer(200)
	s.Require().NoError(err)
	s.Same(gs, forB)
}

func (s *RegistrySuite) TestFindByPlayerUnknown() {
	s.registry.Create(100, 200)

	_, err := s.registry.FindByPlayer(300)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *RegistrySuite) TestFindByPlayerFirstMatchWins() {
	first := s.registry.Create(100, 200)
	s.registry.Create(100, 300)

	got, err := s.registry.FindByPlayer(100)
	s.Require().NoError(err)
	s.Same(first, got)
}

// Move tests

func (s *RegistrySuite) TestAppendMoveReturnsReplayOrder() {
	gs := s.registry.Create(100, 200)

	s.Equal(0, s.registry.AppendMove(gs, model.Move{Position: 4, Mark: 1}))
	s.Equal(1, s.registry.AppendMove(gs, model.Move{Position: 0, Mark: 0}))

	moves := s.registry.Moves(gs)
	s.Equal([]model.Move{{Position: 4, Mark: 1}, {Position: 0, Mark: 0}}, moves)
}

// Spectator tests

func (s *RegistrySuite) TestAddSpectator() {
	gs := s.registry.Create(100, 200)

	s.True(s.registry.AddSpectator(gs, 300))
	s.Equal([]model.ConnID{300}, s.registry.Spectators(gs))
}

func (s *RegistrySuite) TestAddSpectatorDedupes() {
	gs := s.registry.Create(100, 200)

	s.True(s.registry.AddSpectator(gs, 300))
	s.False(s.registry.AddSpectator(gs, 300))
	s.Len(s.registry.Spectators(gs), 1)
}

// Remove tests

func (s *RegistrySuite) TestRemove() {
	gs := s.registry.Create(100, 200)
	s.registry.Remove(gs)

	_, err := s.registry.FindByPlayer(100)
	s.ErrorIs(err, model.ErrSessionNotFound)
	_, err = s.registry.FindByPlayer(200)
	s.ErrorIs(err, model.ErrSessionNotFound)
	s.Equal(0, s.registry.Count())
}

// Random tests

func (s *RegistrySuite) TestRandomNoSessions() {
	_, err := s.registry.Random()
	s.ErrorIs(err, model.ErrNoLiveSessions)
}

func (s *RegistrySuite) TestRandomPicksFromFlattenedPlayers() {
	first := s.registry.Create(100, 200)
	second := s.registry.Create(300, 400)

	// Flattened player list is [100, 200, 300, 400]; index 2 picks 300.
	s.random.QueueIntn(2)
	got, err := s.registry.Random()
	s.Require().NoError(err)
	s.Same(second, got)

	// Index 0 picks 100.
	s.random.QueueIntn(0)
	got, err = s.registry.Random()
	s.Require().NoError(err)
	s.Same(first, got)
}

func (s *RegistrySuite) TestRandomLastIndexStaysInRange() {
	gs := s.registry.Create(100, 200)

	// MockRandom ignores n, so this exercises the top of the [0, count)
	// range: index 1 of two entries.
	s.random.QueueIntn(1)
	got, err := s.registry.Random()
	s.Require().NoError(err)
	s.Same(gs, got)
}

// DetachConn tests

func (s *RegistrySuite) TestDetachConnRemovesPlayerSession() {
	s.registry.Create(100, 200)

	s.registry.DetachConn(100)

	_, err := s.registry.FindByPlayer(200)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *RegistrySuite) TestDetachConnRemovesSpectator() {
	gs := s.registry.Create(100, 200)
	s.registry.AddSpectator(gs, 300)

	s.registry.DetachConn(300)

	s.Empty(s.registry.Spectators(gs))
	// The session itself stays live.
	_, err := s.registry.FindByPlayer(100)
	s.NoError(err)
}

func (s *RegistrySuite) TestDetachConnUnknownIsNoop() {
	s.registry.Create(100, 200)
	s.registry.DetachConn(999)
	s.Equal(1, s.registry.Count())
}

// Snapshot tests

func (s *RegistrySuite) TestSnapshotCopies() {
	gs := s.registry.Create(100, 200)
	s.registry.AppendMove(gs, model.Move{Position: 4, Mark: 1})

	snap := s.registry.Snapshot()
	s.Require().Len(snap, 1)

	snap[0].Moves[0].Position = 99
	s.Equal(4, s.registry.Moves(gs)[0].Position)
}
