package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictacgame-go/internal/dependencies/mocks"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/services/account"
	"github.com/mcoot/tictacgame-go/internal/services/match"
	"github.com/mcoot/tictacgame-go/internal/services/replay"
	"github.com/mcoot/tictacgame-go/internal/services/session"
	filestorage "github.com/mcoot/tictacgame-go/internal/storage/file"
	"github.com/mcoot/tictacgame-go/internal/testutil"
)

// recordingSender captures outbound messages instead of writing to sockets
type recordingSender struct {
	sent []outbound
}

type outbound struct {
	to      model.ConnID
	payload string
}

func (r *recordingSender) Send(id model.ConnID, payload string) {
	r.sent = append(r.sent, outbound{to: id, payload: payload})
}

func (r *recordingSender) to(id model.ConnID) []string {
	var out []string
	for _, o := range r.sent {
		if o.to == id {
			out = append(out, o.payload)
		}
	}
	return out
}

func (r *recordingSender) reset() {
	r.sent = nil
}

type DispatcherSuite struct {
	suite.Suite
	sender     *recordingSender
	random     *mocks.MockRandom
	registry   *session.Registry
	replays    *replay.Service
	dispatcher *Dispatcher
	ctx        context.Context
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	store, err := filestorage.New(s.T().TempDir())
	s.Require().NoError(err)

	logger := testutil.NopLogger()
	clock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.sender = &recordingSender{}

	accounts := account.New(store, logger)
	s.registry = session.NewRegistry(clock, s.random, logger)
	matchmaker := match.New(s.registry, s.random, logger)
	s.replays = replay.New(store, logger)

	s.dispatcher = NewDispatcher(accounts, matchmaker, s.registry, s.replays, s.sender, logger)
	s.ctx = context.Background()
}

func (s *DispatcherSuite) send(id model.ConnID, payload string) {
	s.dispatcher.HandleMessage(s.ctx, id, payload)
}

// pair runs matchmaking for two connections and clears recorded messages.
// With no queued coin flip the waiting player moves first.
func (s *DispatcherSuite) pair(a, b model.ConnID) {
	s.send(a, "3")
	s.send(b, "3")
	s.sender.reset()
}

// Account flows

func (s *DispatcherSuite) TestCreateAccountSuccess() {
	s.send(100, "2,alice,hunter2")
	s.Equal([]string{"1,1"}, s.sender.to(100))
}

func (s *DispatcherSuite) TestCreateAccountNameInUse() {
	s.send(100, "2,alice,hunter2")
	s.sender.reset()

	s.send(200, "2,alice,other")
	s.Equal([]string{"1,2"}, s.sender.to(200))
}

func (s *DispatcherSuite) TestLoginSuccess() {
	s.send(100, "2,alice,hunter2")
	s.sender.reset()

	s.send(100, "1,alice,hunter2")
	s.Equal([]string{"1,1"}, s.sender.to(100))
}

func (s *DispatcherSuite) TestLoginNameNotFound() {
	s.send(100, "1,nobody,pw")
	s.Equal([]string{"1,3"}, s.sender.to(100))
}

func (s *DispatcherSuite) TestLoginIncorrectPassword() {
	s.send(100, "2,alice,hunter2")
	s.sender.reset()

	s.send(100, "1,alice,wrong")
	s.Equal([]string{"1,4"}, s.sender.to(100))
}

// Malformed and unknown messages

func (s *DispatcherSuite) TestMalformedMessagesAreDropped() {
	s.send(100, "")
	s.send(100, "hello,world")
	s.send(100, "2,nameonly")
	s.send(100, "5,notanumber,1")
	s.Empty(s.sender.sent)
}

func (s *DispatcherSuite) TestUnknownSignifierIgnored() {
	s.send(100, "99,stuff")
	s.Empty(s.sender.sent)
}

func (s *DispatcherSuite) TestReservedSignifiersIgnored() {
	s.send(100, "4,4,1") // TicTacToePlay is never dispatched
	s.send(100, "12")    // SaveReplay is never dispatched
	s.Empty(s.sender.sent)
}

// Matchmaking

func (s *DispatcherSuite) TestFirstEnqueueSendsNothing() {
	s.send(100, "3")
	s.Empty(s.sender.sent)
}

func (s *DispatcherSuite) TestPairingAssignsComplementaryMarks() {
	s.random.QueueIntn(0) // session id noise not queued; coin flip first
	s.send(100, "3")
	s.send(200, "3")

	s.Equal([]string{"2,100,1,1"}, s.sender.to(100))
	s.Equal([]string{"2,200,2,0"}, s.sender.to(200))
}

func (s *DispatcherSuite) TestPairingCoinFlipReversed() {
	s.random.QueueIntn(1)
	s.send(100, "3")
	s.send(200, "3")

	s.Equal([]string{"2,200,1,1"}, s.sender.to(200))
	s.Equal([]string{"2,100,2,0"}, s.sender.to(100))
}

// Player actions

func (s *DispatcherSuite) TestPlayerActionRelaysToOpponent() {
	s.pair(100, 200)

	s.send(100, "5,4,1")
	s.Equal([]string{"3,4,1,100"}, s.sender.to(200))
	s.Empty(s.sender.to(100))
}

func (s *DispatcherSuite) TestPlayerActionBroadcastsToSpectators() {
	s.pair(100, 200)
	s.send(300, "9")
	s.sender.reset()

	s.send(200, "5,8,0")
	s.Equal([]string{"3,8,0,200"}, s.sender.to(100))
	s.Equal([]string{"7,8,0"}, s.sender.to(300))
}

func (s *DispatcherSuite) TestPlayerActionWithoutSessionIsNoop() {
	s.send(100, "5,4,1")
	s.Empty(s.sender.sent)
}

// Chat

func (s *DispatcherSuite) TestSendMessageRelaysToOpponent() {
	s.pair(100, 200)

	s.send(100, "8,good luck")
	s.Equal([]string{"4,good luck"}, s.sender.to(200))
}

func (s *DispatcherSuite) TestSendMessageWithoutSessionIsNoop() {
	s.send(100, "8,anyone there")
	s.Empty(s.sender.sent)
}

// Spectating

func (s *DispatcherSuite) TestWatchGameCatchUp() {
	s.pair(100, 200)
	s.send(100, "5,4,1")
	s.send(200, "5,0,0")
	s.sender.reset()

	s.send(300, "9")
	s.Equal([]string{"6,0", "6,1,4,1", "6,1,0,0", "6,2"}, s.sender.to(300))
}

func (s *DispatcherSuite) TestWatchGameEmptySessionStillBounded() {
	s.pair(100, 200)

	s.send(300, "9")
	s.Equal([]string{"6,0", "6,2"}, s.sender.to(300))
}

func (s *DispatcherSuite) TestWatchGameNoSessions() {
	s.send(300, "9")
	s.Empty(s.sender.sent)
}

func (s *DispatcherSuite) TestDuplicateWatchDoesNotDoubleBroadcast() {
	s.pair(100, 200)
	s.send(300, "9")
	s.send(300, "9")
	s.sender.reset()

	s.send(100, "5,4,1")
	s.Equal([]string{"7,4,1"}, s.sender.to(300))
}

// Outcomes

func (s *DispatcherSuite) TestPlayerWinAnnouncesAndSavesReplay() {
	s.pair(100, 200)
	s.send(300, "9")
	s.send(100, "5,4,1")
	s.sender.reset()

	s.send(100, "6,1")
	s.Equal([]string{"8,1"}, s.sender.to(100))
	s.Equal([]string{"8,1"}, s.sender.to(200))
	s.Equal([]string{"11,1"}, s.sender.to(300))

	moves, err := s.replays.Load(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal([]model.Move{{Position: 4, Mark: 1}}, moves)
}

func (s *DispatcherSuite) TestPlayerWinWithoutSessionIsNoop() {
	s.send(100, "6,1")
	s.Empty(s.sender.sent)
}

func (s *DispatcherSuite) TestIsDrawAnnounces() {
	s.pair(100, 200)
	s.send(300, "9")
	s.sender.reset()

	s.send(200, "7")
	s.Equal([]string{"9"}, s.sender.to(100))
	s.Equal([]string{"9"}, s.sender.to(200))
	s.Equal([]string{"12"}, s.sender.to(300))
}

func (s *DispatcherSuite) TestIsDrawWithoutSessionIsNoop() {
	s.send(100, "7")
	s.Empty(s.sender.sent)
}

// Replays

func (s *DispatcherSuite) TestRequestReplayStreamsOwnSession() {
	s.pair(100, 200)
	s.send(100, "5,4,1")
	s.send(200, "5,0,0")
	s.send(100, "5,8,1")
	s.sender.reset()

	s.send(200, "11")
	s.Equal([]string{"10,0", "10,1,4,1", "10,1,0,0", "10,1,8,1", "10,2"}, s.sender.to(200))
}

func (s *DispatcherSuite) TestRequestReplayWithoutSessionIsNoop() {
	s.send(100, "11")
	s.Empty(s.sender.sent)
}

// Session teardown

func (s *DispatcherSuite) TestStartNewSessionRemoves() {
	s.pair(100, 200)

	s.send(100, "10")
	s.Empty(s.sender.sent)

	_, err := s.registry.FindByPlayer(100)
	s.ErrorIs(err, model.ErrSessionNotFound)
	_, err = s.registry.FindByPlayer(200)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *DispatcherSuite) TestStartNewSessionWithoutSessionIsNoop() {
	s.send(100, "10")
	s.Empty(s.sender.sent)
}

// Disconnects

func (s *DispatcherSuite) TestDisconnectClearsWaitingSlot() {
	s.send(100, "3")
	s.dispatcher.HandleDisconnect(100)

	// The next enqueue finds an empty slot and waits instead of pairing
	// against a dead connection.
	s.send(200, "3")
	s.Empty(s.sender.sent)
}

func (s *DispatcherSuite) TestDisconnectDropsPlayerSession() {
	s.pair(100, 200)
	s.dispatcher.HandleDisconnect(100)

	_, err := s.registry.FindByPlayer(200)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *DispatcherSuite) TestDisconnectRemovesSpectator() {
	s.pair(100, 200)
	s.send(300, "9")
	s.dispatcher.HandleDisconnect(300)
	s.sender.reset()

	s.send(100, "5,4,1")
	s.Empty(s.sender.to(300))
}

// End-to-end scenario

func (s *DispatcherSuite) TestFullMatchScenario() {
	s.send(100, "2,alice,hunter2")
	s.send(200, "2,bob,swordfish")
	s.sender.reset()

	s.random.QueueIntn(0)
	s.send(100, "3")
	s.send(200, "3")

	s.Equal([]string{"2,100,1,1"}, s.sender.to(100))
	s.Equal([]string{"2,200,2,0"}, s.sender.to(200))
	s.sender.reset()

	s.send(100, "5,4,1")
	s.Equal([]string{"3,4,1,100"}, s.sender.to(200))
	s.sender.reset()

	s.send(200, "5,0,0")
	s.send(100, "5,8,1")
	s.send(100, "6,1")
	s.sender.reset()

	// Replays survive for later retrieval.
	moves, err := s.replays.Load(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(moves, 3)

	// A fresh queue round works after teardown.
	s.send(100, "10")
	s.send(100, "3")
	s.send(200, "3")
	s.Len(s.sender.to(100), 1)
	s.Len(s.sender.to(200), 1)
}

// sanity check for the fixture helper
func (s *DispatcherSuite) TestPairHelper() {
	s.pair(100, 200)

	gs, err := s.registry.FindByPlayer(100)
	s.Require().NoError(err)
	s.True(gs.HasPlayer(200))
	s.Empty(gs.Moves)
}
