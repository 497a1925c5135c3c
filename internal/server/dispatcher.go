package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/protocol"
	"github.com/mcoot/tictacgame-go/internal/services/account"
	"github.com/mcoot/tictacgame-go/internal/services/match"
	"github.com/mcoot/tictacgame-go/internal/services/replay"
	"github.com/mcoot/tictacgame-go/internal/services/session"
)

// Sender delivers an encoded payload to a single connection. The transport
// owns delivery; the dispatcher never learns whether a send succeeded.
type Sender interface {
	Send(id model.ConnID, payload string)
}

// Dispatcher parses inbound messages, routes them to the services, and emits
// responses. Session-scoped messages from a connection with no session are
// silent no-ops; unknown signifiers are ignored; malformed messages are
// logged and dropped without a response.
type Dispatcher struct {
	accounts   *account.Service
	matchmaker *match.Service
	registry   *session.Registry
	replays    *replay.Service
	sender     Sender
	logger     *slog.Logger
}

// NewDispatcher creates a Dispatcher routing to the given services
func NewDispatcher(
	accounts *account.Service,
	matchmaker *match.Service,
	registry *session.Registry,
	replays *replay.Service,
	sender Sender,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		accounts:   accounts,
		matchmaker: matchmaker,
		registry:   registry,
		replays:    replays,
		sender:     sender,
		logger:     logger,
	}
}

// HandleMessage processes one inbound payload from a connection. Handlers
// run to completion before the next message is dispatched.
func (d *Dispatcher) HandleMessage(ctx context.Context, id model.ConnID, payload string) {
	msg, err := protocol.Parse(payload)
	if err != nil {
		d.logger.Warn("malformed message",
			slog.Int("conn", int(id)),
			slog.String("payload", payload),
			slog.String("error", err.Error()),
		)
		return
	}

	switch msg.Signifier {
	case protocol.ClientCreateAccount:
		d.handleCreateAccount(ctx, id, msg)
	case protocol.ClientLogin:
		d.handleLogin(ctx, id, msg)
	case protocol.ClientAddToGameSessionQueue:
		d.handleEnqueue(id)
	case protocol.ClientPlayerAction:
		d.handlePlayerAction(id, msg)
	case protocol.ClientSendMessage:
		d.handleSendMessage(id, msg)
	case protocol.ClientWatchGame:
		d.handleWatchGame(id)
	case protocol.ClientPlayerWin:
		d.handlePlayerWin(ctx, id, msg)
	case protocol.ClientIsDraw:
		d.handleIsDraw(id)
	case protocol.ClientRequestReplay:
		d.handleRequestReplay(id)
	case protocol.ClientStartNewSession:
		d.handleStartNewSession(id)
	default:
		d.logger.Warn("unknown signifier",
			slog.Int("conn", int(id)),
			slog.Int("signifier", msg.Signifier),
		)
	}
}

// HandleDisconnect reacts to the transport reporting a connection gone: the
// waiting slot is cleared if it held the connection, and any session it was
// part of is detached.
func (d *Dispatcher) HandleDisconnect(id model.ConnID) {
	d.matchmaker.ClearIfWaiting(id)
	d.registry.DetachConn(id)
}

func (d *Dispatcher) handleCreateAccount(ctx context.Context, id model.ConnID, msg protocol.Message) {
	name, password, ok := d.credentials(id, msg)
	if !ok {
		return
	}

	err := d.accounts.Create(ctx, name, password)
	switch {
	case err == nil:
		d.sender.Send(id, protocol.Encode(protocol.ServerLoginResponse, protocol.LoginSuccess))
	case errors.Is(err, model.ErrNameInUse):
		d.sender.Send(id, protocol.Encode(protocol.ServerLoginResponse, protocol.LoginNameInUse))
	default:
		// Persistence failed; the in-memory insert was rolled back.
		d.logger.Error("account create failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		d.sender.Send(id, protocol.Encode(protocol.ServerLoginResponse, protocol.LoginFailure))
	}
}

func (d *Dispatcher) handleLogin(ctx context.Context, id model.ConnID, msg protocol.Message) {
	name, password, ok := d.credentials(id, msg)
	if !ok {
		return
	}

	err := d.accounts.Authenticate(ctx, name, password)
	switch {
	case err == nil:
		d.sender.Send(id, protocol.Encode(protocol.ServerLoginResponse, protocol.LoginSuccess))
	case errors.Is(err, model.ErrNameNotFound):
		d.sender.Send(id, protocol.Encode(protocol.ServerLoginResponse, protocol.LoginNameNotFound))
	case errors.Is(err, model.ErrIncorrectPassword):
		d.sender.Send(id, protocol.Encode(protocol.ServerLoginResponse, protocol.LoginIncorrectPassword))
	}
}

func (d *Dispatcher) handleEnqueue(id model.ConnID) {
	pairing := d.matchmaker.Enqueue(id)
	if pairing == nil {
		return
	}

	// First plays mark 1 with the opening turn, second plays mark 0.
	d.sender.Send(pairing.First, protocol.Encode(
		protocol.ServerGameSessionStarted, int(pairing.First), 1, 1))
	d.sender.Send(pairing.Second, protocol.Encode(
		protocol.ServerGameSessionStarted, int(pairing.Second), 2, 0))
}

func (d *Dispatcher) handlePlayerAction(id model.ConnID, msg protocol.Message) {
	pos, err := msg.IntField(0)
	if err != nil {
		d.logMalformed(id, msg, err)
		return
	}
	mark, err := msg.IntField(1)
	if err != nil {
		d.logMalformed(id, msg, err)
		return
	}

	gs, err := d.registry.FindByPlayer(id)
	if err != nil {
		return
	}

	d.registry.AppendMove(gs, model.Move{Position: pos, Mark: mark})

	d.sender.Send(gs.Opponent(id), protocol.Encode(
		protocol.ServerOpponentPlay, pos, mark, int(id)))

	for _, spectator := range d.registry.Spectators(gs) {
		d.sender.Send(spectator, protocol.Encode(protocol.ServerSpectatorUpdate, pos, mark))
	}
}

func (d *Dispatcher) handleSendMessage(id model.ConnID, msg protocol.Message) {
	text, err := msg.Field(0)
	if err != nil {
		d.logMalformed(id, msg, err)
		return
	}

	gs, err := d.registry.FindByPlayer(id)
	if err != nil {
		return
	}

	d.sender.Send(gs.Opponent(id), protocol.Encode(protocol.ServerDisplayMessage, text))
}

func (d *Dispatcher) handleWatchGame(id model.ConnID) {
	gs, err := d.registry.Random()
	if err != nil {
		d.logger.Info("no session available to watch", slog.Int("conn", int(id)))
		return
	}

	d.registry.AddSpectator(gs, id)
	d.streamMoves(id, protocol.ServerSpectatorJoin, d.registry.Moves(gs))
}

func (d *Dispatcher) handlePlayerWin(ctx context.Context, id model.ConnID, msg protocol.Message) {
	winnerMark, err := msg.IntField(0)
	if err != nil {
		d.logMalformed(id, msg, err)
		return
	}

	gs, err := d.registry.FindByPlayer(id)
	if err != nil {
		return
	}

	d.sender.Send(gs.PlayerA, protocol.Encode(protocol.ServerAnnounceWinner, winnerMark))
	d.sender.Send(gs.PlayerB, protocol.Encode(protocol.ServerAnnounceWinner, winnerMark))
	for _, spectator := range d.registry.Spectators(gs) {
		d.sender.Send(spectator, protocol.Encode(protocol.ServerAnnounceWinnerForSpectator, winnerMark))
	}

	if _, err := d.replays.Save(ctx, d.registry.Moves(gs)); err != nil {
		d.logger.Error("replay save failed",
			slog.String("session", string(gs.ID)),
			slog.String("error", err.Error()),
		)
	}
}

func (d *Dispatcher) handleIsDraw(id model.ConnID) {
	gs, err := d.registry.FindByPlayer(id)
	if err != nil {
		return
	}

	d.sender.Send(gs.PlayerA, protocol.Encode(protocol.ServerAnnounceDraw))
	d.sender.Send(gs.PlayerB, protocol.Encode(protocol.ServerAnnounceDraw))
	for _, spectator := range d.registry.Spectators(gs) {
		d.sender.Send(spectator, protocol.Encode(protocol.ServerAnnounceDrawForSpectator))
	}
}

func (d *Dispatcher) handleRequestReplay(id model.ConnID) {
	gs, err := d.registry.FindByPlayer(id)
	if err != nil {
		return
	}

	d.streamMoves(id, protocol.ServerSendReplayList, d.registry.Moves(gs))
}

func (d *Dispatcher) handleStartNewSession(id model.ConnID) {
	gs, err := d.registry.FindByPlayer(id)
	if err != nil {
		return
	}
	d.registry.Remove(gs)
}

// streamMoves sends a move list to one connection framed with
// transfer-start/in-progress/end markers. The end frame is sent even for an
// empty list so the stream is always bounded.
func (d *Dispatcher) streamMoves(id model.ConnID, signifier int, moves []model.Move) {
	d.sender.Send(id, protocol.Encode(signifier, protocol.TransferStart))
	for _, m := range moves {
		d.sender.Send(id, protocol.Encode(signifier, protocol.TransferInProgress, m.Position, m.Mark))
	}
	d.sender.Send(id, protocol.Encode(signifier, protocol.TransferEnd))
}

func (d *Dispatcher) credentials(id model.ConnID, msg protocol.Message) (string, string, bool) {
	name, err := msg.Field(0)
	if err != nil {
		d.logMalformed(id, msg, err)
		return "", "", false
	}
	password, err := msg.Field(1)
	if err != nil {
		d.logMalformed(id, msg, err)
		return "", "", false
	}
	return name, password, true
}

func (d *Dispatcher) logMalformed(id model.ConnID, msg protocol.Message, err error) {
	d.logger.Warn("malformed message",
		slog.Int("conn", int(id)),
		slog.Int("signifier", msg.Signifier),
		slog.String("error", err.Error()),
	)
}
