// Package server hosts the game protocol: a TCP listener with one reader
// goroutine per connection feeding a single dispatch goroutine, so messages
// from one connection are processed in arrival order while different
// connections may interleave arbitrarily.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/mcoot/tictacgame-go/internal/model"
)

// Config holds configuration for the TCP game server
type Config struct {
	Host string
	Port int
	// IdleTimeout closes a connection that sends nothing for this long.
	// Zero disables the timeout.
	IdleTimeout time.Duration
	// MaxLineBytes bounds a single inbound message.
	MaxLineBytes int
}

// DefaultConfig returns sensible defaults for server configuration
func DefaultConfig() Config {
	return Config{
		Host:         "",
		Port:         5491,
		IdleTimeout:  5 * time.Minute,
		MaxLineBytes: 1024,
	}
}

// Handler consumes the two transport events the core reacts to.
type Handler interface {
	HandleMessage(ctx context.Context, id model.ConnID, payload string)
	HandleDisconnect(id model.ConnID)
}

type eventKind int

const (
	eventMessage eventKind = iota
	eventDisconnect
)

type event struct {
	kind    eventKind
	conn    model.ConnID
	payload string
}

// Server accepts persistent connections, assigns each an opaque integer
// identity, and relays inbound lines to the Handler. Outbound delivery is
// via Send, satisfying the dispatcher's Sender interface.
type Server struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[model.ConnID]*conn
	nextID   model.ConnID
	closed   bool

	events chan event
	wg     sync.WaitGroup
}

type conn struct {
	id model.ConnID
	nc net.Conn

	writeMu sync.Mutex
}

// New creates a new Server
func New(cfg Config, logger *slog.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		conns:  make(map[model.ConnID]*conn),
		events: make(chan event, 64),
	}
}

// Start listens and serves until Shutdown. It blocks; run it in a goroutine
// and watch the returned error.
func (s *Server) Start(ctx context.Context, handler Handler) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return errors.New("server already shut down")
	}
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("game server listening", slog.String("addr", ln.Addr().String()))

	dispatchDone := make(chan struct{})
	go s.dispatchLoop(ctx, handler, dispatchDone)

	for {
		nc, err := ln.Accept()
		if err != nil {
			// Listener closed by Shutdown; drain readers then stop the
			// dispatch loop.
			s.wg.Wait()
			close(s.events)
			<-dispatchDone
			if s.isClosed() {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		c := s.register(nc)
		s.logger.Info("connection", slog.Int("conn", int(c.id)),
			slog.String("remote", nc.RemoteAddr().String()))

		s.wg.Add(1)
		go s.readLoop(c)
	}
}

// Addr returns the bound listen address, once Start has begun listening.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting, closes every live connection and waits for the
// dispatch loop to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	ln := s.listener
	conns := make([]*conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	s.logger.Info("shutting down game server")

	if ln != nil {
		ln.Close()
	}
	for _, c := range conns {
		c.nc.Close()
	}
	return nil
}

// Send delivers one payload to a connection, newline-framed. Sends to a
// connection that has gone away are dropped.
func (s *Server) Send(id model.ConnID, payload string) {
	s.mu.Lock()
	c, ok := s.conns[id]
	s.mu.Unlock()
	if !ok {
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := c.nc.Write([]byte(payload + "\n")); err != nil {
		s.logger.Warn("send failed", slog.Int("conn", int(id)),
			slog.String("error", err.Error()))
		c.nc.Close()
	}
}

// ConnCount returns the number of live connections.
func (s *Server) ConnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) register(nc net.Conn) *conn {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	c := &conn{id: s.nextID, nc: nc}
	if s.closed {
		// Raced with Shutdown; the read loop will exit immediately.
		nc.Close()
	}
	s.conns[c.id] = c
	return c
}

func (s *Server) deregister(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c.id)
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// readLoop reads newline-delimited messages from one connection and forwards
// them to the event channel, then reports the disconnect.
func (s *Server) readLoop(c *conn) {
	defer s.wg.Done()
	defer c.nc.Close()

	scanner := bufio.NewScanner(c.nc)
	scanner.Buffer(make([]byte, 0, s.cfg.MaxLineBytes), s.cfg.MaxLineBytes)

	for {
		if s.cfg.IdleTimeout > 0 {
			_ = c.nc.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
		}
		if !scanner.Scan() {
			break
		}
		s.events <- event{kind: eventMessage, conn: c.id, payload: scanner.Text()}
	}

	s.deregister(c)
	s.logger.Info("disconnection", slog.Int("conn", int(c.id)))
	s.events <- event{kind: eventDisconnect, conn: c.id}
}

// dispatchLoop is the single goroutine that runs handlers, preserving
// per-connection arrival order.
func (s *Server) dispatchLoop(ctx context.Context, handler Handler, done chan<- struct{}) {
	defer close(done)

	for ev := range s.events {
		switch ev.kind {
		case eventMessage:
			handler.HandleMessage(ctx, ev.conn, ev.payload)
		case eventDisconnect:
			handler.HandleDisconnect(ev.conn)
		}
	}
}
