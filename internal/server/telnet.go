package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/emberfall/reforge/internal/game/character"
	"github.com/emberfall/reforge/internal/game/command"
	"github.com/emberfall/reforge/internal/game/reforge"
	"github.com/emberfall/reforge/internal/game/session"
	"github.com/emberfall/reforge/internal/storage/postgres"
)

// CharacterLookup resolves characters at login.
type CharacterLookup interface {
	GetByName(ctx context.Context, name string) (*character.Character, error)
}

// Reconciler applies or withdraws a character's live stat contributions.
type Reconciler interface {
	Reconcile(ownerID int64, apply bool)
}

// TelnetServer accepts line-oriented TCP connections. The first line is the
// character name; subsequent lines are commands. Outbound notifications from
// the session outbox are interleaved with command replies.
type TelnetServer struct {
	addr     string
	chars    CharacterLookup
	sessions *session.Manager
	handler  *command.Handler
	engine   Reconciler
	logger   *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	closed   bool
	wg       sync.WaitGroup
}

// NewTelnetServer creates a TelnetServer listening on addr once started.
//
// Precondition: all arguments must be non-nil; addr must be a valid host:port.
func NewTelnetServer(addr string, chars CharacterLookup, sessions *session.Manager, handler *command.Handler, engine Reconciler, logger *zap.Logger) *TelnetServer {
	return &TelnetServer{
		addr:     addr,
		chars:    chars,
		sessions: sessions,
		handler:  handler,
		engine:   engine,
		logger:   logger,
	}
}

// Start listens and serves connections until Stop is called.
//
// Postcondition: Returns nil after Stop, or the listen error.
func (s *TelnetServer) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		listener.Close()
		return nil
	}
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("telnet server listening", zap.String("addr", s.addr))

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed || errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			s.logger.Warn("accept failed", zap.Error(err))
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(conn)
		}()
	}
}

// Stop closes the listener and waits for in-flight connections to finish.
func (s *TelnetServer) Stop() {
	s.mu.Lock()
	s.closed = true
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener.Close()
	}
}

func (s *TelnetServer) serveConn(conn net.Conn) {
	defer conn.Close()
	ctx := context.Background()
	reader := bufio.NewReader(conn)

	fmt.Fprint(conn, "Character name: ")
	nameLine, err := reader.ReadString('\n')
	if err != nil {
		return
	}
	name := strings.TrimSpace(nameLine)
	if name == "" {
		fmt.Fprintln(conn, "A character name is required.")
		return
	}

	char, err := s.chars.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, postgres.ErrCharacterNotFound) {
			fmt.Fprintln(conn, "No such character.")
			return
		}
		s.logger.Error("character lookup failed", zap.String("name", name), zap.Error(err))
		fmt.Fprintln(conn, "Login failed. Please try again.")
		return
	}

	sess, err := s.sessions.Add(char.ID, char.Name)
	if err != nil {
		fmt.Fprintln(conn, "That character is already connected.")
		return
	}

	// Equipped item contributions apply while the character is online.
	s.engine.Reconcile(char.ID, true)

	defer func() {
		s.engine.Reconcile(char.ID, false)
		if err := s.sessions.Remove(char.ID); err != nil {
			s.logger.Warn("removing session", zap.Int64("character_id", char.ID), zap.Error(err))
		}
	}()

	s.logger.Info("character connected",
		zap.Int64("character_id", char.ID),
		zap.String("name", char.Name),
	)

	// Outbox pump. Exits when Remove closes the channel.
	go func() {
		for msg := range sess.Outbox {
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if _, err := fmt.Fprintln(conn, msg); err != nil {
				return
			}
		}
	}()

	fmt.Fprintf(conn, "Welcome, %s. Type 'help' for commands.\n", char.Name)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			s.logger.Info("character disconnected",
				zap.Int64("character_id", char.ID),
				zap.String("name", char.Name),
			)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			fmt.Fprintln(conn, "Goodbye.")
			return
		}

		reply := s.handler.Handle(ctx, char.ID, line)
		if reply != "" {
			fmt.Fprintln(conn, reply)
		}
	}
}

var _ Reconciler = (*reforge.Engine)(nil)
