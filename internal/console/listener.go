package console

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

	"github.com/cory-johannsen/oozu/internal/gameserver"
)

// maxUserIDLength bounds the player id typed at the login prompt.
const maxUserIDLength = 64

// Listener serves one console per TCP connection. Each client names the
// player it acts as before its first command.
type Listener struct {
	addr   string
	game   *gameserver.GameService
	logger *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup
}

// NewListener creates a Listener for addr.
//
// Precondition: game and logger must be non-nil.
func NewListener(addr string, game *gameserver.GameService, logger *zap.Logger) *Listener {
	return &Listener{addr: addr, game: game, logger: logger, conns: make(map[net.Conn]struct{})}
}

// Serve accepts connections until ctx is cancelled or Stop is called.
//
// Postcondition: The listener is closed and every session has ended.
func (l *Listener) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", l.addr, err)
	}
	l.mu.Lock()
	l.listener = ln
	l.mu.Unlock()
	l.logger.Info("console listening", zap.String("addr", ln.Addr().String()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		l.Stop(context.Background())
	}()

	for {
		raw, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				cancel()
				l.wg.Wait()
				return nil
			}
			l.logger.Error("accepting connection", zap.Error(err))
			continue
		}
		if !l.track(raw) {
			_ = raw.Close()
			continue
		}
		l.wg.Add(1)
		go l.session(ctx, raw)
	}
}

// Stop closes the listener and every open connection.
func (l *Listener) Stop(context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.listener != nil {
		_ = l.listener.Close()
	}
	for c := range l.conns {
		_ = c.Close()
	}
}

// Addr returns the bound address, or "" before Serve has bound it.
func (l *Listener) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listener == nil {
		return ""
	}
	return l.listener.Addr().String()
}

// track registers an open connection. It reports false once Stop has run.
func (l *Listener) track(c net.Conn) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.conns[c] = struct{}{}
	return true
}

func (l *Listener) untrack(c net.Conn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.conns, c)
}

func (l *Listener) session(ctx context.Context, raw net.Conn) {
	defer l.wg.Done()
	defer l.untrack(raw)
	defer raw.Close()

	start := time.Now()
	addr := raw.RemoteAddr().String()
	logger := l.logger.With(zap.String("remote_addr", addr))

	reader := bufio.NewReader(raw)
	fmt.Fprint(raw, "Player id: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		logger.Debug("client left before login", zap.Error(err))
		return
	}
	userID := strings.TrimSpace(line)
	if userID == "" || len(userID) > maxUserIDLength || strings.ContainsAny(userID, " \t") {
		fmt.Fprintln(raw, "Invalid player id.")
		return
	}

	logger = logger.With(zap.String("user_id", userID))
	logger.Info("console session started")
	err = New(l.game, reader, raw, userID, true, logger).Run(ctx)
	logger.Info("console session ended", zap.Error(err), zap.Duration("duration", time.Since(start)))
}
