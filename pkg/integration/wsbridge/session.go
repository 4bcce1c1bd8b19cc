package wsbridge

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/reactive"
	"github.com/vango-dev/vroute/pkg/routepath"
	"github.com/vango-dev/vroute/pkg/router"
)

// ErrSessionClosed is returned when navigating a closed session.
var ErrSessionClosed = errors.ErrIntegrationClosed

// Session is one connected client and the router mirroring its location.
//
// The router lives on the goroutine running the session's event loop.
// Other goroutines reach it through Dispatch and Navigate.
type Session struct {
	// ID is the session's random identifier.
	ID string

	// CreatedAt is when the connection was accepted.
	CreatedAt time.Time

	conn    *websocket.Conn
	bridge  *Bridge
	logger  *slog.Logger
	writeMu sync.Mutex

	closed     atomic.Bool
	done       chan struct{}
	inbound    chan inboundFrame
	dispatchCh chan func()

	reference atomic.String
	commits   atomic.Int64
	framesIn  atomic.Int64
	framesOut atomic.Int64

	matchesMu sync.Mutex
	matches   []string

	// Confined to the event loop.
	router  *router.Router
	table   *router.Table
	current string
	notify  func(value string)
}

// inboundFrame is a decoded client frame or the decode error.
type inboundFrame struct {
	frame Frame
	err   error
}

// SessionInfo is a point-in-time view of a session.
type SessionInfo struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	Matches   []string  `json:"matches"`
	Commits   int64     `json:"commits"`
	FramesIn  int64     `json:"framesIn"`
	FramesOut int64     `json:"framesOut"`
	CreatedAt time.Time `json:"createdAt"`
}

// generateSessionID generates a cryptographically random session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

func newSession(conn *websocket.Conn, b *Bridge) *Session {
	id := generateSessionID()
	return &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		conn:       conn,
		bridge:     b,
		logger:     b.logger.With("session", id),
		done:       make(chan struct{}),
		inbound:    make(chan inboundFrame, 16),
		dispatchCh: make(chan func(), 16),
	}
}

// ReadLoop reads and decodes client frames until the connection fails.
func (s *Session) ReadLoop() {
	defer s.Close()

	cfg := s.bridge.cfg
	readTimeout := 2 * cfg.PingInterval
	s.conn.SetReadLimit(cfg.MaxFrameSize)
	s.conn.SetReadDeadline(time.Now().Add(readTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(readTimeout))
		s.framesIn.Inc()

		frame, err := DecodeFrame(msg)
		if err == nil {
			s.bridge.metrics.frame("in", frame.Type)
		}
		select {
		case s.inbound <- inboundFrame{frame: frame, err: err}:
		case <-s.done:
			return
		}
	}
}

// EventLoop waits for the client's first location frame, mounts the
// router and serves frames and dispatched calls until the session
// closes. It owns the router for the session's lifetime.
func (s *Session) EventLoop() {
	defer reactive.Release()
	defer s.Close()

	cfg := s.bridge.cfg
	handshake := time.NewTimer(cfg.HandshakeTimeout)
	defer handshake.Stop()

	var initial string
	select {
	case in := <-s.inbound:
		if in.err == nil && in.frame.Type != FrameLocation {
			in.err = errors.New(errors.CodeInvalidFrame).
				WithDetail("the first frame must be a location frame")
		}
		if in.err == nil {
			initial, in.err = cleanLocation(in.frame.Value)
		}
		if in.err != nil {
			s.sendError(in.err)
			return
		}
	case <-handshake.C:
		s.logger.Warn("handshake timeout")
		return
	case <-s.done:
		return
	}

	var err error
	root := reactive.Root(func(owner *reactive.Owner) {
		err = s.mount(initial)
	})
	defer root.Dispose()
	if err != nil {
		s.sendError(err)
		return
	}
	s.logger.Info("session mounted", "reference", s.reference.Load())

	ping := time.NewTicker(cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case in := <-s.inbound:
			s.handle(in)
		case fn := <-s.dispatchCh:
			s.executeDispatch(fn)
		case <-ping.C:
			if err := s.sendPing(); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// mount builds the session router over the client's location.
func (s *Session) mount(initial string) error {
	cfg := s.bridge.cfg
	s.current = initial

	integration := router.CreateIntegration(
		func() string { return s.current },
		func(u router.RouteUpdate) {
			s.current = u.Value
			s.commits.Inc()
			s.send(Frame{Type: FrameCommit, Value: u.Value, Mode: string(u.Mode)})
		},
		func(notify func(string)) func() {
			s.notify = notify
			return func() { s.notify = nil }
		},
		cfg.Utils,
	)

	r, err := router.New(integration, cfg.Base,
		router.WithLogger(s.logger),
		router.WithMetrics(cfg.RouterMetrics),
	)
	if err != nil {
		return err
	}
	table, err := router.Declare(r, cfg.Routes)
	if err != nil {
		return err
	}
	s.router, s.table = r, table

	r.Run(func() {
		reactive.CreateEffect(func() reactive.Cleanup {
			loc := r.Location()
			matches := table.Matching()
			query := r.Query().Snapshot()

			s.reference.Store(loc.String())
			s.matchesMu.Lock()
			s.matches = matches
			s.matchesMu.Unlock()

			s.send(Frame{
				Type:    FrameState,
				Value:   loc.String(),
				Path:    loc.Path,
				Query:   query,
				Matches: matches,
			})
			return nil
		}, reactive.EffectName("wsbridge.state"))
	})
	return nil
}

// handle applies one client frame on the event loop.
func (s *Session) handle(in inboundFrame) {
	if in.err != nil {
		s.sendError(in.err)
		return
	}

	switch in.frame.Type {
	case FrameLocation:
		value, err := cleanLocation(in.frame.Value)
		if err != nil {
			s.sendError(err)
			return
		}
		s.current = value
		if s.notify != nil {
			s.notify(value)
		}

	case FrameNavigate:
		mode := router.ModePush
		if in.frame.Mode == string(router.ModeReplace) {
			mode = router.ModeReplace
		}
		if err := s.navigate(in.frame.Value, mode); err != nil {
			s.sendError(err)
		}
	}
}

func (s *Session) navigate(to string, mode router.UpdateMode) error {
	if mode == router.ModeReplace {
		return s.router.Replace(to)
	}
	return s.router.Push(to)
}

// cleanLocation validates a reference reported by a client. Empty is
// allowed and makes the router seed its base path.
func cleanLocation(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return routepath.CleanNavPath(value)
}

// executeDispatch runs a dispatched function with panic recovery.
func (s *Session) executeDispatch(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("dispatch panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Dispatch queues fn to run on the session's event loop, where the
// router may be used. Returns false when the session is closed.
func (s *Session) Dispatch(fn func()) bool {
	if s.closed.Load() {
		return false
	}
	select {
	case s.dispatchCh <- fn:
		return true
	case <-s.done:
		return false
	}
}

// Navigate pushes or replaces on the session's router and waits for the
// navigation to settle.
func (s *Session) Navigate(ctx context.Context, to string, mode router.UpdateMode) error {
	result := make(chan error, 1)
	if !s.Dispatch(func() { result <- s.navigate(to, mode) }) {
		return ErrSessionClosed
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrSessionClosed
	}
}

// Info returns a snapshot of the session. Safe from any goroutine.
func (s *Session) Info() SessionInfo {
	s.matchesMu.Lock()
	matches := slices.Clone(s.matches)
	s.matchesMu.Unlock()

	return SessionInfo{
		ID:        s.ID,
		Reference: s.reference.Load(),
		Matches:   matches,
		Commits:   s.commits.Load(),
		FramesIn:  s.framesIn.Load(),
		FramesOut: s.framesOut.Load(),
		CreatedAt: s.CreatedAt,
	}
}

// send writes a frame. Write failures close the session.
func (s *Session) send(f Frame) {
	if s.closed.Load() {
		return
	}

	s.writeMu.Lock()
	s.conn.SetWriteDeadline(time.Now().Add(s.bridge.cfg.WriteTimeout))
	err := s.conn.WriteJSON(f)
	s.writeMu.Unlock()

	if err != nil {
		s.logger.Warn("write failed", "type", f.Type, "error", err)
		s.Close()
		return
	}
	s.framesOut.Inc()
	s.bridge.metrics.frame("out", f.Type)
}

func (s *Session) sendError(err error) {
	f := errorFrame(err)
	s.bridge.metrics.rejected(f.Code)
	s.logger.Debug("frame rejected", "code", f.Code, "error", err)
	s.send(f)
}

func (s *Session) sendPing() error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.conn.WriteControl(websocket.PingMessage, nil,
		time.Now().Add(s.bridge.cfg.WriteTimeout))
}

// Close closes the connection. The event loop disposes the router.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)

	s.writeMu.Lock()
	s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	s.writeMu.Unlock()
	s.conn.Close()

	s.logger.Info("session closed",
		"commits", s.commits.Load(),
		"frames_in", s.framesIn.Load(),
		"frames_out", s.framesOut.Load())
}

// IsClosed returns whether the session is closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done returns a channel that's closed when the session is done.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
