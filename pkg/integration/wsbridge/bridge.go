package wsbridge

import (
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"

	"github.com/vango-dev/vroute/pkg/router"
)

// Config configures a Bridge.
type Config struct {
	// Base is the base path of every session router.
	Base string

	// Routes are declared on every session router.
	Routes []router.RouteDef

	// Utils overrides router strategies.
	Utils router.Utils

	// PingInterval is the keepalive interval. A client silent for two
	// intervals is disconnected.
	PingInterval time.Duration

	// WriteTimeout bounds every frame write.
	WriteTimeout time.Duration

	// HandshakeTimeout bounds the wait for the first location frame.
	HandshakeTimeout time.Duration

	// MaxFrameSize is the largest accepted client frame in bytes.
	MaxFrameSize int64

	// AllowedOrigins lists accepted Origin headers. "*" accepts any;
	// empty accepts same-host requests only.
	AllowedOrigins []string

	// Logger defaults to slog.Default().With("component", "wsbridge").
	Logger *slog.Logger

	// RouterMetrics is shared by every session router.
	RouterMetrics *router.Metrics

	// Metrics records bridge activity.
	Metrics *Metrics
}

// DefaultConfig returns the default bridge configuration.
func DefaultConfig() Config {
	return Config{
		PingInterval:     30 * time.Second,
		WriteTimeout:     10 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		MaxFrameSize:     64 * 1024,
	}
}

// Bridge serves websocket clients, each mirrored by its own router.
// Clients report their location and ask for navigations; the bridge
// answers with commits to apply to their history and state frames.
type Bridge struct {
	cfg      Config
	upgrader websocket.Upgrader
	logger   *slog.Logger
	metrics  *Metrics

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   atomic.Bool
}

// New creates a bridge. Zero durations and sizes take the defaults.
func New(cfg Config) *Bridge {
	def := DefaultConfig()
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = def.HandshakeTimeout
	}
	if cfg.MaxFrameSize <= 0 {
		cfg.MaxFrameSize = def.MaxFrameSize
	}

	b := &Bridge{
		cfg:      cfg,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		sessions: make(map[string]*Session),
	}
	if b.logger == nil {
		b.logger = slog.Default().With("component", "wsbridge")
	}
	b.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     b.checkOrigin,
	}
	return b
}

// ServeHTTP upgrades the request and serves the session until it closes.
// The session's router runs on the calling goroutine.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if b.closed.Load() {
		http.Error(w, "bridge closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Debug("upgrade failed", "error", err)
		return
	}

	s := newSession(conn, b)
	b.add(s)
	defer b.remove(s)

	go s.ReadLoop()
	s.EventLoop()
}

func (b *Bridge) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range b.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	if len(b.cfg.AllowedOrigins) > 0 {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (b *Bridge) add(s *Session) {
	b.mu.Lock()
	b.sessions[s.ID] = s
	b.mu.Unlock()
	b.metrics.sessionOpened()
	s.logger.Debug("session opened")
}

func (b *Bridge) remove(s *Session) {
	b.mu.Lock()
	delete(b.sessions, s.ID)
	b.mu.Unlock()
	b.metrics.sessionClosed()
}

// Session returns the open session with the given id.
func (b *Bridge) Session(id string) (*Session, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.sessions[id]
	return s, ok
}

// Sessions returns a snapshot of every open session, oldest first.
func (b *Bridge) Sessions() []SessionInfo {
	b.mu.RLock()
	infos := make([]SessionInfo, 0, len(b.sessions))
	for _, s := range b.sessions {
		infos = append(infos, s.Info())
	}
	b.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// SessionCount returns the number of open sessions.
func (b *Bridge) SessionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessions)
}

// Close closes every session and rejects new connections.
func (b *Bridge) Close() {
	if b.closed.Swap(true) {
		return
	}

	b.mu.RLock()
	sessions := make([]*Session, 0, len(b.sessions))
	for _, s := range b.sessions {
		sessions = append(sessions, s)
	}
	b.mu.RUnlock()

	for _, s := range sessions {
		s.Close()
	}
}
