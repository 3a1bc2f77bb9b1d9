package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/nerrad567/webdevice-core/internal/infrastructure/config"
	"github.com/nerrad567/webdevice-core/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the server.
type Deps struct {
	Config  config.APIConfig
	WS      config.WebSocketConfig
	Logger  *logging.Logger
	Version string

	// Hub replaces the server's own hub when set.
	Hub *Hub

	// Tree returns the snapshot served at /api/v1/tree. Optional.
	Tree func() any
}

// Server is the HTTP server for the device tree.
//
// Tree routes live in a table consulted on every request, so they can be
// added while the server is running. Tree handlers run one at a time.
type Server struct {
	cfg     config.APIConfig
	wsCfg   config.WebSocketConfig
	logger  *logging.Logger
	tree    func() any
	version string
	hub     *Hub

	mu     sync.RWMutex
	routes map[string]HandlerFunc

	// serveMu serialises tree handlers and the device loop.
	serveMu sync.Mutex

	routerOnce sync.Once
	router     http.Handler

	server    *http.Server
	listener  net.Listener
	cancel    context.CancelFunc
	startedAt time.Time
}

// New creates a server. It does not listen until Start is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	s := &Server{
		cfg:     deps.Config,
		wsCfg:   deps.WS,
		logger:  deps.Logger,
		tree:    deps.Tree,
		version: deps.Version,
		hub:     deps.Hub,
		routes:  make(map[string]HandlerFunc),
	}
	if s.hub == nil && s.wsCfg.Enabled {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	return s, nil
}

// On registers h for the exact path. Registering a path twice replaces the
// earlier handler.
func (s *Server) On(path string, h HandlerFunc) {
	s.mu.Lock()
	_, dup := s.routes[path]
	s.routes[path] = h
	s.mu.Unlock()

	if dup {
		s.logger.Warn("tree route registered twice, replacing handler", "path", path)
		return
	}
	s.logger.Debug("tree route registered", "path", path)
}

// LocalPort returns the port the server listens on, or the configured port
// before Start.
func (s *Server) LocalPort() int {
	s.mu.RLock()
	l := s.listener
	s.mu.RUnlock()
	if l != nil {
		if addr, ok := l.Addr().(*net.TCPAddr); ok {
			return addr.Port
		}
	}
	return s.cfg.Port
}

// Routes returns the registered tree paths in sorted order.
func (s *Server) Routes() []string {
	s.mu.RLock()
	paths := make([]string, 0, len(s.routes))
	for p := range s.routes {
		paths = append(paths, p)
	}
	s.mu.RUnlock()
	sort.Strings(paths)
	return paths
}

// Hub returns the WebSocket hub, or nil when WebSockets are disabled.
func (s *Server) Hub() *Hub { return s.hub }

// Do runs fn with tree handlers held off, so fn may touch the tree safely.
func (s *Server) Do(fn func()) {
	s.serveMu.Lock()
	defer s.serveMu.Unlock()
	fn()
}

// Handler returns the HTTP handler serving the tree and the API.
func (s *Server) Handler() http.Handler {
	s.routerOnce.Do(func() {
		s.router = s.buildRouter()
	})
	return s.router
}

// dispatch serves a request from the tree route table.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	h, ok := s.routes[r.URL.Path]
	s.mu.RUnlock()

	if !ok {
		http.Error(w, "Not Found: "+r.URL.Path, http.StatusNotFound)
		return
	}

	c := NewContext(w, r)
	s.Do(func() { h(c) })
	if !c.Sent() {
		s.logger.Debug("tree handler sent no response", "path", r.URL.Path)
	}
}

// Start begins listening for HTTP connections.
//
// The listener is bound before Start returns, so LocalPort reports the real
// port even when the configured port is 0.
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.hub != nil {
		go s.hub.Run(srvCtx)
	}

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	l, err := net.Listen("tcp", addr)
	if err != nil {
		s.cancel()
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	s.mu.Lock()
	s.listener = l
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("web server listening", "address", l.Addr().String())

	go func() {
		if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("web server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("web server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	return nil
}

// HealthCheck verifies the server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("web health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("web server not started")
	}

	return nil
}
