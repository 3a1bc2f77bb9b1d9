package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/webdevice-core/internal/event"
	"github.com/nerrad567/webdevice-core/internal/infrastructure/config"
	"github.com/nerrad567/webdevice-core/internal/infrastructure/logging"
)

// Frame operations. Clients send watch, unwatch and ping; the hub sends
// event, ack, pong and error.
const (
	OpWatch   = "watch"
	OpUnwatch = "unwatch"
	OpPing    = "ping"
	OpPong    = "pong"
	OpEvent   = "event"
	OpAck     = "ack"
	OpError   = "error"
)

// outQueueSize is the number of frames queued per watcher before new ones
// are dropped.
const outQueueSize = 64

// Frame is one WebSocket text message, in either direction.
//
// A watch frame adds Types to the watcher's filter and, when Path is set,
// narrows it to that subtree. A watch without Types accepts every type. An
// unwatch frame removes Types, or clears the filter when Types is empty.
type Frame struct {
	Op    string       `json:"op"`
	Ref   string       `json:"ref,omitempty"`
	Types []event.Type `json:"types,omitempty"`
	Path  string       `json:"path,omitempty"`
	Event *event.Event `json:"event,omitempty"`
	Error string       `json:"error,omitempty"`
}

// filter selects the events a watcher receives. The zero filter selects none.
type filter struct {
	all   bool
	types map[event.Type]struct{}
	path  string
}

func (f *filter) match(e event.Event) bool {
	if !f.all {
		if _, ok := f.types[e.Type]; !ok {
			return false
		}
	}
	return f.path == "" || e.Path == f.path || strings.HasPrefix(e.Path, f.path+"/")
}

func (f *filter) watch(types []event.Type, path string) {
	if len(types) == 0 {
		f.all = true
	}
	if f.types == nil {
		f.types = make(map[event.Type]struct{}, len(types))
	}
	for _, t := range types {
		f.types[t] = struct{}{}
	}
	if path != "" {
		f.path = strings.TrimSuffix(path, "/")
	}
}

func (f *filter) unwatch(types []event.Type) {
	if len(types) == 0 {
		*f = filter{}
		return
	}
	for _, t := range types {
		delete(f.types, t)
	}
}

// Hub streams tree events to WebSocket watchers. It is an event.Sink.
type Hub struct {
	cfg      config.WebSocketConfig
	logger   *logging.Logger
	mu       sync.RWMutex
	watchers map[*watcher]struct{}
}

// watcher is one connected WebSocket client and its filter.
type watcher struct {
	hub  *Hub
	conn *websocket.Conn
	out  chan []byte

	mu     sync.Mutex
	filter filter
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// NewHub returns a hub with no watchers.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:      cfg,
		logger:   logger,
		watchers: make(map[*watcher]struct{}),
	}
}

// Run blocks until ctx is cancelled, then disconnects every watcher.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()
	for w := range h.watchers {
		close(w.out)
		if w.conn != nil {
			w.conn.Close()
		}
		delete(h.watchers, w)
	}
}

// Watchers returns the number of connected watchers.
func (h *Hub) Watchers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers)
}

// Name implements event.Sink.
func (h *Hub) Name() string { return "websocket" }

// Publish implements event.Sink. It queues e for every watcher whose filter
// accepts it; a watcher with a full queue misses it.
func (h *Hub) Publish(_ context.Context, e event.Event) error {
	data, err := json.Marshal(Frame{Op: OpEvent, Event: &e})
	if err != nil {
		return err
	}

	h.mu.RLock()
	targets := make([]*watcher, 0, len(h.watchers))
	for w := range h.watchers {
		targets = append(targets, w)
	}
	h.mu.RUnlock()

	sent := 0
	for _, w := range targets {
		if w.accepts(e) && w.queue(data) {
			sent++
		}
	}
	if sent > 0 {
		h.logger.Debug("event streamed", "type", e.Type, "path", e.Path, "watchers", sent)
	}
	return nil
}

func (h *Hub) attach(w *watcher) {
	h.mu.Lock()
	h.watchers[w] = struct{}{}
	n := len(h.watchers)
	h.mu.Unlock()
	h.logger.Debug("watcher connected", "watchers", n)
}

// detach removes w. Only the call that removes it closes w.out.
func (h *Hub) detach(w *watcher) {
	h.mu.Lock()
	_, ok := h.watchers[w]
	delete(h.watchers, w)
	n := len(h.watchers)
	h.mu.Unlock()

	if ok {
		close(w.out)
		h.logger.Debug("watcher disconnected", "watchers", n)
	}
}

// handleWebSocket upgrades the connection and starts the watcher's pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	wt := &watcher{
		hub:  s.hub,
		conn: conn,
		out:  make(chan []byte, outQueueSize),
	}
	s.hub.attach(wt)

	go wt.writeLoop(s.wsCfg)
	go wt.readLoop(s.wsCfg)
}

func (w *watcher) accepts(e event.Event) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.filter.match(e)
}

// queue adds data to the outbound queue. It reports false when the queue
// is full or already closed.
func (w *watcher) queue(data []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	select {
	case w.out <- data:
		return true
	default:
		return false
	}
}

func (w *watcher) reply(f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	w.queue(data)
}

// handle applies one client frame.
func (w *watcher) handle(data []byte) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		w.reply(Frame{Op: OpError, Error: "invalid frame"})
		return
	}

	switch f.Op {
	case OpWatch:
		w.mu.Lock()
		w.filter.watch(f.Types, f.Path)
		w.mu.Unlock()
		w.reply(Frame{Op: OpAck, Ref: f.Ref, Types: f.Types, Path: f.Path})
	case OpUnwatch:
		w.mu.Lock()
		w.filter.unwatch(f.Types)
		w.mu.Unlock()
		w.reply(Frame{Op: OpAck, Ref: f.Ref, Types: f.Types})
	case OpPing:
		w.reply(Frame{Op: OpPong, Ref: f.Ref})
	default:
		w.reply(Frame{Op: OpError, Ref: f.Ref, Error: "unknown op " + f.Op})
	}
}

func (w *watcher) readLoop(cfg config.WebSocketConfig) {
	defer func() {
		w.hub.detach(w)
		w.conn.Close()
	}()

	w.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	deadline := time.Duration(cfg.PingInterval+cfg.PongTimeout) * time.Second
	extend := func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(deadline))
	}
	//nolint:errcheck // Best-effort deadline on connection setup
	extend("")
	w.conn.SetPongHandler(extend)

	for {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.hub.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		//nolint:errcheck // Best-effort deadline reset
		extend("")
		w.handle(data)
	}
}

func (w *watcher) writeLoop(cfg config.WebSocketConfig) {
	ping := time.NewTicker(time.Duration(cfg.PingInterval) * time.Second)
	defer func() {
		ping.Stop()
		w.conn.Close()
	}()

	wait := time.Duration(cfg.PongTimeout) * time.Second
	write := func(kind int, data []byte) error {
		//nolint:errcheck // Write error caught by the caller
		w.conn.SetWriteDeadline(time.Now().Add(wait))
		return w.conn.WriteMessage(kind, data)
	}

	for {
		select {
		case data, ok := <-w.out:
			if !ok {
				//nolint:errcheck // Best-effort close frame
				write(websocket.CloseMessage, nil)
				return
			}
			if err := write(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
