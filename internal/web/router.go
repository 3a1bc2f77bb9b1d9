package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with the API routes and middleware.
// Anything the router does not match falls through to the tree table.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/routes", s.handleRoutes)
		r.Get("/tree", s.handleTree)
	})

	if s.hub != nil && s.wsCfg.Path != "" {
		r.Get(s.wsCfg.Path, s.handleWebSocket)
	}

	r.NotFound(s.dispatch)
	r.MethodNotAllowed(s.dispatch)

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	routes := len(s.routes)
	started := s.startedAt
	s.mu.RUnlock()

	resp := map[string]any{
		"status":  "ok",
		"version": s.version,
		"routes":  routes,
	}
	if !started.IsZero() {
		resp["uptime_seconds"] = int64(time.Since(started).Seconds())
	}
	if s.hub != nil {
		resp["websocket_watchers"] = s.hub.Watchers()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRoutes lists the registered tree paths.
func (s *Server) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"routes": s.Routes()})
}

// handleTree returns a snapshot of the device tree.
func (s *Server) handleTree(w http.ResponseWriter, _ *http.Request) {
	if s.tree == nil {
		writeNotFound(w, "no device tree attached")
		return
	}
	var snapshot any
	s.Do(func() { snapshot = s.tree() })
	writeJSON(w, http.StatusOK, snapshot)
}
