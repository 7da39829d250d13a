package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-alice/internal/handler"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Smart home platform
	r.Route("/v1.0", func(r chi.Router) {
		r.Head("/", s.handlePlatformCheck)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/user/devices", s.platformAction(handler.ActionDevices))
			r.Post("/user/devices/query", s.platformAction(handler.ActionDeviceQuery))
			r.Post("/user/devices/action", s.platformAction(handler.ActionDeviceAction))
			r.Post("/user/unlink", s.platformAction(handler.ActionUnlink))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/metrics", s.handleMetrics)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/auth/ws-ticket", s.handleWSTicket)
			r.Get("/service-calls", s.handleListServiceCalls)
		})
	})

	// WebSocket (auth via ticket, validated in handler)
	r.Get(s.wsPath(), s.handleWebSocket)

	return r
}

// wsPath returns the configured WebSocket path.
func (s *Server) wsPath() string {
	if s.wsCfg.Path == "" {
		return "/ws"
	}
	return s.wsCfg.Path
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
