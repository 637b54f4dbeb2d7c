package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpsarena/internal/api/handler"
	"github.com/mcoot/rpsarena/internal/api/middleware"
	"github.com/mcoot/rpsarena/internal/dependencies/random"
	sharedmw "github.com/mcoot/rpsarena/internal/middleware"
	"github.com/mcoot/rpsarena/internal/realtime"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger *slog.Logger
	Hub    *realtime.Hub
	Random random.Random
	// PublicURL is the externally reachable base URL used for invites (optional)
	PublicURL string
}

// NewRouter creates a new router with the WebSocket endpoint and all API routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	arenaHandler := handler.NewArenaHandler(cfg.Hub)
	inviteHandler := handler.NewInviteHandler(cfg.PublicURL)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// WebSocket endpoint, logged but not wrapped in JSON recovery
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(sharedmw.Recovery(cfg.Logger, sharedmw.DefaultPanicHandler))
	ws.Use(loggingMiddleware)
	ws.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(cfg.Hub, cfg.Random, w, r)
	}).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/stats", arenaHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", arenaHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/history", arenaHandler.History).Methods(http.MethodGet)
	api.HandleFunc("/invite.png", inviteHandler.QRCode).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
