package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mcoot/rpsarena/internal/api/response"
	"github.com/mcoot/rpsarena/internal/model"
	"github.com/mcoot/rpsarena/internal/protocol"
	"github.com/mcoot/rpsarena/internal/realtime"
	"github.com/mcoot/rpsarena/internal/services/arena"
	"github.com/mcoot/rpsarena/internal/services/ledger"
)

// ArenaHandler serves read-only views of the arena
type ArenaHandler struct {
	hub *realtime.Hub
}

// NewArenaHandler creates a new arena handler
func NewArenaHandler(hub *realtime.Hub) *ArenaHandler {
	return &ArenaHandler{
		hub: hub,
	}
}

// Stats handles GET /api/v1/stats
func (h *ArenaHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.hub.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}

// Leaderboard handles GET /api/v1/leaderboard
func (h *ArenaHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	var board []model.Identity
	err := h.hub.Query(r.Context(), func(ctx context.Context, engine *arena.Engine) {
		board = engine.Leaderboard()
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Leaderboard{Entries: protocol.ProfilesOf(board)})
}

// History handles GET /api/v1/history?limit=N
func (h *ArenaHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := ledger.RecentHistorySize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, NewInvalidRequestError("limit must be an integer"))
			return
		}
		limit = min(max(n, 1), model.HistoryCapacity)
	}

	var entries []model.HistoryEntry
	var historyErr error
	err := h.hub.Query(r.Context(), func(ctx context.Context, engine *arena.Engine) {
		entries, historyErr = engine.History(ctx, limit)
	})
	if err == nil {
		err = historyErr
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.History{Entries: protocol.HistoryOf(entries)})
}
