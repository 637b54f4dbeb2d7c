package response

import (
	"github.com/mcoot/rpsarena/internal/model"
	"github.com/mcoot/rpsarena/internal/protocol"
)

// Stats is the response for GET /api/v1/stats
type Stats struct {
	Connected   int `json:"connected"`
	Queued      int `json:"queued"`
	ActiveRooms int `json:"active_rooms"`
	HistorySize int `json:"history_size"`
}

// StatsFromModel converts model.ArenaStats
func StatsFromModel(s model.ArenaStats) Stats {
	return Stats{
		Connected:   s.Connected,
		Queued:      s.Queued,
		ActiveRooms: s.ActiveRooms,
		HistorySize: s.HistorySize,
	}
}

// Leaderboard is the response for GET /api/v1/leaderboard
type Leaderboard struct {
	Entries []protocol.Profile `json:"entries"`
}

// History is the response for GET /api/v1/history
type History struct {
	Entries []protocol.HistoryItem `json:"entries"`
}
