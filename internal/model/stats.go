package model

import "time"

// ArenaStats is a point-in-time summary of the arena
type ArenaStats struct {
	Connected   int
	Queued      int
	ActiveRooms int
	HistorySize int
	TakenAt     time.Time
}
