package model

import "time"

// HistoryCapacity is the number of resolved matches the ledger retains
const HistoryCapacity = 20

// HistoryEntry is an immutable record of a decisive match.
// Names are snapshots taken at resolution time.
type HistoryEntry struct {
	ID         int64 // strictly increasing, millisecond based
	Winner     string
	Loser      string
	WinMove    Move
	LoseMove   Move
	RecordedAt time.Time
}
