package model

import "time"

// Handle uniquely identifies one live connection. Handles are never reused.
type Handle string

// WinReward is the score awarded to the winner of a match
const WinReward = 10

// Identity is the ephemeral profile attached to a live connection
type Identity struct {
	Handle      Handle
	DisplayName string
	Score       int // never negative, only grows on a win
	Wins        int
	ConnectedAt time.Time
}
