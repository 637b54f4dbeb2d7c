package model

import "time"

// RoomID is an opaque key for a match room, unrelated to the participants' handles
type RoomID string

// RoomState represents the current phase of a match room
type RoomState string

const (
	RoomStateAwaitingMoves RoomState = "awaiting_moves" // Zero or one move recorded
	RoomStateResolved      RoomState = "resolved"       // Both moves recorded
)

// Room holds one two-player, one-round contest
type Room struct {
	ID      RoomID
	PlayerA Handle // first dequeued
	PlayerB Handle

	// Moves are nil until submitted, then immutable
	MoveA *Move
	MoveB *Move

	CreatedAt time.Time
}

// Has returns true if the handle is one of the room's participants
func (r *Room) Has(h Handle) bool {
	return r.PlayerA == h || r.PlayerB == h
}

// Opponent returns the other participant, or empty if h is not in the room
func (r *Room) Opponent(h Handle) Handle {
	switch h {
	case r.PlayerA:
		return r.PlayerB
	case r.PlayerB:
		return r.PlayerA
	}
	return ""
}

// MoveOf returns the move recorded for the handle, or nil if none
func (r *Room) MoveOf(h Handle) *Move {
	switch h {
	case r.PlayerA:
		return r.MoveA
	case r.PlayerB:
		return r.MoveB
	}
	return nil
}

// State derives the room's phase from its recorded moves
func (r *Room) State() RoomState {
	if r.MoveA != nil && r.MoveB != nil {
		return RoomStateResolved
	}
	return RoomStateAwaitingMoves
}
