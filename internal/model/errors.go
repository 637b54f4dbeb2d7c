package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound        = errors.New("room not found")
	ErrNotInRoom           = errors.New("player is not in room")
	ErrAlreadyInRoom       = errors.New("player is already in a room")
	ErrMoveAlreadyRecorded = errors.New("move already recorded for this round")
	ErrSamePlayer          = errors.New("cannot pair a player with itself")

	// Move errors
	ErrInvalidMove = errors.New("invalid move")

	// Protocol errors
	ErrUnknownEvent     = errors.New("unknown event")
	ErrMalformedPayload = errors.New("malformed payload")

	// Storage errors
	ErrStatsNotFound = errors.New("stats not found")

	// Hub errors
	ErrHubClosed = errors.New("hub is closed")
)
