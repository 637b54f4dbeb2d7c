package room

import (
	"github.com/mcoot/rpsarena/internal/dependencies/clock"
	"github.com/mcoot/rpsarena/internal/dependencies/random"
	"github.com/mcoot/rpsarena/internal/model"
)

// Table holds every live match room. Not safe for concurrent use.
type Table struct {
	rooms    map[model.RoomID]*model.Room
	byHandle map[model.Handle]model.RoomID
	clock    clock.Clock
	random   random.Random
}

// NewTable creates an empty Table
func NewTable(clock clock.Clock, random random.Random) *Table {
	return &Table{
		rooms:    make(map[model.RoomID]*model.Room),
		byHandle: make(map[model.Handle]model.RoomID),
		clock:    clock,
		random:   random,
	}
}

// Open creates a room for the pair. a is player A.
func (t *Table) Open(a, b model.Handle) (model.Room, error) {
	if a == b {
		return model.Room{}, model.ErrSamePlayer
	}
	if _, ok := t.byHandle[a]; ok {
		return model.Room{}, model.ErrAlreadyInRoom
	}
	if _, ok := t.byHandle[b]; ok {
		return model.Room{}, model.ErrAlreadyInRoom
	}

	var id model.RoomID
	for {
		id = model.RoomID(t.random.UUID())
		if _, exists := t.rooms[id]; !exists {
			break
		}
	}

	room := &model.Room{
		ID:        id,
		PlayerA:   a,
		PlayerB:   b,
		CreatedAt: t.clock.Now(),
	}
	t.rooms[id] = room
	t.byHandle[a] = id
	t.byHandle[b] = id
	return *room, nil
}

// RecordMove stores the handle's move. The first move per participant wins.
// complete is true once both participants have moved.
func (t *Table) RecordMove(id model.RoomID, handle model.Handle, move model.Move) (model.Room, bool, error) {
	if !move.Valid() {
		return model.Room{}, false, model.ErrInvalidMove
	}
	room, ok := t.rooms[id]
	if !ok {
		return model.Room{}, false, model.ErrRoomNotFound
	}
	if !room.Has(handle) {
		return model.Room{}, false, model.ErrNotInRoom
	}

	m := move
	switch handle {
	case room.PlayerA:
		if room.MoveA != nil {
			return *room, false, model.ErrMoveAlreadyRecorded
		}
		room.MoveA = &m
	default:
		if room.MoveB != nil {
			return *room, false, model.ErrMoveAlreadyRecorded
		}
		room.MoveB = &m
	}

	return *room, room.State() == model.RoomStateResolved, nil
}

// Close destroys the room, returning false if it did not exist
func (t *Table) Close(id model.RoomID) bool {
	room, ok := t.rooms[id]
	if !ok {
		return false
	}
	delete(t.byHandle, room.PlayerA)
	delete(t.byHandle, room.PlayerB)
	delete(t.rooms, id)
	return true
}

// RoomOf returns the live room the handle belongs to, if any
func (t *Table) RoomOf(handle model.Handle) (model.Room, bool) {
	id, ok := t.byHandle[handle]
	if !ok {
		return model.Room{}, false
	}
	return *t.rooms[id], true
}

// Get returns the room with the given id
func (t *Table) Get(id model.RoomID) (model.Room, error) {
	room, ok := t.rooms[id]
	if !ok {
		return model.Room{}, model.ErrRoomNotFound
	}
	return *room, nil
}

// Len returns the number of live rooms
func (t *Table) Len() int {
	return len(t.rooms)
}
