package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mcoot/rpsarena/internal/model"
)

// Envelope is the frame shape for every WebSocket message in both directions
type Envelope struct {
	Event model.EventType `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Command is an inbound client request. The set of variants is closed.
type Command interface {
	Event() model.EventType
}

// FindMatch asks to join the matchmaking queue
type FindMatch struct{}

// CancelSearch asks to leave the matchmaking queue
type CancelSearch struct{}

// MakeMove submits a move for a room
type MakeMove struct {
	RoomID model.RoomID
	Move   model.Move
}

func (FindMatch) Event() model.EventType    { return model.EventFindMatch }
func (CancelSearch) Event() model.EventType { return model.EventCancelSearch }
func (MakeMove) Event() model.EventType     { return model.EventMakeMove }

type makeMovePayload struct {
	RoomID string `json:"roomId"`
	Move   string `json:"move"`
}

// DecodeCommand parses an inbound frame into one of the Command variants
func DecodeCommand(frame []byte) (Command, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedPayload, err)
	}

	if !env.Event.IsClientEvent() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownEvent, env.Event)
	}

	switch env.Event {
	case model.EventFindMatch:
		return FindMatch{}, nil
	case model.EventCancelSearch:
		return CancelSearch{}, nil
	case model.EventMakeMove:
		return decodeMakeMove(env.Data)
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownEvent, env.Event)
	}
}

func decodeMakeMove(data json.RawMessage) (Command, error) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, fmt.Errorf("%w: make_move requires data", model.ErrMalformedPayload)
	}
	var p makeMovePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedPayload, err)
	}
	if p.RoomID == "" {
		return nil, fmt.Errorf("%w: missing roomId", model.ErrMalformedPayload)
	}
	move := model.Move(p.Move)
	if !move.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidMove, p.Move)
	}
	return MakeMove{RoomID: model.RoomID(p.RoomID), Move: move}, nil
}

// Encode builds a frame for the given event
func Encode(event model.EventType, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// EncodeCommand builds a client frame for the command
func EncodeCommand(cmd Command) ([]byte, error) {
	switch c := cmd.(type) {
	case MakeMove:
		return Encode(c.Event(), makeMovePayload{RoomID: string(c.RoomID), Move: string(c.Move)})
	default:
		return Encode(cmd.Event(), struct{}{})
	}
}

// DecodeEnvelope parses a frame without interpreting its data
func DecodeEnvelope(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", model.ErrMalformedPayload, err)
	}
	return env, nil
}
