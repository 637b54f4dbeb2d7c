package model

// EventType identifies the name of a WebSocket event
type EventType string

const (
	// Server events
	EventPlayerCount          EventType = "player_count"
	EventYourProfile          EventType = "your_profile"
	EventLeaderboardUpdate    EventType = "leaderboard_update"
	EventHistoryUpdate        EventType = "history_update"
	EventMatchFound           EventType = "match_found"
	EventGameResult           EventType = "game_result"
	EventOpponentDisconnected EventType = "opponent_disconnected"

	// Client events
	EventFindMatch    EventType = "find_match"
	EventCancelSearch EventType = "cancel_search"
	EventMakeMove     EventType = "make_move"
)

// IsClientEvent returns true if the event may be sent by a client
func (e EventType) IsClientEvent() bool {
	switch e {
	case EventFindMatch, EventCancelSearch, EventMakeMove:
		return true
	}
	return false
}
