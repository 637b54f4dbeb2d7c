package protocol

import "github.com/mcoot/rpsarena/internal/model"

// Profile is the public view of an identity
type Profile struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Wins     int    `json:"wins"`
}

// HistoryItem is the public view of a history entry
type HistoryItem struct {
	ID       int64      `json:"id"`
	Winner   string     `json:"winner"`
	Loser    string     `json:"loser"`
	WinMove  model.Move `json:"winMove"`
	LoseMove model.Move `json:"loseMove"`
}

// MatchFound is sent to each participant when a room opens
type MatchFound struct {
	RoomID       model.RoomID `json:"roomId"`
	OpponentName string       `json:"opponentName"`
}

// GameResult is sent to each participant when a room resolves
type GameResult struct {
	Result       model.Verdict `json:"result"`
	OpponentMove model.Move    `json:"opponentMove"`
	NewScore     int           `json:"newScore"`
}

// OpponentDisconnected is sent to the remaining participant of a voided room
type OpponentDisconnected struct{}

// ProfileOf converts an identity to its public view
func ProfileOf(identity model.Identity) Profile {
	return Profile{
		Username: identity.DisplayName,
		Score:    identity.Score,
		Wins:     identity.Wins,
	}
}

// ProfilesOf converts identities to their public views
func ProfilesOf(identities []model.Identity) []Profile {
	profiles := make([]Profile, 0, len(identities))
	for _, identity := range identities {
		profiles = append(profiles, ProfileOf(identity))
	}
	return profiles
}

// HistoryOf converts history entries to their public views
func HistoryOf(entries []model.HistoryEntry) []HistoryItem {
	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			ID:       e.ID,
			Winner:   e.Winner,
			Loser:    e.Loser,
			WinMove:  e.WinMove,
			LoseMove: e.LoseMove,
		})
	}
	return items
}
