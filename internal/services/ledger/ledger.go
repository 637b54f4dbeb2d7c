package ledger

import (
	"cmp"
	"context"
	"slices"

	"github.com/mcoot/rpsarena/internal/dependencies/clock"
	"github.com/mcoot/rpsarena/internal/model"
	"github.com/mcoot/rpsarena/internal/storage"
)

const (
	// RecentHistorySize is the number of entries pushed to clients
	RecentHistorySize = 5
	// LeaderboardSize is the number of identities on the leaderboard
	LeaderboardSize = 5
)

// IdentitySource provides the live identities the leaderboard is derived from
type IdentitySource interface {
	All() []model.Identity
}

// Ledger derives the leaderboard and keeps the bounded match history
type Ledger struct {
	storage    storage.Storage
	identities IdentitySource
	clock      clock.Clock
	lastID     int64
}

// New creates a new Ledger
func New(storage storage.Storage, identities IdentitySource, clock clock.Clock) *Ledger {
	return &Ledger{
		storage:    storage,
		identities: identities,
		clock:      clock,
	}
}

// Leaderboard returns the top identities by score, highest first.
// Ties keep registry insertion order.
func (l *Ledger) Leaderboard() []model.Identity {
	all := l.identities.All()
	slices.SortStableFunc(all, func(a, b model.Identity) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(all) > LeaderboardSize {
		all = all[:LeaderboardSize]
	}
	return all
}

// Record appends a history entry for a decisive match
func (l *Ledger) Record(ctx context.Context, winner, loser model.Identity, winMove, loseMove model.Move) (model.HistoryEntry, error) {
	now := l.clock.Now()
	entry := model.HistoryEntry{
		ID:         l.nextID(now.UnixMilli()),
		Winner:     winner.DisplayName,
		Loser:      loser.DisplayName,
		WinMove:    winMove,
		LoseMove:   loseMove,
		RecordedAt: now,
	}
	return entry, l.PushHistory(ctx, entry)
}

// PushHistory inserts the entry at the head, keeping at most HistoryCapacity entries
func (l *Ledger) PushHistory(ctx context.Context, entry model.HistoryEntry) error {
	if entry.ID > l.lastID {
		l.lastID = entry.ID
	}
	return l.storage.PushHistory(ctx, &entry, model.HistoryCapacity)
}

// RecentHistory returns the newest RecentHistorySize entries
func (l *Ledger) RecentHistory(ctx context.Context) ([]model.HistoryEntry, error) {
	return l.HistoryN(ctx, RecentHistorySize)
}

// History returns every retained entry, newest first
func (l *Ledger) History(ctx context.Context) ([]model.HistoryEntry, error) {
	return l.HistoryN(ctx, model.HistoryCapacity)
}

// HistoryN returns up to n entries, newest first
func (l *Ledger) HistoryN(ctx context.Context, n int) ([]model.HistoryEntry, error) {
	stored, err := l.storage.GetHistory(ctx, n)
	if err != nil {
		return nil, err
	}
	entries := make([]model.HistoryEntry, 0, len(stored))
	for _, e := range stored {
		entries = append(entries, *e)
	}
	return entries, nil
}

// Size returns the number of retained entries
func (l *Ledger) Size(ctx context.Context) (int, error) {
	return l.storage.HistoryLen(ctx)
}

// nextID returns a millisecond id, bumped to stay strictly increasing
func (l *Ledger) nextID(millis int64) int64 {
	if millis <= l.lastID {
		millis = l.lastID + 1
	}
	l.lastID = millis
	return millis
}
