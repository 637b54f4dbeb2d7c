package storage

import (
	"context"

	"github.com/mcoot/rpsarena/internal/model"
)

// Storage defines the interface for the match ledger store
type Storage interface {
	// History operations
	PushHistory(ctx context.Context, entry *model.HistoryEntry, capacity int) error
	GetHistory(ctx context.Context, limit int) ([]*model.HistoryEntry, error)
	HistoryLen(ctx context.Context) (int, error)
	// ClearHistory drops every entry. Used at startup when a store namespace is reused.
	ClearHistory(ctx context.Context) error

	// Stats operations
	SaveStats(ctx context.Context, stats *model.ArenaStats) error
	GetStats(ctx context.Context) (*model.ArenaStats, error)
}
