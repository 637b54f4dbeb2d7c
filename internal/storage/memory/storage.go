package memory

import (
	"context"
	"sync"

	"github.com/mcoot/rpsarena/internal/model"
	"github.com/mcoot/rpsarena/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	history []*model.HistoryEntry // newest first
	stats   *model.ArenaStats
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// History operations

func (s *Storage) PushHistory(ctx context.Context, entry *model.HistoryEntry, capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *entry
	s.history = append([]*model.HistoryEntry{&stored}, s.history...)
	if capacity > 0 && len(s.history) > capacity {
		s.history = s.history[:capacity]
	}
	return nil
}

func (s *Storage) GetHistory(ctx context.Context, limit int) ([]*model.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.history)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]*model.HistoryEntry, n)
	for i := 0; i < n; i++ {
		entry := *s.history[i]
		result[i] = &entry
	}
	return result, nil
}

func (s *Storage) HistoryLen(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history), nil
}

func (s *Storage) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	return nil
}

// Stats operations

func (s *Storage) SaveStats(ctx context.Context, stats *model.ArenaStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *stats
	s.stats = &stored
	return nil
}

func (s *Storage) GetStats(ctx context.Context) (*model.ArenaStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats == nil {
		return nil, model.ErrStatsNotFound
	}
	stats := *s.stats
	return &stats, nil
}
