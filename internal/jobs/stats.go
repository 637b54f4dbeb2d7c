package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/rpsarena/internal/model"
	"github.com/mcoot/rpsarena/internal/storage"
)

// StatsJobName identifies the stats reporter in the scheduler
const StatsJobName = "arena-stats"

// StatsSource provides arena snapshots
type StatsSource interface {
	Stats(ctx context.Context) (model.ArenaStats, error)
}

// StatsReporter logs and publishes a periodic arena summary
type StatsReporter struct {
	source  StatsSource
	storage storage.Storage
	logger  *slog.Logger
}

// NewStatsReporter creates a new StatsReporter
func NewStatsReporter(source StatsSource, storage storage.Storage, logger *slog.Logger) *StatsReporter {
	return &StatsReporter{
		source:  source,
		storage: storage,
		logger:  logger.With(slog.String("component", "jobs")),
	}
}

// Report takes one snapshot, logs it and saves it to the store
func (r *StatsReporter) Report(ctx context.Context) error {
	stats, err := r.source.Stats(ctx)
	if err != nil {
		return fmt.Errorf("taking stats snapshot: %w", err)
	}

	r.logger.Info("arena stats",
		slog.Int("connected", stats.Connected),
		slog.Int("queued", stats.Queued),
		slog.Int("active_rooms", stats.ActiveRooms),
		slog.Int("history_size", stats.HistorySize),
	)

	if err := r.storage.SaveStats(ctx, &stats); err != nil {
		return fmt.Errorf("saving stats: %w", err)
	}
	return nil
}
