package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/rpsarena/internal/model"
	"github.com/mcoot/rpsarena/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// History operations

func (s *Storage) PushHistory(ctx context.Context, entry *model.HistoryEntry, capacity int) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := historyKey(s.cfg.Namespace)

	// Push, trim and refresh TTL together
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	if capacity > 0 {
		pipe.LTrim(ctx, key, 0, int64(capacity-1))
	}
	if s.cfg.HistoryTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.HistoryTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetHistory(ctx context.Context, limit int) ([]*model.HistoryEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	items, err := s.client.LRange(ctx, historyKey(s.cfg.Namespace), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*model.HistoryEntry, 0, len(items))
	for _, item := range items {
		var entry model.HistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

func (s *Storage) HistoryLen(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, historyKey(s.cfg.Namespace)).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *Storage) ClearHistory(ctx context.Context) error {
	return s.client.Del(ctx, historyKey(s.cfg.Namespace)).Err()
}

// Stats operations

func (s *Storage) SaveStats(ctx context.Context, stats *model.ArenaStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, statsKey(s.cfg.Namespace), data, s.cfg.StatsTTL).Err()
}

func (s *Storage) GetStats(ctx context.Context) (*model.ArenaStats, error) {
	data, err := s.client.Get(ctx, statsKey(s.cfg.Namespace)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStatsNotFound
		}
		return nil, err
	}

	var stats model.ArenaStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
