package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/rpsarena/internal/dependencies/clock"
	"github.com/mcoot/rpsarena/internal/dependencies/random"
	"github.com/mcoot/rpsarena/internal/realtime"
	"github.com/mcoot/rpsarena/internal/services/arena"
	"github.com/mcoot/rpsarena/internal/services/identity"
	"github.com/mcoot/rpsarena/internal/services/ledger"
	"github.com/mcoot/rpsarena/internal/services/matchmaking"
	"github.com/mcoot/rpsarena/internal/services/room"
	"github.com/mcoot/rpsarena/internal/storage"
	"github.com/mcoot/rpsarena/internal/storage/memory"
	redisstorage "github.com/mcoot/rpsarena/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Bound on storage work done while building the App
const startupTimeout = 5 * time.Second

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Registry *identity.Registry
	Queue    *matchmaking.Queue
	Rooms    *room.Table
	Ledger   *ledger.Ledger
	Engine   *arena.Engine

	// Hub is running once the App is built
	Hub *realtime.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the ledger backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	// An empty Namespace is replaced with a fresh one per process
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisCfg := *cfg.RedisConfig
		reused := redisCfg.Namespace != ""
		if !reused {
			redisCfg.Namespace = rnd.UUID()
		}
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		// History never outlives the process, even under a fixed namespace
		if reused {
			ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
			err := redisStore.ClearHistory(ctx)
			cancel()
			if err != nil {
				_ = redisStore.Close()
				return nil, fmt.Errorf("clearing stale history: %w", err)
			}
		}
		logger.Info("using redis ledger store", slog.String("namespace", redisCfg.Namespace))
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies and starts its hub
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	registry := identity.NewRegistry(clk, rnd)
	queue := matchmaking.NewQueue()
	rooms := room.NewTable(clk, rnd)
	ldgr := ledger.New(store, registry, clk)
	engine := arena.NewEngine(registry, queue, rooms, ldgr, clk, logger)
	hub := realtime.NewHub(engine, logger)
	go hub.Run()

	return &App{
		Storage:  store,
		Clock:    clk,
		Random:   rnd,
		Registry: registry,
		Queue:    queue,
		Rooms:    rooms,
		Ledger:   ldgr,
		Engine:   engine,
		Hub:      hub,
	}
}

// Close stops the hub and releases the storage backend
func (a *App) Close() error {
	a.Hub.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
