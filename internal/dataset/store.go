package dataset

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ecdash/internal/observability"
)

// Snapshot is one complete, immutable load of both datasets. Consumers
// must treat its tables as read-only.
type Snapshot struct {
	Environment map[string][]EnvReading
	Growth      map[string][]GrowthRecord

	// MissingEnvironment lists schools whose environment file was absent;
	// only ever populated under the lenient load policy.
	MissingEnvironment []string

	LoadedAt time.Time
}

// Store memoizes loaded datasets for the process lifetime. The first Get
// performs the load; later Gets return the cached snapshot. Reload
// replaces the whole cache atomically and keeps the previous snapshot if
// the new load fails partway.
type Store struct {
	envLoader    *EnvLoader
	growthLoader *GrowthLoader
	dataDir      string
	logger       *slog.Logger
	metrics      *observability.Metrics

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewStore creates a dataset store over the given loaders. metrics may
// be nil.
func NewStore(envLoader *EnvLoader, growthLoader *GrowthLoader, dataDir string, logger *slog.Logger, metrics *observability.Metrics) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		envLoader:    envLoader,
		growthLoader: growthLoader,
		dataDir:      dataDir,
		logger:       logger.With(slog.String("component", "dataset_store")),
		metrics:      metrics,
	}
}

// Get returns the cached snapshot, loading it on first use.
func (s *Store) Get(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}
	return s.Reload(ctx)
}

// Cached returns the current snapshot without triggering a load, or nil.
func (s *Store) Cached() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Reload performs a fresh one-shot load (environment first, then growth)
// and swaps it in. On any failure the previous snapshot stays in place,
// so a failed reload never leaves the store partially populated.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	envStart := time.Now()
	envResult, err := s.envLoader.Load(ctx, s.dataDir)
	if err != nil {
		s.metrics.CountReload("failure")
		s.logger.ErrorContext(ctx, "environment load failed",
			slog.String("error", err.Error()))
		return nil, err
	}
	s.metrics.ObserveLoad("environment", time.Since(envStart))

	growthStart := time.Now()
	growth, err := s.growthLoader.Load(ctx, s.dataDir)
	if err != nil {
		s.metrics.CountReload("failure")
		s.logger.ErrorContext(ctx, "growth load failed",
			slog.String("error", err.Error()))
		return nil, err
	}
	s.metrics.ObserveLoad("growth", time.Since(growthStart))

	snapshot := &Snapshot{
		Environment:        envResult.Tables,
		Growth:             growth,
		MissingEnvironment: envResult.Missing,
		LoadedAt:           time.Now(),
	}

	for school, table := range snapshot.Environment {
		s.metrics.SetRowsLoaded("environment", school, len(table))
		invalid := 0
		for _, reading := range table {
			if len(reading.InvalidReasons()) > 0 {
				invalid++
			}
		}
		s.metrics.SetInvalidRows(school, invalid)
	}
	for school, table := range snapshot.Growth {
		s.metrics.SetRowsLoaded("growth", school, len(table))
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	s.metrics.CountReload("success")
	s.logger.InfoContext(ctx, "datasets loaded",
		slog.Int("environment_schools", len(snapshot.Environment)),
		slog.Int("growth_schools", len(snapshot.Growth)),
		slog.Int("missing_environment", len(snapshot.MissingEnvironment)),
		slog.Duration("duration", time.Since(start)))

	return snapshot, nil
}
