package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ecdash/internal/analysis"
	"ecdash/internal/dataset"
	"ecdash/internal/exporter"
)

// DataService exposes the loaded tables and their derived views. All
// reads go through the store's current snapshot, so every response in
// one request observes one consistent load.
type DataService struct {
	store    *dataset.Store
	registry *dataset.Registry
	logger   *slog.Logger
}

// NewDataService creates a data service over the store and registry.
func NewDataService(store *dataset.Store, registry *dataset.Registry, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		store:    store,
		registry: registry,
		logger:   logger.With(slog.String("service", "data")),
	}
}

// Schools returns the registered schools in insertion order.
func (s *DataService) Schools() []dataset.School {
	return s.registry.Schools()
}

// snapshot loads (or returns the memoized) snapshot.
func (s *DataService) snapshot(ctx context.Context) (*dataset.Snapshot, error) {
	return s.store.Get(ctx)
}

// Environment returns the per-school environment tables. A non-empty
// school narrows the result to that school; an unregistered name is
// ErrUnknownSchool.
func (s *DataService) Environment(ctx context.Context, school string) (map[string][]dataset.EnvReading, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if school == "" {
		return snapshot.Environment, nil
	}
	resolved, ok := s.registry.Lookup(school)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchool, school)
	}
	return map[string][]dataset.EnvReading{
		resolved.Name: snapshot.Environment[resolved.Name],
	}, nil
}

// EnvironmentSummary returns the per-school environment means.
func (s *DataService) EnvironmentSummary(ctx context.Context) ([]analysis.EnvSummary, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.EnvironmentSummaries(s.registry, snapshot.Environment), nil
}

// EnvironmentOutliers returns the invalid rows with their reasons.
func (s *DataService) EnvironmentOutliers(ctx context.Context) ([]analysis.Outlier, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.EnvironmentOutliers(s.registry, snapshot.Environment), nil
}

// Growth returns the per-school growth tables, optionally narrowed to
// one school.
func (s *DataService) Growth(ctx context.Context, school string) (map[string][]dataset.GrowthRecord, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if school == "" {
		return snapshot.Growth, nil
	}
	resolved, ok := s.registry.Lookup(school)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchool, school)
	}
	return map[string][]dataset.GrowthRecord{
		resolved.Name: snapshot.Growth[resolved.Name],
	}, nil
}

// GrowthSummary returns the per-school growth means with EC targets.
func (s *DataService) GrowthSummary(ctx context.Context) ([]analysis.GrowthSummary, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.GrowthSummaries(s.registry, snapshot.Growth), nil
}

// OptimalEC returns the school with the maximal mean fresh weight.
func (s *DataService) OptimalEC(ctx context.Context) (analysis.OptimalEC, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return analysis.OptimalEC{}, err
	}
	best, ok := analysis.SelectOptimalEC(s.registry, snapshot.Growth)
	if !ok {
		return analysis.OptimalEC{}, ErrNoGrowthData
	}
	return best, nil
}

// ReloadResult reports the outcome of a whole-cache reload.
type ReloadResult struct {
	LoadedAt           time.Time `json:"loaded_at"`
	EnvironmentSchools int       `json:"environment_schools"`
	GrowthSchools      int       `json:"growth_schools"`
	MissingEnvironment []string  `json:"missing_environment,omitempty"`
}

// Reload discards the cached snapshot and reloads from disk. On failure
// the previous snapshot keeps serving and the error names the failed
// dataset.
func (s *DataService) Reload(ctx context.Context) (*ReloadResult, error) {
	snapshot, err := s.store.Reload(ctx)
	if err != nil {
		return nil, err
	}
	return &ReloadResult{
		LoadedAt:           snapshot.LoadedAt,
		EnvironmentSchools: len(snapshot.Environment),
		GrowthSchools:      len(snapshot.Growth),
		MissingEnvironment: snapshot.MissingEnvironment,
	}, nil
}

// ExportTable flattens the named dataset for serialization. Valid names
// are environment, growth, summary and outliers.
func (s *DataService) ExportTable(ctx context.Context, name string) (exporter.Table, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return exporter.Table{}, err
	}

	switch name {
	case "environment":
		return exporter.EnvironmentTable(s.registry, snapshot.Environment), nil
	case "growth":
		return exporter.GrowthTable(s.registry, snapshot.Growth), nil
	case "summary":
		return exporter.SummaryTable(
			analysis.EnvironmentSummaries(s.registry, snapshot.Environment),
			analysis.GrowthSummaries(s.registry, snapshot.Growth),
		), nil
	case "outliers":
		return exporter.OutliersTable(
			analysis.EnvironmentOutliers(s.registry, snapshot.Environment),
		), nil
	default:
		return exporter.Table{}, fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}
}
