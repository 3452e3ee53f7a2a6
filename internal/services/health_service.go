package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"ecdash/internal/dataset"
)

// HealthService reports liveness and dataset readiness.
type HealthService struct {
	version   string
	dataDir   string
	store     *dataset.Store
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the /healthz response body.
type HealthStatus struct {
	Status        string     `json:"status"`
	Timestamp     time.Time  `json:"timestamp"`
	Version       string     `json:"version"`
	UptimeSeconds float64    `json:"uptime_seconds"`
	GoVersion     string     `json:"go_version"`
	DataDirOK     bool       `json:"data_dir_ok"`
	DatasetLoaded bool       `json:"dataset_loaded"`
	LoadedAt      *time.Time `json:"loaded_at,omitempty"`
}

// NewHealthService creates a health service.
func NewHealthService(version, dataDir string, store *dataset.Store, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		dataDir:   dataDir,
		store:     store,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// Check reports current health. A missing data directory degrades the
// status but does not fail the check; the cached snapshot still serves.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:        "healthy",
		Timestamp:     time.Now(),
		Version:       s.version,
		UptimeSeconds: time.Since(s.startTime).Seconds(),
		GoVersion:     runtime.Version(),
	}

	if info, err := os.Stat(s.dataDir); err == nil && info.IsDir() {
		status.DataDirOK = true
	}

	if snapshot := s.store.Cached(); snapshot != nil {
		status.DatasetLoaded = true
		loadedAt := snapshot.LoadedAt
		status.LoadedAt = &loadedAt
	}

	if !status.DataDirOK {
		status.Status = "degraded"
		s.logger.WarnContext(ctx, "data directory not accessible",
			slog.String("data_dir", s.dataDir))
	}

	return status
}
