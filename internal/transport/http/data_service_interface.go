package http

import (
	"context"

	"ecdash/internal/analysis"
	"ecdash/internal/dataset"
	"ecdash/internal/exporter"
	"ecdash/internal/services"
)

// DataServiceInterface defines what the data handler needs from the
// service layer. Kept as an interface so handler tests can stub it.
type DataServiceInterface interface {
	Schools() []dataset.School
	Environment(ctx context.Context, school string) (map[string][]dataset.EnvReading, error)
	EnvironmentSummary(ctx context.Context) ([]analysis.EnvSummary, error)
	EnvironmentOutliers(ctx context.Context) ([]analysis.Outlier, error)
	Growth(ctx context.Context, school string) (map[string][]dataset.GrowthRecord, error)
	GrowthSummary(ctx context.Context) ([]analysis.GrowthSummary, error)
	OptimalEC(ctx context.Context) (analysis.OptimalEC, error)
	Reload(ctx context.Context) (*services.ReloadResult, error)
	ExportTable(ctx context.Context, name string) (exporter.Table, error)
}
