// Command report performs a one-shot load of the experiment data and
// writes the summary and outlier reports into the reports directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ecdash/internal/analysis"
	"ecdash/internal/config"
	"ecdash/internal/dataset"
	"ecdash/internal/exporter"
	"ecdash/internal/files"
	"ecdash/internal/infrastructure"
)

func main() {
	dataDir := flag.String("data", "", "directory containing the source files (defaults to configured data dir)")
	outDir := flag.String("out", "", "directory to write reports into (defaults to configured reports dir)")
	allowPartial := flag.Bool("allow-partial", false, "continue past schools with missing environment files")
	flag.Parse()

	if err := run(*dataDir, *outDir, *allowPartial); err != nil {
		var missing *dataset.MissingDatasetError
		var parseErr *dataset.ParseError
		switch {
		case errors.As(err, &missing):
			fmt.Fprintf(os.Stderr, "report: missing %s dataset: %s\n", missing.Dataset, missing.File)
		case errors.As(err, &parseErr):
			fmt.Fprintf(os.Stderr, "report: malformed dataset file: %s\n", parseErr.File)
		default:
			fmt.Fprintf(os.Stderr, "report: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(dataDir, outDir string, allowPartial bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	baseDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	paths, err := config.NewPaths(baseDir, cfg.Paths)
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}
	if dataDir == "" {
		dataDir = paths.DataDir
	}
	if outDir == "" {
		outDir = paths.ReportsDir
	}

	registry := dataset.DefaultRegistry()
	resolver := files.NewResolver(logger)
	store := dataset.NewStore(
		dataset.NewEnvLoader(resolver, registry, logger, allowPartial || cfg.Loader.AllowPartial),
		dataset.NewGrowthLoader(resolver, registry, logger),
		dataDir,
		logger,
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snapshot, err := store.Get(ctx)
	if err != nil {
		return err
	}

	envSummaries := analysis.EnvironmentSummaries(registry, snapshot.Environment)
	growthSummaries := analysis.GrowthSummaries(registry, snapshot.Growth)
	outliers := analysis.EnvironmentOutliers(registry, snapshot.Environment)

	summaryTable := exporter.SummaryTable(envSummaries, growthSummaries)
	outliersTable := exporter.OutliersTable(outliers)

	artifacts := []struct {
		path  string
		write func(string) error
	}{
		{filepath.Join(outDir, "summary.csv"), func(p string) error { return exporter.SaveCSV(p, summaryTable) }},
		{filepath.Join(outDir, "outliers.csv"), func(p string) error { return exporter.SaveCSV(p, outliersTable) }},
		{filepath.Join(outDir, "report.xlsx"), func(p string) error {
			return exporter.SaveXLSX(p, summaryTable, outliersTable,
				exporter.EnvironmentTable(registry, snapshot.Environment),
				exporter.GrowthTable(registry, snapshot.Growth))
		}},
	}
	for _, artifact := range artifacts {
		if err := artifact.write(artifact.path); err != nil {
			return fmt.Errorf("failed to write %s: %w", artifact.path, err)
		}
		logger.Info("report written", slog.String("path", artifact.path))
	}

	if best, ok := analysis.SelectOptimalEC(registry, snapshot.Growth); ok {
		fmt.Printf("optimal EC: %.1f mS/cm (%s, mean fresh weight %.2f g over %d plants)\n",
			best.TargetEC, best.School, best.MeanFreshWeightG, best.Rows)
	}
	fmt.Printf("reports written to %s\n", outDir)
	return nil
}
