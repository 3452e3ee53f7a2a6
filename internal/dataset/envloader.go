package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"ecdash/internal/files"
)

// envFilePattern is the logical filename for a school's environment data.
const envFilePattern = "%s_환경데이터.csv"

// EnvLoader reads the per-school environment CSV files into tagged
// in-memory tables.
type EnvLoader struct {
	resolver     *files.Resolver
	registry     *Registry
	logger       *slog.Logger
	allowPartial bool
}

// EnvResult is the outcome of one environment load: a table per school,
// plus the schools whose files were missing when partial loads are
// allowed.
type EnvResult struct {
	Tables  map[string][]EnvReading
	Missing []string
}

// NewEnvLoader creates an environment dataset loader. With allowPartial
// false (the default policy) any missing school file aborts the whole
// load; with it true, missing schools are recorded and the rest load.
func NewEnvLoader(resolver *files.Resolver, registry *Registry, logger *slog.Logger, allowPartial bool) *EnvLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnvLoader{
		resolver:     resolver,
		registry:     registry,
		logger:       logger.With(slog.String("component", "env_loader")),
		allowPartial: allowPartial,
	}
}

// Load resolves and parses every school's environment file from dataDir.
// Parse failures are always fatal; the missing-file policy depends on
// allowPartial.
func (l *EnvLoader) Load(ctx context.Context, dataDir string) (*EnvResult, error) {
	result := &EnvResult{
		Tables: make(map[string][]EnvReading, l.registry.Len()),
	}

	for _, school := range l.registry.Schools() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logical := fmt.Sprintf(envFilePattern, school.Name)
		path, err := l.resolver.Resolve(dataDir, logical)
		if err != nil {
			missing := &MissingDatasetError{
				Dataset: "environment",
				School:  school.Name,
				File:    logical,
				Err:     err,
			}
			if !l.allowPartial {
				return nil, missing
			}
			l.logger.WarnContext(ctx, "environment file missing, continuing",
				slog.String("school", school.Name),
				slog.String("file", logical))
			result.Missing = append(result.Missing, school.Name)
			continue
		}

		readings, err := l.parseFile(path, school.Name)
		if err != nil {
			return nil, err
		}

		l.logger.InfoContext(ctx, "environment file loaded",
			slog.String("school", school.Name),
			slog.String("path", path),
			slog.Int("rows", len(readings)))

		result.Tables[school.Name] = readings
	}

	return result, nil
}

// parseFile reads one environment CSV into readings tagged with the
// school name.
func (l *EnvLoader) parseFile(path, school string) ([]EnvReading, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	if len(rows) == 0 {
		return nil, &ParseError{File: path, Err: fmt.Errorf("file is empty")}
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	columns, missing := EnvironmentSchema().MapHeader(header)
	if missing != nil {
		return nil, &ParseError{File: path, Err: missing}
	}

	readings := make([]EnvReading, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after header

		if isEmptyRow(row) {
			continue
		}

		reading := EnvReading{School: school}
		reading.Time = cell(row, columns["time"])

		var parseErr error
		reading.Temperature, parseErr = parseCell(row, columns["temperature"], "temperature")
		if parseErr == nil {
			reading.Humidity, parseErr = parseCell(row, columns["humidity"], "humidity")
		}
		if parseErr == nil {
			reading.PH, parseErr = parseCell(row, columns["ph"], "ph")
		}
		if parseErr == nil {
			reading.EC, parseErr = parseCell(row, columns["ec"], "ec")
		}
		if parseErr != nil {
			return nil, &ParseError{File: path, Row: rowNum, Err: parseErr}
		}

		readings = append(readings, reading)
	}

	return readings, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseCell(row []string, idx int, column string) (float64, error) {
	raw := cell(row, idx)
	if raw == "" {
		return 0, fmt.Errorf("empty %s value", column)
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", column, raw)
	}
	return value, nil
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
