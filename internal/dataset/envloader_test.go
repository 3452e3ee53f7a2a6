package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/text/unicode/norm"

	"ecdash/internal/files"
)

func writeEnvFile(t *testing.T, dir, school, content string) {
	t.Helper()
	name := fmt.Sprintf("%s_환경데이터.csv", school)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func writeAllEnvFiles(t *testing.T, dir string, registry *Registry) {
	t.Helper()
	for _, school := range registry.Schools() {
		writeEnvFile(t, dir, school.Name,
			"time,temperature,humidity,ph,ec\n"+
				"2025-05-01 09:00,21.5,55.0,6.8,1.1\n"+
				"2025-05-01 10:00,22.0,54.2,6.9,1.2\n")
	}
}

func TestEnvLoader_LoadAll(t *testing.T) {
	dir := t.TempDir()
	registry := DefaultRegistry()
	writeAllEnvFiles(t, dir, registry)

	loader := NewEnvLoader(files.NewResolver(nil), registry, nil, false)
	result, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, result.Tables, 4)
	assert.Empty(t, result.Missing)

	total := 0
	for _, school := range registry.Schools() {
		table, ok := result.Tables[school.Name]
		require.True(t, ok, "missing table for %s", school.Name)
		total += len(table)
		for _, reading := range table {
			assert.Equal(t, school.Name, reading.School)
		}
	}
	assert.Equal(t, 8, total)
}

func TestEnvLoader_NFDStoredFilename(t *testing.T) {
	dir := t.TempDir()
	registry := DefaultRegistry()

	for _, school := range registry.Schools() {
		// Store each file under its decomposed name, as a macOS
		// filesystem would.
		name := norm.NFD.String(fmt.Sprintf("%s_환경데이터.csv", school.Name))
		content := "time,temperature,humidity,ph,ec\n2025-05-01 09:00,21.5,55.0,6.8,1.1\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	loader := NewEnvLoader(files.NewResolver(nil), registry, nil, false)
	result, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, result.Tables, 4)
}

func TestEnvLoader_MissingFileStrict(t *testing.T) {
	dir := t.TempDir()
	registry := DefaultRegistry()
	// Only the first school's file exists.
	writeEnvFile(t, dir, "송도고", "time,temperature,humidity,ph,ec\n2025-05-01,21,55,6.8,1.1\n")

	loader := NewEnvLoader(files.NewResolver(nil), registry, nil, false)
	_, err := loader.Load(context.Background(), dir)

	var missing *MissingDatasetError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "environment", missing.Dataset)
	assert.Equal(t, "하늘고", missing.School)
	assert.Contains(t, missing.File, "하늘고")
}

func TestEnvLoader_MissingFileLenient(t *testing.T) {
	dir := t.TempDir()
	registry := DefaultRegistry()
	writeEnvFile(t, dir, "송도고", "time,temperature,humidity,ph,ec\n2025-05-01,21,55,6.8,1.1\n")
	writeEnvFile(t, dir, "동산고", "time,temperature,humidity,ph,ec\n2025-05-01,22,60,7.0,8.2\n")

	loader := NewEnvLoader(files.NewResolver(nil), registry, nil, true)
	result, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, result.Tables, 2)
	assert.ElementsMatch(t, []string{"하늘고", "아라고"}, result.Missing)
}

func TestEnvLoader_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	registry := DefaultRegistry()
	writeAllEnvFiles(t, dir, registry)
	// Break one file: no ph column.
	writeEnvFile(t, dir, "아라고", "time,temperature,humidity,ec\n2025-05-01,21,55,1.1\n")

	loader := NewEnvLoader(files.NewResolver(nil), registry, nil, false)
	_, err := loader.Load(context.Background(), dir)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	var missingCol *MissingColumnError
	require.ErrorAs(t, err, &missingCol)
	assert.Equal(t, "ph", missingCol.Column)
}

func TestEnvLoader_MalformedValue(t *testing.T) {
	dir := t.TempDir()
	registry := DefaultRegistry()
	writeAllEnvFiles(t, dir, registry)
	writeEnvFile(t, dir, "하늘고",
		"time,temperature,humidity,ph,ec\n"+
			"2025-05-01,21,55,6.8,1.1\n"+
			"2025-05-01,hot,55,6.8,1.1\n")

	loader := NewEnvLoader(files.NewResolver(nil), registry, nil, false)
	_, err := loader.Load(context.Background(), dir)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Row)
	assert.Contains(t, parseErr.Error(), "temperature")
}

func TestEnvLoader_ColumnOrderIndependent(t *testing.T) {
	dir := t.TempDir()
	registry := DefaultRegistry()
	writeAllEnvFiles(t, dir, registry)
	// Reordered columns still map by header name.
	writeEnvFile(t, dir, "동산고",
		"ec,ph,humidity,temperature,time\n"+
			"8.1,7.0,61.5,23.0,2025-05-01 09:00\n")

	loader := NewEnvLoader(files.NewResolver(nil), registry, nil, false)
	result, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	table := result.Tables["동산고"]
	require.Len(t, table, 1)
	assert.Equal(t, 23.0, table[0].Temperature)
	assert.Equal(t, 61.5, table[0].Humidity)
	assert.Equal(t, 7.0, table[0].PH)
	assert.Equal(t, 8.1, table[0].EC)
	assert.Equal(t, "2025-05-01 09:00", table[0].Time)
}

func TestEnvLoader_SkipsBlankRows(t *testing.T) {
	dir := t.TempDir()
	registry := DefaultRegistry()
	writeAllEnvFiles(t, dir, registry)
	writeEnvFile(t, dir, "송도고",
		"time,temperature,humidity,ph,ec\n"+
			"2025-05-01,21,55,6.8,1.1\n"+
			",,,,\n"+
			"2025-05-02,22,56,6.9,1.2\n")

	loader := NewEnvLoader(files.NewResolver(nil), registry, nil, false)
	result, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, result.Tables["송도고"], 2)
}

func TestEnvLoader_InvalidRowsRetained(t *testing.T) {
	dir := t.TempDir()
	registry := DefaultRegistry()
	writeAllEnvFiles(t, dir, registry)
	writeEnvFile(t, dir, "송도고",
		"time,temperature,humidity,ph,ec\n"+
			"2025-05-01,21,55,15.2,1.1\n"+ // impossible pH
			"2025-05-02,22,56,6.9,1.2\n")

	loader := NewEnvLoader(files.NewResolver(nil), registry, nil, false)
	result, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	table := result.Tables["송도고"]
	require.Len(t, table, 2, "invalid rows must be retained")
	assert.NotEmpty(t, table[0].InvalidReasons())
	assert.Empty(t, table[1].InvalidReasons())
}
