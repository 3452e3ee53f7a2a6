package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ecdash/internal/files"
)

// writeGrowthWorkbook builds a workbook with one sheet per school and
// the given rows (shoot, root, fresh weight, leaf count).
func writeGrowthWorkbook(t *testing.T, dir string, sheets map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	first := true
	for sheet, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
			first = false
		} else {
			_, err := f.NewSheet(sheet)
			require.NoError(t, err)
		}

		header := []interface{}{"지상부 길이(mm)", "지하부길이(mm)", "생체중(g)", "엽수"}
		require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
		for i, row := range rows {
			cell := fmt.Sprintf("A%d", i+2)
			r := row
			require.NoError(t, f.SetSheetRow(sheet, cell, &r))
		}
	}

	path := filepath.Join(dir, "4개교_생육결과데이터.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestGrowthLoader_LoadAllSheets(t *testing.T) {
	dir := t.TempDir()
	writeGrowthWorkbook(t, dir, map[string][][]interface{}{
		"송도고": {{120.0, 80.0, 4.2, 6.0}, {115.0, 78.0, 4.0, 5.0}},
		"하늘고": {{130.0, 85.0, 5.7, 7.0}},
		"아라고": {{110.0, 90.0, 3.9, 5.0}},
		"동산고": {{140.0, 95.0, 6.1, 8.0}},
	})

	loader := NewGrowthLoader(files.NewResolver(nil), DefaultRegistry(), nil)
	tables, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, tables, 4)
	assert.Len(t, tables["송도고"], 2)

	record := tables["하늘고"][0]
	assert.Equal(t, "하늘고", record.School)
	assert.Equal(t, 130.0, record.ShootLengthMM)
	assert.Equal(t, 85.0, record.RootLengthMM)
	assert.Equal(t, 5.7, record.FreshWeightG)
	assert.Equal(t, 7.0, record.LeafCount)
}

func TestGrowthLoader_MissingWorkbook(t *testing.T) {
	loader := NewGrowthLoader(files.NewResolver(nil), DefaultRegistry(), nil)
	_, err := loader.Load(context.Background(), t.TempDir())

	var missing *MissingDatasetError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "growth", missing.Dataset)
	assert.Equal(t, "4개교_생육결과데이터.xlsx", missing.File)
}

func TestGrowthLoader_UnknownSheetName(t *testing.T) {
	dir := t.TempDir()
	writeGrowthWorkbook(t, dir, map[string][][]interface{}{
		"송도고":  {{120.0, 80.0, 4.2, 6.0}},
		"미지의고": {{1.0, 2.0, 3.0, 4.0}},
	})

	loader := NewGrowthLoader(files.NewResolver(nil), DefaultRegistry(), nil)
	_, err := loader.Load(context.Background(), dir)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "미지의고", parseErr.Sheet)
}

func TestGrowthLoader_MalformedSheetFailsWholeLoad(t *testing.T) {
	dir := t.TempDir()
	writeGrowthWorkbook(t, dir, map[string][][]interface{}{
		"송도고": {{120.0, 80.0, 4.2, 6.0}},
		"하늘고": {{130.0, "n/a", 5.7, 7.0}},
	})

	loader := NewGrowthLoader(files.NewResolver(nil), DefaultRegistry(), nil)
	_, err := loader.Load(context.Background(), dir)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "하늘고", parseErr.Sheet)
	assert.Contains(t, parseErr.Error(), "root_length_mm")
}

func TestGrowthLoader_HeaderSpacingVariants(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), "송도고"))
	// Header variant with different spacing than the canonical aliases.
	header := []interface{}{"지상부길이(mm)", "지하부 길이(mm)", "생체중 (g)", "엽수"}
	require.NoError(t, f.SetSheetRow("송도고", "A1", &header))
	row := []interface{}{120.0, 80.0, 4.2, 6.0}
	require.NoError(t, f.SetSheetRow("송도고", "A2", &row))
	require.NoError(t, f.SaveAs(filepath.Join(dir, "4개교_생육결과데이터.xlsx")))
	require.NoError(t, f.Close())

	loader := NewGrowthLoader(files.NewResolver(nil), DefaultRegistry(), nil)
	tables, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, tables["송도고"], 1)
	assert.Equal(t, 4.2, tables["송도고"][0].FreshWeightG)
}
