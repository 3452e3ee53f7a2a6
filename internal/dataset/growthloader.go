package dataset

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"ecdash/internal/files"
)

// growthWorkbookName is the logical filename of the growth result
// workbook, one sheet per school.
const growthWorkbookName = "4개교_생육결과데이터.xlsx"

// GrowthLoader reads the multi-sheet growth workbook into tagged
// in-memory tables, one per sheet.
type GrowthLoader struct {
	resolver *files.Resolver
	registry *Registry
	logger   *slog.Logger
}

// NewGrowthLoader creates a growth dataset loader. The growth load is
// always all-or-nothing: a missing workbook or one malformed sheet fails
// the whole dataset.
func NewGrowthLoader(resolver *files.Resolver, registry *Registry, logger *slog.Logger) *GrowthLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &GrowthLoader{
		resolver: resolver,
		registry: registry,
		logger:   logger.With(slog.String("component", "growth_loader")),
	}
}

// Load resolves the workbook in dataDir and parses every sheet it
// contains. Sheets are discovered from the file, not hard-coded; each
// sheet name must be a registered school.
func (l *GrowthLoader) Load(ctx context.Context, dataDir string) (map[string][]GrowthRecord, error) {
	path, err := l.resolver.Resolve(dataDir, growthWorkbookName)
	if err != nil {
		return nil, &MissingDatasetError{
			Dataset: "growth",
			File:    growthWorkbookName,
			Err:     err,
		}
	}

	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{File: path, Err: fmt.Errorf("workbook has no sheets")}
	}

	tables := make(map[string][]GrowthRecord, len(sheets))
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		school, ok := l.registry.Lookup(sheet)
		if !ok {
			return nil, &ParseError{
				File:  path,
				Sheet: sheet,
				Err:   fmt.Errorf("sheet name is not a registered school"),
			}
		}

		records, err := l.parseSheet(workbook, path, sheet, school.Name)
		if err != nil {
			return nil, err
		}

		l.logger.InfoContext(ctx, "growth sheet loaded",
			slog.String("school", school.Name),
			slog.String("sheet", sheet),
			slog.Int("rows", len(records)))

		tables[school.Name] = records
	}

	return tables, nil
}

// parseSheet reads one sheet into records tagged with the school name.
func (l *GrowthLoader) parseSheet(workbook *excelize.File, path, sheet, school string) ([]GrowthRecord, error) {
	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{File: path, Sheet: sheet, Err: err}
	}
	if len(rows) == 0 {
		return nil, &ParseError{File: path, Sheet: sheet, Err: fmt.Errorf("sheet is empty")}
	}

	// The header is the first non-empty row that satisfies the schema;
	// some sheets carry a title row above it. Give up after a few
	// candidates and report the first schema failure.
	headerRow := -1
	var columns map[string]int
	var firstMissing *MissingColumnError
	candidates := 0
	for i, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		mapping, missing := GrowthSchema().MapHeader(row)
		if missing == nil {
			headerRow = i
			columns = mapping
			break
		}
		if firstMissing == nil {
			firstMissing = missing
		}
		if candidates++; candidates >= 3 {
			break
		}
	}
	if headerRow == -1 {
		return nil, &ParseError{File: path, Sheet: sheet, Err: firstMissing}
	}

	records := make([]GrowthRecord, 0, len(rows)-headerRow-1)
	for i, row := range rows[headerRow+1:] {
		rowNum := headerRow + i + 2 // 1-based

		if isEmptyRow(row) {
			continue
		}

		record := GrowthRecord{School: school}

		var parseErr error
		record.ShootLengthMM, parseErr = parseCell(row, columns["shoot_length_mm"], "shoot_length_mm")
		if parseErr == nil {
			record.RootLengthMM, parseErr = parseCell(row, columns["root_length_mm"], "root_length_mm")
		}
		if parseErr == nil {
			record.FreshWeightG, parseErr = parseCell(row, columns["fresh_weight_g"], "fresh_weight_g")
		}
		if parseErr == nil {
			record.LeafCount, parseErr = parseCell(row, columns["leaf_count"], "leaf_count")
		}
		if parseErr != nil {
			return nil, &ParseError{File: path, Sheet: sheet, Row: rowNum, Err: parseErr}
		}

		records = append(records, record)
	}

	return records, nil
}
