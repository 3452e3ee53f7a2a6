package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook renders each table as one sheet, in the given order.
func buildWorkbook(tables []Table) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, table := range tables {
		sheet := table.Name
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return nil, fmt.Errorf("failed to name sheet %q: %w", sheet, err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("failed to add sheet %q: %w", sheet, err)
			}
		}

		header := make([]interface{}, len(table.Headers))
		for j, h := range table.Headers {
			header[j] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return nil, fmt.Errorf("failed to write header of %q: %w", sheet, err)
		}

		for r, row := range table.Rows {
			cells := make([]interface{}, len(row))
			for j, cell := range row {
				// Keep numbers numeric in the workbook so a re-parse
				// sees the same values, not quoted text.
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					cells[j] = v
				} else {
					cells[j] = cell
				}
			}
			axis := fmt.Sprintf("A%d", r+2)
			if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
				return nil, fmt.Errorf("failed to write row %d of %q: %w", r+1, sheet, err)
			}
		}
	}
	return f, nil
}

// WriteXLSX streams the tables as a workbook, one sheet per table.
func WriteXLSX(w io.Writer, tables ...Table) error {
	f, err := buildWorkbook(tables)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the tables to a workbook file, creating parent
// directories.
func SaveXLSX(path string, tables ...Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := buildWorkbook(tables)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
