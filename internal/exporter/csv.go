package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// utf8BOM helps spreadsheet applications recognize UTF-8, which matters
// for the Korean school names in exported tables.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV streams the table as CSV, prefixed with a UTF-8 BOM.
func WriteCSV(w io.Writer, table Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(table.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveCSV writes the table to a file, creating parent directories.
func SaveCSV(path string, table Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, table); err != nil {
		return err
	}
	return file.Close()
}
