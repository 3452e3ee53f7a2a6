package dataset

import "fmt"

// MissingDatasetError reports that a dataset file could not be resolved
// for a school (or for the whole growth workbook). The file name is the
// logical name the resolver searched for.
type MissingDatasetError struct {
	Dataset string
	School  string
	File    string
	Err     error
}

func (e *MissingDatasetError) Error() string {
	if e.School != "" {
		return fmt.Sprintf("missing %s dataset for %s: file %q not found", e.Dataset, e.School, e.File)
	}
	return fmt.Sprintf("missing %s dataset: file %q not found", e.Dataset, e.File)
}

func (e *MissingDatasetError) Unwrap() error { return e.Err }

// ParseError reports a malformed dataset file. Row is 1-based within the
// file (0 when the failure is not tied to a row, e.g. a missing column).
type ParseError struct {
	File  string
	Sheet string
	Row   int
	Err   error
}

func (e *ParseError) Error() string {
	switch {
	case e.Sheet != "" && e.Row > 0:
		return fmt.Sprintf("malformed dataset file %s (sheet %q, row %d): %v", e.File, e.Sheet, e.Row, e.Err)
	case e.Sheet != "":
		return fmt.Sprintf("malformed dataset file %s (sheet %q): %v", e.File, e.Sheet, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("malformed dataset file %s (row %d): %v", e.File, e.Row, e.Err)
	default:
		return fmt.Sprintf("malformed dataset file %s: %v", e.File, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingColumnError reports a required schema column absent from a
// table header.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s table is missing required column %q", e.Table, e.Column)
}
