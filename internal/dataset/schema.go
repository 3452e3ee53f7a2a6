package dataset

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Column describes one required table column: a canonical key and the
// header spellings that map to it. Headers are compared after
// normalization (NFC, lowercased, spaces removed) because the source
// files vary in spacing, case and Unicode form.
type Column struct {
	Key     string
	Aliases []string
}

// Schema is the explicit, ordered column contract for one table kind.
// It is validated once per file; a missing column fails the parse with a
// precise error instead of a deferred lookup failure.
type Schema struct {
	Name    string
	Columns []Column
}

// EnvironmentSchema describes the per-school environment CSV files.
func EnvironmentSchema() Schema {
	return Schema{
		Name: "environment",
		Columns: []Column{
			{Key: "time", Aliases: []string{"time", "timestamp", "측정시각"}},
			{Key: "temperature", Aliases: []string{"temperature", "temp", "온도"}},
			{Key: "humidity", Aliases: []string{"humidity", "습도"}},
			{Key: "ph", Aliases: []string{"ph"}},
			{Key: "ec", Aliases: []string{"ec"}},
		},
	}
}

// GrowthSchema describes the per-sheet growth result tables. The Korean
// headers appear with and without internal spaces across sheets.
func GrowthSchema() Schema {
	return Schema{
		Name: "growth",
		Columns: []Column{
			{Key: "shoot_length_mm", Aliases: []string{"지상부 길이(mm)", "지상부길이(mm)", "shoot_length_mm"}},
			{Key: "root_length_mm", Aliases: []string{"지하부길이(mm)", "지하부 길이(mm)", "root_length_mm"}},
			{Key: "fresh_weight_g", Aliases: []string{"생체중(g)", "생체중 (g)", "fresh_weight_g"}},
			{Key: "leaf_count", Aliases: []string{"엽수", "잎 수", "leaf_count"}},
		},
	}
}

// MapHeader maps a header row to column indices by canonical key.
// Every schema column must be present; the first missing one is reported
// by name so the caller can surface a precise parse error.
func (s Schema) MapHeader(header []string) (map[string]int, *MissingColumnError) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}

	mapping := make(map[string]int, len(s.Columns))
	for _, col := range s.Columns {
		found := false
		for _, alias := range col.Aliases {
			want := normalizeHeader(alias)
			for i, h := range normalized {
				if h == want {
					mapping[col.Key] = i
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return nil, &MissingColumnError{Table: s.Name, Column: col.Key}
		}
	}

	return mapping, nil
}

// normalizeHeader canonicalizes a header cell for comparison.
func normalizeHeader(h string) string {
	h = norm.NFC.String(strings.TrimSpace(h))
	h = strings.ToLower(h)
	return strings.ReplaceAll(h, " ", "")
}
