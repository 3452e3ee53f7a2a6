package analysis

import (
	"ecdash/internal/dataset"
)

// Outlier is an environment reading that violates the physical-range
// policy, paired with the reasons it failed.
type Outlier struct {
	dataset.EnvReading
	Reasons []string `json:"reasons"`
}

// Partition splits one environment table into valid and invalid rows.
// The two slices are disjoint and together hold every input row, in the
// original order within each side.
type Partition struct {
	Valid   []dataset.EnvReading `json:"valid"`
	Invalid []Outlier            `json:"invalid"`
}

// PartitionEnvironment classifies every row of the table. No row is
// dropped: len(Valid)+len(Invalid) == len(table).
func PartitionEnvironment(table []dataset.EnvReading) Partition {
	p := Partition{}
	for _, row := range table {
		reasons := row.InvalidReasons()
		if len(reasons) == 0 {
			p.Valid = append(p.Valid, row)
			continue
		}
		p.Invalid = append(p.Invalid, Outlier{EnvReading: row, Reasons: reasons})
	}
	return p
}

// EnvironmentOutliers collects the invalid rows of every school's table,
// ordered by registry insertion order and row order within a school.
func EnvironmentOutliers(registry *dataset.Registry, tables map[string][]dataset.EnvReading) []Outlier {
	var outliers []Outlier
	for _, school := range registry.Schools() {
		table, ok := tables[school.Name]
		if !ok {
			continue
		}
		outliers = append(outliers, PartitionEnvironment(table).Invalid...)
	}
	return outliers
}
