package exporter

import (
	"strconv"
	"strings"

	"ecdash/internal/analysis"
	"ecdash/internal/dataset"
)

// Table is the flat row/column form every export format consumes.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// formatFloat renders a float with the shortest representation that
// parses back to the same value, so exports round-trip losslessly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// EnvironmentTable flattens the per-school environment tables into one
// table, schools in registry order.
func EnvironmentTable(registry *dataset.Registry, tables map[string][]dataset.EnvReading) Table {
	t := Table{
		Name:    "environment",
		Headers: []string{"school", "time", "temperature", "humidity", "ph", "ec"},
	}
	for _, school := range registry.Schools() {
		for _, row := range tables[school.Name] {
			t.Rows = append(t.Rows, []string{
				row.School,
				row.Time,
				formatFloat(row.Temperature),
				formatFloat(row.Humidity),
				formatFloat(row.PH),
				formatFloat(row.EC),
			})
		}
	}
	return t
}

// GrowthTable flattens the per-school growth tables into one table,
// schools in registry order.
func GrowthTable(registry *dataset.Registry, tables map[string][]dataset.GrowthRecord) Table {
	t := Table{
		Name:    "growth",
		Headers: []string{"school", "shoot_length_mm", "root_length_mm", "fresh_weight_g", "leaf_count"},
	}
	for _, school := range registry.Schools() {
		for _, record := range tables[school.Name] {
			t.Rows = append(t.Rows, []string{
				record.School,
				formatFloat(record.ShootLengthMM),
				formatFloat(record.RootLengthMM),
				formatFloat(record.FreshWeightG),
				formatFloat(record.LeafCount),
			})
		}
	}
	return t
}

// SummaryTable combines the environment and growth summaries into one
// per-school table, schools in registry order. A school appearing in only
// one summary set gets empty cells on the other side.
func SummaryTable(envSummaries []analysis.EnvSummary, growthSummaries []analysis.GrowthSummary) Table {
	t := Table{
		Name: "summary",
		Headers: []string{
			"school", "target_ec",
			"env_rows", "mean_temperature", "mean_humidity", "mean_ph", "mean_ec",
			"growth_rows", "mean_shoot_length_mm", "mean_root_length_mm", "mean_fresh_weight_g", "mean_leaf_count",
		},
	}

	growthBySchool := make(map[string]analysis.GrowthSummary, len(growthSummaries))
	for _, g := range growthSummaries {
		growthBySchool[g.School] = g
	}
	seen := make(map[string]bool, len(envSummaries))

	for _, env := range envSummaries {
		seen[env.School] = true
		row := []string{
			env.School,
			formatFloat(env.TargetEC),
			strconv.Itoa(env.Rows),
			formatFloat(env.MeanTemperature),
			formatFloat(env.MeanHumidity),
			formatFloat(env.MeanPH),
			formatFloat(env.MeanEC),
		}
		if g, ok := growthBySchool[env.School]; ok {
			row = append(row,
				strconv.Itoa(g.Rows),
				formatFloat(g.MeanShootLengthMM),
				formatFloat(g.MeanRootLengthMM),
				formatFloat(g.MeanFreshWeightG),
				formatFloat(g.MeanLeafCount),
			)
		} else {
			row = append(row, "", "", "", "", "")
		}
		t.Rows = append(t.Rows, row)
	}

	for _, g := range growthSummaries {
		if seen[g.School] {
			continue
		}
		t.Rows = append(t.Rows, []string{
			g.School,
			formatFloat(g.TargetEC),
			"", "", "", "", "",
			strconv.Itoa(g.Rows),
			formatFloat(g.MeanShootLengthMM),
			formatFloat(g.MeanRootLengthMM),
			formatFloat(g.MeanFreshWeightG),
			formatFloat(g.MeanLeafCount),
		})
	}
	return t
}

// OutliersTable flattens the invalid-row list with its reasons.
func OutliersTable(outliers []analysis.Outlier) Table {
	t := Table{
		Name:    "outliers",
		Headers: []string{"school", "time", "temperature", "humidity", "ph", "ec", "reasons"},
	}
	for _, o := range outliers {
		t.Rows = append(t.Rows, []string{
			o.School,
			o.Time,
			formatFloat(o.Temperature),
			formatFloat(o.Humidity),
			formatFloat(o.PH),
			formatFloat(o.EC),
			strings.Join(o.Reasons, "; "),
		})
	}
	return t
}
