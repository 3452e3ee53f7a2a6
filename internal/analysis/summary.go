package analysis

import (
	"ecdash/internal/dataset"
)

// EnvSummary is the per-school mean of each environment column. Rows counts
// every loaded row, valid or not; the means are computed over all of them
// so the summary reflects exactly what was loaded.
type EnvSummary struct {
	School          string  `json:"school"`
	TargetEC        float64 `json:"target_ec"`
	Rows            int     `json:"rows"`
	MeanTemperature float64 `json:"mean_temperature"`
	MeanHumidity    float64 `json:"mean_humidity"`
	MeanPH          float64 `json:"mean_ph"`
	MeanEC          float64 `json:"mean_ec"`
}

// GrowthSummary is the per-school mean of each growth column.
type GrowthSummary struct {
	School            string  `json:"school"`
	TargetEC          float64 `json:"target_ec"`
	Rows              int     `json:"rows"`
	MeanShootLengthMM float64 `json:"mean_shoot_length_mm"`
	MeanRootLengthMM  float64 `json:"mean_root_length_mm"`
	MeanFreshWeightG  float64 `json:"mean_fresh_weight_g"`
	MeanLeafCount     float64 `json:"mean_leaf_count"`
}

// EnvironmentSummaries computes one summary per school in registry order.
// Schools without a loaded table are omitted rather than reported as zero,
// so a lenient partial load does not fabricate empty statistics.
func EnvironmentSummaries(registry *dataset.Registry, tables map[string][]dataset.EnvReading) []EnvSummary {
	summaries := make([]EnvSummary, 0, registry.Len())
	for _, school := range registry.Schools() {
		table, ok := tables[school.Name]
		if !ok {
			continue
		}
		summary := EnvSummary{
			School:   school.Name,
			TargetEC: school.TargetEC,
			Rows:     len(table),
		}
		for _, row := range table {
			summary.MeanTemperature += row.Temperature
			summary.MeanHumidity += row.Humidity
			summary.MeanPH += row.PH
			summary.MeanEC += row.EC
		}
		if n := float64(len(table)); n > 0 {
			summary.MeanTemperature /= n
			summary.MeanHumidity /= n
			summary.MeanPH /= n
			summary.MeanEC /= n
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// GrowthSummaries computes one summary per school in registry order.
func GrowthSummaries(registry *dataset.Registry, tables map[string][]dataset.GrowthRecord) []GrowthSummary {
	summaries := make([]GrowthSummary, 0, registry.Len())
	for _, school := range registry.Schools() {
		table, ok := tables[school.Name]
		if !ok {
			continue
		}
		summary := GrowthSummary{
			School:   school.Name,
			TargetEC: school.TargetEC,
			Rows:     len(table),
		}
		for _, record := range table {
			summary.MeanShootLengthMM += record.ShootLengthMM
			summary.MeanRootLengthMM += record.RootLengthMM
			summary.MeanFreshWeightG += record.FreshWeightG
			summary.MeanLeafCount += record.LeafCount
		}
		if n := float64(len(table)); n > 0 {
			summary.MeanShootLengthMM /= n
			summary.MeanRootLengthMM /= n
			summary.MeanFreshWeightG /= n
			summary.MeanLeafCount /= n
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
