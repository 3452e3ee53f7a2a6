package analysis

import (
	"ecdash/internal/dataset"
)

// OptimalEC names the school whose plants grew heaviest and the EC level
// it ran the experiment at.
type OptimalEC struct {
	School           string  `json:"school"`
	TargetEC         float64 `json:"target_ec"`
	MeanFreshWeightG float64 `json:"mean_fresh_weight_g"`
	Rows             int     `json:"rows"`
}

// SelectOptimalEC picks the school with the maximal mean fresh weight.
// Ties keep the earlier school in registry order. Schools without growth
// records do not compete. The second return is false when no school has
// any growth data.
func SelectOptimalEC(registry *dataset.Registry, tables map[string][]dataset.GrowthRecord) (OptimalEC, bool) {
	var best OptimalEC
	found := false
	for _, summary := range GrowthSummaries(registry, tables) {
		if summary.Rows == 0 {
			continue
		}
		if !found || summary.MeanFreshWeightG > best.MeanFreshWeightG {
			best = OptimalEC{
				School:           summary.School,
				TargetEC:         summary.TargetEC,
				MeanFreshWeightG: summary.MeanFreshWeightG,
				Rows:             summary.Rows,
			}
			found = true
		}
	}
	return best, found
}
