package dataset

// EnvReading is one timestamped sensor sample for one school. The
// timestamp is kept as the source text; the loaders never reinterpret it.
type EnvReading struct {
	School      string  `json:"school"`
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	EC          float64 `json:"ec"`
}

// InvalidReasons returns the physical-plausibility violations for the
// reading: pH outside [0,14], humidity outside [0,100], negative EC.
// An empty result means the reading is valid. Invalid readings are
// retained in their table and surfaced separately, never dropped.
func (r EnvReading) InvalidReasons() []string {
	var reasons []string
	if r.PH < 0 || r.PH > 14 {
		reasons = append(reasons, "ph out of range [0,14]")
	}
	if r.Humidity < 0 || r.Humidity > 100 {
		reasons = append(reasons, "humidity out of range [0,100]")
	}
	if r.EC < 0 {
		reasons = append(reasons, "ec negative")
	}
	return reasons
}

// GrowthRecord is one plant's measured outcome for one school. The school
// tag is derived from the workbook sheet the record was read from.
type GrowthRecord struct {
	School        string  `json:"school"`
	ShootLengthMM float64 `json:"shoot_length_mm"`
	RootLengthMM  float64 `json:"root_length_mm"`
	FreshWeightG  float64 `json:"fresh_weight_g"`
	LeafCount     float64 `json:"leaf_count"`
}
