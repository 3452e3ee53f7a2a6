package dataset

import (
	"golang.org/x/text/unicode/norm"
)

// School identifies one experiment group: a school growing the crop at a
// fixed target EC concentration. Reference data, immutable after startup.
type School struct {
	Name     string  `json:"name"`
	TargetEC float64 `json:"target_ec"`
	Color    string  `json:"color,omitempty"`
}

// Registry holds the known schools in insertion order. Lookups are
// normalization-insensitive so a sheet name stored in NFD matches the
// NFC name the registry was built with.
type Registry struct {
	schools []School
	index   map[string]int
}

// NewRegistry creates a registry from the given schools, preserving order.
func NewRegistry(schools []School) *Registry {
	r := &Registry{
		schools: make([]School, 0, len(schools)),
		index:   make(map[string]int, len(schools)),
	}
	for _, s := range schools {
		key := norm.NFC.String(s.Name)
		if _, exists := r.index[key]; exists {
			continue
		}
		r.index[key] = len(r.schools)
		r.schools = append(r.schools, s)
	}
	return r
}

// DefaultRegistry returns the four participating schools with their
// target EC levels (mS/cm).
func DefaultRegistry() *Registry {
	return NewRegistry([]School{
		{Name: "송도고", TargetEC: 1.0, Color: "#1f77b4"},
		{Name: "하늘고", TargetEC: 2.0, Color: "#ff7f0e"},
		{Name: "아라고", TargetEC: 4.0, Color: "#2ca02c"},
		{Name: "동산고", TargetEC: 8.0, Color: "#d62728"},
	})
}

// Schools returns the registered schools in insertion order.
func (r *Registry) Schools() []School {
	out := make([]School, len(r.schools))
	copy(out, r.schools)
	return out
}

// Lookup finds a school by name, matching under NFC normalization.
func (r *Registry) Lookup(name string) (School, bool) {
	i, ok := r.index[norm.NFC.String(name)]
	if !ok {
		return School{}, false
	}
	return r.schools[i], true
}

// Len returns the number of registered schools.
func (r *Registry) Len() int {
	return len(r.schools)
}
