package services

import "errors"

var (
	// Lookup errors
	ErrUnknownSchool  = errors.New("unknown school")
	ErrUnknownDataset = errors.New("unknown dataset")

	// Analysis errors
	ErrNoGrowthData = errors.New("no growth data loaded")
)
