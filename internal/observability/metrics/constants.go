// Package metrics provides constants used across metric definitions.
package metrics

// Operation label values for calculator metrics.
const (
	// OpConvert represents geometry unit conversions.
	OpConvert = "convert"
	// OpUsage represents utilization calculations.
	OpUsage = "usage"
	// OpSimulate represents capacity change simulations.
	OpSimulate = "simulate"
	// OpVolume represents live volume usage queries.
	OpVolume = "volume"
)

// Histogram bucket configuration constants.
const (
	// BucketStart1us is the starting bucket for 1µs histograms (1µs to ~1ms range).
	BucketStart1us = 0.000001
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~1s range).
	BucketStart1ms = 0.001

	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2

	// BucketCount10 defines 10 exponential buckets.
	BucketCount10 = 10
)

// PercentageFactor is the multiplier to convert ratio to percentage.
const PercentageFactor = 100.0
