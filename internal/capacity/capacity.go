// Package capacity computes storage utilization and projects the effect of
// capacity changes on a volume. All functions are pure.
package capacity

import "math"

// PercentageFactor converts a ratio to a percentage.
const PercentageFactor = 100.0

// State is the capacity of a volume in bytes. Used space is always derived.
type State struct {
	TotalSpace float64 `json:"total_space"`
	FreeSpace  float64 `json:"free_space"`
}

// NewState builds a State from total and used bytes.
func NewState(total, used float64) State {
	return State{TotalSpace: total, FreeSpace: total - used}
}

// UsedSpace returns total minus free.
func (s State) UsedSpace() float64 {
	return s.TotalSpace - s.FreeSpace
}

// PercentUsed returns the utilization of the state.
func (s State) PercentUsed() float64 {
	return UsagePercent(s.UsedSpace(), s.TotalSpace)
}

// DisplayFreeSpace returns free space clamped at zero.
func (s State) DisplayFreeSpace() float64 {
	return math.Max(0, s.FreeSpace)
}

// UsagePercent returns used/total*100, or 0 when total is not positive.
// The result is not clamped: over-commitment yields values above 100.
func UsagePercent(used, total float64) float64 {
	if !(total > 0) {
		return 0
	}
	return used / total * PercentageFactor
}

// FreeSpace returns total-used, never negative.
func FreeSpace(total, used float64) float64 {
	return math.Max(0, total-used)
}
