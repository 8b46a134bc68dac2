package capacity

import (
	"github.com/tphakala/dasdcalc/internal/units"
)

// Percentage is the simulator unit meaning "percent of current free space".
const Percentage units.Unit = "percentage"

// Mode names the semantic a simulation result was produced with.
type Mode string

const (
	ModeConsumption Mode = "consumption"
	ModeAdjustment  Mode = "adjustment"
	ModeExpansion   Mode = "expansion"
)

// Result is a one-shot projection of a State after a change.
type Result struct {
	Mode                 Mode    `json:"mode"`
	ProjectedTotalSpace  float64 `json:"projected_total_space"`
	ProjectedUsedSpace   float64 `json:"projected_used_space"`
	ProjectedFreeSpace   float64 `json:"projected_free_space"`
	ProjectedPercentUsed float64 `json:"projected_percent_used"`
	Change               float64 `json:"change"`
}

// Simulate applies amount expressed in unit to the free space of state.
// With the percentage unit the change consumes that share of free space;
// with a byte unit it is added to free space as-is. Total is unchanged and
// the projection is not clamped.
func Simulate(state State, amount float64, unit units.Unit) Result {
	if unit == Percentage {
		return SimulateConsumption(state, amount)
	}
	return SimulateAdjustment(state, amount, unit)
}

// SimulateConsumption projects consuming percentOfFree percent of the free
// space.
func SimulateConsumption(state State, percentOfFree float64) Result {
	delta := -(state.FreeSpace * percentOfFree) / PercentageFactor
	return applyToFree(ModeConsumption, state, delta)
}

// SimulateAdjustment projects adding amount (in unit) to free space. A
// negative amount consumes space. Units other than bytes and mb pass the
// amount through as bytes.
func SimulateAdjustment(state State, amount float64, unit units.Unit) Result {
	delta := units.ConvertUnit(amount, unit, units.Bytes)
	return applyToFree(ModeAdjustment, state, delta)
}

func applyToFree(mode Mode, state State, delta float64) Result {
	newFree := state.FreeSpace + delta
	newUsed := state.TotalSpace - newFree

	return Result{
		Mode:                 mode,
		ProjectedTotalSpace:  state.TotalSpace,
		ProjectedUsedSpace:   newUsed,
		ProjectedFreeSpace:   newFree,
		ProjectedPercentUsed: UsagePercent(newUsed, state.TotalSpace),
		Change:               delta,
	}
}

// SimulateExpansion projects growing the volume by amount (in unit) plus,
// when percentOfTotal is positive, that share of the current total. Used
// space is unchanged; projected free space is clamped at zero.
func SimulateExpansion(state State, amount float64, unit units.Unit, percentOfTotal float64) Result {
	additional := units.ConvertUnit(amount, unit, units.Bytes)
	if percentOfTotal > 0 {
		additional += state.TotalSpace * percentOfTotal / PercentageFactor
	}

	used := state.UsedSpace()
	newTotal := state.TotalSpace + additional

	return Result{
		Mode:                 ModeExpansion,
		ProjectedTotalSpace:  newTotal,
		ProjectedUsedSpace:   used,
		ProjectedFreeSpace:   FreeSpace(newTotal, used),
		ProjectedPercentUsed: UsagePercent(used, newTotal),
		Change:               additional,
	}
}
