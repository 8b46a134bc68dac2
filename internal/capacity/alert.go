package capacity

// Level classifies a utilization percentage against alert thresholds.
type Level string

const (
	LevelOK       Level = "ok"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Default alert thresholds in percent.
const (
	DefaultWarningThreshold  = 75.0
	DefaultCriticalThreshold = 90.0
)

// Thresholds holds the warning and critical utilization percentages.
type Thresholds struct {
	Warning  float64 `json:"warning"`
	Critical float64 `json:"critical"`
}

// DefaultThresholds returns the 75%/90% thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Warning: DefaultWarningThreshold, Critical: DefaultCriticalThreshold}
}

// Classify returns the level for percent. A percentage equal to a
// threshold is reported at that threshold's level.
func (t Thresholds) Classify(percent float64) Level {
	switch {
	case percent >= t.Critical:
		return LevelCritical
	case percent >= t.Warning:
		return LevelWarning
	default:
		return LevelOK
	}
}
