// internal/api/v1/calculator.go
package api

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/dasdcalc/internal/capacity"
	"github.com/tphakala/dasdcalc/internal/errors"
	"github.com/tphakala/dasdcalc/internal/geometry"
	"github.com/tphakala/dasdcalc/internal/history"
	"github.com/tphakala/dasdcalc/internal/observability/metrics"
	"github.com/tphakala/dasdcalc/internal/units"
)

// ConvertRequest is the body of POST /api/v1/convert
type ConvertRequest struct {
	Value      float64 `json:"value"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	DeviceType string  `json:"device_type,omitempty"` // defaults to the configured device
}

// ConvertResponse is the result of a geometry conversion
type ConvertResponse struct {
	DeviceType string                    `json:"device_type"`
	Value      float64                   `json:"value"`
	From       geometry.Unit             `json:"from"`
	To         geometry.Unit             `json:"to"`
	Result     float64                   `json:"result"`
	All        map[geometry.Unit]float64 `json:"all"`
}

// UsageRequest is the body of POST /api/v1/usage
type UsageRequest struct {
	TotalSpace float64    `json:"total_space"`
	UsedSpace  float64    `json:"used_space"`
	Unit       units.Unit `json:"unit,omitempty"` // bytes or mb, defaults to bytes
}

// UsageResponse reports utilization of a volume in bytes
type UsageResponse struct {
	TotalSpace  float64        `json:"total_space"`
	UsedSpace   float64        `json:"used_space"`
	FreeSpace   float64        `json:"free_space"`
	PercentUsed float64        `json:"percent_used"`
	Level       capacity.Level `json:"level"`
}

// SimulateRequest is the body of POST /api/v1/simulate. The state is given
// in StateUnit; Amount is in Unit, or a percentage of free space when Unit
// is "percentage". An empty Mode selects the semantic from Unit.
type SimulateRequest struct {
	TotalSpace     float64       `json:"total_space"`
	UsedSpace      float64       `json:"used_space"`
	StateUnit      units.Unit    `json:"state_unit,omitempty"`
	Amount         float64       `json:"amount"`
	Unit           units.Unit    `json:"unit"`
	Mode           capacity.Mode `json:"mode,omitempty"`
	PercentOfTotal float64       `json:"percent_of_total,omitempty"` // expansion only
}

// SimulateResponse pairs the current state with the projection
type SimulateResponse struct {
	Current           UsageResponse   `json:"current"`
	Projection        capacity.Result `json:"projection"`
	Level             capacity.Level  `json:"level"`
	FreeSpaceNegative bool            `json:"free_space_negative"`
}

func (c *Controller) initCalculatorRoutes() {
	c.Group.POST("/convert", c.Convert)
	c.Group.POST("/usage", c.Usage)
	c.Group.POST("/simulate", c.Simulate)
}

// validationError builds a 400-class error for request fields
func validationError(format string, args ...any) error {
	return errors.Newf(format, args...).
		Component("api").
		Category(errors.CategoryValidation).
		Build()
}

// allFinite reports whether none of values is NaN or infinite. JSON cannot
// encode them, so such results are rejected as out of range.
func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// outOfRangeError reports a quantity that overflows float64 after conversion
func outOfRangeError() error {
	return validationError("value out of range after unit conversion")
}

// Convert handles POST /api/v1/convert
func (c *Controller) Convert(ctx echo.Context) error {
	start := time.Now()
	defer c.recordDuration(metrics.OpConvert, start)

	var req ConvertRequest
	if err := ctx.Bind(&req); err != nil {
		c.recordError(metrics.OpConvert, err)
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	from, to := geometry.ParseUnit(req.From), geometry.ParseUnit(req.To)
	if !from.Valid() || !to.Valid() {
		err := validationError("unsupported unit pair %q -> %q", req.From, req.To)
		c.recordError(metrics.OpConvert, err)
		return c.HandleError(ctx, err, "Units must be CYL, TRKS or MO", http.StatusBadRequest)
	}

	deviceType := req.DeviceType
	if deviceType == "" {
		deviceType = c.Settings.Calculator.DefaultDevice
	}

	converter, err := geometry.NewConverter(deviceType)
	if err != nil {
		c.recordError(metrics.OpConvert, err)
		return c.HandleError(ctx, err, "Unknown device type", statusForError(err))
	}

	response := ConvertResponse{
		DeviceType: deviceType,
		Value:      req.Value,
		From:       from,
		To:         to,
		Result:     converter.Convert(req.Value, from, to),
		All:        converter.ConvertAll(req.Value, from),
	}
	if !allFinite(response.Result, response.All[geometry.Cylinders], response.All[geometry.Tracks], response.All[geometry.Megabytes]) {
		err := outOfRangeError()
		c.recordError(metrics.OpConvert, err)
		return c.HandleError(ctx, err, "Value out of range", http.StatusBadRequest)
	}

	if c.metrics != nil {
		c.metrics.Calculator.RecordConversion(deviceType, string(from), string(to))
	}
	c.recordHistory(history.KindConversion, req, response)

	return ctx.JSON(http.StatusOK, response)
}

// usageResponse computes utilization for a state in bytes
func (c *Controller) usageResponse(state capacity.State) UsageResponse {
	percent := state.PercentUsed()
	return UsageResponse{
		TotalSpace:  state.TotalSpace,
		UsedSpace:   state.UsedSpace(),
		FreeSpace:   capacity.FreeSpace(state.TotalSpace, state.UsedSpace()),
		PercentUsed: percent,
		Level:       c.thresholds.Classify(percent),
	}
}

// normalizeByteUnit defaults an empty unit to bytes and rejects unknown ones
func normalizeByteUnit(u units.Unit) (units.Unit, error) {
	if u == "" {
		return units.Bytes, nil
	}
	if !u.Valid() {
		return "", validationError("unsupported unit %q", u)
	}
	return u, nil
}

// Usage handles POST /api/v1/usage
func (c *Controller) Usage(ctx echo.Context) error {
	start := time.Now()
	defer c.recordDuration(metrics.OpUsage, start)

	var req UsageRequest
	if err := ctx.Bind(&req); err != nil {
		c.recordError(metrics.OpUsage, err)
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	unit, err := normalizeByteUnit(req.Unit)
	if err != nil {
		c.recordError(metrics.OpUsage, err)
		return c.HandleError(ctx, err, "Unit must be bytes or mb", http.StatusBadRequest)
	}

	state := capacity.NewState(units.ToBytes(req.TotalSpace, unit), units.ToBytes(req.UsedSpace, unit))
	if !allFinite(state.TotalSpace, state.FreeSpace, state.UsedSpace()) {
		err := outOfRangeError()
		c.recordError(metrics.OpUsage, err)
		return c.HandleError(ctx, err, "Storage state out of range", http.StatusBadRequest)
	}
	response := c.usageResponse(state)

	if c.metrics != nil {
		c.metrics.Calculator.RecordOperation(metrics.OpUsage)
	}
	c.recordHistory(history.KindUsage, req, response)

	return ctx.JSON(http.StatusOK, response)
}

// runSimulation dispatches req to the simulator selected by its mode
func runSimulation(state capacity.State, req SimulateRequest) (capacity.Result, error) {
	switch req.Mode {
	case "":
		if req.Unit != capacity.Percentage && !req.Unit.Valid() {
			return capacity.Result{}, validationError("unsupported unit %q", req.Unit)
		}
		return capacity.Simulate(state, req.Amount, req.Unit), nil
	case capacity.ModeConsumption:
		return capacity.SimulateConsumption(state, req.Amount), nil
	case capacity.ModeAdjustment:
		unit, err := normalizeByteUnit(req.Unit)
		if err != nil {
			return capacity.Result{}, err
		}
		return capacity.SimulateAdjustment(state, req.Amount, unit), nil
	case capacity.ModeExpansion:
		unit, err := normalizeByteUnit(req.Unit)
		if err != nil {
			return capacity.Result{}, err
		}
		return capacity.SimulateExpansion(state, req.Amount, unit, req.PercentOfTotal), nil
	default:
		return capacity.Result{}, validationError("unsupported simulation mode %q", req.Mode)
	}
}

// Simulate handles POST /api/v1/simulate
func (c *Controller) Simulate(ctx echo.Context) error {
	start := time.Now()
	defer c.recordDuration(metrics.OpSimulate, start)

	var req SimulateRequest
	if err := ctx.Bind(&req); err != nil {
		c.recordError(metrics.OpSimulate, err)
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	stateUnit, err := normalizeByteUnit(req.StateUnit)
	if err != nil {
		c.recordError(metrics.OpSimulate, err)
		return c.HandleError(ctx, err, "State unit must be bytes or mb", http.StatusBadRequest)
	}
	if req.TotalSpace < 0 || req.UsedSpace < 0 {
		err := validationError("total and used space must not be negative")
		c.recordError(metrics.OpSimulate, err)
		return c.HandleError(ctx, err, "Invalid storage state", http.StatusBadRequest)
	}

	state := capacity.NewState(units.ToBytes(req.TotalSpace, stateUnit), units.ToBytes(req.UsedSpace, stateUnit))
	if !allFinite(state.TotalSpace, state.FreeSpace, state.UsedSpace()) {
		err := outOfRangeError()
		c.recordError(metrics.OpSimulate, err)
		return c.HandleError(ctx, err, "Storage state out of range", http.StatusBadRequest)
	}

	result, err := runSimulation(state, req)
	if err != nil {
		c.recordError(metrics.OpSimulate, err)
		return c.HandleError(ctx, err, "Invalid simulation request", statusForError(err))
	}
	if !allFinite(result.ProjectedTotalSpace, result.ProjectedUsedSpace, result.ProjectedFreeSpace,
		result.ProjectedPercentUsed, result.Change) {
		err := outOfRangeError()
		c.recordError(metrics.OpSimulate, err)
		return c.HandleError(ctx, err, "Projection out of range", http.StatusBadRequest)
	}

	response := SimulateResponse{
		Current:           c.usageResponse(state),
		Projection:        result,
		Level:             c.thresholds.Classify(result.ProjectedPercentUsed),
		FreeSpaceNegative: result.ProjectedFreeSpace < 0,
	}

	if c.metrics != nil {
		c.metrics.Calculator.RecordSimulation(string(result.Mode))
	}
	c.recordHistory(history.KindSimulation, req, response)

	return ctx.JSON(http.StatusOK, response)
}
