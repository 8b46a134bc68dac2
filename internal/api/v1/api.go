// internal/api/v1/api.go
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tphakala/dasdcalc/internal/capacity"
	"github.com/tphakala/dasdcalc/internal/conf"
	"github.com/tphakala/dasdcalc/internal/diskmanager"
	"github.com/tphakala/dasdcalc/internal/errors"
	"github.com/tphakala/dasdcalc/internal/history"
	"github.com/tphakala/dasdcalc/internal/logger"
	"github.com/tphakala/dasdcalc/internal/observability"
)

// VolumeReader reads live volume state from the host.
type VolumeReader interface {
	StateForPath(path string) (capacity.State, error)
	ListVolumes() ([]diskmanager.VolumeInfo, error)
}

// hostVolumes reads volumes through diskmanager.
type hostVolumes struct{}

func (hostVolumes) StateForPath(path string) (capacity.State, error) {
	return diskmanager.StateForPath(path)
}

func (hostVolumes) ListVolumes() ([]diskmanager.VolumeInfo, error) {
	return diskmanager.ListVolumes()
}

// Controller manages the API routes and handlers
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	Settings *conf.Settings

	history    *history.Store
	metrics    *observability.Metrics
	volumes    VolumeReader
	thresholds capacity.Thresholds
	logger     logger.Logger
	startTime  time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithHistory records every calculation in store.
func WithHistory(store *history.Store) Option {
	return func(c *Controller) {
		c.history = store
	}
}

// WithMetrics counts calculations in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithVolumeReader replaces the host volume reader.
func WithVolumeReader(r VolumeReader) Option {
	return func(c *Controller) {
		c.volumes = r
	}
}

// New creates the API controller and registers its routes under /api/v1.
func New(e *echo.Echo, settings *conf.Settings, opts ...Option) (*Controller, error) {
	if settings == nil {
		return nil, errors.Newf("settings are required").
			Component("api").
			Category(errors.CategoryConfiguration).
			Build()
	}

	thresholds, err := settings.AlertThresholds()
	if err != nil {
		return nil, fmt.Errorf("invalid alert thresholds: %w", err)
	}

	c := &Controller{
		Echo:       e,
		Group:      e.Group("/api/v1"),
		Settings:   settings,
		volumes:    hostVolumes{},
		thresholds: thresholds,
		logger:     logger.Global().Module("api"),
		startTime:  time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.initRoutes()
	return c, nil
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	c.Group.GET("/health", c.HealthCheck)

	routeInitializers := []struct {
		name string
		fn   func()
	}{
		{"device routes", c.initDeviceRoutes},
		{"calculator routes", c.initCalculatorRoutes},
		{"volume routes", c.initVolumeRoutes},
		{"history routes", c.initHistoryRoutes},
	}

	for _, initializer := range routeInitializers {
		initializer.fn()
		c.logger.Debug("Initialized routes", logger.String("group", initializer.name))
	}
}

// HealthCheck handles GET /api/v1/health
func (c *Controller) HealthCheck(ctx echo.Context) error {
	uptime := time.Since(c.startTime)

	response := map[string]any{
		"status":          "healthy",
		"version":         c.Settings.Version,
		"build_date":      c.Settings.BuildDate,
		"uptime":          uptime.String(),
		"uptime_seconds":  uptime.Seconds(),
		"timestamp":       time.Now().Format(time.RFC3339),
		"history_enabled": c.history != nil,
		"metrics_enabled": c.metrics != nil,
	}

	return ctx.JSON(http.StatusOK, response)
}

// Shutdown releases controller resources
func (c *Controller) Shutdown() {
	// go-cache janitor goroutines stop only when the cache is collected
	if c.history != nil {
		c.history.Clear()
	}
	c.logger.Debug("API controller shutting down")
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"` // Unique identifier for tracking this error
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int, correlationID string) *ErrorResponse {
	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}

	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: correlationID,
	}
}

// HandleError logs err and writes an ErrorResponse. The request ID, when
// present, doubles as the correlation ID.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	requestID := ctx.Response().Header().Get(echo.HeaderXRequestID)
	errorResp := NewErrorResponse(err, message, code, requestID)

	fields := []logger.Field{
		logger.String("correlation_id", errorResp.CorrelationID),
		logger.String("message", message),
		logger.Int("code", code),
		logger.String("path", ctx.Request().URL.Path),
		logger.String("method", ctx.Request().Method),
		logger.String("ip", ctx.RealIP()),
	}
	if err != nil {
		fields = append(fields, logger.Error(err))
	}

	if code >= http.StatusInternalServerError {
		c.logger.Error("API error", fields...)
	} else {
		c.logger.Debug("API request rejected", fields...)
	}

	return ctx.JSON(code, errorResp)
}

// statusForError maps error categories to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsCategory(err, errors.CategoryValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorType labels the error metric
func errorType(err error) string {
	var enhanced *errors.EnhancedError
	if errors.As(err, &enhanced) {
		return enhanced.GetCategory()
	}
	return string(errors.CategoryGeneric)
}

// recordError counts a failed operation when metrics are enabled
func (c *Controller) recordError(operation string, err error) {
	if c.metrics != nil {
		c.metrics.Calculator.RecordError(operation, errorType(err))
	}
}

// recordDuration observes how long an operation took when metrics are enabled
func (c *Controller) recordDuration(operation string, start time.Time) {
	if c.metrics != nil {
		c.metrics.Calculator.RecordDuration(operation, time.Since(start).Seconds())
	}
}

// recordHistory stores a calculation when history is enabled
func (c *Controller) recordHistory(kind history.Kind, input, result any) {
	if c.history == nil {
		return
	}
	if _, err := c.history.Record(kind, input, result); err != nil {
		c.logger.Warn("Failed to record history", logger.Error(err))
	}
}
