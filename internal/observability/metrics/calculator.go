package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CalculatorMetrics contains Prometheus metrics for geometry conversions and
// capacity calculations served by the API
type CalculatorMetrics struct {
	conversionsTotal  *prometheus.CounterVec
	simulationsTotal  *prometheus.CounterVec
	calculationsTotal *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewCalculatorMetrics creates and registers new calculator metrics
func NewCalculatorMetrics(registry *prometheus.Registry) (*CalculatorMetrics, error) {
	m := &CalculatorMetrics{
		conversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dasdcalc_conversions_total",
				Help: "Total number of geometry unit conversions",
			},
			[]string{"device_type", "from", "to"},
		),
		simulationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dasdcalc_simulations_total",
				Help: "Total number of capacity change simulations",
			},
			[]string{"mode"},
		),
		calculationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dasdcalc_calculations_total",
				Help: "Total number of calculator operations",
			},
			[]string{"operation"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dasdcalc_errors_total",
				Help: "Total number of rejected calculator requests",
			},
			[]string{"operation", "error_type"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dasdcalc_operation_duration_seconds",
				Help:    "Time taken to serve calculator operations",
				Buckets: prometheus.ExponentialBuckets(BucketStart1us, BucketFactor2, BucketCount10),
			},
			[]string{"operation"},
		),
	}

	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements the Collector interface
func (m *CalculatorMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.conversionsTotal.Describe(ch)
	m.simulationsTotal.Describe(ch)
	m.calculationsTotal.Describe(ch)
	m.errorsTotal.Describe(ch)
	m.operationDuration.Describe(ch)
}

// Collect implements the Collector interface
func (m *CalculatorMetrics) Collect(ch chan<- prometheus.Metric) {
	m.conversionsTotal.Collect(ch)
	m.simulationsTotal.Collect(ch)
	m.calculationsTotal.Collect(ch)
	m.errorsTotal.Collect(ch)
	m.operationDuration.Collect(ch)
}

// RecordConversion counts a geometry conversion
func (m *CalculatorMetrics) RecordConversion(deviceType, from, to string) {
	m.conversionsTotal.WithLabelValues(deviceType, from, to).Inc()
	m.calculationsTotal.WithLabelValues(OpConvert).Inc()
}

// RecordSimulation counts a capacity simulation
func (m *CalculatorMetrics) RecordSimulation(mode string) {
	m.simulationsTotal.WithLabelValues(mode).Inc()
	m.calculationsTotal.WithLabelValues(OpSimulate).Inc()
}

// RecordOperation counts an operation without extra labels
func (m *CalculatorMetrics) RecordOperation(operation string) {
	m.calculationsTotal.WithLabelValues(operation).Inc()
}

// RecordError counts a rejected request
func (m *CalculatorMetrics) RecordError(operation, errorType string) {
	m.errorsTotal.WithLabelValues(operation, errorType).Inc()
}

// RecordDuration records how long an operation took
func (m *CalculatorMetrics) RecordDuration(operation string, seconds float64) {
	m.operationDuration.WithLabelValues(operation).Observe(seconds)
}

// ConversionsCounter exposes the conversion counter for inspection
func (m *CalculatorMetrics) ConversionsCounter() *prometheus.CounterVec {
	return m.conversionsTotal
}

// SimulationsCounter exposes the simulation counter for inspection
func (m *CalculatorMetrics) SimulationsCounter() *prometheus.CounterVec {
	return m.simulationsTotal
}

// ErrorsCounter exposes the error counter for inspection
func (m *CalculatorMetrics) ErrorsCounter() *prometheus.CounterVec {
	return m.errorsTotal
}
