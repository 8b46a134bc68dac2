// Package metrics provides volume usage metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// VolumeMetrics contains Prometheus metrics for live volume usage queries
type VolumeMetrics struct {
	registry *prometheus.Registry

	usedBytes            *prometheus.GaugeVec
	totalBytes           *prometheus.GaugeVec
	utilizationPercent   *prometheus.GaugeVec
	usageCheckDuration   prometheus.Histogram
	usageCheckErrorTotal prometheus.Counter
}

// NewVolumeMetrics creates and registers new volume metrics
func NewVolumeMetrics(registry *prometheus.Registry) (*VolumeMetrics, error) {
	m := &VolumeMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *VolumeMetrics) initMetrics() {
	m.usedBytes = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dasdcalc_volume_used_bytes",
		Help: "Used bytes of an inspected volume",
	}, []string{"path"})

	m.totalBytes = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dasdcalc_volume_total_bytes",
		Help: "Total bytes of an inspected volume",
	}, []string{"path"})

	m.utilizationPercent = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dasdcalc_volume_utilization_percentage",
		Help: "Utilization of an inspected volume as a percentage",
	}, []string{"path"})

	m.usageCheckDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dasdcalc_volume_check_duration_seconds",
		Help:    "Time taken to read volume usage",
		Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount10), // 1ms to ~1s
	})

	m.usageCheckErrorTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dasdcalc_volume_check_errors_total",
		Help: "Total number of failed volume usage reads",
	})
}

// Describe implements the Collector interface
func (m *VolumeMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.usedBytes.Describe(ch)
	m.totalBytes.Describe(ch)
	m.utilizationPercent.Describe(ch)
	m.usageCheckDuration.Describe(ch)
	m.usageCheckErrorTotal.Describe(ch)
}

// Collect implements the Collector interface
func (m *VolumeMetrics) Collect(ch chan<- prometheus.Metric) {
	m.usedBytes.Collect(ch)
	m.totalBytes.Collect(ch)
	m.utilizationPercent.Collect(ch)
	m.usageCheckDuration.Collect(ch)
	m.usageCheckErrorTotal.Collect(ch)
}

// UpdateVolumeUsage updates usage gauges for path
func (m *VolumeMetrics) UpdateVolumeUsage(path string, usedBytes, totalBytes uint64) {
	m.usedBytes.WithLabelValues(path).Set(float64(usedBytes))
	m.totalBytes.WithLabelValues(path).Set(float64(totalBytes))

	var utilization float64
	if totalBytes > 0 {
		utilization = float64(usedBytes) / float64(totalBytes) * PercentageFactor
	}
	m.utilizationPercent.WithLabelValues(path).Set(utilization)
}

// RecordUsageCheckDuration records the time taken to read volume usage
func (m *VolumeMetrics) RecordUsageCheckDuration(seconds float64) {
	m.usageCheckDuration.Observe(seconds)
}

// RecordUsageCheckError counts a failed volume usage read
func (m *VolumeMetrics) RecordUsageCheckError() {
	m.usageCheckErrorTotal.Inc()
}

// UsedBytesGauge exposes the used bytes gauge for inspection
func (m *VolumeMetrics) UsedBytesGauge() *prometheus.GaugeVec {
	return m.usedBytes
}

// UtilizationGauge exposes the utilization gauge for inspection
func (m *VolumeMetrics) UtilizationGauge() *prometheus.GaugeVec {
	return m.utilizationPercent
}
