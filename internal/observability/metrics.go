// Package observability provides metrics and monitoring capabilities for dasdcalc.
package observability

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tphakala/dasdcalc/internal/diskmanager"
	"github.com/tphakala/dasdcalc/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry   *prometheus.Registry
	Calculator *metrics.CalculatorMetrics
	Volume     *metrics.VolumeMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors.
// It returns an error if any metric collector fails to initialize.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register Go collector: %w", err)
	}

	calculatorMetrics, err := metrics.NewCalculatorMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create calculator metrics: %w", err)
	}

	volumeMetrics, err := metrics.NewVolumeMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create volume metrics: %w", err)
	}

	// Live volume reads update the gauges directly
	diskmanager.SetMetrics(volumeMetrics)

	return &Metrics{
		registry:   registry,
		Calculator: calculatorMetrics,
		Volume:     volumeMetrics,
	}, nil
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      log.New(os.Stderr, "metrics handler: ", log.LstdFlags),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
