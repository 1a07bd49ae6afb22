// SPDX-License-Identifier: MIT

// Package metrics holds the prometheus collectors of an eeio run. A batch
// run has no scrape endpoint; collected values are written to a node
// exporter textfile when the run ends.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/eeio/calc"
)

const namespace = "eeio"

// Metrics is a private registry with the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	Calculations     *prometheus.CounterVec
	CalcErrors       prometheus.Counter
	InversionSeconds prometheus.Histogram
	InversionSize    prometheus.Gauge
	LoadSeconds      prometheus.Histogram
	ValidationMsgs   *prometheus.GaugeVec
}

// New registers the eeio collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Completed result calculations by perspective.",
		}, []string{"perspective"}),
		CalcErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculation_errors_total",
			Help:      "Calculations that returned an error.",
		}),
		InversionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "leontief_inversion_seconds",
			Help:      "Time spent inverting I - A.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		InversionSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "leontief_inversion_sectors",
			Help:      "Sector count of the last inverted matrix.",
		}),
		LoadSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_load_seconds",
			Help:      "Time spent reading model tables.",
			Buckets:   prometheus.DefBuckets,
		}),
		ValidationMsgs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "validation_messages",
			Help:      "Messages of the last model validation by severity.",
		}, []string{"severity"}),
	}
	m.registry.MustRegister(
		m.Calculations, m.CalcErrors, m.InversionSeconds,
		m.InversionSize, m.LoadSeconds, m.ValidationMsgs,
	)
	return m
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveInversion records one Leontief inversion of an n×n matrix.
func (m *Metrics) ObserveInversion(n int, d time.Duration) {
	m.InversionSeconds.Observe(d.Seconds())
	m.InversionSize.Set(float64(n))
}

// CalcOption hooks the inversion metrics into a calculation.
func (m *Metrics) CalcOption() calc.Option {
	return calc.WithInverseObserver(m.ObserveInversion)
}

// ObserveCalculation counts a calculation outcome.
func (m *Metrics) ObserveCalculation(p calc.Perspective, err error) {
	if err != nil {
		m.CalcErrors.Inc()
		return
	}
	m.Calculations.WithLabelValues(string(p)).Inc()
}

// ObserveLoad records the duration of a model load.
func (m *Metrics) ObserveLoad(d time.Duration) { m.LoadSeconds.Observe(d.Seconds()) }

// SetValidation publishes message counts per severity.
func (m *Metrics) SetValidation(counts map[string]int) {
	for sev, n := range counts {
		m.ValidationMsgs.WithLabelValues(sev).Set(float64(n))
	}
}

// WriteTextfile writes every collected metric to path in the text
// exposition format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
