/*
 * metrics.go, part of hielo.
 *
 * Copyright 2026 The hielo authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

// Package metrics exposes the annealing runs as Prometheus metrics, which can be
// written to a node-exporter textfile at the end of a run.
package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rmera/hielo"
)

const namespace = "hielo"

// Metrics collects the metrics of the runs. All its methods are safe for concurrent use.
type Metrics struct {
	reg       *prometheus.Registry
	violation prometheus.Gauge
	cycles    prometheus.Counter
	samples   *prometheus.CounterVec
	duration  prometheus.Histogram
	dipole    prometheus.Histogram
	deviation *prometheus.GaugeVec
}

// New returns a Metrics with its own registry.
func New() *Metrics {
	M := &Metrics{
		reg: prometheus.NewRegistry(),
		violation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "anneal",
			Name:      "violation",
			Help:      "Last reported violation of the ice rule",
		}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "anneal",
			Name:      "cycles_total",
			Help:      "Annealing cycles run over all samples",
		}),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Samples generated, by stop reason",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "anneal",
			Name:      "duration_seconds",
			Help:      "Duration of the annealing of each sample",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		dipole: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dipole_debye",
			Help:      "Dipole moment of each sample",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 50},
		}),
		deviation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "occupancy_deviation",
			Help:      "Absolute difference between real and ideal occupancy in the last sample, by site type",
		}, []string{"site"}),
	}
	M.reg.MustRegister(M.violation, M.cycles, M.samples, M.duration, M.dipole, M.deviation)
	return M
}

// Registry returns the registry with the metrics.
func (M *Metrics) Registry() *prometheus.Registry { return M.reg }

// Progress sets the violation gauge. It makes M a hielo.Observer.
func (M *Metrics) Progress(cycle, violation int) {
	M.violation.Set(float64(violation))
}

// ObserveSample records a finished sample. Nil samples are ignored.
func (M *Metrics) ObserveSample(s *hielo.Sample) {
	if s == nil || s.Result == nil {
		return
	}
	r := s.Result
	M.violation.Set(float64(r.Violation))
	M.cycles.Add(float64(r.Cycles))
	M.samples.WithLabelValues(r.StopReason).Inc()
	M.duration.Observe(r.Elapsed.Seconds())
	M.dipole.Observe(s.DipoleNorm())
	for _, l := range s.Report {
		M.deviation.WithLabelValues(l.Label).Set(math.Abs(l.Real - l.Ideal))
	}
}

// WriteTextfile writes the metrics to the file name in the text exposition format.
func (M *Metrics) WriteTextfile(name string) error {
	return prometheus.WriteToTextfile(name, M.reg)
}
