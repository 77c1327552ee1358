// Package telemetry holds the Prometheus collectors of a propagation run.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts propagation steps and failures and observes space-charge
// kicks. A nil *Recorder records nothing.
type Recorder struct {
	steps    *prometheus.CounterVec
	failures *prometheus.CounterVec
	kicks    *prometheus.HistogramVec
	runs     *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	return &Recorder{
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beamsim_propagation_steps_total",
				Help: "Element steps taken by a tracker",
			},
			[]string{"algorithm", "element_type", "direction"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beamsim_propagation_failures_total",
				Help: "Propagations aborted by an error",
			},
			[]string{"algorithm"},
		),
		kicks: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "beamsim_space_charge_kick_strength",
				Help:    "Largest ds*K*k^2 of each space-charge kick",
				Buckets: prometheus.ExponentialBuckets(1e-9, 10, 10),
			},
			[]string{"algorithm"},
		),
		runs: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "beamsim_run_duration_seconds",
				Help:    "Wall time of a complete propagation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"scenario"},
		),
	}
}

// Register adds every collector to reg.
func (r *Recorder) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{r.steps, r.failures, r.kicks, r.runs} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) Step(algorithm, elementType string, backward bool) {
	if r == nil {
		return
	}
	dir := "forward"
	if backward {
		dir = "backward"
	}
	r.steps.WithLabelValues(algorithm, elementType, dir).Inc()
}

func (r *Recorder) Failure(algorithm string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(algorithm).Inc()
}

func (r *Recorder) Kick(algorithm string, strength float64) {
	if r == nil {
		return
	}
	r.kicks.WithLabelValues(algorithm).Observe(strength)
}

func (r *Recorder) Run(scenario string, seconds float64) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(scenario).Observe(seconds)
}
