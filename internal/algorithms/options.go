package algorithms

import (
	"io"
	"log/slog"

	"github.com/san-kum/beamsim/internal/telemetry"
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger for step and failure events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func WithRecorder(r *telemetry.Recorder) Option {
	return func(t *Tracker) {
		t.recorder = r
	}
}

// WithTrajectory controls whether a snapshot is saved after every step.
// It is on by default.
func WithTrajectory(save bool) Option {
	return func(t *Tracker) {
		t.save = save
	}
}

// WithRange bounds the propagation by start and stop element ids.
func WithRange(start, stop string, includeStop bool) Option {
	return func(t *Tracker) {
		t.start = start
		t.stop = stop
		t.includeStop = includeStop
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
