package algorithms

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/san-kum/beamsim/internal/phase"
	"github.com/san-kum/beamsim/internal/telemetry"
	"github.com/san-kum/beamsim/internal/tracking"
)

// applyFunc advances the kind payload of a probe by a transfer map.
type applyFunc func(p *tracking.Probe, m phase.Matrix)

// kickFunc returns an extra map composed after the element map of a step.
type kickFunc func(p *tracking.Probe, ds float64) (phase.Matrix, error)

// Tracker is the common part of every algorithm.
type Tracker struct {
	name     string
	kinds    []tracking.Kind
	apply    applyFunc
	kick     kickFunc
	stepSize float64

	start       string
	stop        string
	includeStop bool

	started bool
	stopped bool

	logger   *slog.Logger
	recorder *telemetry.Recorder
	save     bool
}

func newTracker(name string, kinds []tracking.Kind, apply applyFunc, opts ...Option) Tracker {
	t := Tracker{
		name:   name,
		kinds:  kinds,
		apply:  apply,
		logger: discardLogger(),
		save:   true,
	}
	for _, opt := range opts {
		opt(&t)
	}
	t.Reset()
	return t
}

func (t *Tracker) Name() string { return t.name }

// Validate reports whether the tracker can drive probes of p's kind.
func (t *Tracker) Validate(p *tracking.Probe) error {
	if !slices.Contains(t.kinds, p.Kind()) {
		return fmt.Errorf("%w: %s accepts %v, got %s", tracking.ErrIncompatibleProbe, t.name, t.kinds, p.Kind())
	}
	return nil
}

// Reset re-arms the start/stop range.
func (t *Tracker) Reset() {
	t.started = t.start == ""
	t.stopped = false
}

func (t *Tracker) StartElementID() string { return t.start }
func (t *Tracker) StopElementID() string  { return t.stop }

// SetStart skips every element before id.
func (t *Tracker) SetStart(id string) {
	t.start = id
	t.Reset()
}

// SetStop halts the propagation at id. The stop element itself is
// propagated only when includeStop is set.
func (t *Tracker) SetStop(id string, includeStop bool) {
	t.stop = id
	t.includeStop = includeStop
	t.Reset()
}

func (t *Tracker) ClearStart() { t.SetStart("") }
func (t *Tracker) ClearStop()  { t.SetStop("", false) }

// admit advances the range state for e and reports whether e is inside it.
func (t *Tracker) admit(e tracking.Element) bool {
	if t.stopped {
		return false
	}
	if !t.started {
		if e.ID() != t.start {
			return false
		}
		t.started = true
	}
	if t.stop != "" && e.ID() == t.stop {
		t.stopped = true
		return t.includeStop
	}
	return true
}

func (t *Tracker) Propagate(p *tracking.Probe, e tracking.Element) error {
	return t.step(p, e, e.Length(), false)
}

func (t *Tracker) PropagatePart(p *tracking.Probe, e tracking.Element, ds float64) error {
	return t.step(p, e, ds, false)
}

func (t *Tracker) BackPropagate(p *tracking.Probe, e tracking.Element) error {
	return t.step(p, e, e.Length(), true)
}

func (t *Tracker) BackPropagatePart(p *tracking.Probe, e tracking.Element, ds float64) error {
	return t.step(p, e, ds, true)
}

func (t *Tracker) step(p *tracking.Probe, e tracking.Element, ds float64, backward bool) error {
	if err := t.Validate(p); err != nil {
		return t.fail(p, e, err)
	}
	if ds < 0 {
		return t.fail(p, e, tracking.ErrNegativeLength)
	}
	if !t.admit(e) {
		return nil
	}

	n := 1
	if t.stepSize > 0 && ds > t.stepSize {
		n = int(math.Ceil(ds / t.stepSize))
	}
	h := ds / float64(n)
	for i := 0; i < n; i++ {
		if err := t.substep(p, e, h, backward); err != nil {
			return t.fail(p, e, err)
		}
	}

	p.SetCurrentElement(tracking.Ref(e))
	if !p.State().IsValid() {
		return t.fail(p, e, tracking.ErrInvalidState)
	}
	if t.save {
		p.Save()
	}

	t.recorder.Step(t.name, e.Type(), backward)
	t.logger.Debug("step",
		"algorithm", t.name,
		"element", e.ID(),
		"s", p.Position(),
		"energy", p.KineticEnergy(),
		"backward", backward,
	)
	return nil
}

func (t *Tracker) substep(p *tracking.Probe, e tracking.Element, ds float64, backward bool) error {
	dt := e.ElapsedTime(p, ds)
	dw := e.EnergyGain(p, ds)
	m, err := e.TransferMap(p, ds)
	if err != nil {
		return err
	}
	if t.kick != nil && ds > 0 {
		sc, err := t.kick(p, ds)
		if err != nil {
			return err
		}
		m = sc.Times(m)
	}

	if backward {
		m, err = m.Inverse()
		if err != nil {
			return err
		}
		dt, dw, ds = -dt, -dw, -ds
	}

	p.SetTime(p.Time() + dt)
	p.SetKineticEnergy(p.KineticEnergy() + dw)
	p.SetPosition(p.Position() + ds)
	t.apply(p, m)
	p.SetPhase(wrapPhase(p.Phase() + 2*math.Pi*p.BunchFrequency()*dt))
	return nil
}

func (t *Tracker) fail(p *tracking.Probe, e tracking.Element, err error) error {
	t.recorder.Failure(t.name)
	t.logger.Error("propagation failed",
		"algorithm", t.name,
		"element", e.ID(),
		"s", p.Position(),
		"error", err,
	)
	return tracking.Fail(t.name, e.ID(), p.Position(), err)
}

// wrapPhase maps phi into (-pi, pi].
func wrapPhase(phi float64) float64 {
	phi = math.Mod(phi+math.Pi, 2*math.Pi)
	if phi <= 0 {
		phi += 2 * math.Pi
	}
	return phi - math.Pi
}
