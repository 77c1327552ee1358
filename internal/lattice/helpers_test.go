package lattice

import (
	"errors"
	"fmt"

	"github.com/san-kum/beamsim/internal/phase"
	"github.com/san-kum/beamsim/internal/tracking"
)

type call struct {
	op string
	id string
	ds float64
}

func (c call) String() string { return fmt.Sprintf("%s:%s:%g", c.op, c.id, c.ds) }

var errBoom = errors.New("boom")

// recorder is a minimal algorithm that logs every element it is handed and
// advances the probe position by the sub-length crossed.
type recorder struct {
	calls  []call
	start  string
	failAt string
}

func (r *recorder) Name() string                     { return "recorder" }
func (r *recorder) Validate(p *tracking.Probe) error { return nil }
func (r *recorder) Reset()                           {}
func (r *recorder) StartElementID() string           { return r.start }
func (r *recorder) StopElementID() string            { return "" }

func (r *recorder) step(op string, p *tracking.Probe, e tracking.Element, ds float64) error {
	if e.ID() == r.failAt {
		return tracking.Fail(r.Name(), e.ID(), p.Position(), errBoom)
	}
	r.calls = append(r.calls, call{op: op, id: e.ID(), ds: ds})
	if op == "fwd" || op == "part" {
		p.SetPosition(p.Position() + ds)
	} else {
		p.SetPosition(p.Position() - ds)
	}
	return nil
}

func (r *recorder) Propagate(p *tracking.Probe, e tracking.Element) error {
	return r.step("fwd", p, e, e.Length())
}

func (r *recorder) PropagatePart(p *tracking.Probe, e tracking.Element, ds float64) error {
	return r.step("part", p, e, ds)
}

func (r *recorder) BackPropagate(p *tracking.Probe, e tracking.Element) error {
	return r.step("back", p, e, e.Length())
}

func (r *recorder) BackPropagatePart(p *tracking.Probe, e tracking.Element, ds float64) error {
	return r.step("backpart", p, e, ds)
}

func (r *recorder) ids() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.id
	}
	return out
}

// unitDrift is a field-free drift in the x and y planes.
type unitDrift struct{}

func (unitDrift) ElapsedTime(*tracking.Probe, float64) float64 { return 0 }
func (unitDrift) EnergyGain(*tracking.Probe, float64) float64  { return 0 }

func (unitDrift) TransferMap(_ *tracking.Probe, ds float64) (phase.Matrix, error) {
	m := phase.Identity()
	m[phase.X][phase.XP] = ds
	m[phase.Y][phase.YP] = ds
	return m, nil
}

func driftLeaf(id string, length float64) *Leaf {
	return NewLeaf(id, "drift", length, unitDrift{})
}

func leaf(id string, length float64) *Leaf {
	return NewLeaf(id, "test", length, nil)
}

func newProbe(alg tracking.Algorithm) *tracking.Probe {
	p := tracking.NewProbe(tracking.KindParticle, tracking.Proton, 1e6)
	p.SetAlgorithm(alg)
	return p
}

func mustAdd(c interface{ AddChild(Node) error }, nodes ...Node) {
	for _, n := range nodes {
		if err := c.AddChild(n); err != nil {
			panic(err)
		}
	}
}
