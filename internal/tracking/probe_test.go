package tracking

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/beamsim/internal/phase"
)

type countingAlgorithm struct {
	resets int
}

func (c *countingAlgorithm) Name() string                    { return "counting" }
func (c *countingAlgorithm) Validate(p *Probe) error         { return nil }
func (c *countingAlgorithm) Reset()                          { c.resets++ }
func (c *countingAlgorithm) StartElementID() string          { return "" }
func (c *countingAlgorithm) StopElementID() string           { return "" }
func (c *countingAlgorithm) Propagate(*Probe, Element) error { return nil }
func (c *countingAlgorithm) PropagatePart(*Probe, Element, float64) error {
	return nil
}
func (c *countingAlgorithm) BackPropagate(*Probe, Element) error { return nil }
func (c *countingAlgorithm) BackPropagatePart(*Probe, Element, float64) error {
	return nil
}

func TestNewProbe(t *testing.T) {
	p := NewProbe(KindTransferMap, Proton, 2.5e6)

	if p.Kind() != KindTransferMap {
		t.Errorf("expected transfer map kind, got %v", p.Kind())
	}
	if p.TransferMap() != phase.Identity() {
		t.Error("transfer map should start at identity")
	}
	if p.Trajectory().Len() != 1 {
		t.Errorf("expected initial snapshot, got %d", p.Trajectory().Len())
	}
	if p.Trajectory().Initial().KineticEnergy != 2.5e6 {
		t.Error("initial snapshot should hold the kinetic energy")
	}
}

func TestProbeInitialize(t *testing.T) {
	alg := &countingAlgorithm{}
	p := NewProbe(KindParticle, Proton, 1e6)
	p.SetAlgorithm(alg)

	p.SetPosition(1.0)
	p.Save()
	p.SetPosition(2.0)
	p.Save()
	if p.Trajectory().Len() != 3 {
		t.Fatalf("expected 3 snapshots, got %d", p.Trajectory().Len())
	}

	p.Initialize()
	if p.Trajectory().Len() != 1 {
		t.Errorf("expected fresh trajectory, got %d", p.Trajectory().Len())
	}
	if p.Trajectory().Initial().Position != 2.0 {
		t.Errorf("fresh trajectory should start at current position, got %f", p.Trajectory().Initial().Position)
	}
	if alg.resets != 2 {
		t.Errorf("expected 2 resets (bind + initialize), got %d", alg.resets)
	}
}

func TestSnapshotsAreImmutable(t *testing.T) {
	p := NewProbe(KindParticle, Proton, 1e6)
	p.SetCoordinates(phase.NewVector(1e-3, 0, 0, 0, 0, 0))
	p.Save()

	z := p.Coordinates()
	z[phase.X] = 5
	p.SetCoordinates(z)

	s, ok := p.Trajectory().At(1)
	if !ok {
		t.Fatal("missing snapshot")
	}
	if s.Coordinates[phase.X] != 1e-3 {
		t.Errorf("snapshot changed after probe mutation: %g", s.Coordinates[phase.X])
	}
}

func TestRelativisticFactors(t *testing.T) {
	tests := []struct {
		name  string
		w     float64
		gamma float64
	}{
		{"rest", 0, 1},
		{"one rest energy", Proton.RestEnergy, 2},
		{"three rest energies", 3 * Proton.RestEnergy, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProbe(KindParticle, Proton, tt.w)
			if math.Abs(p.Gamma()-tt.gamma) > 1e-12 {
				t.Errorf("expected gamma %f, got %f", tt.gamma, p.Gamma())
			}
			want := math.Sqrt(1 - 1/(tt.gamma*tt.gamma))
			if math.Abs(p.Beta()-want) > 1e-12 {
				t.Errorf("expected beta %f, got %f", want, p.Beta())
			}
		})
	}
}

func TestPerveance(t *testing.T) {
	p := NewProbe(KindEnvelope, Proton, 2.5e6)
	if p.Perveance() != 0 {
		t.Error("probe without current should have zero perveance")
	}

	p.SetCurrent(0.02)
	if p.Perveance() != 0 {
		t.Error("probe without bunch frequency should have zero perveance")
	}

	p.SetBunchFrequency(402.5e6)
	k := p.Perveance()
	if k <= 0 {
		t.Fatalf("expected positive perveance, got %g", k)
	}

	p.SetCurrent(0.04)
	if math.Abs(p.Perveance()/k-2) > 1e-12 {
		t.Error("perveance should scale linearly with current")
	}
}

func TestTrajectoryStatesFor(t *testing.T) {
	tr := NewTrajectory()
	tr.Append(State{Element: ElementRef{ID: "D1"}, Position: 1})
	tr.Append(State{Element: ElementRef{ID: "Q1"}, Position: 2})
	tr.Append(State{Element: ElementRef{ID: "D1"}, Position: 3})

	got := tr.StatesFor("D1")
	if len(got) != 2 || got[1].Position != 3 {
		t.Errorf("unexpected states for D1: %+v", got)
	}
	if tr.Final().Position != 3 {
		t.Errorf("expected final position 3, got %f", tr.Final().Position)
	}
	if _, ok := tr.At(7); ok {
		t.Error("expected out of range lookup to fail")
	}
}

func TestFailWrapsOnce(t *testing.T) {
	inner := Fail("tracker", "Q1", 1.5, ErrIncompatibleProbe)
	outer := Fail("other", "SECTOR", 0, inner)

	var pe *PropagationError
	if !errors.As(outer, &pe) {
		t.Fatal("expected a PropagationError")
	}
	if pe.ElementID != "Q1" {
		t.Errorf("expected innermost element id, got %s", pe.ElementID)
	}
	if !errors.Is(outer, ErrIncompatibleProbe) {
		t.Error("expected sentinel to be reachable")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindParticle, KindTransferMap, KindEnvelope} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("round trip failed for %v", k)
		}
	}
	if _, err := ParseKind("laser"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
