package elements

import (
	"math"
	"testing"

	"github.com/san-kum/beamsim/internal/phase"
	"github.com/san-kum/beamsim/internal/tracking"
)

func proton(w float64) *tracking.Probe {
	return tracking.NewProbe(tracking.KindParticle, tracking.Proton, w)
}

func det2(b [2][2]float64) float64 {
	return b[0][0]*b[1][1] - b[0][1]*b[1][0]
}

func TestMarkerIsIdentity(t *testing.T) {
	m := NewMarker()
	p := proton(2.5e6)

	tm, err := m.TransferMap(p, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tm != phase.Identity() {
		t.Error("marker map should be identity")
	}
	if m.ElapsedTime(p, 0) != 0 || m.EnergyGain(p, 0) != 0 {
		t.Error("marker should not change time or energy")
	}
}

func TestDrift(t *testing.T) {
	d := NewDrift()
	p := proton(2.5e6)
	ds := 0.75

	tm, _ := d.TransferMap(p, ds)
	if tm[phase.X][phase.XP] != ds || tm[phase.Y][phase.YP] != ds {
		t.Errorf("expected transverse drift of %f, got %f/%f", ds, tm[phase.X][phase.XP], tm[phase.Y][phase.YP])
	}
	g := p.Gamma()
	if math.Abs(tm[phase.Z][phase.ZP]-ds/(g*g)) > 1e-15 {
		t.Errorf("unexpected longitudinal slip %g", tm[phase.Z][phase.ZP])
	}

	want := ds / (p.Beta() * tracking.SpeedOfLight)
	if math.Abs(d.ElapsedTime(p, ds)-want) > 1e-20 {
		t.Errorf("expected flight time %g, got %g", want, d.ElapsedTime(p, ds))
	}
	if d.ElapsedTime(proton(0), ds) != 0 {
		t.Error("a probe at rest should report zero flight time")
	}
}

func TestQuadrupoleFocusing(t *testing.T) {
	tests := []struct {
		name     string
		gradient float64
		focusX   bool
	}{
		{"positive gradient focuses x", 5, true},
		{"negative gradient focuses y", -5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuadrupole(tt.gradient)
			p := proton(2.5e6)
			tm, err := q.TransferMap(p, 0.1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			bx, by := tm.Block(phase.PlaneX), tm.Block(phase.PlaneY)
			if math.Abs(det2(bx)-1) > 1e-12 || math.Abs(det2(by)-1) > 1e-12 {
				t.Errorf("blocks should be symplectic: %g %g", det2(bx), det2(by))
			}
			if focused := bx[0][0] < 1; focused != tt.focusX {
				t.Errorf("x block focusing = %v, want %v", focused, tt.focusX)
			}
			if (by[0][0] < 1) == tt.focusX {
				t.Error("y plane should have opposite focusing")
			}
		})
	}
}

func TestQuadrupoleChargeSign(t *testing.T) {
	q := NewQuadrupole(5)
	pp := proton(2.5e6)
	ph := tracking.NewProbe(tracking.KindParticle, tracking.HMinus, 2.5e6)

	if q.Strength(pp) <= 0 || q.Strength(ph) >= 0 {
		t.Errorf("strength should follow the charge sign: %g %g", q.Strength(pp), q.Strength(ph))
	}
}

func TestQuadrupoleZeroGradientIsDrift(t *testing.T) {
	p := proton(2.5e6)
	q, _ := NewQuadrupole(0).TransferMap(p, 0.4)
	d, _ := NewDrift().TransferMap(p, 0.4)
	if q != d {
		t.Error("zero gradient quadrupole should equal a drift")
	}
}

func TestRFGapEnergyGain(t *testing.T) {
	tests := []struct {
		name string
		phi  float64
		want float64
	}{
		{"on crest", 0, 1e5},
		{"zero crossing", math.Pi / 2, 0},
		{"-30 degrees", -math.Pi / 6, 1e5 * math.Sqrt(3) / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewRFGap(1e5, tt.phi, 402.5e6)
			got := g.EnergyGain(proton(2.5e6), 0)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %g eV, got %g", tt.want, got)
			}
		})
	}
}

func TestRFGapKicks(t *testing.T) {
	g := NewRFGap(1e5, -math.Pi/6, 402.5e6)
	p := proton(2.5e6)

	tm, err := g.TransferMap(p, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kz := tm[phase.ZP][phase.Z]
	kx := tm[phase.XP][phase.X]
	if kz == 0 {
		t.Fatal("expected a longitudinal kick")
	}
	if math.Abs(kx+kz/2) > 1e-12*math.Abs(kz) {
		t.Errorf("transverse kick should be -kz/2: kx=%g kz=%g", kx, kz)
	}
	if tm[phase.XP][phase.XP] >= 1 {
		t.Error("accelerating gap should damp the divergence")
	}
	if g.ElapsedTime(p, 0) != 0 {
		t.Error("thin gap should take no time")
	}
}

func TestParams(t *testing.T) {
	q := NewQuadrupole(-3.5)
	if q.Params()["gradient"] != -3.5 {
		t.Errorf("unexpected quadrupole params %v", q.Params())
	}

	g := NewRFGap(2e5, -math.Pi/4, 352.2e6)
	p := g.Params()
	if math.Abs(p["phase"].(float64)+45) > 1e-12 {
		t.Errorf("expected phase -45 degrees, got %v", p["phase"])
	}
	if p["etl"] != 2e5 || p["frequency"] != 352.2e6 {
		t.Errorf("unexpected gap params %v", p)
	}
}
