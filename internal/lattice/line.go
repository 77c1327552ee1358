package lattice

import "github.com/san-kum/beamsim/internal/tracking"

// LineModel is a linear beamline that resumes propagation from wherever the
// probe is.
//
// If the probe's current element names a direct child, propagation starts at
// that child: the probe is placed at the child's arc-length position and
// initialized, then carried through it and everything after it. Otherwise
// the probe's position s0 selects the children: a child starting at s is
// propagated fully when s0 <= s, partially over s0-s when s0 <= s+len, and
// skipped otherwise.
type LineModel struct {
	Composite
}

func NewLineModel(id string) *LineModel {
	m := &LineModel{}
	m.setup(m, id, TypeLine)
	return m
}

// ready rejects a probe that the bound algorithm cannot drive. The marked
// mode resets the probe, so this runs before any state is touched.
func (m *LineModel) ready(p *tracking.Probe) error {
	alg := p.Algorithm()
	if alg == nil {
		return tracking.Fail("", m.id, p.Position(), tracking.ErrNoAlgorithm)
	}
	if err := alg.Validate(p); err != nil {
		return tracking.Fail(alg.Name(), m.id, p.Position(), err)
	}
	return nil
}

func (m *LineModel) Propagate(p *tracking.Probe) error {
	children := m.children
	if idx := m.IndexOf(p.CurrentElement().ID); idx >= 0 {
		if err := m.ready(p); err != nil {
			return err
		}
		s := 0.0
		for i, child := range children {
			if i < idx {
				s += child.Length()
				continue
			}
			if i == idx {
				p.SetPosition(s)
				p.Initialize()
			}
			if err := child.Propagate(p); err != nil {
				return err
			}
			s += child.Length()
		}
		return nil
	}

	s0 := p.Position()
	s := 0.0
	for _, child := range children {
		l := child.Length()
		var err error
		switch {
		case s0 <= s:
			err = child.Propagate(p)
		case s0 <= s+l:
			err = child.PropagatePart(p, s0-s)
		}
		if err != nil {
			return err
		}
		s += l
	}
	return nil
}

// BackPropagate mirrors Propagate from the tail of the line: positions are
// measured by subtracting lengths from the line length.
func (m *LineModel) BackPropagate(p *tracking.Probe) error {
	children := m.children
	total := m.Length()

	if idx := m.IndexOf(p.CurrentElement().ID); idx >= 0 {
		if err := m.ready(p); err != nil {
			return err
		}
		s := total
		for i := len(children) - 1; i >= 0; i-- {
			child := children[i]
			if i > idx {
				s -= child.Length()
				continue
			}
			if i == idx {
				p.SetPosition(s)
				p.Initialize()
			}
			if err := child.BackPropagate(p); err != nil {
				return err
			}
			s -= child.Length()
		}
		return nil
	}

	s0 := p.Position()
	s := total
	for i := len(children) - 1; i >= 0; i-- {
		child := children[i]
		l := child.Length()
		var err error
		switch {
		case s0 >= s:
			err = child.BackPropagate(p)
		case s0 >= s-l:
			err = child.BackPropagatePart(p, s-s0)
		}
		if err != nil {
			return err
		}
		s -= l
	}
	return nil
}
