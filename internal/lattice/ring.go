package lattice

import (
	"fmt"

	"github.com/san-kum/beamsim/internal/phase"
	"github.com/san-kum/beamsim/internal/tracking"
)

// RingModel is a closed ring. Before each forward propagation the children
// are rotated so that the algorithm's start element comes first.
type RingModel struct {
	Composite
}

func NewRingModel(id string) *RingModel {
	r := &RingModel{}
	r.setup(r, id, TypeRing)
	return r
}

// RotateToStart returns children cyclically rotated so that the child with
// the given id, or the child containing it, comes first. It reports false
// and returns children unchanged when no child matches.
func RotateToStart(children []Node, id string) ([]Node, bool) {
	idx := -1
	for i, child := range children {
		if child.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		for i, child := range children {
			if sub := child.container(); sub != nil {
				if _, ok := sub.Find(id); ok {
					idx = i
					break
				}
			}
		}
	}
	if idx < 0 {
		return children, false
	}

	out := make([]Node, 0, len(children))
	out = append(out, children[idx:]...)
	out = append(out, children[:idx]...)
	return out, true
}

// RotateTo rotates the ring so that id starts it. Rotating to the current
// first element is a no-op.
func (r *RingModel) RotateTo(id string) bool {
	rotated, ok := RotateToStart(r.children, id)
	if ok {
		r.children = rotated
	}
	return ok
}

// Propagate carries the probe once around the ring from the start element.
// When the start element is nested, the first child is entered at the start
// element and the turn ends with the part of that child before it.
func (r *RingModel) Propagate(p *tracking.Probe) error {
	id := ""
	if alg := p.Algorithm(); alg != nil {
		id = alg.StartElementID()
	}
	if id == "" || !r.RotateTo(id) {
		return r.Composite.Propagate(p)
	}
	if err := r.Composite.Propagate(p); err != nil {
		return err
	}
	return r.closeTurn(p, id)
}

func (r *RingModel) closeTurn(p *tracking.Probe, id string) error {
	head := r.children[0]
	if head.ID() == id {
		return nil
	}
	sub := head.container()
	if sub == nil {
		return nil
	}
	for n := range sub.All() {
		if n.ID() == id {
			return nil
		}
		if l, ok := n.(*Leaf); ok {
			if err := l.Propagate(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// OneTurnMap propagates a transfer-map probe once around the ring, starting
// from the identity, and returns the accumulated map.
func (r *RingModel) OneTurnMap(p *tracking.Probe) (phase.Matrix, error) {
	if p.Kind() != tracking.KindTransferMap {
		return phase.Matrix{}, tracking.Fail("", r.id, p.Position(),
			fmt.Errorf("%w: one-turn map needs %s, got %s", tracking.ErrIncompatibleProbe, tracking.KindTransferMap, p.Kind()))
	}
	p.SetTransferMap(phase.Identity())
	p.Initialize()
	if err := r.Propagate(p); err != nil {
		return phase.Matrix{}, err
	}
	return p.TransferMap(), nil
}
