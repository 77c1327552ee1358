package lattice

import "github.com/san-kum/beamsim/internal/tracking"

// Node is the capability set shared by every modeling object in the tree.
// Nodes are created with NewLeaf or one of the composite constructors.
type Node interface {
	ID() string
	Type() string
	HardwareID() string
	Length() float64

	// Position is the entrance offset inside the immediate parent.
	Position() float64
	// LatticePosition is the entrance offset from the root of the tree.
	LatticePosition() float64
	Parent() *Composite

	Propagate(p *tracking.Probe) error
	BackPropagate(p *tracking.Probe) error
	// PropagatePart advances over the first offset metres of the node.
	PropagatePart(p *tracking.Probe, offset float64) error
	// BackPropagatePart advances backward over the last offset metres.
	BackPropagatePart(p *tracking.Probe, offset float64) error

	base() *nodeBase
	container() *Composite
}

type nodeBase struct {
	id     string
	typ    string
	hwID   string
	length float64
	parent *Composite
}

func (b *nodeBase) ID() string         { return b.id }
func (b *nodeBase) Type() string       { return b.typ }
func (b *nodeBase) HardwareID() string { return b.hwID }
func (b *nodeBase) Parent() *Composite { return b.parent }

// SetHardwareID links the node to a hardware device id.
func (b *nodeBase) SetHardwareID(id string) { b.hwID = id }

func (b *nodeBase) Position() float64 {
	if b.parent == nil {
		return 0
	}
	return b.parent.offsetOf(b)
}

func (b *nodeBase) LatticePosition() float64 {
	if b.parent == nil {
		return 0
	}
	return b.parent.LatticePosition() + b.Position()
}

func (b *nodeBase) base() *nodeBase       { return b }
func (b *nodeBase) container() *Composite { return nil }
