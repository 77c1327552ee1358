package lattice

import (
	"fmt"
	"iter"

	"github.com/san-kum/beamsim/internal/tracking"
)

// Node type tags of the built-in composites.
const (
	TypeLattice = "lattice"
	TypeSector  = "sector"
	TypeLine    = "line"
	TypeRing    = "ring"
)

// Composite owns an ordered sequence of child nodes. Its length is the sum
// of its children's lengths.
type Composite struct {
	nodeBase
	self     Node
	children []Node
}

func (c *Composite) setup(self Node, id, typ string) {
	c.id = id
	c.typ = typ
	c.self = self
}

func (c *Composite) container() *Composite { return c }

func (c *Composite) Length() float64 {
	total := 0.0
	for _, child := range c.children {
		total += child.Length()
	}
	return total
}

func (c *Composite) offsetOf(b *nodeBase) float64 {
	s := 0.0
	for _, child := range c.children {
		if child.base() == b {
			return s
		}
		s += child.Length()
	}
	return s
}

func (c *Composite) ChildCount() int { return len(c.children) }

// Children returns a copy of the direct children in order.
func (c *Composite) Children() []Node {
	out := make([]Node, len(c.children))
	copy(out, c.children)
	return out
}

// Child returns the child at index i.
func (c *Composite) Child(i int) (Node, error) {
	if i < 0 || i >= len(c.children) {
		return nil, fmt.Errorf("%w: index %d, %s has %d children", ErrIndexOutOfRange, i, c.id, len(c.children))
	}
	return c.children[i], nil
}

// AddChild appends n to the children.
func (c *Composite) AddChild(n Node) error {
	return c.InsertChild(len(c.children), n)
}

// InsertChild places n at index i, shifting later children back.
func (c *Composite) InsertChild(i int, n Node) error {
	if err := c.adoptable(n); err != nil {
		return err
	}
	if i < 0 || i > len(c.children) {
		return fmt.Errorf("%w: insert at %d, %s has %d children", ErrIndexOutOfRange, i, c.id, len(c.children))
	}

	children := make([]Node, 0, len(c.children)+1)
	children = append(children, c.children[:i]...)
	children = append(children, n)
	children = append(children, c.children[i:]...)
	c.children = children
	n.base().parent = c
	return nil
}

func (c *Composite) adoptable(n Node) error {
	if n == nil {
		return ErrNilNode
	}
	switch owner := n.base().parent; {
	case owner == c:
		return fmt.Errorf("%w: %s in %s", ErrDuplicateChild, n.ID(), c.id)
	case owner != nil:
		return fmt.Errorf("%w: %s is owned by %s", ErrForeignChild, n.ID(), owner.id)
	}
	for a := c; a != nil; a = a.parent {
		if a.base() == n.base() {
			return fmt.Errorf("%w: %s", ErrCycle, n.ID())
		}
	}
	return nil
}

// Remove detaches n from the children. It reports whether n was found.
func (c *Composite) Remove(n Node) bool {
	if n == nil {
		return false
	}
	for i, child := range c.children {
		if child.base() != n.base() {
			continue
		}
		children := make([]Node, 0, len(c.children)-1)
		children = append(children, c.children[:i]...)
		children = append(children, c.children[i+1:]...)
		c.children = children
		n.base().parent = nil
		return true
	}
	return false
}

// IndexOf returns the index of the direct child with the given id, or -1.
func (c *Composite) IndexOf(id string) int {
	for i, child := range c.children {
		if child.ID() == id {
			return i
		}
	}
	return -1
}

// Find returns the first node in global order with the given id.
func (c *Composite) Find(id string) (Node, bool) {
	for n := range c.All() {
		if n.ID() == id {
			return n, true
		}
	}
	return nil, false
}

// Local iterates the direct children.
func (c *Composite) Local() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, child := range c.children {
			if !yield(child) {
				return
			}
		}
	}
}

// All iterates this composite and then, depth first and in child order,
// every descendant. Each node is visited exactly once.
func (c *Composite) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		c.walk(yield)
	}
}

func (c *Composite) walk(yield func(Node) bool) bool {
	if !yield(c.self) {
		return false
	}
	for _, child := range c.children {
		if sub := child.container(); sub != nil {
			if !sub.walk(yield) {
				return false
			}
			continue
		}
		if !yield(child) {
			return false
		}
	}
	return true
}

// Leaves iterates the leaf elements in propagation order.
func (c *Composite) Leaves() iter.Seq[*Leaf] {
	return func(yield func(*Leaf) bool) {
		for n := range c.All() {
			if l, ok := n.(*Leaf); ok && !yield(l) {
				return
			}
		}
	}
}

func (c *Composite) Propagate(p *tracking.Probe) error {
	for _, child := range c.children {
		if err := child.Propagate(p); err != nil {
			return err
		}
	}
	return nil
}

func (c *Composite) BackPropagate(p *tracking.Probe) error {
	children := c.children
	for i := len(children) - 1; i >= 0; i-- {
		if err := children[i].BackPropagate(p); err != nil {
			return err
		}
	}
	return nil
}

func (c *Composite) PropagatePart(p *tracking.Probe, offset float64) error {
	if offset < 0 {
		return tracking.Fail("", c.id, p.Position(), tracking.ErrNegativeLength)
	}
	// Zero-length children at the offset are crossed.
	remaining := offset
	for _, child := range c.children {
		l := child.Length()
		if remaining >= l {
			if err := child.Propagate(p); err != nil {
				return err
			}
			remaining -= l
			continue
		}
		if remaining > 0 {
			return child.PropagatePart(p, remaining)
		}
		break
	}
	return nil
}

func (c *Composite) BackPropagatePart(p *tracking.Probe, offset float64) error {
	if offset < 0 {
		return tracking.Fail("", c.id, p.Position(), tracking.ErrNegativeLength)
	}
	children := c.children
	remaining := offset
	for i := len(children) - 1; i >= 0; i-- {
		child := children[i]
		l := child.Length()
		if remaining >= l {
			if err := child.BackPropagate(p); err != nil {
				return err
			}
			remaining -= l
			continue
		}
		if remaining > 0 {
			return child.BackPropagatePart(p, remaining)
		}
		break
	}
	return nil
}
