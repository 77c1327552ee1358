package lattice

// Lattice is the root composite of a modeled machine.
type Lattice struct {
	Composite
	comment string
}

func NewLattice(id string) *Lattice {
	l := &Lattice{}
	l.setup(l, id, TypeLattice)
	return l
}

func (l *Lattice) Comment() string        { return l.comment }
func (l *Lattice) SetComment(text string) { l.comment = text }

// Sector groups nodes without adding behavior.
type Sector struct {
	Composite
}

func NewSector(id string) *Sector {
	s := &Sector{}
	s.setup(s, id, TypeSector)
	return s
}
