package lattice

// DocumentBuilder receives a tree in global order so it can be materialized
// as an external document. BeginComposite and EndComposite bracket the
// children of each composite.
type DocumentBuilder interface {
	BeginComposite(c Node) error
	EndComposite(c Node) error
	Leaf(l *Leaf) error
}

// Materialize walks n depth first and feeds it to b.
func Materialize(n Node, b DocumentBuilder) error {
	c := n.container()
	if c == nil {
		if l, ok := n.(*Leaf); ok {
			return b.Leaf(l)
		}
		return nil
	}
	if err := b.BeginComposite(n); err != nil {
		return err
	}
	for _, child := range c.children {
		if err := Materialize(child, b); err != nil {
			return err
		}
	}
	return b.EndComposite(n)
}
