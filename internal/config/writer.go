package config

import (
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/beamsim/internal/lattice"
)

// Parameterized is implemented by element dynamics that can report the
// params they were built from.
type Parameterized interface {
	Params() map[string]any
}

// YAMLWriter materializes a beamline tree as a scenario element list. It
// implements lattice.DocumentBuilder.
type YAMLWriter struct {
	root   lattice.Node
	stack  [][]ElementConfig
	groups []ElementConfig
	out    []ElementConfig
}

func NewYAMLWriter() *YAMLWriter {
	return &YAMLWriter{}
}

func (w *YAMLWriter) BeginComposite(n lattice.Node) error {
	if w.root == nil {
		w.root = n
		w.stack = append(w.stack, nil)
		return nil
	}
	w.groups = append(w.groups, ElementConfig{ID: n.ID(), Type: TypeSector, HardwareID: n.HardwareID()})
	w.stack = append(w.stack, nil)
	return nil
}

func (w *YAMLWriter) EndComposite(n lattice.Node) error {
	if len(w.stack) == 0 {
		return errors.New("config: unbalanced composite end")
	}
	children := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]

	if len(w.stack) == 0 {
		w.out = children
		return nil
	}
	g := w.groups[len(w.groups)-1]
	w.groups = w.groups[:len(w.groups)-1]
	g.Children = children
	w.append(g)
	return nil
}

func (w *YAMLWriter) Leaf(l *lattice.Leaf) error {
	if len(w.stack) == 0 {
		return errors.New("config: leaf outside a composite")
	}
	e := ElementConfig{
		ID:         l.ID(),
		Type:       l.Type(),
		HardwareID: l.HardwareID(),
		Length:     l.Length(),
	}
	if p, ok := l.Dynamics().(Parameterized); ok {
		e.Params = p.Params()
	}
	w.append(e)
	return nil
}

func (w *YAMLWriter) append(e ElementConfig) {
	top := len(w.stack) - 1
	w.stack[top] = append(w.stack[top], e)
}

// Elements returns the materialized element list.
func (w *YAMLWriter) Elements() []ElementConfig {
	return w.out
}

// Topology maps the root composite type to a scenario topology.
func (w *YAMLWriter) Topology() string {
	if w.root == nil {
		return ""
	}
	switch w.root.Type() {
	case lattice.TypeLine:
		return TopologyLine
	case lattice.TypeRing:
		return TopologyRing
	default:
		return TopologyLattice
	}
}

// WriteTo encodes the element list as YAML.
func (w *YAMLWriter) WriteTo(out io.Writer) (int64, error) {
	cw := &countingWriter{w: out}
	enc := yaml.NewEncoder(cw)
	enc.SetIndent(2)
	doc := struct {
		Topology string          `yaml:"topology"`
		Elements []ElementConfig `yaml:"elements"`
	}{w.Topology(), w.out}
	if err := enc.Encode(doc); err != nil {
		return cw.n, err
	}
	return cw.n, enc.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
