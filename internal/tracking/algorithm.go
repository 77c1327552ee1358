package tracking

// Algorithm drives a probe through elements. An Algorithm is bound to one
// probe for a run and only keeps the state of its start/stop range, which
// Reset re-arms.
type Algorithm interface {
	Name() string

	// Validate reports ErrIncompatibleProbe if the probe kind is unsupported.
	Validate(p *Probe) error
	Reset()

	StartElementID() string
	StopElementID() string

	Propagate(p *Probe, e Element) error
	PropagatePart(p *Probe, e Element, ds float64) error
	BackPropagate(p *Probe, e Element) error
	BackPropagatePart(p *Probe, e Element, ds float64) error
}
