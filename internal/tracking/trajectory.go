package tracking

// Trajectory is the ordered history of probe snapshots. It only grows.
type Trajectory struct {
	states []State
}

func NewTrajectory() *Trajectory {
	return &Trajectory{states: make([]State, 0, 16)}
}

func (t *Trajectory) Append(s State) {
	t.states = append(t.states, s)
}

func (t *Trajectory) Len() int { return len(t.states) }

func (t *Trajectory) At(i int) (State, bool) {
	if i < 0 || i >= len(t.states) {
		return State{}, false
	}
	return t.states[i], true
}

func (t *Trajectory) Initial() State {
	if len(t.states) == 0 {
		return State{}
	}
	return t.states[0]
}

func (t *Trajectory) Final() State {
	if len(t.states) == 0 {
		return State{}
	}
	return t.states[len(t.states)-1]
}

// States returns a copy of all snapshots in order.
func (t *Trajectory) States() []State {
	out := make([]State, len(t.states))
	copy(out, t.states)
	return out
}

// StatesFor returns the snapshots taken at the element with the given id.
func (t *Trajectory) StatesFor(id string) []State {
	var out []State
	for _, s := range t.states {
		if s.Element.ID == id {
			out = append(out, s)
		}
	}
	return out
}
