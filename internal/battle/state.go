package battle

// State is an immutable snapshot of the battle. Every processor operation
// that "mutates" returns a new State with a new unit list; the old value
// stays valid and unchanged.
type State struct {
	Units  []Unit
	Round  int
	Events EventLog
}

// NewState builds the initial state for the given roster.
func NewState(units []Unit) State {
	cloned := make([]Unit, len(units))
	for i, u := range units {
		cloned[i] = u.Clone()
	}
	return State{Units: cloned, Round: 1}
}

// Find returns a pointer into the state's unit list for the given instance
// id. The pointer is read-only by convention: writers must go through
// withUnit so the original state is never mutated.
func (s State) Find(instanceID string) (*Unit, bool) {
	for i := range s.Units {
		if s.Units[i].InstanceID == instanceID {
			return &s.Units[i], true
		}
	}
	return nil, false
}

// UnitAt returns the first unit occupying the given position, dead or alive.
func (s State) UnitAt(pos Position) (*Unit, bool) {
	for i := range s.Units {
		if s.Units[i].Pos != nil && *s.Units[i].Pos == pos {
			return &s.Units[i], true
		}
	}
	return nil, false
}

// LivingUnits returns the living units in list order.
func (s State) LivingUnits() []*Unit {
	var out []*Unit
	for i := range s.Units {
		if s.Units[i].Living() {
			out = append(out, &s.Units[i])
		}
	}
	return out
}

// withUnit returns a new state with one unit replaced by instance id.
// The unit list is copied; the receiver is untouched.
func (s State) withUnit(u Unit) State {
	out := s
	out.Units = make([]Unit, len(s.Units))
	copy(out.Units, s.Units)
	for i := range out.Units {
		if out.Units[i].InstanceID == u.InstanceID {
			out.Units[i] = u
			break
		}
	}
	return out
}

// withUnits returns a new state with the whole unit list replaced.
func (s State) withUnits(units []Unit) State {
	out := s
	out.Units = units
	return out
}

// withEvent returns a new state with one event appended. The event list is
// copied so older snapshots never see later entries.
func (s State) withEvent(e Event) State {
	out := s
	out.Events = make(EventLog, len(s.Events), len(s.Events)+1)
	copy(out.Events, s.Events)
	out.Events = append(out.Events, e)
	return out
}

// withEvents appends several events at once.
func (s State) withEvents(events []Event) State {
	if len(events) == 0 {
		return s
	}
	out := s
	out.Events = make(EventLog, len(s.Events), len(s.Events)+len(events))
	copy(out.Events, s.Events)
	out.Events = append(out.Events, events...)
	return out
}

// WithRound returns a new state at the given round number.
func (s State) WithRound(round int) State {
	out := s
	out.Round = round
	return out
}
