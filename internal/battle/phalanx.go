package battle

import "fmt"

// PhalanxConfig tunes the formation mechanic.
type PhalanxConfig struct {
	// MinNeighbors is how many living same-team units must stand at
	// Manhattan distance 1 for a unit to count as in phalanx.
	MinNeighbors int
}

// DefaultPhalanxConfig returns the standard tunables.
func DefaultPhalanxConfig() PhalanxConfig {
	return PhalanxConfig{MinNeighbors: 2}
}

// PhalanxProcessor maintains each unit's formation flag from board
// adjacency. The flag's gameplay weight lives elsewhere: contagion reads it
// as increased susceptibility, the trade-off for standing shoulder to
// shoulder.
type PhalanxProcessor struct {
	cfg PhalanxConfig
}

// NewPhalanxProcessor builds a phalanx processor from its config slice.
func NewPhalanxProcessor(cfg PhalanxConfig) *PhalanxProcessor {
	return &PhalanxProcessor{cfg: cfg}
}

// Mechanic identifies the processor in the registry.
func (p *PhalanxProcessor) Mechanic() Mechanic { return MechanicPhalanx }

// Config returns the processor's tunables.
func (p *PhalanxProcessor) Config() PhalanxConfig { return p.cfg }

// InPhalanx computes whether the unit currently qualifies, ignoring any
// stored flag.
func (p *PhalanxProcessor) InPhalanx(u *Unit, st State) bool {
	if !u.Living() || u.Pos == nil {
		return false
	}
	neighbors := 0
	for i := range st.Units {
		other := &st.Units[i]
		if other.InstanceID == u.InstanceID || other.Team != u.Team {
			continue
		}
		if !other.Living() || other.Pos == nil {
			continue
		}
		if Manhattan(*u.Pos, *other.Pos) == 1 {
			neighbors++
			if neighbors >= p.cfg.MinNeighbors {
				return true
			}
		}
	}
	return false
}

// Apply recomputes formation flags at turn_start and movement, when
// positions may have changed. Other phases pass through unchanged.
func (p *PhalanxProcessor) Apply(phase Phase, st State, _ PhaseContext) (State, bool) {
	if phase != PhaseTurnStart && phase != PhaseMovement {
		return st, false
	}

	var units []Unit
	var events []Event
	for i := range st.Units {
		u := &st.Units[i]
		want := p.InPhalanx(u, st)
		if want == u.InPhalanx() {
			continue
		}
		if units == nil {
			units = make([]Unit, len(st.Units))
			copy(units, st.Units)
		}
		updated := u.Clone()
		if updated.Contagion == nil {
			updated.Contagion = &ContagionProfile{}
		}
		updated.Contagion.InPhalanx = want
		units[i] = updated
		events = append(events, Event{
			Round:    st.Round,
			Phase:    phase,
			Unit:     u.InstanceID,
			Category: "formation",
			Key:      "phalanx",
			Value:    fmt.Sprintf("in_phalanx=%t", want),
		})
	}
	if units == nil {
		return st, false
	}
	return st.withUnits(units).withEvents(events), true
}
