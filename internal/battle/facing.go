package battle

import "fmt"

// FacingProcessor keeps unit facings meaningful: at pre_attack the active
// unit turns toward its declared target (nearest cardinal). The firing-arc
// gate in the LoS processor reads the resulting facing, which is why
// line_of_sight declares facing as a prerequisite.
type FacingProcessor struct{}

// NewFacingProcessor builds the facing processor. It has no tunables.
func NewFacingProcessor() *FacingProcessor {
	return &FacingProcessor{}
}

// Mechanic identifies the processor in the registry.
func (p *FacingProcessor) Mechanic() Mechanic { return MechanicFacing }

// Apply turns the active unit toward its target at pre_attack. All other
// phases pass through unchanged.
func (p *FacingProcessor) Apply(phase Phase, st State, ctx PhaseContext) (State, bool) {
	if phase != PhasePreAttack || ctx.TargetID == "" {
		return st, false
	}
	active, ok := st.Find(ctx.ActiveID)
	if !ok || !active.Living() || active.Pos == nil {
		return st, false
	}
	target, ok := st.Find(ctx.TargetID)
	if !ok || target.Pos == nil || *target.Pos == *active.Pos {
		return st, false
	}

	want := FacingToward(*active.Pos, *target.Pos)
	if want == active.Facing {
		return st, false
	}
	turned := active.Clone()
	turned.Facing = want
	out := st.withUnit(turned).withEvent(Event{
		Round:    st.Round,
		Phase:    phase,
		Unit:     active.InstanceID,
		Category: "facing",
		Key:      "turn",
		Value:    fmt.Sprintf("%s -> %s (toward %s)", active.Facing, want, target.InstanceID),
	})
	return out, true
}
