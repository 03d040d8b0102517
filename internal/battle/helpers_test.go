package battle

import "testing"

// testUnit builds a living baseline unit at (x,y): 10 HP, 5 armor, range 6,
// facing south (toward growing y).
func testUnit(instanceID string, team Team, x, y int) Unit {
	pos := Position{X: x, Y: y}
	return Unit{
		ID:         "grunt",
		InstanceID: instanceID,
		Team:       team,
		Pos:        &pos,
		CurrentHP:  10,
		MaxHP:      10,
		Alive:      true,
		Armor:      5,
		Range:      6,
		Facing:     FacingSouth,
	}
}

// withEffect returns a copy of the unit carrying one more status effect.
func withEffect(u Unit, t EffectType, duration int) Unit {
	out := u.Clone()
	out.StatusEffects = append(out.StatusEffects, StatusEffect{Type: t, Duration: duration})
	return out
}

// withSight returns a copy of the unit with the given sight profile.
func withSight(u Unit, sp SightProfile) Unit {
	out := u.Clone()
	out.Sight = &sp
	return out
}

// killed returns a dead copy of the unit.
func killed(u Unit) Unit {
	out := u.Clone()
	out.Alive = false
	out.CurrentHP = 0
	return out
}

// dumpEvents prints the full event log to t.Log so it appears in
// `go test -v` output.
func dumpEvents(t *testing.T, st State) {
	t.Helper()
	if len(st.Events) == 0 {
		t.Log("(no events)")
		return
	}
	for _, e := range st.Events {
		t.Log(e.String())
	}
}
