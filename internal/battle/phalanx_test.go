package battle

import "testing"

func TestPhalanx_RequiresMinNeighbors(t *testing.T) {
	p := NewPhalanxProcessor(DefaultPhalanxConfig()) // 2 neighbors

	center := testUnit("R0", TeamRed, 2, 2)
	left := testUnit("R1", TeamRed, 1, 2)
	right := testUnit("R2", TeamRed, 3, 2)
	enemy := testUnit("B0", TeamBlue, 2, 3) // adjacent but wrong team
	st := NewState([]Unit{center, left, right, enemy})

	if !p.InPhalanx(&st.Units[0], st) {
		t.Error("center with two allied neighbors should be in phalanx")
	}
	if p.InPhalanx(&st.Units[1], st) {
		t.Error("left flank has one allied neighbor, not in phalanx")
	}
	if p.InPhalanx(&st.Units[3], st) {
		t.Error("lone enemy should not be in phalanx")
	}
}

func TestPhalanx_DeadUnitsDoNotCount(t *testing.T) {
	p := NewPhalanxProcessor(DefaultPhalanxConfig())
	center := testUnit("R0", TeamRed, 2, 2)
	left := killed(testUnit("R1", TeamRed, 1, 2))
	right := testUnit("R2", TeamRed, 3, 2)
	st := NewState([]Unit{center, left, right})

	if p.InPhalanx(&st.Units[0], st) {
		t.Error("dead neighbor must not hold a phalanx together")
	}
}

func TestPhalanxApply_MaintainsFlags(t *testing.T) {
	p := NewPhalanxProcessor(DefaultPhalanxConfig())
	st := NewState([]Unit{
		testUnit("R0", TeamRed, 2, 2),
		testUnit("R1", TeamRed, 1, 2),
		testUnit("R2", TeamRed, 3, 2),
	})

	out, changed := p.Apply(PhaseTurnStart, st, PhaseContext{})
	if !changed {
		t.Fatal("flags should have been set")
	}
	u, _ := out.Find("R0")
	if !u.InPhalanx() {
		t.Error("R0 flag not set")
	}
	if len(out.Events.Filter("formation", "phalanx")) != 1 {
		t.Errorf("want exactly one formation event, got %d", len(out.Events.Filter("formation", "phalanx")))
	}

	// Second pass over the same positions: nothing to flip.
	if _, changed := p.Apply(PhaseTurnStart, out, PhaseContext{}); changed {
		t.Error("stable formation must be a no-op")
	}

	// A neighbor dying dissolves the phalanx at the next recompute.
	brokenState := out.withUnit(killed(out.Units[1]))
	broken, changed := p.Apply(PhaseMovement, brokenState, PhaseContext{})
	if !changed {
		t.Fatal("dissolution should have been recorded")
	}
	u, _ = broken.Find("R0")
	if u.InPhalanx() {
		t.Error("R0 should have lost the phalanx flag")
	}
}

func TestPhalanxApply_OnlyFormationPhases(t *testing.T) {
	p := NewPhalanxProcessor(DefaultPhalanxConfig())
	st := NewState([]Unit{
		testUnit("R0", TeamRed, 2, 2),
		testUnit("R1", TeamRed, 1, 2),
		testUnit("R2", TeamRed, 3, 2),
	})
	for _, phase := range []Phase{PhasePreAttack, PhaseAttack, PhasePostAttack, PhaseTurnEnd} {
		if _, changed := p.Apply(phase, st, PhaseContext{}); changed {
			t.Errorf("phase %s: phalanx must be identity", phase)
		}
	}
}
