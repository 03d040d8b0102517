package battle

import "testing"

// shredTestUnit: armor 10 with the default 40% cap shreds at most 4.
func shredTestUnit() Unit {
	u := testUnit("B0", TeamBlue, 3, 3)
	u.Armor = 10
	return u
}

func TestApplyShred_AccumulatesAndCaps(t *testing.T) {
	p := NewShredProcessor(DefaultShredConfig())
	u := shredTestUnit()

	if got := p.MaxShred(&u); got != 4 {
		t.Fatalf("MaxShred = %d, want 4", got)
	}

	for i := 0; i < 4; i++ {
		u = p.ApplyShred(u)
	}
	if u.ArmorShred != 4 {
		t.Fatalf("after 4 applications ArmorShred = %d, want 4", u.ArmorShred)
	}

	// Fifth application hits the cap: nothing applied, total unchanged.
	out, app := p.ApplyShredWithDetails(u)
	if app.Applied != 0 || !app.WasCapped {
		t.Errorf("5th application = %+v, want Applied=0 WasCapped=true", app)
	}
	if out.ArmorShred != 4 {
		t.Errorf("ArmorShred = %d, want 4", out.ArmorShred)
	}
	if u.ArmorShred != 4 {
		t.Error("input unit mutated")
	}
}

func TestMaxShred_FloorsFractions(t *testing.T) {
	p := NewShredProcessor(DefaultShredConfig())
	u := shredTestUnit()
	u.Armor = 7 // 7 * 0.4 = 2.8 -> 2
	if got := p.MaxShred(&u); got != 2 {
		t.Errorf("MaxShred(armor=7) = %d, want 2", got)
	}
	u.Armor = 0
	if got := p.MaxShred(&u); got != 0 {
		t.Errorf("MaxShred(armor=0) = %d, want 0", got)
	}
}

func TestEffectiveArmor(t *testing.T) {
	u := shredTestUnit()
	u.ArmorShred = 3
	if got := EffectiveArmor(&u); got != 7 {
		t.Errorf("EffectiveArmor = %d, want 7", got)
	}
	u.ArmorShred = 15 // never negative
	if got := EffectiveArmor(&u); got != 0 {
		t.Errorf("EffectiveArmor = %d, want 0", got)
	}
}

func TestDecayShred(t *testing.T) {
	cfg := DefaultShredConfig()
	cfg.DecayPerTurn = 2
	p := NewShredProcessor(cfg)

	u := shredTestUnit()
	u.ArmorShred = 3
	out, d := p.DecayShredWithDetails(u)
	if d.Removed != 2 || out.ArmorShred != 1 {
		t.Errorf("decay = %+v shred=%d, want removed 2 down to 1", d, out.ArmorShred)
	}
	out, d = p.DecayShredWithDetails(out)
	if d.Removed != 1 || out.ArmorShred != 0 {
		t.Errorf("decay floors at zero: %+v shred=%d", d, out.ArmorShred)
	}
}

func TestShredQueries(t *testing.T) {
	p := NewShredProcessor(DefaultShredConfig())
	u := shredTestUnit()
	if HasShred(&u) || p.AtMaxShred(&u) {
		t.Error("fresh unit should have no shred")
	}
	u.ArmorShred = 4
	if !HasShred(&u) || !p.AtMaxShred(&u) {
		t.Error("capped unit should report shred and max")
	}
	reset := ResetShred(u)
	if reset.ArmorShred != 0 || u.ArmorShred != 4 {
		t.Error("ResetShred must zero the copy and leave the input alone")
	}
}

func TestShredApply_AttackPhase(t *testing.T) {
	p := NewShredProcessor(DefaultShredConfig())
	attacker := testUnit("R0", TeamRed, 2, 2)
	target := shredTestUnit()
	st := NewState([]Unit{attacker, target})

	ctx := PhaseContext{
		ActiveID: "R0",
		TargetID: "B0",
		Action:   &Action{Kind: ActionRangedAttack},
	}
	out, changed := p.Apply(PhaseAttack, st, ctx)
	if !changed {
		t.Fatal("physical attack on armored target must shred")
	}
	u, _ := out.Find("B0")
	if u.ArmorShred != 1 {
		t.Errorf("ArmorShred = %d, want 1", u.ArmorShred)
	}
	if len(out.Events.Filter("shred", "applied")) != 1 {
		t.Error("shred event missing")
	}
	orig, _ := st.Find("B0")
	if orig.ArmorShred != 0 {
		t.Error("input state mutated")
	}
}

func TestShredApply_NoOps(t *testing.T) {
	p := NewShredProcessor(DefaultShredConfig())
	target := shredTestUnit()
	st := NewState([]Unit{testUnit("R0", TeamRed, 2, 2), target})

	cases := []struct {
		name  string
		phase Phase
		ctx   PhaseContext
	}{
		{"non-attack phase", PhaseMovement, PhaseContext{ActiveID: "R0", TargetID: "B0", Action: &Action{Kind: ActionRangedAttack}}},
		{"no action", PhaseAttack, PhaseContext{ActiveID: "R0", TargetID: "B0"}},
		{"ability is not physical", PhaseAttack, PhaseContext{ActiveID: "R0", TargetID: "B0", Action: &Action{Kind: ActionAbility}}},
		{"no target", PhaseAttack, PhaseContext{ActiveID: "R0", Action: &Action{Kind: ActionMeleeAttack}}},
		{"turn_end without decay", PhaseTurnEnd, PhaseContext{ActiveID: "R0"}},
	}
	for _, c := range cases {
		if _, changed := p.Apply(c.phase, st, c.ctx); changed {
			t.Errorf("%s: expected no-op", c.name)
		}
	}

	t.Run("unarmored target", func(t *testing.T) {
		bare := testUnit("B1", TeamBlue, 4, 4)
		bare.Armor = 0
		st := NewState([]Unit{testUnit("R0", TeamRed, 2, 2), bare})
		ctx := PhaseContext{ActiveID: "R0", TargetID: "B1", Action: &Action{Kind: ActionMeleeAttack}}
		if _, changed := p.Apply(PhaseAttack, st, ctx); changed {
			t.Error("shredding an unarmored target must be a no-op")
		}
	})

	t.Run("dead target", func(t *testing.T) {
		st := NewState([]Unit{testUnit("R0", TeamRed, 2, 2), killed(shredTestUnit())})
		ctx := PhaseContext{ActiveID: "R0", TargetID: "B0", Action: &Action{Kind: ActionMeleeAttack}}
		if _, changed := p.Apply(PhaseAttack, st, ctx); changed {
			t.Error("shredding a dead target must be a no-op")
		}
	})
}

func TestShredApply_TurnEndDecay(t *testing.T) {
	cfg := DefaultShredConfig()
	cfg.DecayPerTurn = 1
	p := NewShredProcessor(cfg)

	worn := shredTestUnit()
	worn.ArmorShred = 2
	fresh := testUnit("B1", TeamBlue, 5, 5)
	st := NewState([]Unit{worn, fresh})

	out, changed := p.Apply(PhaseTurnEnd, st, PhaseContext{})
	if !changed {
		t.Fatal("decay should have changed state")
	}
	u, _ := out.Find("B0")
	if u.ArmorShred != 1 {
		t.Errorf("ArmorShred = %d, want 1", u.ArmorShred)
	}
	if len(out.Events.Filter("shred", "decay")) != 1 {
		t.Error("decay event missing")
	}

	// No unit carries shred: identity.
	clean := NewState([]Unit{fresh})
	if _, changed := p.Apply(PhaseTurnEnd, clean, PhaseContext{}); changed {
		t.Error("decay with no shredded units must be a no-op")
	}
}
