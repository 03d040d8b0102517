package battle

import (
	"reflect"
	"strings"
	"testing"
)

func skirmishRoster() []SimOption {
	return []SimOption{
		WithUnits(
			testUnit("R0", TeamRed, 2, 2),
			testUnit("R1", TeamRed, 1, 2),
			testUnit("R2", TeamRed, 3, 2),
			withEffect(testUnit("B0", TeamBlue, 6, 2), EffectFire, 3),
			testUnit("B1", TeamBlue, 6, 3),
			testUnit("B2", TeamBlue, 7, 2),
		),
	}
}

// Two sims built from the same seed and roster must replay identically:
// same units, same round counter, same event log, entry for entry.
func TestSim_Deterministic(t *testing.T) {
	run := func() *Sim {
		opts := append([]SimOption{WithSeed(42)}, skirmishRoster()...)
		s, err := NewSim(opts...)
		if err != nil {
			t.Fatalf("NewSim: %v", err)
		}
		s.RunRounds(4)
		return s
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a.State.Units, b.State.Units) {
		t.Error("same seed produced different unit states")
	}
	if !reflect.DeepEqual(a.State.Events, b.State.Events) {
		t.Error("same seed produced different event logs")
		dumpEvents(t, a.State)
	}
	if a.State.Round != b.State.Round || a.Turns() != b.Turns() {
		t.Errorf("round/turn drift: %d/%d vs %d/%d",
			a.State.Round, a.Turns(), b.State.Round, b.Turns())
	}
}

// One round with everything enabled: both shooters have clear direct lines,
// so each turn must produce a facing turn toward the enemy, a validated
// ranged attack, and one point of shred on the target.
func TestSim_FullStackRound(t *testing.T) {
	r0 := testUnit("R0", TeamRed, 2, 2)
	r0.Facing = FacingNorth
	b0 := testUnit("B0", TeamBlue, 5, 2)
	s, err := NewSim(WithSeed(7), WithUnits(r0, b0))
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	s.RunRound()

	rep := s.Report()
	if rep.Rounds != 1 || rep.Turns != 2 {
		t.Fatalf("rounds=%d turns=%d, want 1/2", rep.Rounds, rep.Turns)
	}
	if rep.AttacksValidated != 2 || rep.AttacksRejected != 0 {
		dumpEvents(t, s.State)
		t.Fatalf("attacks validated=%d rejected=%d, want 2/0",
			rep.AttacksValidated, rep.AttacksRejected)
	}
	if rep.FacingTurns != 2 {
		t.Errorf("FacingTurns = %d, want 2 (north->east, south->west)", rep.FacingTurns)
	}
	if rep.ShredHits != 2 || rep.TotalShred != 2 {
		t.Errorf("shred hits=%d total=%d, want 2/2", rep.ShredHits, rep.TotalShred)
	}

	shooter, _ := s.State.Find("R0")
	if shooter.Facing != FacingEast {
		t.Errorf("R0 facing = %s, want east", shooter.Facing)
	}
	victim, _ := s.State.Find("B0")
	if victim.ArmorShred != 1 {
		t.Errorf("B0 shred = %d, want 1", victim.ArmorShred)
	}
}

// Out-of-range enemies are rejected by the LoS processor, not silently
// skipped; the reason lands in the event log and the report.
func TestSim_OutOfRangeRejected(t *testing.T) {
	s, err := NewSim(
		WithSeed(3),
		WithUnits(
			testUnit("R0", TeamRed, 0, 0),
			testUnit("B0", TeamBlue, 10, 10), // chebyshev 10 > range 6
		),
	)
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	s.RunRound()

	rep := s.Report()
	if rep.AttacksValidated != 0 || rep.AttacksRejected != 2 {
		t.Fatalf("attacks validated=%d rejected=%d, want 0/2",
			rep.AttacksValidated, rep.AttacksRejected)
	}
	if rep.RejectedReasons[string(ReasonOutOfRange)] != 2 {
		t.Errorf("RejectedReasons = %v, want out_of_range twice", rep.RejectedReasons)
	}
	if rep.ShredHits != 0 {
		t.Error("rejected attacks must not shred")
	}
}

// Without line of sight the driver only commits adjacent melee swings.
func TestSim_MeleeFallbackWithoutLoS(t *testing.T) {
	shred := DefaultShredConfig()
	cfg := MechanicsConfig{Facing: true, ArmorShred: &shred}

	t.Run("adjacent", func(t *testing.T) {
		s, err := NewSim(
			WithMechanics(cfg),
			WithUnits(testUnit("R0", TeamRed, 2, 2), testUnit("B0", TeamBlue, 2, 3)),
		)
		if err != nil {
			t.Fatalf("NewSim: %v", err)
		}
		s.RunRound()
		rep := s.Report()
		if rep.AttacksValidated != 2 || rep.ShredHits != 2 {
			dumpEvents(t, s.State)
			t.Errorf("validated=%d shred=%d, want 2/2", rep.AttacksValidated, rep.ShredHits)
		}
	})

	t.Run("not adjacent", func(t *testing.T) {
		s, err := NewSim(
			WithMechanics(cfg),
			WithUnits(testUnit("R0", TeamRed, 2, 2), testUnit("B0", TeamBlue, 2, 5)),
		)
		if err != nil {
			t.Fatalf("NewSim: %v", err)
		}
		s.RunRound()
		if rep := s.Report(); rep.AttacksValidated != 0 || rep.AttacksRejected != 0 {
			t.Errorf("no LoS and no adjacency: report = %+v", rep)
		}
	})
}

// A certain plague spreads at the first turn_end; the later carrier cannot
// re-infect the original source on its own turn.
func TestSim_ContagionAcrossTurns(t *testing.T) {
	contagion := ContagionConfig{
		SpreadChances: map[EffectType]float64{EffectPlague: 1.0},
	}
	s, err := NewSim(
		WithSeed(5),
		WithMechanics(MechanicsConfig{Contagion: &contagion}),
		WithUnits(
			withEffect(testUnit("B0", TeamBlue, 2, 2), EffectPlague, 3),
			testUnit("B1", TeamBlue, 2, 3),
		),
	)
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	s.RunRound()

	rep := s.Report()
	if rep.SpreadSuccesses != 1 || rep.UnitsInfected != 1 {
		dumpEvents(t, s.State)
		t.Fatalf("spreads=%d infected=%d, want 1/1", rep.SpreadSuccesses, rep.UnitsInfected)
	}
	carrier, _ := s.State.Find("B1")
	if !carrier.HasEffect(EffectPlague) {
		t.Error("B1 should carry plague after round 1")
	}
	source, _ := s.State.Find("B0")
	plagues := 0
	for _, e := range source.StatusEffects {
		if e.Type == EffectPlague {
			plagues++
		}
	}
	if plagues != 1 {
		t.Errorf("B0 carries %d plague entries, want 1 (no back-infection)", plagues)
	}
}

func TestSim_DeadUnitsGetNoTurn(t *testing.T) {
	s, err := NewSim(
		WithVerbose(true),
		WithUnits(
			testUnit("R0", TeamRed, 2, 2),
			killed(testUnit("R1", TeamRed, 3, 2)),
			testUnit("B0", TeamBlue, 5, 2),
		),
	)
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	s.RunRound()

	if s.Turns() != 2 {
		t.Errorf("Turns = %d, want 2", s.Turns())
	}
	markers := s.State.Events.Filter("turn", "begin")
	if len(markers) != 2 {
		t.Fatalf("got %d turn markers, want 2", len(markers))
	}
	for _, e := range markers {
		if e.Unit == "R1" {
			t.Error("dead unit took a turn")
		}
	}
}

func TestSim_RoundCounterAdvances(t *testing.T) {
	s, err := NewSim(WithUnits(testUnit("R0", TeamRed, 0, 0)))
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	if s.State.Round != 1 {
		t.Fatalf("initial round = %d, want 1", s.State.Round)
	}
	s.RunRounds(3)
	if s.State.Round != 4 {
		t.Errorf("round after 3 runs = %d, want 4", s.State.Round)
	}
	if rep := s.Report(); rep.Rounds != 3 {
		t.Errorf("report rounds = %d, want 3", rep.Rounds)
	}
}

func TestRunReport_Format(t *testing.T) {
	s, err := NewSim(
		WithSeed(9),
		WithUnits(testUnit("R0", TeamRed, 0, 0), testUnit("B0", TeamBlue, 10, 10)),
	)
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	s.RunRound()

	text := s.Report().Format()
	for _, want := range []string{
		"rounds=1 turns=2",
		"attacks: validated=0 (arc=0) rejected=2",
		"rejected out_of_range",
		"contagion: spreads=0",
		"shred: hits=0 total=0",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Format() missing %q:\n%s", want, text)
		}
	}
}
