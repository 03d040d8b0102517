package battle

import (
	"reflect"
	"testing"
)

func sampleLog() EventLog {
	return EventLog{
		{Round: 1, Phase: PhasePreAttack, Unit: "R0", Category: "facing", Key: "turn", Value: "south -> east"},
		{Round: 1, Phase: PhaseAttack, Unit: "R0", Category: "attack", Key: "validated", Value: "direct B0 acc=1.00", NumVal: 1},
		{Round: 2, Phase: PhaseAttack, Unit: "B0", Category: "attack", Key: "rejected", Value: "out_of_arc"},
		{Round: 3, Phase: PhaseTurnEnd, Unit: "B1", Category: "contagion", Key: "spread", Value: "plague B0 -> B1", NumVal: 0.12},
	}
}

func TestEventLogFilter(t *testing.T) {
	log := sampleLog()

	attacks := log.Filter("attack", "")
	if len(attacks) != 2 {
		t.Errorf("Filter(attack) = %d entries, want 2", len(attacks))
	}
	rejected := log.Filter("attack", "rejected")
	if len(rejected) != 1 || rejected[0].Unit != "B0" {
		t.Errorf("Filter(attack, rejected) = %v", rejected)
	}
	byKey := log.Filter("", "spread")
	if len(byKey) != 1 || byKey[0].Category != "contagion" {
		t.Errorf("Filter(\"\", spread) = %v", byKey)
	}
	if got := log.Filter("", ""); !reflect.DeepEqual(got, log) {
		t.Error("empty filter should return everything")
	}
	if got := log.Filter("riposte", ""); got != nil {
		t.Errorf("no-match filter = %v, want nil", got)
	}
}

func TestEventLogFilterUnit(t *testing.T) {
	log := sampleLog()
	r0 := log.FilterUnit("R0")
	if len(r0) != 2 {
		t.Fatalf("FilterUnit(R0) = %d entries, want 2", len(r0))
	}
	for _, e := range r0 {
		if e.Unit != "R0" {
			t.Errorf("stray unit %q in filtered log", e.Unit)
		}
	}
}

func TestEventLogFilterRoundRange(t *testing.T) {
	log := sampleLog()
	mid := log.FilterRoundRange(2, 3)
	if len(mid) != 2 || mid[0].Round != 2 || mid[1].Round != 3 {
		t.Errorf("FilterRoundRange(2,3) = %v", mid)
	}
	if got := log.FilterRoundRange(5, 9); got != nil {
		t.Errorf("empty range = %v, want nil", got)
	}
}

func TestEventString(t *testing.T) {
	e := Event{
		Round: 3, Phase: PhaseTurnEnd, Unit: "B1",
		Category: "contagion", Key: "spread", Value: "plague B0 -> B1",
	}
	want := "[R=003/turn_end] B1   contagion spread           plague B0 -> B1"
	if got := e.String(); got != want {
		t.Errorf("String()\n got %q\nwant %q", got, want)
	}
}
