package main

import (
	"testing"

	"github.com/jspeir/battlegrid/internal/battle"
)

func TestFirstRound(t *testing.T) {
	events := battle.EventLog{
		{Round: 1, Category: "attack", Key: "validated"},
		{Round: 2, Category: "shred", Key: "applied"},
		{Round: 3, Category: "contagion", Key: "spread"},
		{Round: 4, Category: "contagion", Key: "spread"},
	}
	if got := firstRound(events, "contagion", "spread"); got != 3 {
		t.Errorf("firstRound(contagion) = %d, want 3", got)
	}
	if got := firstRound(events, "shred", "decay"); got != -1 {
		t.Errorf("firstRound(missing) = %d, want -1", got)
	}
}

func TestFirstArcShotRound(t *testing.T) {
	events := battle.EventLog{
		{Round: 1, Category: "attack", Key: "validated", Value: "direct B0 acc=1.00"},
		{Round: 2, Category: "attack", Key: "validated", Value: "arc B0 acc=0.80"},
	}
	if got := firstArcShotRound(events); got != 2 {
		t.Errorf("firstArcShotRound = %d, want 2", got)
	}
	if got := firstArcShotRound(events[:1]); got != -1 {
		t.Errorf("direct-only log = %d, want -1", got)
	}
}

func TestAggregate(t *testing.T) {
	all := []runStats{
		{report: battle.RunReport{
			AttacksValidated: 4, ArcShots: 1, AttacksRejected: 2,
			SpreadSuccesses: 2, UnitsInfected: 2, ShredHits: 4, TotalShred: 4,
			RejectedReasons: map[string]int{"out_of_range": 2},
		}},
		{report: battle.RunReport{
			AttacksValidated: 6, ArcShots: 3, AttacksRejected: 0,
			SpreadSuccesses: 0, UnitsInfected: 0, ShredHits: 6, TotalShred: 6,
			RejectedReasons: map[string]int{},
		}},
	}
	agg := aggregate(all)
	if agg.avgValidated != 5 || agg.avgArc != 2 || agg.avgRejected != 1 {
		t.Errorf("attack averages = %v/%v/%v", agg.avgValidated, agg.avgArc, agg.avgRejected)
	}
	if agg.avgSpreads != 1 || agg.avgShredHits != 5 {
		t.Errorf("spread/shred averages = %v/%v", agg.avgSpreads, agg.avgShredHits)
	}
	if agg.rejectedReasons["out_of_range"] != 2 {
		t.Errorf("rejectedReasons = %v", agg.rejectedReasons)
	}
}

func TestAvgRoundString(t *testing.T) {
	if got := avgRoundString(nil); got != "n/a" {
		t.Errorf("empty = %q, want n/a", got)
	}
	if got := avgRoundString([]int{1, 2, 4}); got != "2.3" {
		t.Errorf("avg = %q, want 2.3", got)
	}
}
