package battle

import (
	"fmt"
	"sort"
	"strings"
)

// RunReport aggregates one simulation's mechanics activity from its event
// log and final state.
type RunReport struct {
	Rounds int
	Turns  int

	AttacksValidated int
	AttacksRejected  int
	ArcShots         int
	RejectedReasons  map[string]int

	SpreadSuccesses int
	UnitsInfected   int
	SpreadEffects   int // spread-tagged status entries on the final state

	ShredHits  int
	TotalShred int // accumulated shred across the final roster

	PhalanxFlips int
	FacingTurns  int
	Events       int
}

// Report summarizes the simulation so far.
func (s *Sim) Report() RunReport {
	r := RunReport{
		Rounds:          s.State.Round - 1,
		Turns:           s.turns,
		RejectedReasons: map[string]int{},
		Events:          len(s.State.Events),
	}

	for _, e := range s.State.Events {
		switch {
		case e.Category == "attack" && e.Key == "validated":
			r.AttacksValidated++
			if strings.HasPrefix(e.Value, string(FireModeArc)+" ") {
				r.ArcShots++
			}
		case e.Category == "attack" && e.Key == "rejected":
			r.AttacksRejected++
			r.RejectedReasons[e.Value]++
		case e.Category == "contagion" && e.Key == "spread":
			r.SpreadSuccesses++
		case e.Category == "shred" && e.Key == "applied":
			r.ShredHits++
		case e.Category == "formation" && e.Key == "phalanx":
			r.PhalanxFlips++
		case e.Category == "facing" && e.Key == "turn":
			r.FacingTurns++
		}
	}

	for i := range s.State.Units {
		u := &s.State.Units[i]
		r.TotalShred += u.ArmorShred
		infected := false
		for _, eff := range u.StatusEffects {
			if eff.IsSpread {
				r.SpreadEffects++
				infected = true
			}
		}
		if infected {
			r.UnitsInfected++
		}
	}
	return r
}

// Format renders the report as an aligned text block.
func (r RunReport) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rounds=%d turns=%d events=%d\n", r.Rounds, r.Turns, r.Events)
	fmt.Fprintf(&b, "attacks: validated=%d (arc=%d) rejected=%d\n",
		r.AttacksValidated, r.ArcShots, r.AttacksRejected)
	if len(r.RejectedReasons) > 0 {
		reasons := make([]string, 0, len(r.RejectedReasons))
		for reason := range r.RejectedReasons {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(&b, "  rejected %-16s %d\n", reason, r.RejectedReasons[reason])
		}
	}
	fmt.Fprintf(&b, "contagion: spreads=%d infected_units=%d spread_effects=%d\n",
		r.SpreadSuccesses, r.UnitsInfected, r.SpreadEffects)
	fmt.Fprintf(&b, "shred: hits=%d total=%d\n", r.ShredHits, r.TotalShred)
	fmt.Fprintf(&b, "formation: phalanx_flips=%d facing_turns=%d\n",
		r.PhalanxFlips, r.FacingTurns)
	return b.String()
}
