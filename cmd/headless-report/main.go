package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/jspeir/battlegrid/internal/battle"
	"github.com/jspeir/battlegrid/internal/config"
)

type runStats struct {
	runIndex int
	seed     int64

	report battle.RunReport

	firstSpreadRound int
	firstShredRound  int
	firstArcRound    int
	firstRejectRound int
}

func main() {
	var runs int
	var rounds int
	var seedBase int64
	var seedStep int64
	var scenarioPath string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&rounds, "rounds", 0, "rounds per run (0 uses the scenario's value)")
	flag.Int64Var(&seedBase, "seed-base", 42, "RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenarioPath, "config", "", "scenario YAML file (built-in default when empty)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}

	cfg := config.Default()
	if scenarioPath != "" {
		loaded, err := config.Load(scenarioPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if rounds <= 0 {
		rounds = cfg.Rounds
	}

	fmt.Printf("=== Headless Battle Report ===\n")
	fmt.Printf("runs=%d rounds=%d seed_base=%d seed_step=%d\n\n", runs, rounds, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runScenario(cfg, i+1, seed, rounds)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: run %d: %v\n", i+1, err)
			os.Exit(1)
		}
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func runScenario(cfg *config.Config, runIndex int, seed int64, rounds int) (runStats, error) {
	sim, err := cfg.NewSim(battle.WithSeed(seed))
	if err != nil {
		return runStats{}, err
	}
	sim.RunRounds(rounds)

	events := sim.State.Events
	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		report:           sim.Report(),
		firstSpreadRound: firstRound(events, "contagion", "spread"),
		firstShredRound:  firstRound(events, "shred", "applied"),
		firstArcRound:    firstArcShotRound(events),
		firstRejectRound: firstRound(events, "attack", "rejected"),
	}, nil
}

// firstRound returns the round of the earliest event matching the category
// and key, or -1 when none occurred.
func firstRound(events battle.EventLog, category, key string) int {
	for _, e := range events {
		if e.Category == category && e.Key == key {
			return e.Round
		}
	}
	return -1
}

// firstArcShotRound finds the earliest validated attack that travelled in
// arc mode rather than on a direct line.
func firstArcShotRound(events battle.EventLog) int {
	for _, e := range events {
		if e.Category == "attack" && e.Key == "validated" &&
			len(e.Value) >= 4 && e.Value[:4] == "arc " {
			return e.Round
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_spread=%s first_shred=%s first_arc_shot=%s first_reject=%s\n",
		roundString(rs.firstSpreadRound), roundString(rs.firstShredRound),
		roundString(rs.firstArcRound), roundString(rs.firstRejectRound))
	fmt.Print(rs.report.Format())
	fmt.Println()
}

func roundString(r int) string {
	if r < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d", r)
}

func printAggregate(all []runStats) {
	agg := aggregate(all)

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_attacks_per_run: validated=%.1f arc=%.1f rejected=%.1f\n",
		agg.avgValidated, agg.avgArc, agg.avgRejected)
	fmt.Printf("avg_contagion_per_run: spreads=%.1f infected_units=%.1f\n",
		agg.avgSpreads, agg.avgInfected)
	fmt.Printf("avg_shred_per_run: hits=%.1f final_total=%.1f\n",
		agg.avgShredHits, agg.avgShredTotal)
	fmt.Printf("avg_formation_per_run: phalanx_flips=%.1f facing_turns=%.1f\n",
		agg.avgPhalanxFlips, agg.avgFacingTurns)
	fmt.Printf("phase_marker_avg_rounds: first_spread=%s first_shred=%s first_arc_shot=%s\n",
		avgRoundString(collectRounds(all, func(rs runStats) int { return rs.firstSpreadRound })),
		avgRoundString(collectRounds(all, func(rs runStats) int { return rs.firstShredRound })),
		avgRoundString(collectRounds(all, func(rs runStats) int { return rs.firstArcRound })))

	if len(agg.rejectedReasons) > 0 {
		fmt.Println("rejected_reason_totals:")
		reasons := make([]string, 0, len(agg.rejectedReasons))
		for r := range agg.rejectedReasons {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			fmt.Printf("  %-16s %d\n", r, agg.rejectedReasons[r])
		}
	}
}

type aggregateStats struct {
	avgValidated    float64
	avgArc          float64
	avgRejected     float64
	avgSpreads      float64
	avgInfected     float64
	avgShredHits    float64
	avgShredTotal   float64
	avgPhalanxFlips float64
	avgFacingTurns  float64
	rejectedReasons map[string]int
}

func aggregate(all []runStats) aggregateStats {
	agg := aggregateStats{rejectedReasons: map[string]int{}}
	if len(all) == 0 {
		return agg
	}
	var validated, arc, rejected, spreads, infected int
	var shredHits, shredTotal, flips, turns int
	for _, rs := range all {
		validated += rs.report.AttacksValidated
		arc += rs.report.ArcShots
		rejected += rs.report.AttacksRejected
		spreads += rs.report.SpreadSuccesses
		infected += rs.report.UnitsInfected
		shredHits += rs.report.ShredHits
		shredTotal += rs.report.TotalShred
		flips += rs.report.PhalanxFlips
		turns += rs.report.FacingTurns
		for reason, n := range rs.report.RejectedReasons {
			agg.rejectedReasons[reason] += n
		}
	}
	n := len(all)
	agg.avgValidated = avg(validated, n)
	agg.avgArc = avg(arc, n)
	agg.avgRejected = avg(rejected, n)
	agg.avgSpreads = avg(spreads, n)
	agg.avgInfected = avg(infected, n)
	agg.avgShredHits = avg(shredHits, n)
	agg.avgShredTotal = avg(shredTotal, n)
	agg.avgPhalanxFlips = avg(flips, n)
	agg.avgFacingTurns = avg(turns, n)
	return agg
}

func avg(sum, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func collectRounds(all []runStats, pick func(runStats) int) []int {
	out := make([]int, 0, len(all))
	for _, rs := range all {
		if r := pick(rs); r >= 0 {
			out = append(out, r)
		}
	}
	return out
}

func avgRoundString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
