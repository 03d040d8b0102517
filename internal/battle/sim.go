package battle

import (
	"fmt"
	"math/rand"
)

// Sim is a headless battle driver: it owns initiative order (unit list
// order), runs the six phases of each unit turn through the engine, and
// consults the LoS processor before committing a ranged action. It exists
// for tests, reports, and playback; damage, healing, and outcome resolution
// are deliberately absent.
type Sim struct {
	Engine *Engine
	State  State

	rng     *rand.Rand
	turns   int
	verbose bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // seed, mechanics, verbose — applied first
	simOptUnit                       // roster — applied after infrastructure
)

// SimOption is a builder function applied to a Sim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*simSetup)
}

type simSetup struct {
	seed    int64
	cfg     MechanicsConfig
	verbose bool
	units   []Unit
}

// WithSeed sets the RNG seed for deterministic runs. The per-phase seeds
// handed to processors are drawn from this stream.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(s *simSetup) { s.seed = seed }}
}

// WithMechanics replaces the default all-enabled mechanics config.
func WithMechanics(cfg MechanicsConfig) SimOption {
	return SimOption{simOptInfra, func(s *simSetup) { s.cfg = cfg }}
}

// WithVerbose records a turn marker event for every unit turn.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(s *simSetup) { s.verbose = v }}
}

// WithUnit adds one unit to the roster.
func WithUnit(u Unit) SimOption {
	return SimOption{simOptUnit, func(s *simSetup) { s.units = append(s.units, u) }}
}

// WithUnits adds several units in order.
func WithUnits(units ...Unit) SimOption {
	return SimOption{simOptUnit, func(s *simSetup) { s.units = append(s.units, units...) }}
}

// NewSim constructs a Sim from the given options in two ordered passes:
// infrastructure first (seed, mechanics, verbose), then the roster.
func NewSim(opts ...SimOption) (*Sim, error) {
	setup := &simSetup{
		seed: 1,
		cfg:  PresetAllEnabled(),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(setup)
		}
	}
	for _, o := range opts {
		if o.kind == simOptUnit {
			o.fn(setup)
		}
	}

	engine, err := NewEngine(setup.cfg)
	if err != nil {
		return nil, err
	}
	return &Sim{
		Engine:  engine,
		State:   NewState(setup.units),
		rng:     rand.New(rand.NewSource(setup.seed)), // #nosec G404 -- deterministic driver
		verbose: setup.verbose,
	}, nil
}

// Turns returns how many unit turns have been executed.
func (s *Sim) Turns() int { return s.turns }

// RunRounds executes n full rounds.
func (s *Sim) RunRounds(n int) {
	for i := 0; i < n; i++ {
		s.RunRound()
	}
}

// RunRound gives every unit alive at the start of the round one turn, in
// list order, then advances the round counter.
func (s *Sim) RunRound() {
	order := make([]string, 0, len(s.State.Units))
	for i := range s.State.Units {
		if s.State.Units[i].Living() {
			order = append(order, s.State.Units[i].InstanceID)
		}
	}
	for _, id := range order {
		s.runUnitTurn(id)
	}
	s.State = s.State.WithRound(s.State.Round + 1)
}

// runUnitTurn executes the six phases of one unit's turn. The seed is fresh
// per phase call, never carried across phases.
func (s *Sim) runUnitTurn(activeID string) {
	active, ok := s.State.Find(activeID)
	if !ok || !active.Living() {
		return
	}
	s.turns++
	if s.verbose {
		s.State = s.State.withEvent(Event{
			Round: s.State.Round, Phase: PhaseTurnStart,
			Unit: activeID, Category: "turn", Key: "begin",
		})
	}

	s.process(PhaseTurnStart, PhaseContext{ActiveID: activeID})
	s.process(PhaseMovement, PhaseContext{ActiveID: activeID})

	targetID := s.pickTarget(activeID)
	s.process(PhasePreAttack, PhaseContext{ActiveID: activeID, TargetID: targetID})

	attackCtx := PhaseContext{ActiveID: activeID, TargetID: targetID}
	if targetID != "" {
		if action, ok := s.resolveAttack(activeID, targetID); ok {
			attackCtx.Action = &action
		} else {
			attackCtx.TargetID = ""
		}
	}
	s.process(PhaseAttack, attackCtx)

	s.process(PhasePostAttack, PhaseContext{ActiveID: activeID})
	s.process(PhaseTurnEnd, PhaseContext{ActiveID: activeID})
}

// process runs one phase through the engine with a fresh seed.
func (s *Sim) process(phase Phase, ctx PhaseContext) {
	ctx.Seed = s.rng.Int63()
	s.State = s.Engine.Process(phase, s.State, ctx)
}

// pickTarget returns the nearest living enemy by Chebyshev distance, ties
// broken by list order. Empty when the active unit has no position or no
// enemy remains on the board.
func (s *Sim) pickTarget(activeID string) string {
	active, ok := s.State.Find(activeID)
	if !ok || active.Pos == nil {
		return ""
	}
	best := ""
	bestDist := 0
	for i := range s.State.Units {
		u := &s.State.Units[i]
		if u.Team == active.Team || !u.Living() || u.Pos == nil {
			continue
		}
		d := Chebyshev(*active.Pos, *u.Pos)
		if best == "" || d < bestDist {
			best = u.InstanceID
			bestDist = d
		}
	}
	return best
}

// resolveAttack decides whether the active unit attacks this turn and how.
// With line of sight active, the LoS processor is the authority on ranged
// legality; without it, only adjacent melee swings happen.
func (s *Sim) resolveAttack(activeID, targetID string) (Action, bool) {
	active, _ := s.State.Find(activeID)
	target, ok := s.State.Find(targetID)
	if active == nil || !ok {
		return Action{}, false
	}

	if los := s.Engine.LineOfSight(); los != nil {
		check := los.ValidateRangedAttack(active, target, s.State)
		if check.Valid {
			s.State = s.State.withEvent(Event{
				Round: s.State.Round, Phase: PhaseAttack,
				Unit: activeID, Category: "attack", Key: "validated",
				Value:  fmt.Sprintf("%s %s acc=%.2f", check.FireMode, targetID, check.AccuracyModifier),
				NumVal: check.AccuracyModifier,
			})
			return Action{Kind: ActionRangedAttack}, true
		}
		s.State = s.State.withEvent(Event{
			Round: s.State.Round, Phase: PhaseAttack,
			Unit: activeID, Category: "attack", Key: "rejected",
			Value: string(check.Reason),
		})
		return Action{}, false
	}

	if active.Pos != nil && target.Pos != nil && Manhattan(*active.Pos, *target.Pos) == 1 {
		s.State = s.State.withEvent(Event{
			Round: s.State.Round, Phase: PhaseAttack,
			Unit: activeID, Category: "attack", Key: "validated",
			Value:  fmt.Sprintf("melee %s acc=1.00", targetID),
			NumVal: 1,
		})
		return Action{Kind: ActionMeleeAttack}, true
	}
	return Action{}, false
}
