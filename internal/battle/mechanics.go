package battle

import (
	"errors"
	"fmt"
)

// Mechanic identifies one known battle mechanic. The set is a fixed variant
// registry so the dispatch loop is exhaustively checked at compile time;
// constants are declared in tier (dispatch) order.
type Mechanic int

const (
	MechanicFacing Mechanic = iota
	MechanicPhalanx
	MechanicLineOfSight
	MechanicFlanking
	MechanicRiposte
	MechanicArmorShred
	MechanicContagion
	mechanicCount
)

func (m Mechanic) String() string {
	switch m {
	case MechanicFacing:
		return "facing"
	case MechanicPhalanx:
		return "phalanx"
	case MechanicLineOfSight:
		return "line_of_sight"
	case MechanicFlanking:
		return "flanking"
	case MechanicRiposte:
		return "riposte"
	case MechanicArmorShred:
		return "armor_shred"
	case MechanicContagion:
		return "contagion"
	default:
		return "unknown"
	}
}

// ParseMechanic resolves a mechanic by its config name.
func ParseMechanic(name string) (Mechanic, error) {
	for m := Mechanic(0); m < mechanicCount; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMechanic, name)
}

// Construction-time failures. Silently skipping an intended mechanic would
// corrupt simulation correctness, so these fail loudly instead.
var (
	ErrUnknownMechanic       = errors.New("unknown mechanic")
	ErrUnimplementedMechanic = errors.New("mechanic not implemented")
)

// mechanicInfo is one registry entry.
type mechanicInfo struct {
	requires    []Mechanic
	implemented bool
}

// mechanicRegistry declares prerequisites and implementation status.
// Enabling a mechanic enables its transitive prerequisites too.
var mechanicRegistry = [mechanicCount]mechanicInfo{
	MechanicFacing:      {implemented: true},
	MechanicPhalanx:     {implemented: true},
	MechanicLineOfSight: {requires: []Mechanic{MechanicFacing}, implemented: true},
	MechanicFlanking:    {requires: []Mechanic{MechanicFacing}},
	MechanicRiposte:     {requires: []Mechanic{MechanicFlanking}},
	MechanicArmorShred:  {implemented: true},
	MechanicContagion:   {implemented: true},
}

// Processor is one active mechanic's phase hook. Apply either returns the
// input state with changed=false (a no-op signal callers may rely on) or a
// new state value with the effect applied.
type Processor interface {
	Mechanic() Mechanic
	Apply(phase Phase, st State, ctx PhaseContext) (State, bool)
}

// MechanicsConfig selects and tunes the active mechanics for one battle.
// A nil config slice (or false flag) disables its mechanic; the dependency
// closure may still pull a mechanic in with default tunables. Constructed
// once per battle and immutable thereafter.
type MechanicsConfig struct {
	Facing      bool
	Phalanx     *PhalanxConfig
	LineOfSight *LoSConfig
	Flanking    bool
	Riposte     bool
	ArmorShred  *ShredConfig
	Contagion   *ContagionConfig
}

// enabled reports whether the config asks for the mechanic directly.
func (c MechanicsConfig) enabled(m Mechanic) bool {
	switch m {
	case MechanicFacing:
		return c.Facing
	case MechanicPhalanx:
		return c.Phalanx != nil
	case MechanicLineOfSight:
		return c.LineOfSight != nil
	case MechanicFlanking:
		return c.Flanking
	case MechanicRiposte:
		return c.Riposte
	case MechanicArmorShred:
		return c.ArmorShred != nil
	case MechanicContagion:
		return c.Contagion != nil
	default:
		return false
	}
}

// Engine resolves a mechanics config into a concrete set of active
// processors and dispatches each battle phase to them in tier order.
// Construction is cheap: battles may build engines repeatedly.
type Engine struct {
	cfg        MechanicsConfig
	active     []Processor
	processors map[Mechanic]Processor
}

// NewEngine resolves the config: computes the transitive prerequisite
// closure, rejects mechanics without an implementation, and instantiates
// one processor per active mechanic in tier order.
func NewEngine(cfg MechanicsConfig) (*Engine, error) {
	var enabled [mechanicCount]bool
	for m := Mechanic(0); m < mechanicCount; m++ {
		if cfg.enabled(m) {
			markWithPrereqs(&enabled, m)
		}
	}

	e := &Engine{cfg: cfg, processors: make(map[Mechanic]Processor)}
	for m := Mechanic(0); m < mechanicCount; m++ {
		if !enabled[m] {
			continue
		}
		if !mechanicRegistry[m].implemented {
			return nil, fmt.Errorf("mechanic %s: %w", m, ErrUnimplementedMechanic)
		}
		p := buildProcessor(m, cfg)
		e.active = append(e.active, p)
		e.processors[m] = p
	}
	return e, nil
}

// markWithPrereqs enables m and its transitive prerequisites.
func markWithPrereqs(enabled *[mechanicCount]bool, m Mechanic) {
	if enabled[m] {
		return
	}
	enabled[m] = true
	for _, req := range mechanicRegistry[m].requires {
		markWithPrereqs(enabled, req)
	}
}

// buildProcessor instantiates one mechanic, filling default tunables for
// mechanics pulled in by the closure without a config slice.
func buildProcessor(m Mechanic, cfg MechanicsConfig) Processor {
	switch m {
	case MechanicFacing:
		return NewFacingProcessor()
	case MechanicPhalanx:
		pc := DefaultPhalanxConfig()
		if cfg.Phalanx != nil {
			pc = *cfg.Phalanx
		}
		return NewPhalanxProcessor(pc)
	case MechanicLineOfSight:
		lc := DefaultLoSConfig()
		if cfg.LineOfSight != nil {
			lc = *cfg.LineOfSight
		}
		return NewLoSProcessor(lc)
	case MechanicArmorShred:
		sc := DefaultShredConfig()
		if cfg.ArmorShred != nil {
			sc = *cfg.ArmorShred
		}
		return NewShredProcessor(sc)
	case MechanicContagion:
		cc := DefaultContagionConfig()
		if cfg.Contagion != nil {
			cc = *cfg.Contagion
		}
		return NewContagionProcessor(cc)
	default:
		// Unreachable: NewEngine rejects unimplemented mechanics first.
		panic(fmt.Sprintf("buildProcessor: %s has no implementation", m))
	}
}

// Config returns the config the engine was built from.
func (e *Engine) Config() MechanicsConfig { return e.cfg }

// Active returns the active mechanics in dispatch order.
func (e *Engine) Active() []Mechanic {
	out := make([]Mechanic, len(e.active))
	for i, p := range e.active {
		out[i] = p.Mechanic()
	}
	return out
}

// Processor returns the active processor for a mechanic, if any. A disabled
// mechanic is simply absent: never invoked, never consulted.
func (e *Engine) Processor(m Mechanic) (Processor, bool) {
	p, ok := e.processors[m]
	return p, ok
}

// LineOfSight returns the active LoS processor, or nil when the mechanic is
// disabled. The attack resolver calls its query operations directly.
func (e *Engine) LineOfSight() *LoSProcessor {
	if p, ok := e.processors[MechanicLineOfSight]; ok {
		return p.(*LoSProcessor)
	}
	return nil
}

// Process folds the state through every active processor's Apply for the
// phase, in tier order, and returns the final state.
func (e *Engine) Process(phase Phase, st State, ctx PhaseContext) State {
	for _, p := range e.active {
		st, _ = p.Apply(phase, st, ctx)
	}
	return st
}
