package battle

import (
	"fmt"
	"math"
)

// ShredConfig tunes the armor-shred mechanic.
type ShredConfig struct {
	// MaxShredPercent caps accumulated shred at floor(armor * percent).
	MaxShredPercent float64
	// ShredPerAttack is added per physical hit taken.
	ShredPerAttack int
	// DecayPerTurn is removed at each turn_end; zero means shred is permanent.
	DecayPerTurn int
}

// DefaultShredConfig returns the standard tunables.
func DefaultShredConfig() ShredConfig {
	return ShredConfig{MaxShredPercent: 0.4, ShredPerAttack: 1, DecayPerTurn: 0}
}

// ShredApplication reports one ApplyShred outcome.
type ShredApplication struct {
	Applied   int  // how much shred was actually added
	WasCapped bool // true when the cap limited (or zeroed) the application
	Shred     int  // new accumulated total
}

// ShredDecay reports one DecayShred outcome.
type ShredDecay struct {
	Removed int
	Shred   int // new accumulated total
}

// ShredProcessor accumulates and decays a temporary armor penalty from
// physical attacks.
type ShredProcessor struct {
	cfg ShredConfig
}

// NewShredProcessor builds an armor-shred processor from its config slice.
func NewShredProcessor(cfg ShredConfig) *ShredProcessor {
	return &ShredProcessor{cfg: cfg}
}

// Mechanic identifies the processor in the registry.
func (p *ShredProcessor) Mechanic() Mechanic { return MechanicArmorShred }

// Config returns the processor's tunables.
func (p *ShredProcessor) Config() ShredConfig { return p.cfg }

// MaxShred returns the shred cap for a unit: floor(armor * maxShredPercent).
func (p *ShredProcessor) MaxShred(u *Unit) int {
	return int(math.Floor(float64(u.Armor) * p.cfg.MaxShredPercent))
}

// ApplyShred returns a copy of the unit with one attack's worth of shred
// added, clamped to the cap.
func (p *ShredProcessor) ApplyShred(u Unit) Unit {
	out, _ := p.ApplyShredWithDetails(u)
	return out
}

// ApplyShredWithDetails additionally reports how much was applied and
// whether the cap was hit.
func (p *ShredProcessor) ApplyShredWithDetails(u Unit) (Unit, ShredApplication) {
	maxShred := p.MaxShred(&u)
	applied := p.cfg.ShredPerAttack
	capped := false
	if u.ArmorShred+applied >= maxShred {
		applied = maxShred - u.ArmorShred
		capped = true
	}
	if applied < 0 {
		applied = 0
	}
	out := u.Clone()
	out.ArmorShred += applied
	return out, ShredApplication{Applied: applied, WasCapped: capped, Shred: out.ArmorShred}
}

// DecayShred returns a copy of the unit with one turn's decay removed,
// floored at zero.
func (p *ShredProcessor) DecayShred(u Unit) Unit {
	out, _ := p.DecayShredWithDetails(u)
	return out
}

// DecayShredWithDetails additionally reports how much decayed.
func (p *ShredProcessor) DecayShredWithDetails(u Unit) (Unit, ShredDecay) {
	removed := p.cfg.DecayPerTurn
	if removed > u.ArmorShred {
		removed = u.ArmorShred
	}
	if removed < 0 {
		removed = 0
	}
	out := u.Clone()
	out.ArmorShred -= removed
	return out, ShredDecay{Removed: removed, Shred: out.ArmorShred}
}

// ResetShred returns a copy of the unit with no accumulated shred.
func ResetShred(u Unit) Unit {
	out := u.Clone()
	out.ArmorShred = 0
	return out
}

// EffectiveArmor returns the unit's armor after shred, floored at zero.
func EffectiveArmor(u *Unit) int {
	if u.ArmorShred >= u.Armor {
		return 0
	}
	return u.Armor - u.ArmorShred
}

// HasShred reports whether the unit carries any accumulated shred.
func HasShred(u *Unit) bool { return u.ArmorShred > 0 }

// AtMaxShred reports whether the unit's shred is at its cap.
func (p *ShredProcessor) AtMaxShred(u *Unit) bool {
	return u.ArmorShred >= p.MaxShred(u)
}

// Apply shreds the target of a physical attack on the attack phase and
// decays shred on turn_end. Every other phase, and any call that would not
// change anything, returns the input state unchanged so callers can
// dirty-check cheaply.
func (p *ShredProcessor) Apply(phase Phase, st State, ctx PhaseContext) (State, bool) {
	switch phase {
	case PhaseAttack:
		return p.applyAttack(st, ctx)
	case PhaseTurnEnd:
		return p.applyDecay(st)
	default:
		return st, false
	}
}

func (p *ShredProcessor) applyAttack(st State, ctx PhaseContext) (State, bool) {
	if !ctx.Action.Physical() || ctx.TargetID == "" {
		return st, false
	}
	target, ok := st.Find(ctx.TargetID)
	if !ok || !target.Living() || target.Armor <= 0 {
		return st, false
	}
	updated, app := p.ApplyShredWithDetails(*target)
	if app.Applied == 0 {
		return st, false
	}
	out := st.withUnit(updated).withEvent(Event{
		Round:    st.Round,
		Phase:    PhaseAttack,
		Unit:     target.InstanceID,
		Category: "shred",
		Key:      "applied",
		Value:    fmt.Sprintf("+%d shred from %s (total %d/%d)", app.Applied, ctx.ActiveID, app.Shred, p.MaxShred(target)),
		NumVal:   float64(app.Applied),
	})
	return out, true
}

func (p *ShredProcessor) applyDecay(st State) (State, bool) {
	if p.cfg.DecayPerTurn <= 0 {
		return st, false
	}
	var units []Unit
	var events []Event
	changed := false
	for i := range st.Units {
		u := st.Units[i]
		if !HasShred(&u) {
			continue
		}
		decayed, d := p.DecayShredWithDetails(u)
		if d.Removed == 0 {
			continue
		}
		if units == nil {
			units = make([]Unit, len(st.Units))
			copy(units, st.Units)
		}
		units[i] = decayed
		events = append(events, Event{
			Round:    st.Round,
			Phase:    PhaseTurnEnd,
			Unit:     u.InstanceID,
			Category: "shred",
			Key:      "decay",
			Value:    fmt.Sprintf("-%d shred (total %d)", d.Removed, d.Shred),
			NumVal:   float64(d.Removed),
		})
		changed = true
	}
	if !changed {
		return st, false
	}
	return st.withUnits(units).withEvents(events), true
}
