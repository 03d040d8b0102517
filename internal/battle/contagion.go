package battle

import "fmt"

// contagiousTypes lists the spreadable effect types in the deterministic
// order draws are consumed.
var contagiousTypes = [...]EffectType{
	EffectFire, EffectPoison, EffectCurse, EffectFrost, EffectPlague,
}

// defaultSpreadChances are the per-type base spread probabilities.
var defaultSpreadChances = map[EffectType]float64{
	EffectFire:   0.50,
	EffectPoison: 0.30,
	EffectCurse:  0.25,
	EffectFrost:  0.20,
	EffectPlague: 0.60,
}

// defaultPhalanxSpreadBonus is added to the spread chance against targets in
// phalanx formation — the counterweight to dense defensive formations.
const defaultPhalanxSpreadBonus = 0.15

// ContagionConfig tunes the effect-spread mechanic.
type ContagionConfig struct {
	// SpreadChances overrides per-type base chances; missing types fall back
	// to the defaults.
	SpreadChances map[EffectType]float64
	// PhalanxSpreadBonus is added against targets in phalanx. The sum is not
	// capped: a total above 1.0 guarantees the next draw succeeds.
	PhalanxSpreadBonus float64
}

// DefaultContagionConfig returns the standard tunables.
func DefaultContagionConfig() ContagionConfig {
	return ContagionConfig{PhalanxSpreadBonus: defaultPhalanxSpreadBonus}
}

// SpreadChance returns the base spread chance for an effect type.
func (c ContagionConfig) SpreadChance(t EffectType) float64 {
	if v, ok := c.SpreadChances[t]; ok {
		return v
	}
	return defaultSpreadChances[t]
}

// EffectiveSpreadChance returns the chance against a concrete target, and
// whether the phalanx bonus applied.
func (c ContagionConfig) EffectiveSpreadChance(t EffectType, target *Unit) (float64, bool) {
	chance := c.SpreadChance(t)
	if target.InPhalanx() {
		return chance + c.PhalanxSpreadBonus, true
	}
	return chance, false
}

// IsContagious reports whether the effect type spreads between units.
func IsContagious(t EffectType) bool {
	for _, ct := range contagiousTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// ContagiousEffects filters a unit's status effects to the spreadable types,
// preserving list order.
func ContagiousEffects(u *Unit) []StatusEffect {
	var out []StatusEffect
	for _, e := range u.StatusEffects {
		if IsContagious(e.Type) {
			out = append(out, e)
		}
	}
	return out
}

// ApplyEffect returns a copy of the target carrying one more status effect,
// tagged as spread from sourceID. The input unit is never mutated.
func ApplyEffect(target Unit, effect StatusEffect, sourceID string) Unit {
	out := target.Clone()
	out.StatusEffects = append(out.StatusEffects, StatusEffect{
		Type:         effect.Type,
		Duration:     effect.Duration,
		SourceID:     effect.SourceID,
		IsSpread:     true,
		SpreadFromID: sourceID,
	})
	return out
}

// SpreadEligibility is the outcome of a CanSpreadTo gate.
type SpreadEligibility struct {
	OK           bool
	Reason       Reason  // first failing gate, in fixed order
	Chance       float64 // effective chance when eligible
	PhalanxBonus bool    // whether the formation bonus applied
}

// SpreadAttempt records one (effect, source, target) evaluation for the
// observability report, eligible or not.
type SpreadAttempt struct {
	SourceID     string
	TargetID     string
	Effect       EffectType
	Eligible     bool
	Reason       Reason // blocked reason when not eligible
	Chance       float64
	PhalanxBonus bool
	Roll         float64 // consumed draw; meaningful only when eligible
	Success      bool
}

// SpreadReport summarizes one turn_end spread pass.
type SpreadReport struct {
	TotalAttempts   int // eligible pairs that consumed a draw
	TotalSuccessful int
	Attempts        []SpreadAttempt // every evaluation, blocked ones included
}

// ContagionProcessor spreads status effects between adjacent units once per
// turn_end.
type ContagionProcessor struct {
	cfg ContagionConfig
}

// NewContagionProcessor builds a contagion processor from its config slice.
func NewContagionProcessor(cfg ContagionConfig) *ContagionProcessor {
	return &ContagionProcessor{cfg: cfg}
}

// Mechanic identifies the processor in the registry.
func (p *ContagionProcessor) Mechanic() Mechanic { return MechanicContagion }

// Config returns the processor's tunables.
func (p *ContagionProcessor) Config() ContagionConfig { return p.cfg }

// FindSpreadTargets returns the living units at Manhattan distance exactly 1
// from the source, in list order. There is no team filter: contagion does
// not care whose banner you march under.
func (p *ContagionProcessor) FindSpreadTargets(source *Unit, units []Unit) []*Unit {
	if source.Pos == nil {
		return nil
	}
	var out []*Unit
	for i := range units {
		u := &units[i]
		if u.InstanceID == source.InstanceID || !u.Living() || u.Pos == nil {
			continue
		}
		if Manhattan(*source.Pos, *u.Pos) == 1 {
			out = append(out, u)
		}
	}
	return out
}

// CanSpreadTo runs the eligibility gates in fixed order: same unit, dead,
// not adjacent, immune, already infected. The first failing gate
// short-circuits with its reason.
func (p *ContagionProcessor) CanSpreadTo(t EffectType, source, target *Unit) SpreadEligibility {
	if source.InstanceID == target.InstanceID {
		return SpreadEligibility{Reason: ReasonSameUnit}
	}
	if !target.Living() {
		return SpreadEligibility{Reason: ReasonDead}
	}
	if source.Pos == nil || target.Pos == nil || Manhattan(*source.Pos, *target.Pos) != 1 {
		return SpreadEligibility{Reason: ReasonNotAdjacent}
	}
	if target.Contagion.ImmuneTo(t) {
		return SpreadEligibility{Reason: ReasonImmune}
	}
	if target.HasEffect(t) {
		return SpreadEligibility{Reason: ReasonAlreadyInfected}
	}
	chance, bonus := p.cfg.EffectiveSpreadChance(t, target)
	return SpreadEligibility{OK: true, Chance: chance, PhalanxBonus: bonus}
}

// SpreadEffects runs one spread pass and returns the resulting state.
func (p *ContagionProcessor) SpreadEffects(st State, seed int64) State {
	out, _ := p.SpreadEffectsWithDetails(st, seed)
	return out
}

// SpreadEffectsWithDetails runs one spread pass with a full report.
//
// The pass iterates sources in unit list order and, per source, each
// contagious effect against each adjacent target, re-checking eligibility
// against the working unit set: a target infected earlier in the same pass
// blocks later attempts of the same effect type. Sources are the units that
// entered the pass infected — infections gained mid-pass do not cascade
// until the next turn_end. Exactly one draw is consumed per eligible pair,
// in a fixed order, so identical (state, seed, config) inputs always
// reproduce the same output bit for bit.
func (p *ContagionProcessor) SpreadEffectsWithDetails(st State, seed int64) (State, SpreadReport) {
	working := make([]Unit, len(st.Units))
	copy(working, st.Units)
	index := make(map[string]int, len(working))
	for i := range working {
		index[working[i].InstanceID] = i
	}

	stream := NewStream(seed)
	report := SpreadReport{}

	for si := range st.Units {
		source := &st.Units[si]
		if !source.Living() {
			continue
		}
		effects := ContagiousEffects(source)
		if len(effects) == 0 {
			continue
		}
		targets := p.FindSpreadTargets(source, st.Units)
		if len(targets) == 0 {
			continue
		}

		workingSource := &working[index[source.InstanceID]]
		for _, effect := range effects {
			for _, t := range targets {
				workingTarget := &working[index[t.InstanceID]]
				elig := p.CanSpreadTo(effect.Type, workingSource, workingTarget)
				attempt := SpreadAttempt{
					SourceID:     source.InstanceID,
					TargetID:     t.InstanceID,
					Effect:       effect.Type,
					Eligible:     elig.OK,
					Reason:       elig.Reason,
					Chance:       elig.Chance,
					PhalanxBonus: elig.PhalanxBonus,
				}
				if !elig.OK {
					report.Attempts = append(report.Attempts, attempt)
					continue
				}

				attempt.Roll = stream.Next()
				attempt.Success = attempt.Roll < elig.Chance
				report.TotalAttempts++
				if attempt.Success {
					report.TotalSuccessful++
					working[index[t.InstanceID]] = ApplyEffect(*workingTarget, effect, source.InstanceID)
				}
				report.Attempts = append(report.Attempts, attempt)
			}
		}
	}

	out := st.withUnits(working)
	return out, report
}

// Apply spreads effects on turn_end and passes every other phase through
// unchanged.
func (p *ContagionProcessor) Apply(phase Phase, st State, ctx PhaseContext) (State, bool) {
	if phase != PhaseTurnEnd {
		return st, false
	}
	out, report := p.SpreadEffectsWithDetails(st, ctx.Seed)
	if report.TotalSuccessful == 0 {
		return st, false
	}

	events := make([]Event, 0, report.TotalSuccessful)
	for _, a := range report.Attempts {
		if !a.Success {
			continue
		}
		events = append(events, Event{
			Round:    st.Round,
			Phase:    phase,
			Unit:     a.TargetID,
			Category: "contagion",
			Key:      "spread",
			Value:    fmt.Sprintf("%s %s -> %s (roll %.2f < %.2f)", a.Effect, a.SourceID, a.TargetID, a.Roll, a.Chance),
			NumVal:   a.Chance,
		})
	}
	out = out.withEvents(events)
	return out, report.TotalSuccessful > 0
}
