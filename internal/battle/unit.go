package battle

// Team distinguishes the two rosters.
type Team int

const (
	TeamRed Team = iota
	TeamBlue
)

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	default:
		return "unknown"
	}
}

// EffectType names a status effect. Only the five contagion types are known
// to the core; drivers may carry others through untouched.
type EffectType string

const (
	EffectFire   EffectType = "fire"
	EffectPoison EffectType = "poison"
	EffectCurse  EffectType = "curse"
	EffectFrost  EffectType = "frost"
	EffectPlague EffectType = "plague"
)

// StatusEffect is one entry in a unit's ordered effect list.
type StatusEffect struct {
	Type         EffectType
	Duration     int
	SourceID     string // instance id of the original applier, if known
	IsSpread     bool   // true when this entry arrived via contagion
	SpreadFromID string // instance id of the unit it spread from
}

// SightProfile is the optional line-of-sight capability view of a unit.
// A nil profile means: blocks LoS, no arc fire, no true sight, default arc.
type SightProfile struct {
	// BlocksLoS, when set, overrides whether the unit occludes shots traced
	// past it. When unset, Transparent decides.
	BlocksLoS *bool
	// Transparent marks the unit see-through (gas cloud, spirit) when
	// BlocksLoS is unset.
	Transparent bool
	CanArcFire   bool
	HasTrueSight bool
	// IgnoresArc exempts the unit from its own firing-arc gate.
	IgnoresArc bool
	// FiringArc is the facing cone half-width in degrees. Zero means the
	// default of 90.
	FiringArc float64
}

// ContagionProfile is the optional contagion capability view of a unit.
type ContagionProfile struct {
	InPhalanx  bool
	Immunities []EffectType
}

// ImmuneTo reports whether the profile lists the given effect type.
func (p *ContagionProfile) ImmuneTo(t EffectType) bool {
	if p == nil {
		return false
	}
	for _, im := range p.Immunities {
		if im == t {
			return true
		}
	}
	return false
}

// Unit is one combatant on the grid.
//
// ID names the stat template; InstanceID disambiguates multiple instances of
// the same template and is the canonical key for every processor.
type Unit struct {
	ID         string
	InstanceID string
	Team       Team

	// Pos is nil for units not on the board (reserves, removed).
	Pos    *Position
	Facing Facing

	CurrentHP int
	MaxHP     int
	Alive     bool
	Armor     int
	Range     int

	StatusEffects []StatusEffect
	ArmorShred    int

	// Per-mechanic capability views (nil when the unit has none).
	Sight     *SightProfile
	Contagion *ContagionProfile
}

// Living reports whether the unit still participates in the battle. A dead
// unit never blocks line of sight, never spreads or receives contagion, and
// never attacks.
func (u *Unit) Living() bool {
	return u.Alive && u.CurrentHP > 0
}

// HasEffect reports whether the unit already carries an effect of the given type.
func (u *Unit) HasEffect(t EffectType) bool {
	for _, e := range u.StatusEffects {
		if e.Type == t {
			return true
		}
	}
	return false
}

// InPhalanx reports the formation flag from the contagion profile.
func (u *Unit) InPhalanx() bool {
	return u.Contagion != nil && u.Contagion.InPhalanx
}

// BlocksLineOfSight reports whether the unit occludes shots traced past it.
// Liveness is the caller's concern; this only evaluates transparency.
func (u *Unit) BlocksLineOfSight() bool {
	if u.Sight == nil {
		return true
	}
	if u.Sight.BlocksLoS != nil {
		return *u.Sight.BlocksLoS
	}
	return !u.Sight.Transparent
}

// CanArcFire reports the unit's arc-fire (lobbed trajectory) capability.
func (u *Unit) CanArcFire() bool {
	return u.Sight != nil && u.Sight.CanArcFire
}

// HasTrueSight reports whether the unit sees through all obstacles.
func (u *Unit) HasTrueSight() bool {
	return u.Sight != nil && u.Sight.HasTrueSight
}

// FiringArcHalfWidth returns the unit's facing cone half-width in degrees.
func (u *Unit) FiringArcHalfWidth() float64 {
	if u.Sight != nil && u.Sight.FiringArc > 0 {
		return u.Sight.FiringArc
	}
	return defaultFiringArcDeg
}

// Clone returns a deep copy. Processors never mutate a unit in place; they
// clone, modify the clone, and publish it in a new state.
func (u Unit) Clone() Unit {
	out := u
	if u.Pos != nil {
		p := *u.Pos
		out.Pos = &p
	}
	if u.StatusEffects != nil {
		out.StatusEffects = make([]StatusEffect, len(u.StatusEffects))
		copy(out.StatusEffects, u.StatusEffects)
	}
	if u.Sight != nil {
		sp := *u.Sight
		if u.Sight.BlocksLoS != nil {
			b := *u.Sight.BlocksLoS
			sp.BlocksLoS = &b
		}
		out.Sight = &sp
	}
	if u.Contagion != nil {
		cp := *u.Contagion
		if u.Contagion.Immunities != nil {
			cp.Immunities = make([]EffectType, len(u.Contagion.Immunities))
			copy(cp.Immunities, u.Contagion.Immunities)
		}
		out.Contagion = &cp
	}
	return out
}
