package battle

// defaultFiringArcDeg is the facing cone half-width when a unit declares none.
const defaultFiringArcDeg = 90.0

// defaultArcFirePenalty is the accuracy penalty for lobbed (arc) shots.
const defaultArcFirePenalty = 0.2

// LoSConfig tunes the line-of-sight mechanic.
type LoSConfig struct {
	// ArcFireEnabled allows capable units to lob shots over obstacles.
	ArcFireEnabled bool
	// ArcFirePenalty is subtracted from accuracy for arc shots.
	ArcFirePenalty float64
	// RequireFiringArc gates shots on the shooter's facing cone.
	RequireFiringArc bool
	// TrueSightIgnoresArc exempts true-sight shooters from the facing cone.
	// The source rules never pinned this interaction down, so it is a knob.
	TrueSightIgnoresArc bool
}

// DefaultLoSConfig returns the standard tunables.
func DefaultLoSConfig() LoSConfig {
	return LoSConfig{
		ArcFireEnabled:      false,
		ArcFirePenalty:      defaultArcFirePenalty,
		RequireFiringArc:    true,
		TrueSightIgnoresArc: true,
	}
}

// FireMode describes how a ranged attack reaches its target.
type FireMode string

const (
	FireModeDirect  FireMode = "direct"
	FireModeArc     FireMode = "arc"
	FireModeBlocked FireMode = "blocked"
)

// ArcZone classifies a target's bearing relative to the shooter's facing.
type ArcZone string

const (
	ArcFront ArcZone = "front"
	ArcSide  ArcZone = "side"
	ArcRear  ArcZone = "rear"
)

// rearZoneDeg: offsets beyond this from the facing bearing count as rear.
const rearZoneDeg = 135.0

// FiringArcCheck is the result of a facing cone test. This is independent
// from arc fire: it gates whether the weapon may target at all, not how the
// shot travels.
type FiringArcCheck struct {
	InArc      bool
	Zone       ArcZone
	BearingDeg float64 // bearing from shooter to target
	OffsetDeg  float64 // unsigned deviation from the shooter's facing
}

// Obstacle describes a living, opaque unit sitting on a fire lane.
type Obstacle struct {
	InstanceID          string
	Pos                 Position
	Team                Team
	DistanceFromShooter int // step index along the rasterized line
}

// LoSResult is the full verdict of a line-of-sight check.
type LoSResult struct {
	HasLoS          bool
	DirectLoS       bool
	ArcLoS          bool
	RecommendedMode FireMode
	Obstacles       []Obstacle
	Distance        int // Chebyshev shooter-to-target
	InFiringArc     bool
	BlockReason     Reason
}

// RangedAttackCheck is the single valid/invalid verdict the attack resolver
// consumes before committing a ranged action.
type RangedAttackCheck struct {
	Valid            bool
	Reason           Reason
	FireMode         FireMode
	AccuracyModifier float64
	LoS              LoSResult
}

// TargetOption is one legal target with its own fire mode.
type TargetOption struct {
	InstanceID       string
	Pos              Position
	Distance         int
	FireMode         FireMode
	AccuracyModifier float64
}

// LoSProcessor resolves ranged-attack legality and accuracy. It is a pure
// query service: the attack resolver calls it directly at pre_attack/attack
// time, and its phase hook never changes state.
type LoSProcessor struct {
	cfg LoSConfig
}

// NewLoSProcessor builds a line-of-sight processor from its config slice.
func NewLoSProcessor(cfg LoSConfig) *LoSProcessor {
	return &LoSProcessor{cfg: cfg}
}

// Mechanic identifies the processor in the registry.
func (p *LoSProcessor) Mechanic() Mechanic { return MechanicLineOfSight }

// Config returns the processor's tunables.
func (p *LoSProcessor) Config() LoSConfig { return p.cfg }

// IsBlocked returns an obstacle descriptor if a living, opaque unit occupies
// pos and is not one of the excluded instance ids; nil otherwise. Dead and
// transparent units never block.
func (p *LoSProcessor) IsBlocked(pos Position, st State, excludeIDs ...string) *Obstacle {
	for i := range st.Units {
		u := &st.Units[i]
		if !u.Living() || u.Pos == nil || *u.Pos != pos {
			continue
		}
		if containsString(excludeIDs, u.InstanceID) {
			continue
		}
		if !u.BlocksLineOfSight() {
			continue
		}
		return &Obstacle{InstanceID: u.InstanceID, Pos: pos, Team: u.Team}
	}
	return nil
}

// ObstaclesAlongLine rasterizes the line from a to b and reports every
// blocking unit on an interior cell. Endpoints are never obstacles.
func (p *LoSProcessor) ObstaclesAlongLine(a, b Position, st State, excludeIDs ...string) []Obstacle {
	var out []Obstacle
	for _, cell := range Line(a, b) {
		if cell.IsEndpoint {
			continue
		}
		if ob := p.IsBlocked(cell.Pos, st, excludeIDs...); ob != nil {
			ob.DistanceFromShooter = cell.DistanceFromStart
			out = append(out, *ob)
		}
	}
	return out
}

// CheckFiringArc compares the bearing from shooter to target against the
// shooter's facing and arc half-width. Front is within the arc; rear is the
// cone opposite the facing; everything else is side.
func (p *LoSProcessor) CheckFiringArc(shooter, target *Unit) FiringArcCheck {
	if shooter.Pos == nil || target.Pos == nil {
		return FiringArcCheck{Zone: ArcRear}
	}
	bearing := BearingDeg(*shooter.Pos, *target.Pos)
	offset := angleOffsetDeg(bearing, shooter.Facing.Degrees())
	half := shooter.FiringArcHalfWidth()

	check := FiringArcCheck{BearingDeg: bearing, OffsetDeg: offset}
	switch {
	case offset <= half:
		check.InArc = true
		check.Zone = ArcFront
	case offset > rearZoneDeg:
		check.Zone = ArcRear
	default:
		check.Zone = ArcSide
	}
	return check
}

// CheckLoS is the central decision function. Steps run in fixed order:
// position presence, range, firing arc, true sight, direct line, arc fire.
// Arc fire ignores every obstacle on the line, friend or foe, but is never
// preferred over a clear direct line.
func (p *LoSProcessor) CheckLoS(shooter, target *Unit, st State) LoSResult {
	res := LoSResult{RecommendedMode: FireModeBlocked}

	if shooter.Pos == nil || target.Pos == nil {
		res.BlockReason = ReasonDisabled
		return res
	}

	res.Distance = Chebyshev(*shooter.Pos, *target.Pos)
	if res.Distance > shooter.Range {
		res.BlockReason = ReasonOutOfRange
		return res
	}

	arc := p.CheckFiringArc(shooter, target)
	res.InFiringArc = arc.InArc
	if p.arcGateApplies(shooter) && !arc.InArc {
		res.BlockReason = ReasonOutOfArc
		return res
	}

	if shooter.HasTrueSight() {
		// True sight is unconditionally clear: no rasterization, no obstacles.
		res.HasLoS = true
		res.DirectLoS = true
		res.RecommendedMode = FireModeDirect
		return res
	}

	res.Obstacles = p.ObstaclesAlongLine(*shooter.Pos, *target.Pos, st,
		shooter.InstanceID, target.InstanceID)
	if len(res.Obstacles) == 0 {
		res.HasLoS = true
		res.DirectLoS = true
		res.RecommendedMode = FireModeDirect
		return res
	}

	if p.cfg.ArcFireEnabled && shooter.CanArcFire() {
		res.HasLoS = true
		res.ArcLoS = true
		res.RecommendedMode = FireModeArc
		return res
	}

	res.BlockReason = ReasonBlockedByUnit
	return res
}

// arcGateApplies reports whether the firing-arc cone gates this shooter.
func (p *LoSProcessor) arcGateApplies(shooter *Unit) bool {
	if !p.cfg.RequireFiringArc {
		return false
	}
	if shooter.Sight != nil && shooter.Sight.IgnoresArc {
		return false
	}
	if shooter.HasTrueSight() && p.cfg.TrueSightIgnoresArc {
		return false
	}
	return true
}

// AccuracyModifier maps a fire mode to its accuracy multiplier.
func (p *LoSProcessor) AccuracyModifier(mode FireMode) float64 {
	switch mode {
	case FireModeDirect:
		return 1.0
	case FireModeArc:
		return 1.0 - p.cfg.ArcFirePenalty
	default:
		return 0
	}
}

// ValidateRangedAttack wraps CheckLoS and AccuracyModifier into the single
// verdict the external attack resolver consumes.
func (p *LoSProcessor) ValidateRangedAttack(shooter, target *Unit, st State) RangedAttackCheck {
	if !shooter.Living() || !target.Living() {
		return RangedAttackCheck{Reason: ReasonDead, FireMode: FireModeBlocked}
	}
	los := p.CheckLoS(shooter, target, st)
	check := RangedAttackCheck{
		FireMode: los.RecommendedMode,
		LoS:      los,
	}
	if !los.HasLoS {
		check.Reason = los.BlockReason
		return check
	}
	check.Valid = true
	check.AccuracyModifier = p.AccuracyModifier(los.RecommendedMode)
	return check
}

// FindValidTargets filters the living enemies of the shooter to those with
// line of sight, in unit list order. Each option carries its own fire mode.
func (p *LoSProcessor) FindValidTargets(shooter *Unit, st State) []TargetOption {
	var out []TargetOption
	for i := range st.Units {
		target := &st.Units[i]
		if target.Team == shooter.Team || !target.Living() || target.Pos == nil {
			continue
		}
		los := p.CheckLoS(shooter, target, st)
		if !los.HasLoS {
			continue
		}
		out = append(out, TargetOption{
			InstanceID:       target.InstanceID,
			Pos:              *target.Pos,
			Distance:         los.Distance,
			FireMode:         los.RecommendedMode,
			AccuracyModifier: p.AccuracyModifier(los.RecommendedMode),
		})
	}
	return out
}

// Apply is an identity passthrough for every phase: this processor answers
// queries for the attack resolver instead of mutating state.
func (p *LoSProcessor) Apply(_ Phase, st State, _ PhaseContext) (State, bool) {
	return st, false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
