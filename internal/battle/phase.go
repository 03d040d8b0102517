package battle

// Phase is one of six fixed points in a unit's turn at which mechanics may act.
type Phase int

const (
	PhaseTurnStart Phase = iota
	PhaseMovement
	PhasePreAttack
	PhaseAttack
	PhasePostAttack
	PhaseTurnEnd
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseTurnStart:
		return "turn_start"
	case PhaseMovement:
		return "movement"
	case PhasePreAttack:
		return "pre_attack"
	case PhaseAttack:
		return "attack"
	case PhasePostAttack:
		return "post_attack"
	case PhaseTurnEnd:
		return "turn_end"
	default:
		return "unknown"
	}
}

// Phases returns all phases in turn order.
func Phases() [phaseCount]Phase {
	return [phaseCount]Phase{
		PhaseTurnStart, PhaseMovement, PhasePreAttack,
		PhaseAttack, PhasePostAttack, PhaseTurnEnd,
	}
}

// ActionKind classifies the action resolved during the attack phase.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionMeleeAttack
	ActionRangedAttack
	ActionAbility
)

func (k ActionKind) String() string {
	switch k {
	case ActionMeleeAttack:
		return "melee_attack"
	case ActionRangedAttack:
		return "ranged_attack"
	case ActionAbility:
		return "ability"
	default:
		return "none"
	}
}

// Action describes what the active unit is doing this turn.
type Action struct {
	Kind ActionKind
}

// Physical reports whether the action is a physical attack (the kind that
// shreds armor). Abilities are not physical.
func (a *Action) Physical() bool {
	if a == nil {
		return false
	}
	return a.Kind == ActionMeleeAttack || a.Kind == ActionRangedAttack
}

// PhaseContext carries the per-phase invocation data handed to processors.
// Seed seeds a fresh deterministic draw stream for that single phase call;
// it is never carried across phases.
type PhaseContext struct {
	ActiveID string
	TargetID string
	Action   *Action
	Seed     int64
}
