package battle

// Reason is a typed sentinel code for an expected "no" answer during a
// gameplay query. Reasons are routine branches a caller must handle, never
// errors: retrying a pure computation with the same input is meaningless.
type Reason string

const (
	ReasonNone Reason = ""

	// Line-of-sight reasons.
	ReasonDisabled      Reason = "disabled" // a unit has no position; not an error
	ReasonOutOfRange    Reason = "out_of_range"
	ReasonOutOfArc      Reason = "out_of_arc"
	ReasonBlockedByUnit Reason = "blocked_by_unit"

	// Contagion eligibility reasons, in gate order.
	ReasonSameUnit        Reason = "same_unit"
	ReasonDead            Reason = "dead"
	ReasonNotAdjacent     Reason = "not_adjacent"
	ReasonImmune          Reason = "immune"
	ReasonAlreadyInfected Reason = "already_infected"
)
