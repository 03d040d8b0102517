package battle

import "math"

// Position is an integer grid coordinate. The core enforces no bounds;
// the driver owns the grid extent.
type Position struct {
	X int
	Y int
}

// Manhattan returns the taxicab distance between two positions.
// Spread adjacency is defined as Manhattan distance exactly 1.
func Manhattan(a, b Position) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

// Chebyshev returns the king-move distance between two positions.
// Range checks and line lengths both use this metric, so "target reachable
// within range" and "line cell count" always agree.
func Chebyshev(a, b Position) int {
	dx := absInt(a.X - b.X)
	dy := absInt(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Euclidean returns the straight-line distance between two positions.
func Euclidean(a, b Position) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// LineCell is one cell of a rasterized line.
type LineCell struct {
	Pos               Position
	DistanceFromStart int // 0-based step index along the line
	IsEndpoint        bool
}

// Line rasterizes the straight line from a to b inclusive, using rounded
// interpolation along the longer axis. The result always has exactly
// Chebyshev(a,b)+1 cells, and Line(b,a) yields the exact reverse sequence
// of positions (math.Round is half-away-from-zero, which is symmetric
// under negation).
func Line(a, b Position) []LineCell {
	n := Chebyshev(a, b)
	cells := make([]LineCell, 0, n+1)
	if n == 0 {
		return append(cells, LineCell{Pos: a, DistanceFromStart: 0, IsEndpoint: true})
	}
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		cells = append(cells, LineCell{
			Pos: Position{
				X: a.X + int(math.Round(t*dx)),
				Y: a.Y + int(math.Round(t*dy)),
			},
			DistanceFromStart: i,
			IsEndpoint:        i == 0 || i == n,
		})
	}
	return cells
}

// Facing is one of the four cardinal directions a unit can face.
// Bearings use screen coordinates: east is 0 degrees and y grows downward,
// so south is 90, west 180, north 270.
type Facing int

const (
	FacingNorth Facing = iota
	FacingEast
	FacingSouth
	FacingWest
)

func (f Facing) String() string {
	switch f {
	case FacingNorth:
		return "north"
	case FacingEast:
		return "east"
	case FacingSouth:
		return "south"
	case FacingWest:
		return "west"
	default:
		return "unknown"
	}
}

// Degrees returns the screen-space bearing of the facing.
func (f Facing) Degrees() float64 {
	switch f {
	case FacingEast:
		return 0
	case FacingSouth:
		return 90
	case FacingWest:
		return 180
	case FacingNorth:
		return 270
	default:
		return 0
	}
}

// FacingToward returns the cardinal facing that best points from one
// position toward another. Horizontal wins diagonal ties; a degenerate
// zero offset faces east.
func FacingToward(from, to Position) Facing {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if absInt(dx) >= absInt(dy) {
		if dx < 0 {
			return FacingWest
		}
		return FacingEast
	}
	if dy < 0 {
		return FacingNorth
	}
	return FacingSouth
}

// BearingDeg returns the screen-space bearing from one position toward
// another, normalized to [0, 360).
func BearingDeg(from, to Position) float64 {
	deg := math.Atan2(float64(to.Y-from.Y), float64(to.X-from.X)) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// angleOffsetDeg returns the unsigned minimal angular distance between two
// bearings, in [0, 180].
func angleOffsetDeg(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d < 0 {
		d += 360
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
