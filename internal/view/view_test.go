package view

import (
	"testing"

	"github.com/jspeir/battlegrid/internal/battle"
)

func unitAt(id string, x, y int) battle.Unit {
	pos := battle.Position{X: x, Y: y}
	return battle.Unit{InstanceID: id, Pos: &pos, Alive: true, CurrentHP: 1, MaxHP: 1}
}

func TestBoardBounds(t *testing.T) {
	units := []battle.Unit{
		unitAt("R0", 2, 3),
		unitAt("B0", 9, 5),
		{InstanceID: "off-board"}, // nil position is ignored
	}
	minX, minY, cols, rows := boardBounds(units, 2)
	if minX != 0 || minY != 1 {
		t.Errorf("origin = (%d,%d), want (0,1)", minX, minY)
	}
	if cols != 12 || rows != 7 {
		t.Errorf("size = %dx%d, want 12x7", cols, rows)
	}
}

func TestBoardBounds_EmptyRoster(t *testing.T) {
	minX, minY, cols, rows := boardBounds(nil, 2)
	if minX != 0 || minY != 0 || cols != 5 || rows != 5 {
		t.Errorf("empty bounds = (%d,%d) %dx%d, want (0,0) 5x5", minX, minY, cols, rows)
	}
}

func TestFacingDelta(t *testing.T) {
	cases := map[battle.Facing][2]int{
		battle.FacingNorth: {0, -1},
		battle.FacingEast:  {1, 0},
		battle.FacingSouth: {0, 1},
		battle.FacingWest:  {-1, 0},
	}
	for f, want := range cases {
		dx, dy := facingDelta(f)
		if dx != want[0] || dy != want[1] {
			t.Errorf("facingDelta(%s) = (%d,%d), want (%d,%d)", f, dx, dy, want[0], want[1])
		}
	}
}
