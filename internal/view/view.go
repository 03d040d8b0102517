package view

import (
	"fmt"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/jspeir/battlegrid/internal/battle"
)

const (
	cellSize    = 48
	gridMargin  = 2 // cells of padding around the outermost units
	borderWidth = 24

	logPanelWidth = 420
	logLineHeight = 13
	logMaxLines   = 58

	// ticksPerRound at speed 1; lower is faster.
	baseTicksPerRound = 90
	minSpeed          = 1
	maxSpeed          = 8
)

var (
	teamColors = map[battle.Team]color.RGBA{
		battle.TeamRed:  {R: 205, G: 80, B: 70, A: 255},
		battle.TeamBlue: {R: 70, G: 120, B: 210, A: 255},
	}
	deadColor = color.RGBA{R: 70, G: 70, B: 70, A: 255}

	effectColors = map[battle.EffectType]color.RGBA{
		battle.EffectFire:   {R: 255, G: 140, B: 0, A: 255},
		battle.EffectPoison: {R: 90, G: 200, B: 60, A: 255},
		battle.EffectCurse:  {R: 170, G: 60, B: 200, A: 255},
		battle.EffectFrost:  {R: 140, G: 210, B: 255, A: 255},
		battle.EffectPlague: {R: 160, G: 140, B: 40, A: 255},
	}
)

// View is the interactive playback window for one simulation. It owns the
// pacing (paused / stepped / auto-run) but never the rules: every state
// change comes from the sim's engine.
type View struct {
	sim       *battle.Sim
	maxRounds int

	minX, minY int // grid origin in board coordinates
	cols, rows int

	width  int
	height int

	paused  bool
	speed   int
	tick    int
	statusMsg string
	statusTTL int

	prevKeys map[ebiten.Key]bool
}

// New builds a view around a ready simulation. The board rectangle is sized
// from the starting roster plus a margin.
func New(sim *battle.Sim, maxRounds int) *View {
	v := &View{
		sim:       sim,
		maxRounds: maxRounds,
		speed:     2,
		prevKeys:  map[ebiten.Key]bool{},
	}
	v.minX, v.minY, v.cols, v.rows = boardBounds(sim.State.Units, gridMargin)
	v.width = borderWidth*2 + v.cols*cellSize + logPanelWidth
	v.height = borderWidth*2 + v.rows*cellSize
	if v.height < 640 {
		v.height = 640
	}
	return v
}

// boardBounds returns the origin and size, in cells, of the smallest
// rectangle containing every positioned unit plus a margin on each side.
func boardBounds(units []battle.Unit, margin int) (minX, minY, cols, rows int) {
	first := true
	maxX, maxY := 0, 0
	for i := range units {
		p := units[i].Pos
		if p == nil {
			continue
		}
		if first {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			first = false
			continue
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	if first {
		return 0, 0, 2*margin + 1, 2*margin + 1
	}
	minX -= margin
	minY -= margin
	return minX, minY, maxX - minX + margin + 1, maxY - minY + margin + 1
}

// WindowSize returns the pixel dimensions the window should open at.
func (v *View) WindowSize() (int, int) { return v.width, v.height }

// Layout implements ebiten.Game.
func (v *View) Layout(_, _ int) (int, int) { return v.width, v.height }

// Update implements ebiten.Game: input first, then pacing.
func (v *View) Update() error {
	v.handleInput()

	if v.statusTTL > 0 {
		v.statusTTL--
	}
	if v.paused || v.finished() {
		return nil
	}
	v.tick++
	if v.tick >= baseTicksPerRound/v.speed {
		v.tick = 0
		v.sim.RunRound()
	}
	return nil
}

func (v *View) finished() bool {
	return v.sim.State.Round > v.maxRounds
}

func (v *View) handleInput() {
	keys := map[ebiten.Key]bool{}
	for _, k := range []ebiten.Key{
		ebiten.KeySpace, ebiten.KeyN, ebiten.KeyC,
		ebiten.KeyEqual, ebiten.KeyMinus,
	} {
		keys[k] = ebiten.IsKeyPressed(k)
	}
	pressed := func(k ebiten.Key) bool { return keys[k] && !v.prevKeys[k] }

	if pressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}
	if pressed(ebiten.KeyN) && v.paused && !v.finished() {
		v.sim.RunRound()
	}
	if pressed(ebiten.KeyEqual) && v.speed < maxSpeed {
		v.speed++
	}
	if pressed(ebiten.KeyMinus) && v.speed > minSpeed {
		v.speed--
	}
	if pressed(ebiten.KeyC) {
		if err := clipboard.WriteAll(v.sim.Report().Format()); err != nil {
			v.setStatus("clipboard copy failed")
		} else {
			v.setStatus("report copied to clipboard")
		}
	}

	v.prevKeys = keys
}

func (v *View) setStatus(msg string) {
	v.statusMsg = msg
	v.statusTTL = 180
}

// Draw implements ebiten.Game.
func (v *View) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 14, G: 14, B: 18, A: 255})

	v.drawBoard(screen)
	for i := range v.sim.State.Units {
		v.drawUnit(screen, &v.sim.State.Units[i])
	}
	v.drawEventPanel(screen)
	v.drawHUD(screen)
}

// cellOrigin converts board coordinates to the pixel top-left of that cell.
func (v *View) cellOrigin(p battle.Position) (float32, float32) {
	x := borderWidth + (p.X-v.minX)*cellSize
	y := borderWidth + (p.Y-v.minY)*cellSize
	return float32(x), float32(y)
}

func (v *View) drawBoard(screen *ebiten.Image) {
	ox := float32(borderWidth)
	oy := float32(borderWidth)
	w := float32(v.cols * cellSize)
	h := float32(v.rows * cellSize)

	vector.FillRect(screen, ox, oy, w, h, color.RGBA{R: 24, G: 28, B: 24, A: 255}, false)
	gridCol := color.RGBA{R: 44, G: 52, B: 44, A: 255}
	for c := 0; c <= v.cols; c++ {
		x := ox + float32(c*cellSize)
		vector.StrokeLine(screen, x, oy, x, oy+h, 1.0, gridCol, false)
	}
	for r := 0; r <= v.rows; r++ {
		y := oy + float32(r*cellSize)
		vector.StrokeLine(screen, ox, y, ox+w, y, 1.0, gridCol, false)
	}
	borderCol := color.RGBA{R: 70, G: 90, B: 70, A: 255}
	vector.StrokeRect(screen, ox-1, oy-1, w+2, h+2, 2.0, borderCol, false)
}

func (v *View) drawUnit(screen *ebiten.Image, u *battle.Unit) {
	if u.Pos == nil {
		return
	}
	x, y := v.cellOrigin(*u.Pos)
	cx := x + cellSize/2
	cy := y + cellSize/2

	bodyCol := teamColors[u.Team]
	if !u.Living() {
		bodyCol = deadColor
	}
	const inset = 7
	vector.FillRect(screen, x+inset, y+inset, cellSize-2*inset, cellSize-2*inset, bodyCol, false)

	if u.Living() {
		// Facing wedge: a short line from the centre toward the faced edge.
		dx, dy := facingDelta(u.Facing)
		vector.StrokeLine(screen, cx, cy,
			cx+float32(dx)*(cellSize/2-3), cy+float32(dy)*(cellSize/2-3),
			2.5, color.RGBA{R: 240, G: 240, B: 230, A: 255}, false)

		v.drawHPBar(screen, u, x, y)
		v.drawShredPips(screen, u, x, y)
	}
	v.drawEffectMarkers(screen, u, x, y)

	if u.InPhalanx() {
		vector.StrokeRect(screen, x+3, y+3, cellSize-6, cellSize-6, 1.5,
			color.RGBA{R: 230, G: 200, B: 80, A: 220}, false)
	}

	ebitenutil.DebugPrintAt(screen, u.InstanceID, int(x)+2, int(y+cellSize)-15)
}

func facingDelta(f battle.Facing) (int, int) {
	switch f {
	case battle.FacingNorth:
		return 0, -1
	case battle.FacingEast:
		return 1, 0
	case battle.FacingSouth:
		return 0, 1
	default:
		return -1, 0
	}
}

func (v *View) drawHPBar(screen *ebiten.Image, u *battle.Unit, x, y float32) {
	if u.MaxHP <= 0 {
		return
	}
	frac := float32(u.CurrentHP) / float32(u.MaxHP)
	barW := float32(cellSize - 10)
	vector.FillRect(screen, x+5, y+2, barW, 3, color.RGBA{R: 40, G: 40, B: 40, A: 255}, false)
	barCol := color.RGBA{R: 80, G: 200, B: 80, A: 255}
	if frac < 0.4 {
		barCol = color.RGBA{R: 210, G: 170, B: 50, A: 255}
	}
	vector.FillRect(screen, x+5, y+2, barW*frac, 3, barCol, false)
}

// drawShredPips marks accumulated armor shred as small notches under the
// HP bar, one per point.
func (v *View) drawShredPips(screen *ebiten.Image, u *battle.Unit, x, y float32) {
	for i := 0; i < u.ArmorShred; i++ {
		px := x + 5 + float32(i*5)
		vector.FillRect(screen, px, y+6, 3, 3, color.RGBA{R: 220, G: 120, B: 40, A: 255}, false)
	}
}

func (v *View) drawEffectMarkers(screen *ebiten.Image, u *battle.Unit, x, y float32) {
	col := 0
	for _, e := range u.StatusEffects {
		c, ok := effectColors[e.Type]
		if !ok {
			c = color.RGBA{R: 200, G: 200, B: 200, A: 255}
		}
		px := x + cellSize - 8 - float32(col*7)
		vector.FillCircle(screen, px, y+cellSize-8, 3, c, false)
		col++
	}
}

// drawEventPanel renders the tail of the structured event log on the right,
// newest at the bottom.
func (v *View) drawEventPanel(screen *ebiten.Image) {
	panelX := v.width - logPanelWidth
	vector.FillRect(screen, float32(panelX), 0, logPanelWidth, float32(v.height),
		color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(v.height),
		1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, logPanelWidth, 16,
		color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "BATTLE LOG", panelX+8, 2)

	events := v.sim.State.Events
	start := 0
	if len(events) > logMaxLines {
		start = len(events) - logMaxLines
	}
	face := basicfont.Face7x13
	yPos := 30
	for _, e := range events[start:] {
		c := color.RGBA{R: 180, G: 190, B: 180, A: 255}
		if tc, ok := eventTint(e.Category); ok {
			c = tc
		}
		text.Draw(screen, e.String(), face, panelX+8, yPos, c)
		yPos += logLineHeight
	}
}

func eventTint(category string) (color.RGBA, bool) {
	switch category {
	case "attack":
		return color.RGBA{R: 230, G: 160, B: 120, A: 255}, true
	case "contagion":
		return color.RGBA{R: 160, G: 220, B: 120, A: 255}, true
	case "shred":
		return color.RGBA{R: 230, G: 140, B: 60, A: 255}, true
	case "formation":
		return color.RGBA{R: 230, G: 210, B: 110, A: 255}, true
	default:
		return color.RGBA{}, false
	}
}

func (v *View) drawHUD(screen *ebiten.Image) {
	state := "running"
	if v.paused {
		state = "paused"
	}
	if v.finished() {
		state = "finished"
	}
	line := fmt.Sprintf("round %d/%d  %s  speed %dx   [space] pause  [n] step  [+/-] speed  [c] copy report",
		min(v.sim.State.Round, v.maxRounds), v.maxRounds, state, v.speed)
	ebitenutil.DebugPrintAt(screen, line, borderWidth, v.height-18)

	if v.statusTTL > 0 {
		ebitenutil.DebugPrintAt(screen, v.statusMsg, borderWidth, v.height-34)
	}
}
