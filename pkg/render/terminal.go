// pkg/render/terminal.go
package render

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-pegshot/pkg/entity"
	"github.com/opd-ai/go-pegshot/pkg/event"
	"github.com/opd-ai/go-pegshot/pkg/physics"
)

// hudRows is the number of screen rows above the field reserved for the HUD
const hudRows = 1

var (
	backgroundColor = tcell.NewRGBColor(32, 32, 32)
	baseStyle       = tcell.StyleDefault.Background(backgroundColor).Foreground(tcell.ColorWhite)
	aimStyle        = baseStyle.Foreground(tcell.ColorGray)
	hudStyle        = baseStyle.Foreground(tcell.ColorYellow).Bold(true)
)

// hudState is what the status line shows. It is fed by the event bus.
type hudState struct {
	tries     int
	remaining int
	over      bool
}

// TerminalRenderer draws the field onto a tcell screen, scaling world
// coordinates to whatever size the terminal currently has. The top row holds
// a status line.
type TerminalRenderer struct {
	screen      tcell.Screen
	fieldWidth  float64
	fieldHeight float64

	// mu guards the HUD and the screen size captured by the last Clear.
	// Input handlers map mouse cells while the tick goroutine draws.
	mu         sync.Mutex
	cols, rows int
	hud        hudState
}

// NewTerminalRenderer creates a renderer for a field of the given world size
func NewTerminalRenderer(screen tcell.Screen, fieldWidth, fieldHeight float64) *TerminalRenderer {
	r := &TerminalRenderer{
		screen:      screen,
		fieldWidth:  fieldWidth,
		fieldHeight: fieldHeight,
	}
	r.cols, r.rows = screen.Size()
	return r
}

// AttachHUD keeps the status line in step with game events published on bus.
// The returned function detaches it again.
func (r *TerminalRenderer) AttachHUD(bus *event.Bus) (detach func()) {
	subs := []*event.Subscription{
		bus.Subscribe(event.GameStarted, func(e event.Event) {
			ge, ok := e.(*event.GameEvent)
			if !ok {
				return
			}
			r.mu.Lock()
			r.hud = hudState{remaining: ge.Obstacles}
			r.mu.Unlock()
		}),
		bus.Subscribe(event.TriesChanged, func(e event.Event) {
			te, ok := e.(*event.TriesEvent)
			if !ok {
				return
			}
			r.mu.Lock()
			r.hud.tries = te.Tries
			r.mu.Unlock()
		}),
		bus.Subscribe(event.ObstacleCleared, func(event.Event) {
			r.mu.Lock()
			if r.hud.remaining > 0 {
				r.hud.remaining--
			}
			r.mu.Unlock()
		}),
		bus.Subscribe(event.GameCompleted, func(event.Event) {
			r.mu.Lock()
			r.hud.over = true
			r.mu.Unlock()
		}),
	}

	return func() {
		for _, s := range subs {
			s.Cancel()
		}
	}
}

// StatusLine returns the text of the HUD row
func (r *TerminalRenderer) StatusLine() string {
	r.mu.Lock()
	hud := r.hud
	r.mu.Unlock()

	if hud.over {
		return fmt.Sprintf(" Cleared in %d tries! r: restart  q: quit", hud.tries)
	}
	return fmt.Sprintf(" Tries: %d  Obstacles: %d  click/space: shoot  r: restart  q: quit",
		hud.tries, hud.remaining)
}

// size returns the screen size captured by the last Clear
func (r *TerminalRenderer) size() (cols, rows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cols, r.rows
}

// scale returns world units per cell on each axis
func (r *TerminalRenderer) scale() (sx, sy float64) {
	cols, rows := r.size()
	cols = max(cols, 1)
	rows = max(rows-hudRows, 1)
	return r.fieldWidth / float64(cols), r.fieldHeight / float64(rows)
}

// worldToScreen converts world coordinates to a screen cell
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	sx, sy := r.scale()
	return int(math.Floor(pos.X / sx)), int(math.Floor(pos.Y/sy)) + hudRows
}

// ScreenToWorld converts a screen cell to the world position at its centre.
// Mouse coordinates go through here before reaching the game.
func (r *TerminalRenderer) ScreenToWorld(col, row int) physics.Vector2D {
	sx, sy := r.scale()
	return physics.Vector2D{
		X: (float64(col) + 0.5) * sx,
		Y: (float64(row-hudRows) + 0.5) * sy,
	}
}

// clampToField keeps a point within one field size of the visible area so
// line walks stay short.
func (r *TerminalRenderer) clampToField(p physics.Vector2D) physics.Vector2D {
	return physics.Vector2D{
		X: math.Max(-r.fieldWidth, math.Min(p.X, 2*r.fieldWidth)),
		Y: math.Max(-r.fieldHeight, math.Min(p.Y, 2*r.fieldHeight)),
	}
}

func (r *TerminalRenderer) inField(x, y int) bool {
	cols, rows := r.size()
	return x >= 0 && x < cols && y >= hudRows && y < rows
}

func (r *TerminalRenderer) set(x, y int, ch rune, style tcell.Style) {
	if r.inField(x, y) {
		r.screen.SetContent(x, y, ch, nil, style)
	}
}

// Clear implements entity.Renderer
func (r *TerminalRenderer) Clear() {
	cols, rows := r.screen.Size()
	r.mu.Lock()
	r.cols, r.rows = cols, rows
	r.mu.Unlock()

	r.screen.SetStyle(baseStyle)
	r.screen.Fill(' ', baseStyle)
}

// Present implements entity.Renderer
func (r *TerminalRenderer) Present() {
	r.drawText(0, 0, r.StatusLine(), hudStyle)
	r.screen.Show()
}

func (r *TerminalRenderer) drawText(x, y int, text string, style tcell.Style) {
	cols, rows := r.size()
	for i, ch := range []rune(text) {
		if x+i >= 0 && x+i < cols && y >= 0 && y < rows {
			r.screen.SetContent(x+i, y, ch, nil, style)
		}
	}
}

// RenderObstacle implements entity.Renderer. The obstacle is drawn as a ring
// in its own color with the remaining hit count in the middle.
func (r *TerminalRenderer) RenderObstacle(obstacle *entity.Obstacle) {
	c := obstacle.Color
	style := baseStyle.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
	r.drawRing(obstacle.Collider.Center, obstacle.Collider.Radius, 'o', style)

	label := strconv.Itoa(obstacle.HitsRemaining)
	x, y := r.worldToScreen(obstacle.Collider.Center)
	x -= len(label) / 2
	for i, ch := range label {
		r.set(x+i, y, ch, style.Bold(true))
	}
}

// RenderBall implements entity.Renderer
func (r *TerminalRenderer) RenderBall(ball *entity.Ball) {
	r.fillDisc(ball.Body.Position, ball.Body.Radius, '@', baseStyle)
}

// RenderAim implements entity.Renderer with a dotted line from spawn to pointer.
func (r *TerminalRenderer) RenderAim(spawn, pointer physics.Vector2D) {
	x0, y0 := r.worldToScreen(spawn)
	x1, y1 := r.worldToScreen(r.clampToField(pointer))
	forEachLineCell(x0, y0, x1, y1, func(x, y int) {
		r.set(x, y, '.', aimStyle)
	})
	r.set(x1, y1, '+', aimStyle)
}

// drawRing marks the cells the circle's outline passes through. It steps
// by roughly half a cell of arc so no gaps appear at any scale.
func (r *TerminalRenderer) drawRing(center physics.Vector2D, radius float64, ch rune, style tcell.Style) {
	sx, sy := r.scale()
	cell := math.Min(sx, sy)
	steps := int(math.Ceil(2*math.Pi*radius/(cell/2))) + 8
	for i := 0; i < steps; i++ {
		p := center.Add(physics.FromAngle(2*math.Pi*float64(i)/float64(steps), radius))
		x, y := r.worldToScreen(p)
		r.set(x, y, ch, style)
	}
}

// fillDisc marks every cell whose centre lies inside the circle, and always
// the cell holding the centre.
func (r *TerminalRenderer) fillDisc(center physics.Vector2D, radius float64, ch rune, style tcell.Style) {
	minX, minY := r.worldToScreen(center.Sub(physics.Vector2D{X: radius, Y: radius}))
	maxX, maxY := r.worldToScreen(center.Add(physics.Vector2D{X: radius, Y: radius}))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if r.ScreenToWorld(x, y).Distance(center) <= radius {
				r.set(x, y, ch, style)
			}
		}
	}
	cx, cy := r.worldToScreen(center)
	r.set(cx, cy, ch, style)
}

// forEachLineCell walks the cells between two points with Bresenham's algorithm.
func forEachLineCell(x0, y0, x1, y1 int, visit func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	stepX, stepY := 1, 1
	if x0 > x1 {
		stepX = -1
	}
	if y0 > y1 {
		stepY = -1
	}
	e := dx + dy
	for {
		visit(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += stepX
		}
		if e2 <= dx {
			e += dx
			y0 += stepY
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
