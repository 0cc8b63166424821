// pkg/render/terminal_input.go
package render

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-pegshot/pkg/logging"
	"github.com/opd-ai/go-pegshot/pkg/physics"
	"github.com/opd-ai/go-pegshot/pkg/validation"
)

// Controller receives player commands. engine.Session implements it; a
// refused restart should wrap validation.ErrRateLimited.
type Controller interface {
	Aim(pointer physics.Vector2D)
	Pointer() physics.Vector2D
	Launch(target physics.Vector2D) bool
	Restart(ctx context.Context) error
}

// InputHandler turns tcell events into Controller commands. Mouse movement
// aims, a left button press launches, space launches toward the current
// aim, arrow keys nudge the aim by one cell, r restarts and q or Esc quits.
type InputHandler struct {
	renderer   *TerminalRenderer
	controller Controller
	logger     *logging.Logger
	buttonDown bool
}

// NewInputHandler creates an input handler
func NewInputHandler(renderer *TerminalRenderer, controller Controller, logger *logging.Logger) *InputHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &InputHandler{
		renderer:   renderer,
		controller: controller,
		logger:     logger.Component("input"),
	}
}

// HandleEvent applies ev and reports whether the player asked to quit
func (h *InputHandler) HandleEvent(ctx context.Context, ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		h.handleMouse(ev)
	case *tcell.EventKey:
		return h.handleKey(ctx, ev)
	case *tcell.EventResize:
		h.renderer.screen.Sync()
	}
	return false
}

func (h *InputHandler) handleMouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	pointer := h.renderer.ScreenToWorld(col, row)
	h.controller.Aim(pointer)

	pressed := ev.Buttons()&tcell.Button1 != 0
	if pressed && !h.buttonDown {
		h.controller.Launch(pointer)
	}
	h.buttonDown = pressed
}

func (h *InputHandler) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		h.nudge(0, -1)
	case tcell.KeyDown:
		h.nudge(0, 1)
	case tcell.KeyLeft:
		h.nudge(-1, 0)
	case tcell.KeyRight:
		h.nudge(1, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case ' ':
			h.controller.Launch(h.controller.Pointer())
		case 'r', 'R':
			h.restart(ctx)
		}
	}
	return false
}

// nudge moves the aim by whole cells
func (h *InputHandler) nudge(dx, dy int) {
	sx, sy := h.renderer.scale()
	p := h.controller.Pointer()
	h.controller.Aim(physics.Vector2D{X: p.X + float64(dx)*sx, Y: p.Y + float64(dy)*sy})
}

func (h *InputHandler) restart(ctx context.Context) {
	err := h.controller.Restart(ctx)
	switch {
	case err == nil:
	case errors.Is(err, validation.ErrRateLimited):
		h.logger.Debug(ctx, "restart throttled")
	default:
		h.logger.Error(ctx, "restart failed", err)
	}
}
