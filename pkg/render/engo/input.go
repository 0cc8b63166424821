// pkg/render/engo/input.go
package engo

import (
	"context"
	"errors"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-pegshot/pkg/logging"
	"github.com/opd-ai/go-pegshot/pkg/physics"
	"github.com/opd-ai/go-pegshot/pkg/render"
	"github.com/opd-ai/go-pegshot/pkg/validation"
)

// Button names registered by SetupInputBindings
const (
	ButtonShoot   = "shoot"
	ButtonRestart = "restart"
	ButtonQuit    = "quit"
)

// InputSystem turns engo mouse and key state into Controller commands: the
// pointer aims, a left click or space shoots, R restarts and Escape quits.
type InputSystem struct {
	ctx        context.Context
	controller render.Controller
	logger     *logging.Logger
	exit       func()
}

// NewInputSystem creates a new input system
func NewInputSystem(ctx context.Context, controller render.Controller, logger *logging.Logger) *InputSystem {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &InputSystem{
		ctx:        ctx,
		controller: controller,
		logger:     logger.Component("input"),
		exit:       engo.Exit,
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update reads this frame's input
func (is *InputSystem) Update(dt float32) {
	m := engo.Input.Mouse
	is.handleMouse(m.X, m.Y, m.Action, m.Button)

	is.handleButtons(
		engo.Input.Button(ButtonShoot).JustPressed(),
		engo.Input.Button(ButtonRestart).JustPressed(),
		engo.Input.Button(ButtonQuit).JustPressed(),
	)
}

func (is *InputSystem) handleMouse(x, y float32, action engo.Action, button engo.MouseButton) {
	pointer := physics.Vector2D{X: float64(x), Y: float64(y)}
	is.controller.Aim(pointer)
	if action == engo.Press && button == engo.MouseButtonLeft {
		is.controller.Launch(pointer)
	}
}

func (is *InputSystem) handleButtons(shoot, restart, quit bool) {
	if shoot {
		is.controller.Launch(is.controller.Pointer())
	}
	if restart {
		err := is.controller.Restart(is.ctx)
		switch {
		case err == nil:
		case errors.Is(err, validation.ErrRateLimited):
			is.logger.Debug(is.ctx, "restart throttled")
		default:
			is.logger.Error(is.ctx, "restart failed", err)
		}
	}
	if quit {
		is.exit()
	}
}

// SetupInputBindings registers the key bindings for the game
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonShoot, engo.KeySpace)
	engo.Input.RegisterButton(ButtonRestart, engo.KeyR)
	engo.Input.RegisterButton(ButtonQuit, engo.KeyEscape)
}
