// pkg/render/renderer.go
package render

import (
	"context"
	"sync/atomic"

	"github.com/opd-ai/go-pegshot/pkg/entity"
	"github.com/opd-ai/go-pegshot/pkg/logging"
	"github.com/opd-ai/go-pegshot/pkg/physics"
)

// NullRenderer is a headless implementation of entity.Renderer. It draws
// nothing and logs every call at debug level.
type NullRenderer struct {
	logger *logging.Logger
	frames atomic.Uint64
}

// NewNullRenderer creates a new NullRenderer with structured logging. A nil
// logger logs to stdout.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{logger: logger.Component("renderer")}
}

// Frames returns the number of frames presented so far
func (d *NullRenderer) Frames() uint64 {
	return d.frames.Load()
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	frame := d.frames.Add(1)
	d.logger.Debug(context.Background(), "Present called", "frame", frame)
}

// RenderObstacle implements entity.Renderer.
func (d *NullRenderer) RenderObstacle(obstacle *entity.Obstacle) {
	ctx := context.Background()
	if obstacle == nil {
		d.logger.Debug(ctx, "RenderObstacle called with nil obstacle")
		return
	}
	d.logger.Debug(ctx, "RenderObstacle called",
		"obstacle_id", uint64(obstacle.ID),
		"x", obstacle.Collider.Center.X,
		"y", obstacle.Collider.Center.Y,
		"radius", obstacle.Collider.Radius,
		"hits_remaining", obstacle.HitsRemaining,
	)
}

// RenderBall implements entity.Renderer.
func (d *NullRenderer) RenderBall(ball *entity.Ball) {
	ctx := context.Background()
	if ball == nil {
		d.logger.Debug(ctx, "RenderBall called with nil ball")
		return
	}
	d.logger.Debug(ctx, "RenderBall called",
		"ball_id", uint64(ball.ID),
		"x", ball.Body.Position.X,
		"y", ball.Body.Position.Y,
		"phase", ball.Phase.String(),
	)
}

// RenderAim implements entity.Renderer.
func (d *NullRenderer) RenderAim(spawn, pointer physics.Vector2D) {
	d.logger.Debug(context.Background(), "RenderAim called",
		"from_x", spawn.X,
		"from_y", spawn.Y,
		"to_x", pointer.X,
		"to_y", pointer.Y,
	)
}

// NullRendererInstance is a global instance of NullRenderer for convenience.
var NullRendererInstance entity.Renderer = NewNullRenderer(logging.NewNopLogger())
