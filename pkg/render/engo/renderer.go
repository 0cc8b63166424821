// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-pegshot/pkg/entity"
	"github.com/opd-ai/go-pegshot/pkg/physics"
)

// Background is the field color
var Background = color.RGBA{R: 32, G: 32, B: 32, A: 255}

const (
	aimThickness = 2
	ballZ        = 2
	aimZ         = 1
)

// renderSystem is the part of common.RenderSystem the renderer needs
type renderSystem interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

// sprite is one retained shape in the render system
type sprite struct {
	basic  ecs.BasicEntity
	render common.RenderComponent
	space  common.SpaceComponent
}

// EngoRenderer implements entity.Renderer using the Engo game engine. World
// units map one to one onto window pixels, and engo's y axis points down like
// the field's. Shapes are retained between frames: Clear marks every obstacle
// unseen and Present drops the ones that were not drawn again.
type EngoRenderer struct {
	system renderSystem

	obstacles map[entity.ID]*sprite
	seen      map[entity.ID]bool
	ball      *sprite
	aim       *sprite
}

// NewEngoRenderer creates a new Engo-based renderer. Nothing is drawn until a
// render system is attached.
func NewEngoRenderer() *EngoRenderer {
	return &EngoRenderer{
		obstacles: make(map[entity.ID]*sprite),
		seen:      make(map[entity.ID]bool),
	}
}

// Attach sets the render system shapes are added to. Shapes retained for a
// previous system are forgotten.
func (r *EngoRenderer) Attach(system renderSystem) {
	r.system = system
	r.obstacles = make(map[entity.ID]*sprite)
	r.seen = make(map[entity.ID]bool)
	r.ball = nil
	r.aim = nil
}

func (r *EngoRenderer) newSprite(drawable common.Drawable, c color.Color, z float32) *sprite {
	s := &sprite{
		basic: ecs.NewBasic(),
		render: common.RenderComponent{
			Drawable: drawable,
			Color:    c,
		},
	}
	s.render.SetZIndex(z)
	r.system.Add(&s.basic, &s.render, &s.space)
	return s
}

// placeCircle sets a circle's bounding box; engo positions shapes by their top-left corner.
func placeCircle(space *common.SpaceComponent, center physics.Vector2D, radius float64) {
	space.Position = engo.Point{X: float32(center.X - radius), Y: float32(center.Y - radius)}
	space.Width = float32(2 * radius)
	space.Height = float32(2 * radius)
}

// Clear implements entity.Renderer
func (r *EngoRenderer) Clear() {
	clear(r.seen)
	if r.aim != nil {
		r.aim.render.Hidden = true
	}
}

// Present implements entity.Renderer
func (r *EngoRenderer) Present() {
	if r.system == nil {
		return
	}
	for id, s := range r.obstacles {
		if !r.seen[id] {
			r.system.Remove(s.basic)
			delete(r.obstacles, id)
		}
	}
}

// RenderObstacle implements entity.Renderer. The fill fades from opaque
// toward the background as the obstacle wears down.
func (r *EngoRenderer) RenderObstacle(obstacle *entity.Obstacle) {
	if r.system == nil {
		return
	}
	r.seen[obstacle.ID] = true

	s, ok := r.obstacles[obstacle.ID]
	if !ok {
		s = r.newSprite(common.Circle{BorderWidth: 2, BorderColor: obstacle.Color.RGBA()}, nil, 0)
		r.obstacles[obstacle.ID] = s
	}
	placeCircle(&s.space, obstacle.Collider.Center, obstacle.Collider.Radius)
	s.render.Color = wornColor(obstacle.Color, obstacle.HitsRemaining)
}

// wornColor scales alpha with the hits left, keeping a faint fill for the last hit.
func wornColor(c entity.Color, hits int) color.NRGBA {
	fraction := math.Min(float64(hits)/entity.DefaultHitPoints, 1)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(55 + 200*fraction)}
}

// RenderBall implements entity.Renderer
func (r *EngoRenderer) RenderBall(ball *entity.Ball) {
	if r.system == nil {
		return
	}
	if r.ball == nil {
		r.ball = r.newSprite(common.Circle{}, color.White, ballZ)
	}
	placeCircle(&r.ball.space, ball.Body.Position, ball.Body.Radius)
}

// RenderAim implements entity.Renderer as a thin bar rotated about the spawn point.
func (r *EngoRenderer) RenderAim(spawn, pointer physics.Vector2D) {
	if r.system == nil {
		return
	}
	if r.aim == nil {
		r.aim = r.newSprite(common.Rectangle{}, color.Gray{Y: 160}, aimZ)
	}
	delta := pointer.Sub(spawn)
	r.aim.space.Position = engo.Point{X: float32(spawn.X), Y: float32(spawn.Y)}
	r.aim.space.Width = float32(delta.Length())
	r.aim.space.Height = aimThickness
	r.aim.space.Rotation = float32(delta.Angle() * 180 / math.Pi)
	r.aim.render.Hidden = false
}
