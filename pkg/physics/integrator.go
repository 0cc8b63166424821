// pkg/physics/integrator.go
package physics

// Environment holds the per-game physical constants. It is read once when a game
// starts and passed explicitly, so independent simulations never share state.
type Environment struct {
	Gravity     float64 // added to velocity.Y every tick
	Restitution float64 // bounce coefficient in [0, 1]
}

// Field describes the playable rectangle. Y grows downward.
type Field struct {
	Width       float64
	Height      float64
	BottomLimit float64 // a ball whose center passes this has left the field
}

// StepBall advances body by one tick: position += velocity, then velocity.Y +=
// gravity, then reflection off the side walls and the top wall. There is no
// bottom wall; exited reports whether the ball dropped past field.BottomLimit.
func StepBall(body *Kinematic, env Environment, field Field) (exited bool) {
	body.Position = body.Position.Add(body.Velocity)
	body.Velocity.Y += env.Gravity

	reflectWalls(body, env.Restitution, field.Width)

	return body.Position.Y > field.BottomLimit
}

func reflectWalls(body *Kinematic, restitution, width float64) {
	r := body.Radius

	if body.Position.X > width-r || body.Position.X < r {
		if body.Position.X > width-r {
			body.Position.X = width - r
		} else {
			body.Position.X = r
		}
		body.Velocity.X = -body.Velocity.X * restitution
	}

	if body.Position.Y < r {
		body.Position.Y = r
		body.Velocity.Y = -body.Velocity.Y * restitution
	}
}
