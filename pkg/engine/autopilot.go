// pkg/engine/autopilot.go
package engine

import "github.com/opd-ai/go-pegshot/pkg/physics"

// ChooseTarget picks a launch target for unattended play: the centre of the
// live obstacle with the most hits remaining, the earliest one on ties. It
// returns false when the game is over, the ball is not shootable or nothing is
// left to hit.
func ChooseTarget(state GameState) (physics.Vector2D, bool) {
	if state.Over || !state.Ball.Shootable {
		return physics.Vector2D{}, false
	}

	best := -1
	for i, o := range state.Obstacles {
		if o.HitsRemaining <= 0 {
			continue
		}
		if best < 0 || o.HitsRemaining > state.Obstacles[best].HitsRemaining {
			best = i
		}
	}
	if best < 0 {
		return physics.Vector2D{}, false
	}
	return state.Obstacles[best].Position, true
}
