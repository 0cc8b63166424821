// pkg/layout/scatter.go
package layout

import (
	"math"

	"github.com/opd-ai/go-pegshot/pkg/entity"
	"github.com/opd-ai/go-pegshot/pkg/physics"
)

// scatterRadiusSpread is how far above MinRadius a scattered radius may go
const scatterRadiusSpread = 50

// scatter draws every obstacle once and pushes each new one apart from the
// earlier ones it overlaps. Each pair is separated a single time, so chains of
// three or more overlapping circles can keep some residual overlap, and the
// spawn clearance is not enforced.
func (p *Planner) scatter() Result {
	o := p.opts
	result := Result{
		Requested: o.Count,
		Obstacles: make([]Placement, 0, max(o.Count, 0)),
	}

	maxR := math.Min(o.MinRadius+scatterRadiusSpread, o.MaxRadius)
	if maxR < o.MinRadius {
		maxR = o.MinRadius
	}

	for i := 0; i < o.Count; i++ {
		result.Attempts++

		placement := Placement{Color: entity.RandomColor(p.rng)}
		r := o.MinRadius + p.rng.Float64()*(maxR-o.MinRadius)
		placement.Circle = physics.Circle{
			Center: physics.Vector2D{
				X: r + p.rng.Float64()*math.Max(o.FieldWidth-2*r, 0),
				Y: o.TopMargin + r + p.rng.Float64()*math.Max(o.FieldHeight-2*r-o.TopMargin, 0),
			},
			Radius: r,
		}

		result.Obstacles = append(result.Obstacles, placement)
		newest := &result.Obstacles[len(result.Obstacles)-1].Circle
		for j := 0; j < len(result.Obstacles)-1; j++ {
			physics.Separate(&result.Obstacles[j].Circle, newest)
		}
	}

	result.Placed = len(result.Obstacles)
	return result
}
