// pkg/layout/planner.go

// Package layout places the circular obstacles of a new game.
//
// The default strategy is rejection sampling: each obstacle gets up to
// MaxAttempts random draws and the first draw that clears every earlier
// obstacle and the ball's spawn point is kept. Nothing already placed is ever
// moved. When an obstacle runs out of attempts, planning stops and the partial
// layout is returned.
package layout

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/opd-ai/go-pegshot/pkg/entity"
	"github.com/opd-ai/go-pegshot/pkg/event"
	"github.com/opd-ai/go-pegshot/pkg/logging"
	"github.com/opd-ai/go-pegshot/pkg/physics"
)

// Placement strategies
const (
	StrategyRejection = "rejection"
	StrategyScatter   = "scatter"
)

// quadCapacity is the number of centers a quadtree node holds before splitting
const quadCapacity = 4

// Options controls a layout
type Options struct {
	FieldWidth  float64
	FieldHeight float64
	Count       int
	MinRadius   float64
	MaxRadius   float64
	Padding     float64
	// TopMargin keeps the launch lane under the spawn point free.
	TopMargin   float64
	MaxAttempts int
	Strategy    string
	Spawn       physics.Vector2D
	BallRadius  float64
}

// Placement is one obstacle of a layout
type Placement struct {
	Circle physics.Circle
	Color  entity.Color
}

// Result is a finished layout
type Result struct {
	Obstacles []Placement
	Requested int
	Placed    int
	// Attempts counts random draws across all obstacles.
	Attempts  int
	Exhausted bool
}

// Planner produces obstacle layouts
type Planner struct {
	opts   Options
	rng    *rand.Rand
	logger *logging.Logger
	bus    *event.Bus
}

// Option configures a Planner
type Option func(*Planner)

// WithLogger sets the logger used for the exhaustion warning
func WithLogger(logger *logging.Logger) Option {
	return func(p *Planner) { p.logger = logger.Component("layout") }
}

// WithEventBus publishes placement_exhausted on bus
func WithEventBus(bus *event.Bus) Option {
	return func(p *Planner) { p.bus = bus }
}

// NewRand returns a PCG generator for seed. Seed 0 picks a time-based seed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewPlanner creates a planner drawing from rng
func NewPlanner(opts Options, rng *rand.Rand, options ...Option) *Planner {
	p := &Planner{
		opts:   opts,
		rng:    rng,
		logger: logging.NewNopLogger(),
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// DerivedCap is the largest radius that keeps Count obstacles feasible across
// the field width: (W - 2·MinRadius) / (2·sqrt(Count)).
func (p *Planner) DerivedCap() float64 {
	n := p.opts.Count
	if n < 1 {
		n = 1
	}
	return (p.opts.FieldWidth - 2*p.opts.MinRadius) / (2 * math.Sqrt(float64(n)))
}

// RadiusRange returns the interval rejection sampling draws radii from. The
// range collapses to MinRadius when the cap is smaller.
func (p *Planner) RadiusRange() (lo, hi float64) {
	lo = p.opts.MinRadius
	hi = math.Min(p.opts.MaxRadius, p.DerivedCap())
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Plan produces a layout using the configured strategy
func (p *Planner) Plan(ctx context.Context) Result {
	var result Result
	switch p.opts.Strategy {
	case StrategyScatter:
		result = p.scatter()
	default:
		result = p.reject()
	}

	if result.Exhausted {
		p.logger.Warn(ctx, "obstacle placement exhausted",
			"requested", result.Requested,
			"placed", result.Placed,
			"attempts", result.Attempts,
			"max_attempts", p.opts.MaxAttempts,
		)
		if p.bus != nil {
			p.bus.Publish(event.NewPlacementEvent(p, result.Requested, result.Placed, result.Attempts))
		}
	} else {
		p.logger.Debug(ctx, "obstacles placed",
			"strategy", p.strategyName(),
			"placed", result.Placed,
			"attempts", result.Attempts,
		)
	}

	return result
}

func (p *Planner) strategyName() string {
	if p.opts.Strategy == StrategyScatter {
		return StrategyScatter
	}
	return StrategyRejection
}

func (p *Planner) reject() Result {
	o := p.opts
	result := Result{
		Requested: o.Count,
		Obstacles: make([]Placement, 0, max(o.Count, 0)),
	}

	lo, hi := p.RadiusRange()
	index := newNeighbourIndex(physics.Rect{
		Center: physics.Vector2D{X: o.FieldWidth / 2, Y: o.FieldHeight / 2},
		Width:  o.FieldWidth + 2,
		Height: o.FieldHeight + 2,
	})

	for i := 0; i < o.Count; i++ {
		placed := false
		for attempt := 0; attempt < o.MaxAttempts; attempt++ {
			result.Attempts++

			r := lo + p.rng.Float64()*(hi-lo)
			xMin, xMax := r, o.FieldWidth-r
			yMin, yMax := o.TopMargin+r, o.FieldHeight-r
			if xMax < xMin || yMax < yMin {
				continue
			}
			center := physics.Vector2D{
				X: xMin + p.rng.Float64()*(xMax-xMin),
				Y: yMin + p.rng.Float64()*(yMax-yMin),
			}

			if !p.clearsSpawn(center, r) || !p.clearsNeighbours(index, result.Obstacles, center, r, hi) {
				continue
			}

			index.add(center, len(result.Obstacles))
			result.Obstacles = append(result.Obstacles, Placement{
				Circle: physics.Circle{Center: center, Radius: r},
				Color:  entity.RandomColor(p.rng),
			})
			placed = true
			break
		}

		if !placed {
			result.Exhausted = true
			break
		}
	}

	result.Placed = len(result.Obstacles)
	return result
}

func (p *Planner) clearsSpawn(center physics.Vector2D, r float64) bool {
	return center.Distance(p.opts.Spawn) >= r+2*p.opts.BallRadius
}

// clearsNeighbours checks the candidate against every placed circle near
// enough to matter. maxR bounds the radius of anything already placed.
func (p *Planner) clearsNeighbours(index *neighbourIndex, placed []Placement, center physics.Vector2D, r, maxR float64) bool {
	reach := r + maxR + p.opts.Padding
	for _, idx := range index.near(center, reach) {
		other := placed[idx].Circle
		if center.Distance(other.Center) < r+other.Radius+p.opts.Padding {
			return false
		}
	}
	return true
}

// neighbourIndex finds placed obstacles near a candidate. Centres the
// quadtree refuses are kept in a list that every lookup scans, so no placed
// obstacle ever drops out of the overlap check.
type neighbourIndex struct {
	tree  *physics.QuadTree
	stray []int
}

func newNeighbourIndex(bounds physics.Rect) *neighbourIndex {
	return &neighbourIndex{tree: physics.NewQuadTree(bounds, quadCapacity)}
}

func (n *neighbourIndex) add(center physics.Vector2D, idx int) {
	if !n.tree.Insert(center, idx) {
		n.stray = append(n.stray, idx)
	}
}

// near returns candidates within radius of center plus every stray entry.
func (n *neighbourIndex) near(center physics.Vector2D, radius float64) []int {
	return append(n.tree.QueryRadius(center, radius), n.stray...)
}
