// pkg/physics/quadtree.go
package physics

// minQuadSize stops subdivision so coincident points cannot recurse forever.
const minQuadSize = 1e-3

// Rect represents a rectangular area
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// Contains reports whether point lies in the half-open rectangle.
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

// QuadTree indexes points with an integer payload for spatial partitioning.
type QuadTree struct {
	Boundary  Rect
	Capacity  int
	Points    []Vector2D
	Items     []int
	Divided   bool
	NorthWest *QuadTree
	NorthEast *QuadTree
	SouthWest *QuadTree
	SouthEast *QuadTree
}

// NewQuadTree creates a new quad tree with the given boundary and capacity
func NewQuadTree(boundary Rect, capacity int) *QuadTree {
	if capacity < 1 {
		capacity = 1
	}
	return &QuadTree{
		Boundary: boundary,
		Capacity: capacity,
		Points:   make([]Vector2D, 0, capacity),
		Items:    make([]int, 0, capacity),
	}
}

// Insert adds item at point. It returns false when point is outside the tree.
func (qt *QuadTree) Insert(point Vector2D, item int) bool {
	if !qt.Boundary.Contains(point) {
		return false
	}

	full := len(qt.Points) >= qt.Capacity
	tooSmall := qt.Boundary.Width < minQuadSize || qt.Boundary.Height < minQuadSize
	if !qt.Divided && (!full || tooSmall) {
		qt.Points = append(qt.Points, point)
		qt.Items = append(qt.Items, item)
		return true
	}

	if !qt.Divided {
		qt.Subdivide()
	}

	return qt.NorthWest.Insert(point, item) ||
		qt.NorthEast.Insert(point, item) ||
		qt.SouthWest.Insert(point, item) ||
		qt.SouthEast.Insert(point, item)
}

// Subdivide splits the quadtree into four quadrants
func (qt *QuadTree) Subdivide() {
	x := qt.Boundary.Center.X
	y := qt.Boundary.Center.Y
	w := qt.Boundary.Width / 2
	h := qt.Boundary.Height / 2

	nw := Rect{Center: Vector2D{X: x - w/2, Y: y + h/2}, Width: w, Height: h}
	ne := Rect{Center: Vector2D{X: x + w/2, Y: y + h/2}, Width: w, Height: h}
	sw := Rect{Center: Vector2D{X: x - w/2, Y: y - h/2}, Width: w, Height: h}
	se := Rect{Center: Vector2D{X: x + w/2, Y: y - h/2}, Width: w, Height: h}

	qt.NorthWest = NewQuadTree(nw, qt.Capacity)
	qt.NorthEast = NewQuadTree(ne, qt.Capacity)
	qt.SouthWest = NewQuadTree(sw, qt.Capacity)
	qt.SouthEast = NewQuadTree(se, qt.Capacity)
	qt.Divided = true
}

// QueryRadius returns the items within radius of center, tested against the
// bounding square first and then by exact distance.
func (qt *QuadTree) QueryRadius(center Vector2D, radius float64) []int {
	area := Rect{Center: center, Width: 2 * radius, Height: 2 * radius}
	candidates := qt.queryPoints(area, nil)
	found := make([]int, 0, len(candidates))
	for _, c := range candidates {
		if c.point.Distance(center) <= radius {
			found = append(found, c.item)
		}
	}
	return found
}

type indexedPoint struct {
	point Vector2D
	item  int
}

func (qt *QuadTree) queryPoints(area Rect, found []indexedPoint) []indexedPoint {
	// If area doesn't intersect boundary, return what we have
	if !qt.intersects(area) {
		return found
	}

	for i, point := range qt.Points {
		if area.Contains(point) {
			found = append(found, indexedPoint{point: point, item: qt.Items[i]})
		}
	}

	if !qt.Divided {
		return found
	}

	found = qt.NorthWest.queryPoints(area, found)
	found = qt.NorthEast.queryPoints(area, found)
	found = qt.SouthWest.queryPoints(area, found)
	found = qt.SouthEast.queryPoints(area, found)
	return found
}

func (qt *QuadTree) intersects(area Rect) bool {
	return !(area.Center.X-area.Width/2 > qt.Boundary.Center.X+qt.Boundary.Width/2 ||
		area.Center.X+area.Width/2 < qt.Boundary.Center.X-qt.Boundary.Width/2 ||
		area.Center.Y-area.Height/2 > qt.Boundary.Center.Y+qt.Boundary.Height/2 ||
		area.Center.Y+area.Height/2 < qt.Boundary.Center.Y-qt.Boundary.Height/2)
}
