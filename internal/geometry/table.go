package geometry

import (
	"fmt"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
)

// Polygon is an ordered ring of table boundary points (not closed: last != first).
type Polygon []Vec2

// Centroid is the vertex average, good enough to pick the stick tip.
func (p Polygon) Centroid() Vec2 {
	if len(p) == 0 {
		return Vec2{}
	}
	var sum Vec2
	for _, v := range p {
		sum = sum.Plus(v)
	}
	return sum.Times(1 / float64(len(p)))
}

// Table is an immutable snapshot of the detected playing surface. A new Table replaces
// the old one wholesale on every re-detection.
type Table struct {
	Polygon  Polygon  `json:"polygon"`
	Boundary Boundary `json:"boundary"`
	Center   Vec2     `json:"center"`
}

// NewTable builds the convex hull of the detected contour and its half-plane boundary.
func NewTable(points []Vec2) (*Table, error) {
	if len(points) < 3 {
		return nil, ErrDegenerateBoundary
	}

	hull, err := ConvexHull(points)
	if err != nil {
		return nil, err
	}
	boundary, err := NewBoundary(hull)
	if err != nil {
		return nil, err
	}

	return &Table{
		Polygon:  hull,
		Boundary: boundary,
		Center:   hull.Centroid(),
	}, nil
}

// ConvexHull returns the counter-clockwise hull of points, without the closing vertex.
func ConvexHull(points []Vec2) (Polygon, error) {
	coords := make([]float64, 0, 2*len(points))
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, fmt.Errorf("contour point %v is not finite: %w", p, ErrDegenerateBoundary)
		}
		coords = append(coords, p.X, p.Y)
	}
	ls, err := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	if err != nil {
		return nil, fmt.Errorf("contour: %v: %w", err, ErrDegenerateBoundary)
	}
	hull := ls.AsGeometry().ConvexHull()

	poly, ok := hull.AsPolygon()
	if !ok {
		return nil, fmt.Errorf("hull is %s: %w", hull.Type(), ErrDegenerateBoundary)
	}
	ring := poly.ExteriorRing().Coordinates()
	n := ring.Length()
	if n > 1 && ring.GetXY(0) == ring.GetXY(n-1) {
		n--
	}
	if n < 3 {
		return nil, ErrDegenerateBoundary
	}

	out := make(Polygon, n)
	for i := 0; i < n; i++ {
		xy := ring.GetXY(i)
		out[i] = Vec2{X: xy.X, Y: xy.Y}
	}
	if signedArea(out) < 0 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}
