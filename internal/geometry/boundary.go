package geometry

import (
	"errors"
	"math"
)

// DefaultTolerance is the slack allowed on each half-plane test.
const DefaultTolerance = 1e-12

// minEdgeLength filters repeated hull vertices before building constraints.
const minEdgeLength = 1e-9

// ErrDegenerateBoundary is returned when fewer than 3 non-collinear points remain.
var ErrDegenerateBoundary = errors.New("degenerate table boundary")

// HalfPlane is one table edge: a point p satisfies it when Normal·p + Offset < tolerance.
type HalfPlane struct {
	Normal Vec2    `json:"normal"`
	Offset float64 `json:"offset"`
}

// Eval returns the signed distance of p past the edge (positive = outside).
func (h HalfPlane) Eval(p Vec2) float64 {
	return h.Normal.Dot(p) + h.Offset
}

// Boundary is a convex region expressed as an intersection of half-planes.
type Boundary struct {
	Constraints []HalfPlane `json:"constraints"`
}

// NewBoundary derives one outward-facing constraint per polygon edge. The polygon must
// already be convex; either winding is accepted. Constraint order follows the edges,
// starting with the edge from poly[0] to poly[1].
func NewBoundary(poly Polygon) (Boundary, error) {
	pts := dedupe(poly)
	if len(pts) < 3 {
		return Boundary{}, ErrDegenerateBoundary
	}
	area := signedArea(pts)
	if math.Abs(area) < minEdgeLength {
		return Boundary{}, ErrDegenerateBoundary
	}

	constraints := make([]HalfPlane, 0, len(pts))
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		edge := b.Minus(a)
		// outward side is on the right of a counter-clockwise edge
		n := edge.RightNormal().Normalize()
		if area < 0 {
			n = n.Invert()
		}
		constraints = append(constraints, HalfPlane{Normal: n, Offset: -n.Dot(a)})
	}
	return Boundary{Constraints: constraints}, nil
}

// PointOutside reports the normal of the first constraint p violates, in definition
// order. Near a corner this picks the earlier edge.
func (b Boundary) PointOutside(p Vec2, tolerance float64) (Vec2, bool) {
	for _, c := range b.Constraints {
		if c.Eval(p) >= tolerance {
			return c.Normal, true
		}
	}
	return Vec2{}, false
}

// Contains is the negation of PointOutside at DefaultTolerance.
func (b Boundary) Contains(p Vec2) bool {
	_, out := b.PointOutside(p, DefaultTolerance)
	return !out
}

func dedupe(poly Polygon) []Vec2 {
	out := make([]Vec2, 0, len(poly))
	for _, p := range poly {
		if len(out) > 0 && out[len(out)-1].DistanceTo(p) < minEdgeLength {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0].DistanceTo(out[len(out)-1]) < minEdgeLength {
		out = out[:len(out)-1]
	}
	return out
}

func signedArea(pts []Vec2) float64 {
	var sum float64
	for i := range pts {
		sum += pts[i].Cross(pts[(i+1)%len(pts)])
	}
	return sum / 2
}
