package physics

import "github.com/playmatatu/cueassist/internal/geometry"

// MovingBall is a ball being simulated for one cycle. Direction is the per-tick
// displacement, not a scaled velocity.
type MovingBall struct {
	Position  geometry.Vec2 `json:"position"`
	Direction geometry.Vec2 `json:"direction"`
	Radius    float64       `json:"radius"`
}

// Mass is the radius² mass proxy.
func (b MovingBall) Mass() float64 {
	return b.Radius * b.Radius
}

// CirclesOverlap reports contact, with ContactTolerance of slack.
func CirclesOverlap(a, b MovingBall) bool {
	return a.Position.DistanceTo(b.Position) <= a.Radius+b.Radius+ContactTolerance
}

// ElasticTransfer returns the struck ball's outgoing direction after being hit by
// striker, using the two-body elastic law along the line of centres with radius² as
// mass. Only the struck ball is resolved; the striker's own rebound is left undefined.
func ElasticTransfer(struck, striker MovingBall) geometry.Vec2 {
	r := struck.Position.Minus(striker.Position)
	d := r.MagnitudeSquared()
	if d == 0 {
		return struck.Direction
	}
	m1, m2 := striker.Mass(), struck.Mass()
	total := m1 + m2
	if total == 0 {
		return struck.Direction
	}
	rel := struck.Direction.Minus(striker.Direction)
	return struck.Direction.Minus(r.Times(2 * m1 / total * rel.Dot(r) / d))
}
