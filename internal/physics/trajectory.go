package physics

import (
	"time"

	"github.com/playmatatu/cueassist/internal/geometry"
)

// Role identifies which simulated ball produced a segment.
type Role string

const (
	RoleStriker Role = "striker"
	RoleTarget  Role = "target"
)

// Outcome is how a ball's simulation ended.
type Outcome string

const (
	OutcomeNone   Outcome = ""
	OutcomeWall   Outcome = "wall"   // bounce budget used up on a cushion
	OutcomeBall   Outcome = "ball"   // striker stopped at impact
	OutcomeBudget Outcome = "budget" // step budget exhausted, no collision found
)

// Segment is one straight leg between direction changes.
type Segment struct {
	Start geometry.Vec2 `json:"start"`
	End   geometry.Vec2 `json:"end"`
	Role  Role          `json:"role"`
}

// CollisionEvent records a direction change for the overlay and history.
type CollisionEvent struct {
	Type   string        `json:"type"` // "wall" or "ball"
	Role   Role          `json:"role"`
	Point  geometry.Vec2 `json:"point"`
	Normal geometry.Vec2 `json:"normal,omitempty"`
}

// Trajectory is the output of one simulation run. It is rendered once and discarded.
type Trajectory struct {
	ID             string           `json:"id,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	Table          geometry.Polygon `json:"table,omitempty"`
	Segments       []Segment        `json:"segments"`
	Events         []CollisionEvent `json:"events"`
	WallHits       int              `json:"wall_hits"`
	BallHit        bool             `json:"ball_hit"`
	StrikerOutcome Outcome          `json:"striker_outcome"`
	TargetOutcome  Outcome          `json:"target_outcome"`
	// Reason is set when no simulation ran (no table, stick or ball).
	Reason string `json:"reason,omitempty"`
}

// Empty reports whether nothing is to be drawn.
func (t Trajectory) Empty() bool {
	return len(t.Segments) == 0
}

func (t *Trajectory) addSegment(role Role, start, end geometry.Vec2) {
	t.Segments = append(t.Segments, Segment{Start: start, End: end, Role: role})
}

func (t *Trajectory) setOutcome(role Role, o Outcome) {
	if role == RoleStriker {
		t.StrikerOutcome = o
	} else {
		t.TargetOutcome = o
	}
}
