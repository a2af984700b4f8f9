package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TrajectoryRecord is a stored trajectory. Geometry columns hold the JSON encoding of
// the physics types.
type TrajectoryRecord struct {
	ID             string         `db:"id" json:"id"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	SegmentCount   int            `db:"segment_count" json:"segment_count"`
	WallHits       int            `db:"wall_hits" json:"wall_hits"`
	BallHit        bool           `db:"ball_hit" json:"ball_hit"`
	StrikerOutcome string         `db:"striker_outcome" json:"striker_outcome"`
	TargetOutcome  string         `db:"target_outcome" json:"target_outcome"`
	Segments       types.JSONText `db:"segments" json:"segments"`
	Events         types.JSONText `db:"events" json:"events"`
	TablePolygon   types.JSONText `db:"table_polygon" json:"table,omitempty"`
}
