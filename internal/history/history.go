// Package history stores rendered trajectories in Postgres.
package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/playmatatu/cueassist/internal/models"
	"github.com/playmatatu/cueassist/internal/physics"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Render saves t. Trajectories with nothing to draw are not kept.
func (s *Store) Render(ctx context.Context, t physics.Trajectory) error {
	if t.Empty() || t.ID == "" {
		return nil
	}
	rec, err := FromTrajectory(t)
	if err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO trajectories (id, created_at, segment_count, wall_hits, ball_hit,
			striker_outcome, target_outcome, segments, events, table_polygon)
		VALUES (:id, :created_at, :segment_count, :wall_hits, :ball_hit,
			:striker_outcome, :target_outcome, :segments, :events, :table_polygon)
		ON CONFLICT (id) DO NOTHING`, rec)
	if err != nil {
		return fmt.Errorf("insert trajectory %s: %w", t.ID, err)
	}
	return nil
}

// List returns the newest records first.
func (s *Store) List(ctx context.Context, limit int) ([]models.TrajectoryRecord, error) {
	limit = ClampLimit(limit)
	records := []models.TrajectoryRecord{}
	err := s.db.SelectContext(ctx, &records, `
		SELECT id, created_at, segment_count, wall_hits, ball_hit, striker_outcome,
			target_outcome, segments, events, table_polygon
		FROM trajectories
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list trajectories: %w", err)
	}
	return records, nil
}

func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

// FromTrajectory flattens t into its row form.
func FromTrajectory(t physics.Trajectory) (models.TrajectoryRecord, error) {
	segments, err := json.Marshal(t.Segments)
	if err != nil {
		return models.TrajectoryRecord{}, err
	}
	events := []byte("[]")
	if len(t.Events) > 0 {
		if events, err = json.Marshal(t.Events); err != nil {
			return models.TrajectoryRecord{}, err
		}
	}
	var table types.JSONText
	if len(t.Table) > 0 {
		if table, err = json.Marshal(t.Table); err != nil {
			return models.TrajectoryRecord{}, err
		}
	}
	return models.TrajectoryRecord{
		ID:             t.ID,
		CreatedAt:      t.CreatedAt,
		SegmentCount:   len(t.Segments),
		WallHits:       t.WallHits,
		BallHit:        t.BallHit,
		StrikerOutcome: string(t.StrikerOutcome),
		TargetOutcome:  string(t.TargetOutcome),
		Segments:       segments,
		Events:         events,
		TablePolygon:   table,
	}, nil
}
