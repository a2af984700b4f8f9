package physics

import (
	"errors"
	"fmt"

	"github.com/playmatatu/cueassist/internal/geometry"
)

var ErrInvalidConfig = errors.New("invalid physics config")

// Config bounds a simulation run.
type Config struct {
	// StepBudget is the maximum number of ticks per straight leg.
	StepBudget int `json:"step_budget"`
	// BounceBudget is the number of cushion reflections allowed for the striker.
	BounceBudget int `json:"bounce_budget"`
	// TargetBounceBudget is the same for the struck ball.
	TargetBounceBudget int `json:"target_bounce_budget"`
	// LookAhead is how many ticks ahead the cushion test probes.
	LookAhead float64 `json:"look_ahead"`
	Tolerance float64 `json:"tolerance"`
}

func DefaultConfig() Config {
	return Config{
		StepBudget:         DefaultStepBudget,
		BounceBudget:       DefaultBounceBudget,
		TargetBounceBudget: DefaultTargetBounceBudget,
		LookAhead:          DefaultLookAhead,
		Tolerance:          geometry.DefaultTolerance,
	}
}

func (c Config) Validate() error {
	switch {
	case c.StepBudget <= 0:
		return fmt.Errorf("%w: step budget must be positive, got %d", ErrInvalidConfig, c.StepBudget)
	case c.BounceBudget < 0 || c.TargetBounceBudget < 0:
		return fmt.Errorf("%w: bounce budgets must not be negative", ErrInvalidConfig)
	case c.LookAhead < 0:
		return fmt.Errorf("%w: look-ahead must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Engine runs the striker → target trajectory simulation. It holds no per-run state and
// is safe for concurrent use.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Simulate predicts the striker's path inside table and, if it reaches target, the
// target's path after impact. A nil table or a motionless striker yields an empty
// Trajectory.
func (e *Engine) Simulate(table *geometry.Table, striker MovingBall, target *MovingBall) Trajectory {
	var traj Trajectory
	if table == nil || striker.Direction.IsZero() {
		return traj
	}
	traj.Table = table.Polygon

	struck, hit := e.track(&traj, table.Boundary, RoleStriker, striker, e.cfg.BounceBudget, target)
	if !hit {
		return traj
	}
	traj.BallHit = true
	if struck.Direction.IsZero() {
		return traj
	}
	e.track(&traj, table.Boundary, RoleTarget, struck, e.cfg.TargetBounceBudget, nil)
	return traj
}

// track walks one ball leg by leg until it stops. It returns the struck target with its
// outgoing direction when the ball made contact with target.
func (e *Engine) track(traj *Trajectory, boundary geometry.Boundary, role Role, ball MovingBall, bounces int, target *MovingBall) (MovingBall, bool) {
	start := ball.Position
	for {
		outcome := OutcomeBudget
		var normal geometry.Vec2

		for step := 0; step < e.cfg.StepBudget; step++ {
			ball.Position = ball.Position.Plus(ball.Direction)

			if target != nil && CirclesOverlap(ball, *target) {
				outcome = OutcomeBall
				break
			}
			probe := ball.Position.Plus(ball.Direction.Times(e.cfg.LookAhead))
			if n, out := boundary.PointOutside(probe, e.cfg.Tolerance); out {
				outcome = OutcomeWall
				normal = n
				break
			}
		}

		traj.addSegment(role, start, ball.Position)

		switch outcome {
		case OutcomeBall:
			traj.Events = append(traj.Events, CollisionEvent{Type: "ball", Role: role, Point: ball.Position})
			traj.setOutcome(role, OutcomeBall)
			struck := *target
			struck.Direction = ElasticTransfer(*target, ball)
			return struck, true

		case OutcomeWall:
			traj.WallHits++
			traj.Events = append(traj.Events, CollisionEvent{Type: "wall", Role: role, Point: ball.Position, Normal: normal})
			if bounces == 0 {
				traj.setOutcome(role, OutcomeWall)
				return MovingBall{}, false
			}
			bounces--
			ball.Direction = geometry.Reflect(ball.Direction, normal)
			start = ball.Position

		default:
			traj.setOutcome(role, OutcomeBudget)
			return MovingBall{}, false
		}
	}
}
