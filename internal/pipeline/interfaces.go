package pipeline

import (
	"context"
	"errors"

	"github.com/playmatatu/cueassist/internal/geometry"
	"github.com/playmatatu/cueassist/internal/physics"
	"github.com/playmatatu/cueassist/internal/vision"
)

// FrameSource yields captured frames. io.EOF ends the session.
type FrameSource interface {
	Next(ctx context.Context) (vision.Frame, error)
}

// TableDetector returns the table contour in a frame, or vision.ErrNoTable.
type TableDetector interface {
	DetectTable(ctx context.Context, f vision.Frame) ([]geometry.Vec2, error)
}

// StickDetector returns the cue stick line, or vision.ErrNoStick.
type StickDetector interface {
	DetectStick(ctx context.Context, f vision.Frame) (vision.Line, error)
}

// BallDetector returns candidate balls, or vision.ErrNoBall.
type BallDetector interface {
	DetectBalls(ctx context.Context, f vision.Frame) ([]vision.Circle, error)
}

// Renderer displays a finished trajectory.
type Renderer interface {
	Render(ctx context.Context, t physics.Trajectory) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, t physics.Trajectory) error

func (f RendererFunc) Render(ctx context.Context, t physics.Trajectory) error {
	return f(ctx, t)
}

// MultiRenderer hands every trajectory to each sink in order. A failing sink does
// not stop the others; their errors are joined.
type MultiRenderer []Renderer

func (m MultiRenderer) Render(ctx context.Context, t physics.Trajectory) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Render(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
