package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/playmatatu/cueassist/internal/geometry"
	"github.com/playmatatu/cueassist/internal/physics"
	"github.com/playmatatu/cueassist/internal/vision"
)

// Reasons recorded on trajectories that were not simulated.
const (
	ReasonNoShot  = "no shot estimate"
	ReasonNoTable = "no table"
	ReasonNoStick = "no stick"
	ReasonNoBall  = "no cue ball"
)

// rotate is the body of a turn-gated stage: wait for the token, do one unit of work,
// hand the token on.
func (p *Pipeline) rotate(s *Session, stage Stage, work func(*Session)) {
	for s.Running() {
		if !s.Turn.Await(s.Context(), stage) {
			continue
		}
		if !s.Running() {
			return
		}
		p.act(s, stage, work)
	}
}

func (p *Pipeline) act(s *Session, stage Stage, work func(*Session)) {
	defer s.Turn.TryAdvance(stage)
	defer func() {
		if r := recover(); r != nil {
			s.Stats.Panics.Add(1)
			p.log.Error().Str("stage", stage.String()).Interface("panic", r).Msg("stage recovered from panic")
		}
	}()
	work(s)
}

func (p *Pipeline) stickStep(s *Session) {
	s.Stats.StickCycles.Add(1)

	est := StickEstimate{}
	frame, ok := s.Frames.Pop(s.Context(), p.opts.PollInterval)
	if ok {
		est.Seq = frame.Seq
		line, err := p.deps.Sticks.DetectStick(s.Context(), frame)
		switch {
		case err != nil:
			s.Stats.NoStick.Add(1)
			p.logDetectErr(err, vision.ErrNoStick, "stick")
		default:
			est = NormalizeStick(line, p.centerFor(s, frame))
			est.Seq = frame.Seq
		}
	}
	if s.Sticks.Put(est) {
		s.Stats.Overwritten.Add(1)
	}
}

func (p *Pipeline) ballStep(s *Session) {
	s.Stats.BallCycles.Add(1)

	stick, _ := s.Sticks.Take()
	shot := ShotEstimate{Seq: stick.Seq, Stick: stick}
	frame, ok := s.Frames.Pop(s.Context(), p.opts.PollInterval)
	if ok && stick.OK {
		candidates, err := p.deps.Balls.DetectBalls(s.Context(), frame)
		if err != nil {
			s.Stats.NoBall.Add(1)
			p.logDetectErr(err, vision.ErrNoBall, "ball")
		} else if cue, found := NearestCircle(candidates, stick.Tip); found {
			shot.CueBall = cue
			shot.OK = true
		} else {
			s.Stats.NoBall.Add(1)
		}
	}
	if s.Shots.Put(shot) {
		s.Stats.Overwritten.Add(1)
	}
}

func (p *Pipeline) physicsStep(s *Session) {
	s.Stats.PhysicsCycles.Add(1)

	shot, ok := s.Shots.Take()
	table := s.Table()

	var traj physics.Trajectory
	switch {
	case !ok:
		traj.Reason = ReasonNoShot
	case table == nil:
		s.Stats.NoTable.Add(1)
		traj.Reason = ReasonNoTable
	case !shot.Stick.OK:
		traj.Reason = ReasonNoStick
	case !shot.OK:
		traj.Reason = ReasonNoBall
	default:
		striker := StrikerFromStick(shot.Stick, p.opts.StickTipRadius, p.opts.StrikerStep)
		target := BallFromCircle(shot.CueBall)
		traj = p.engine.Simulate(table, striker, &target)
	}
	if table != nil && traj.Table == nil {
		traj.Table = table.Polygon
	}
	traj.ID = uuid.NewString()
	traj.CreatedAt = time.Now().UTC()

	if s.Lines.Put(traj) {
		s.Stats.Overwritten.Add(1)
	}
}

// captureLoop reads frames, keeps the table snapshot fresh, feeds the frame queue and
// renders finished trajectories.
func (p *Pipeline) captureLoop(s *Session) {
	log := p.log.With().Str("unit", "capture").Logger()
	var count uint64

	for s.Running() {
		frame, err := p.deps.Source.Next(s.Context())
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Info().Uint64("frames", count).Msg("frame source ended")
				s.Stop()
				return
			}
			if s.Context().Err() != nil {
				return
			}
			log.Warn().Err(err).Msg("frame source error")
			p.sleep(s, p.opts.PollInterval)
			continue
		}
		count++
		s.Stats.FramesCaptured.Add(1)

		if (count-1)%uint64(p.opts.TableRedetectFrames) == 0 {
			p.redetectTable(s, frame)
		}

		switch s.Frames.Push(frame) {
		case Pushed:
			s.Stats.FramesQueued.Add(1)
		case SkippedInterval:
			s.Stats.FramesSkipped.Add(1)
		case DroppedFull:
			s.Stats.FramesDropped.Add(1)
		}

		p.display(s)
	}
}

// display renders the finished trajectory, if one is waiting. Each render gets
// RenderTimeout so a slow sink cannot hold up capture for long.
func (p *Pipeline) display(s *Session) {
	traj, ok := s.Lines.Take()
	if !ok {
		return
	}
	err := p.guard(s, "render", func() error {
		ctx, cancel := context.WithTimeout(s.Context(), p.opts.RenderTimeout)
		defer cancel()
		return p.deps.Renderer.Render(ctx, traj)
	})
	if err != nil {
		s.Stats.RenderErrors.Add(1)
		p.log.Warn().Err(err).Str("trajectory", traj.ID).Msg("render failed")
		return
	}
	s.Stats.Rendered.Add(1)
}

// redetectTable replaces the table snapshot wholesale. Any failure leaves no table.
func (p *Pipeline) redetectTable(s *Session, frame vision.Frame) {
	var points []geometry.Vec2
	err := p.guard(s, "table", func() error {
		var err error
		points, err = p.deps.Tables.DetectTable(s.Context(), frame)
		return err
	})
	if err != nil {
		s.Stats.TableMisses.Add(1)
		s.ReplaceTable(nil)
		p.logDetectErr(err, vision.ErrNoTable, "table")
		return
	}

	var table *geometry.Table
	err = p.guard(s, "hull", func() error {
		var err error
		table, err = geometry.NewTable(points)
		return err
	})
	if err != nil {
		s.Stats.DegenerateTable.Add(1)
		s.ReplaceTable(nil)
		p.log.Warn().Err(err).Int("points", len(points)).Msg("discarding degenerate table")
		return
	}
	s.Stats.TableDetections.Add(1)
	s.ReplaceTable(table)
	p.log.Debug().Uint64("frame", frame.Seq).Int("vertices", len(table.Polygon)).Msg("table updated")
}

// guard runs fn and converts a panic into an error.
func (p *Pipeline) guard(s *Session, what string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.Stats.Panics.Add(1)
			p.log.Error().Str("call", what).Interface("panic", r).Msg("recovered from panic")
			err = errPanicked
		}
	}()
	return fn()
}

var errPanicked = errors.New("collaborator panicked")

func (p *Pipeline) logDetectErr(err, notFound error, what string) {
	if errors.Is(err, notFound) || errors.Is(err, context.Canceled) {
		p.log.Debug().Err(err).Str("detector", what).Msg("nothing detected")
		return
	}
	p.log.Warn().Err(err).Str("detector", what).Msg("detector failed")
}

// centerFor is the reference point for stick orientation: the table centroid, or the
// frame center when no table is known.
func (p *Pipeline) centerFor(s *Session, frame vision.Frame) geometry.Vec2 {
	if t := s.Table(); t != nil {
		return t.Center
	}
	return frame.Center()
}

func (p *Pipeline) sleep(s *Session, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-s.Done():
	case <-timer.C:
	}
}
