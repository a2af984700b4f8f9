package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/playmatatu/cueassist/internal/logging"
	"github.com/playmatatu/cueassist/internal/physics"
)

var ErrAlreadyRunning = errors.New("pipeline already running")

// Options tune the pipeline. Zero values fall back to the defaults below.
type Options struct {
	FrameQueueCapacity  int
	FrameMinInterval    time.Duration
	PollInterval        time.Duration
	TableRedetectFrames int
	StickTipRadius      float64
	StrikerStep         float64
	RenderTimeout       time.Duration
	Physics             physics.Config
}

func DefaultOptions() Options {
	return Options{
		FrameQueueCapacity:  4,
		FrameMinInterval:    30 * time.Millisecond,
		PollInterval:        30 * time.Millisecond,
		TableRedetectFrames: 30,
		StickTipRadius:      physics.DefaultStickTipRadius,
		StrikerStep:         physics.DefaultStrikerStep,
		RenderTimeout:       250 * time.Millisecond,
		Physics:             physics.DefaultConfig(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FrameQueueCapacity <= 0 {
		o.FrameQueueCapacity = d.FrameQueueCapacity
	}
	if o.FrameMinInterval < 0 {
		o.FrameMinInterval = 0
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	if o.TableRedetectFrames <= 0 {
		o.TableRedetectFrames = d.TableRedetectFrames
	}
	if o.StickTipRadius <= 0 {
		o.StickTipRadius = d.StickTipRadius
	}
	if o.StrikerStep <= 0 {
		o.StrikerStep = d.StrikerStep
	}
	if o.RenderTimeout <= 0 {
		o.RenderTimeout = d.RenderTimeout
	}
	if o.Physics == (physics.Config{}) {
		o.Physics = d.Physics
	}
	return o
}

// Deps are the pipeline's collaborators.
type Deps struct {
	Source   FrameSource
	Tables   TableDetector
	Sticks   StickDetector
	Balls    BallDetector
	Renderer Renderer
	Logger   zerolog.Logger
}

// Pipeline runs the capture/display loop and the three turn-gated stages.
type Pipeline struct {
	opts    Options
	deps    Deps
	engine  *physics.Engine
	log     zerolog.Logger
	session atomic.Pointer[Session]

	mu sync.Mutex
	// onAdvance is installed on each new session's coordinator.
	onAdvance func(from, to Stage)
}

func New(opts Options, deps Deps) (*Pipeline, error) {
	if deps.Source == nil || deps.Tables == nil || deps.Sticks == nil || deps.Balls == nil {
		return nil, errors.New("pipeline: frame source and all detectors are required")
	}
	opts = opts.withDefaults()
	engine, err := physics.NewEngine(opts.Physics)
	if err != nil {
		return nil, err
	}
	if deps.Renderer == nil {
		deps.Renderer = MultiRenderer(nil)
	}
	return &Pipeline{
		opts:   opts,
		deps:   deps,
		engine: engine,
		log:    logging.Component(deps.Logger, "pipeline"),
	}, nil
}

// OnAdvance observes every turn rotation of sessions started after the call.
func (p *Pipeline) OnAdvance(fn func(from, to Stage)) {
	p.mu.Lock()
	p.onAdvance = fn
	p.mu.Unlock()
}

// Session returns the current or last session, nil before the first Run.
func (p *Pipeline) Session() *Session {
	return p.session.Load()
}

// Stop stops the current session, if any.
func (p *Pipeline) Stop() {
	if s := p.session.Load(); s != nil {
		s.Stop()
	}
}

func (p *Pipeline) Snapshot() StatsSnapshot {
	if s := p.session.Load(); s != nil {
		return s.Snapshot()
	}
	return StatsSnapshot{Turn: StageStick.String()}
}

// Run starts a new session and blocks until every unit has exited, either because
// ctx was cancelled, Stop was called or the frame source ended.
func (p *Pipeline) Run(ctx context.Context) error {
	prev := p.session.Load()
	if prev != nil && prev.Running() {
		return ErrAlreadyRunning
	}
	s := NewSession(ctx, p.opts.FrameQueueCapacity, p.opts.FrameMinInterval, p.opts.PollInterval)
	if !p.session.CompareAndSwap(prev, s) {
		s.Stop()
		return ErrAlreadyRunning
	}
	p.mu.Lock()
	if p.onAdvance != nil {
		s.Turn.OnAdvance(p.onAdvance)
	}
	p.mu.Unlock()

	p.log.Info().
		Int("frame_queue", p.opts.FrameQueueCapacity).
		Dur("min_interval", p.opts.FrameMinInterval).
		Int("step_budget", p.opts.Physics.StepBudget).
		Int("bounce_budget", p.opts.Physics.BounceBudget).
		Msg("pipeline started")

	var wg sync.WaitGroup
	units := []func(*Session){
		p.captureLoop,
		func(s *Session) { p.rotate(s, StageStick, p.stickStep) },
		func(s *Session) { p.rotate(s, StageBall, p.ballStep) },
		func(s *Session) { p.rotate(s, StagePhysics, p.physicsStep) },
	}
	for _, unit := range units {
		wg.Add(1)
		go func(run func(*Session)) {
			defer wg.Done()
			run(s)
		}(unit)
	}

	<-s.Done()
	s.Stop()
	wg.Wait()

	p.log.Info().Interface("stats", s.Snapshot()).Msg("pipeline stopped")
	return nil
}
