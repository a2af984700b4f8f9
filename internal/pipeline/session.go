package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/playmatatu/cueassist/internal/geometry"
	"github.com/playmatatu/cueassist/internal/physics"
)

// Session is the state shared by all pipeline units for one run.
type Session struct {
	Turn   *TurnCoordinator
	Frames *FrameQueue
	Sticks *Handoff[StickEstimate]
	Shots  *Handoff[ShotEstimate]
	Lines  *Handoff[physics.Trajectory]
	Stats  *Stats

	running atomic.Bool
	table   atomic.Pointer[geometry.Table]
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewSession returns a running session. It stops when parent is done or Stop is called.
func NewSession(parent context.Context, frameCapacity int, minInterval, poll time.Duration) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		Turn:   NewTurnCoordinator(poll),
		Frames: NewFrameQueue(frameCapacity, minInterval),
		Sticks: NewHandoff[StickEstimate](),
		Shots:  NewHandoff[ShotEstimate](),
		Lines:  NewHandoff[physics.Trajectory](),
		Stats:  &Stats{},
		ctx:    ctx,
		cancel: cancel,
	}
	s.running.Store(true)
	return s
}

func (s *Session) Running() bool {
	return s.running.Load() && s.ctx.Err() == nil
}

// Stop clears the run flag and wakes every waiting stage. Safe to call repeatedly.
func (s *Session) Stop() {
	s.running.Store(false)
	s.cancel()
}

// Done is closed once the session stops.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *Session) Context() context.Context {
	return s.ctx
}

// Table returns the current table snapshot, nil when none is known.
func (s *Session) Table() *geometry.Table {
	return s.table.Load()
}

// ReplaceTable swaps the whole snapshot. nil means "no table".
func (s *Session) ReplaceTable(t *geometry.Table) {
	s.table.Store(t)
}

func (s *Session) Snapshot() StatsSnapshot {
	snap := s.Stats.snapshot()
	snap.Turn = s.Turn.Current().String()
	snap.Running = s.Running()
	snap.TablePresent = s.Table() != nil
	return snap
}
