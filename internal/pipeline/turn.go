package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Stage is the value of the turn token; each rotating stage owns one value.
type Stage int

const (
	StageStick   Stage = 1
	StageBall    Stage = 2
	StagePhysics Stage = 3
)

// Next returns the stage that owns the token after s releases it.
func (s Stage) Next() Stage {
	switch s {
	case StageStick:
		return StageBall
	case StageBall:
		return StagePhysics
	default:
		return StageStick
	}
}

func (s Stage) String() string {
	switch s {
	case StageStick:
		return "stick"
	case StageBall:
		return "ball"
	case StagePhysics:
		return "physics"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// TurnCoordinator holds the turn token. Only the owning stage may work; it releases
// the token with TryAdvance, which rotates 1→2→3→1.
type TurnCoordinator struct {
	mu        sync.Mutex
	token     Stage
	changed   chan struct{}
	poll      time.Duration
	onAdvance func(from, to Stage)
}

// NewTurnCoordinator starts with the stick stage holding the token. poll bounds how
// long Await sleeps between checks if a wake-up is missed.
func NewTurnCoordinator(poll time.Duration) *TurnCoordinator {
	if poll <= 0 {
		poll = 30 * time.Millisecond
	}
	return &TurnCoordinator{
		token:   StageStick,
		changed: make(chan struct{}),
		poll:    poll,
	}
}

// OnAdvance registers a hook run on every rotation, under the coordinator lock, so
// hooks observe rotations in order. The hook must not call back into the coordinator.
func (c *TurnCoordinator) OnAdvance(fn func(from, to Stage)) {
	c.mu.Lock()
	c.onAdvance = fn
	c.mu.Unlock()
}

func (c *TurnCoordinator) Current() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *TurnCoordinator) Owns(stage Stage) bool {
	return c.Current() == stage
}

// TryAdvance rotates the token to the next stage if, and only if, stage holds it.
func (c *TurnCoordinator) TryAdvance(stage Stage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != stage {
		return false
	}
	c.token = stage.Next()
	if c.onAdvance != nil {
		c.onAdvance(stage, c.token)
	}
	close(c.changed)
	c.changed = make(chan struct{})
	return true
}

// Await blocks until stage holds the token. It returns false when ctx is done first.
func (c *TurnCoordinator) Await(ctx context.Context, stage Stage) bool {
	timer := time.NewTimer(c.poll)
	defer timer.Stop()

	for {
		c.mu.Lock()
		if c.token == stage {
			c.mu.Unlock()
			return true
		}
		changed := c.changed
		c.mu.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(c.poll)

		select {
		case <-ctx.Done():
			return false
		case <-changed:
		case <-timer.C:
		}
	}
}
