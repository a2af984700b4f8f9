package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/playmatatu/cueassist/internal/vision"
)

// PushResult says what happened to a frame offered to the FrameQueue.
type PushResult int

const (
	Pushed PushResult = iota
	SkippedInterval
	DroppedFull
)

// FrameQueue is the bounded capture → detector queue. The producer never blocks: a
// frame is skipped when the queue is full or the previous accepted push was less than
// minInterval ago.
type FrameQueue struct {
	mu          sync.Mutex
	ch          chan vision.Frame
	minInterval time.Duration
	lastPush    time.Time
	clock       func() time.Time
}

func NewFrameQueue(capacity int, minInterval time.Duration) *FrameQueue {
	if capacity <= 0 {
		capacity = 4
	}
	return &FrameQueue{
		ch:          make(chan vision.Frame, capacity),
		minInterval: minInterval,
		clock:       time.Now,
	}
}

func (q *FrameQueue) Push(f vision.Frame) PushResult {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.clock()
	if !q.lastPush.IsZero() && now.Sub(q.lastPush) < q.minInterval {
		return SkippedInterval
	}
	select {
	case q.ch <- f:
		q.lastPush = now
		return Pushed
	default:
		return DroppedFull
	}
}

// Pop waits up to timeout for a frame.
func (q *FrameQueue) Pop(ctx context.Context, timeout time.Duration) (vision.Frame, bool) {
	select {
	case f := <-q.ch:
		return f, true
	default:
	}
	if timeout <= 0 {
		return vision.Frame{}, false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case f := <-q.ch:
		return f, true
	case <-ctx.Done():
	case <-timer.C:
	}
	return vision.Frame{}, false
}

func (q *FrameQueue) Len() int {
	return len(q.ch)
}

// Handoff is a single-slot queue between two rotating stages. The turn token ensures
// the consumer drains it before the producer runs again; if not, the newer value wins.
type Handoff[T any] struct {
	mu sync.Mutex
	ch chan T
}

func NewHandoff[T any]() *Handoff[T] {
	return &Handoff[T]{ch: make(chan T, 1)}
}

// Put stores v and reports whether an unconsumed value was overwritten.
func (h *Handoff[T]) Put(v T) (overwrote bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-h.ch:
		overwrote = true
	default:
	}
	h.ch <- v
	return overwrote
}

// Take returns the pending value without blocking.
func (h *Handoff[T]) Take() (T, bool) {
	select {
	case v := <-h.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

func (h *Handoff[T]) Len() int {
	return len(h.ch)
}
