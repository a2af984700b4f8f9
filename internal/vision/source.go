package vision

import (
	"context"
	"io"
	"time"
)

// TickerSource emits empty frames at a fixed rate. With Limit > 0 it reports io.EOF
// after that many frames, like a recorded clip running out.
type TickerSource struct {
	Interval time.Duration
	Width    int
	Height   int
	Limit    uint64

	seq  uint64
	next time.Time
}

func NewTickerSource(fps int, width, height int) *TickerSource {
	if fps <= 0 {
		fps = 30
	}
	return &TickerSource{
		Interval: time.Second / time.Duration(fps),
		Width:    width,
		Height:   height,
	}
}

// Next blocks until the next frame is due. It is not safe for concurrent use; the
// capture loop is the only caller.
func (s *TickerSource) Next(ctx context.Context) (Frame, error) {
	if s.Limit > 0 && s.seq >= s.Limit {
		return Frame{}, io.EOF
	}

	now := time.Now()
	if s.next.IsZero() {
		s.next = now
	}
	if wait := s.next.Sub(now); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Frame{}, ctx.Err()
		case <-timer.C:
		}
	}
	s.next = s.next.Add(s.Interval)

	s.seq++
	return Frame{
		Seq:        s.seq,
		CapturedAt: time.Now(),
		Width:      s.Width,
		Height:     s.Height,
	}, nil
}
