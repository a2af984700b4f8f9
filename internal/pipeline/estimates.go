package pipeline

import (
	"math"

	"github.com/playmatatu/cueassist/internal/geometry"
	"github.com/playmatatu/cueassist/internal/physics"
	"github.com/playmatatu/cueassist/internal/vision"
)

// StickEstimate is the stick stage's output. OK=false is the "no detection" sentinel.
type StickEstimate struct {
	Seq  uint64        `json:"seq"`
	Tail geometry.Vec2 `json:"tail"`
	Tip  geometry.Vec2 `json:"tip"`
	OK   bool          `json:"ok"`
}

// ShotEstimate is the ball stage's output: the stick plus the cue ball nearest its tip.
type ShotEstimate struct {
	Seq     uint64        `json:"seq"`
	Stick   StickEstimate `json:"stick"`
	CueBall vision.Circle `json:"cue_ball"`
	OK      bool          `json:"ok"`
}

// NormalizeStick orders the endpoints so the one nearer center is the tip.
func NormalizeStick(line vision.Line, center geometry.Vec2) StickEstimate {
	tail, tip := line.From, line.To
	if tail.DistanceTo(center) < tip.DistanceTo(center) {
		tail, tip = tip, tail
	}
	return StickEstimate{Tail: tail, Tip: tip, OK: true}
}

// NearestCircle picks the candidate whose center is closest to p.
func NearestCircle(candidates []vision.Circle, p geometry.Vec2) (vision.Circle, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, c := range candidates {
		if d := c.Center.DistanceTo(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return vision.Circle{}, false
	}
	return candidates[best], true
}

// StrikerFromStick models the stick tip as a small ball moving from tail to tip at
// step pixels per tick.
func StrikerFromStick(s StickEstimate, radius, step float64) physics.MovingBall {
	dir := s.Tip.Minus(s.Tail).Normalize().Times(step)
	return physics.MovingBall{Position: s.Tip, Direction: dir, Radius: radius}
}

// BallFromCircle is a stationary ball at a detected circle.
func BallFromCircle(c vision.Circle) physics.MovingBall {
	return physics.MovingBall{Position: c.Center, Radius: c.Radius}
}
