// Package vision holds the data types exchanged with the external detectors and a
// scene-replay implementation of them, used when no camera pipeline is attached.
package vision

import (
	"errors"
	"time"

	"github.com/playmatatu/cueassist/internal/geometry"
)

// "Nothing found" results from the detectors. Stages turn these into sentinel values.
var (
	ErrNoTable = errors.New("no table detected")
	ErrNoStick = errors.New("no stick detected")
	ErrNoBall  = errors.New("no ball detected")
)

// Frame is one captured image. Pixels may be nil for synthetic sources.
type Frame struct {
	Seq        uint64    `json:"seq"`
	CapturedAt time.Time `json:"captured_at"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Pixels     []byte    `json:"-"`
}

// Center is the image center in pixel coordinates.
func (f Frame) Center() geometry.Vec2 {
	return geometry.NewVec2(float64(f.Width)/2, float64(f.Height)/2)
}

// Line is a detected cue stick; endpoint order is whatever the detector produced.
type Line struct {
	From geometry.Vec2 `json:"from"`
	To   geometry.Vec2 `json:"to"`
}

// Circle is a detected ball candidate.
type Circle struct {
	Center geometry.Vec2 `json:"center"`
	Radius float64       `json:"radius"`
}
