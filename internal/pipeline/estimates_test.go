package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmatatu/cueassist/internal/geometry"
	"github.com/playmatatu/cueassist/internal/vision"
)

func TestNormalizeStickPutsTipNearCenter(t *testing.T) {
	center := geometry.NewVec2(320, 240)
	a, b := geometry.NewVec2(10, 10), geometry.NewVec2(200, 200)

	est := NormalizeStick(vision.Line{From: a, To: b}, center)
	assert.True(t, est.OK)
	assert.Equal(t, b, est.Tip)
	assert.Equal(t, a, est.Tail)

	swapped := NormalizeStick(vision.Line{From: b, To: a}, center)
	assert.Equal(t, est.Tip, swapped.Tip)
	assert.Equal(t, est.Tail, swapped.Tail)
}

func TestNearestCircle(t *testing.T) {
	_, ok := NearestCircle(nil, geometry.Vec2{})
	assert.False(t, ok)

	cands := []vision.Circle{
		{Center: geometry.NewVec2(100, 100), Radius: 10},
		{Center: geometry.NewVec2(12, 9), Radius: 11},
		{Center: geometry.NewVec2(-50, 0), Radius: 9},
	}
	c, ok := NearestCircle(cands, geometry.NewVec2(10, 10))
	require.True(t, ok)
	assert.Equal(t, 11.0, c.Radius)
}

func TestStrikerFromStick(t *testing.T) {
	est := StickEstimate{Tail: geometry.NewVec2(0, 0), Tip: geometry.NewVec2(30, 40), OK: true}
	ball := StrikerFromStick(est, 4, 10)

	assert.Equal(t, est.Tip, ball.Position)
	assert.Equal(t, 4.0, ball.Radius)
	assert.InDelta(t, 10, ball.Direction.Magnitude(), 1e-9)
	assert.InDelta(t, 6, ball.Direction.X, 1e-9)
	assert.InDelta(t, 8, ball.Direction.Y, 1e-9)

	still := BallFromCircle(vision.Circle{Center: geometry.NewVec2(1, 2), Radius: 11})
	assert.True(t, still.Direction.IsZero())
	assert.False(t, math.IsNaN(still.Mass()))
}
