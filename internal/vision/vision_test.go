package vision

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playmatatu/cueassist/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScene(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	body := `{
		"width": 640, "height": 480,
		"table": [{"x":0,"y":0},{"x":600,"y":0},{"x":600,"y":400},{"x":0,"y":400}],
		"stick": {"from": {"x":10,"y":10}, "to": {"x":50,"y":50}},
		"balls": [{"center": {"x":80,"y":80}, "radius": 11}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	scene, err := LoadScene(path)
	require.NoError(t, err)

	assert.Equal(t, 640, scene.Width)
	assert.Len(t, scene.Table, 4)
	require.NotNil(t, scene.Stick)
	assert.Equal(t, geometry.NewVec2(50, 50), scene.Stick.To)
	require.Len(t, scene.Balls, 1)
	assert.Equal(t, 11.0, scene.Balls[0].Radius)
}

func TestLoadSceneErrors(t *testing.T) {
	_, err := LoadScene("/nonexistent/scene.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read scene")

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = LoadScene(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse scene")
}

func TestSceneStoreReportsMissingDetections(t *testing.T) {
	store := NewSceneStore(Scene{})
	ctx := context.Background()

	_, err := store.DetectTable(ctx, Frame{})
	assert.True(t, errors.Is(err, ErrNoTable))
	_, err = store.DetectStick(ctx, Frame{})
	assert.True(t, errors.Is(err, ErrNoStick))
	_, err = store.DetectBalls(ctx, Frame{})
	assert.True(t, errors.Is(err, ErrNoBall))
}

func TestSceneStoreSetReplacesScene(t *testing.T) {
	store := NewSceneStore(Scene{})
	store.Set(DefaultScene())

	table, err := store.DetectTable(context.Background(), Frame{})
	require.NoError(t, err)
	assert.Len(t, table, 18)

	// returned slices are copies
	table[0] = geometry.Vec2{}
	again, _ := store.DetectTable(context.Background(), Frame{})
	assert.NotEqual(t, geometry.Vec2{}, again[0])

	stick, err := store.DetectStick(context.Background(), Frame{})
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVec2(185, 661), stick.To)
}

func TestDefaultSceneTableIsUsable(t *testing.T) {
	table, err := geometry.NewTable(DefaultScene().Table)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(table.Polygon), 3)
	assert.True(t, table.Boundary.Contains(geometry.NewVec2(240, 660)), "cue ball should be on the table")
}

func TestTickerSourceStopsAtLimit(t *testing.T) {
	src := NewTickerSource(1000, 640, 480)
	src.Limit = 3

	for i := uint64(1); i <= 3; i++ {
		f, err := src.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, i, f.Seq)
		assert.Equal(t, geometry.NewVec2(320, 240), f.Center())
	}
	_, err := src.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTickerSourceHonoursContext(t *testing.T) {
	src := NewTickerSource(1, 640, 480)
	_, err := src.Next(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
