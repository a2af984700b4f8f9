package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/playmatatu/cueassist/internal/geometry"
)

// Scene is a static description of what the detectors would report for every frame.
type Scene struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Table  []geometry.Vec2 `json:"table"`
	Stick  *Line           `json:"stick,omitempty"`
	Balls  []Circle        `json:"balls,omitempty"`
}

// DefaultScene is a recorded table shot: 18-point cushion contour, the stick aimed
// right along the bottom rail and the cue ball just past its tip.
func DefaultScene() Scene {
	return Scene{
		Width:  1280,
		Height: 960,
		Table: []geometry.Vec2{
			{X: 1215, Y: 620}, {X: 1179, Y: 680}, {X: 1163, Y: 682},
			{X: 80, Y: 809}, {X: 59, Y: 810}, {X: 58, Y: 810},
			{X: 12, Y: 774}, {X: 12, Y: 263}, {X: 56, Y: 223},
			{X: 77, Y: 217}, {X: 100, Y: 214}, {X: 526, Y: 161},
			{X: 1043, Y: 98}, {X: 1047, Y: 98}, {X: 1055, Y: 101},
			{X: 1108, Y: 135}, {X: 1114, Y: 145}, {X: 1215, Y: 608},
		},
		Stick: &Line{From: geometry.NewVec2(135, 670), To: geometry.NewVec2(185, 661)},
		Balls: []Circle{{Center: geometry.NewVec2(240, 660), Radius: 11}},
	}
}

// LoadScene reads a JSON scene file.
func LoadScene(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("read scene: %w", err)
	}
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("parse scene %s: %w", path, err)
	}
	return s, nil
}

// SceneStore serves the current scene to the pipeline as table, stick and ball
// detector. The scene can be swapped at runtime.
type SceneStore struct {
	mu    sync.RWMutex
	scene Scene
}

func NewSceneStore(s Scene) *SceneStore {
	return &SceneStore{scene: s}
}

func (s *SceneStore) Get() Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene
}

func (s *SceneStore) Set(scene Scene) {
	s.mu.Lock()
	s.scene = scene
	s.mu.Unlock()
}

func (s *SceneStore) DetectTable(ctx context.Context, _ Frame) ([]geometry.Vec2, error) {
	scene := s.Get()
	if len(scene.Table) == 0 {
		return nil, ErrNoTable
	}
	out := make([]geometry.Vec2, len(scene.Table))
	copy(out, scene.Table)
	return out, nil
}

func (s *SceneStore) DetectStick(ctx context.Context, _ Frame) (Line, error) {
	scene := s.Get()
	if scene.Stick == nil {
		return Line{}, ErrNoStick
	}
	return *scene.Stick, nil
}

func (s *SceneStore) DetectBalls(ctx context.Context, _ Frame) ([]Circle, error) {
	scene := s.Get()
	if len(scene.Balls) == 0 {
		return nil, ErrNoBall
	}
	out := make([]Circle, len(scene.Balls))
	copy(out, scene.Balls)
	return out, nil
}
