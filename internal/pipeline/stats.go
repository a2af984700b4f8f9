package pipeline

import "sync/atomic"

// Stats are the pipeline counters. All fields are updated atomically.
type Stats struct {
	FramesCaptured  atomic.Uint64
	FramesQueued    atomic.Uint64
	FramesSkipped   atomic.Uint64
	FramesDropped   atomic.Uint64
	StickCycles     atomic.Uint64
	BallCycles      atomic.Uint64
	PhysicsCycles   atomic.Uint64
	NoStick         atomic.Uint64
	NoBall          atomic.Uint64
	NoTable         atomic.Uint64
	DegenerateTable atomic.Uint64
	TableDetections atomic.Uint64
	TableMisses     atomic.Uint64
	Rendered        atomic.Uint64
	RenderErrors    atomic.Uint64
	Overwritten     atomic.Uint64
	Panics          atomic.Uint64
}

// StatsSnapshot is a point-in-time copy of Stats plus session state.
type StatsSnapshot struct {
	FramesCaptured  uint64 `json:"frames_captured"`
	FramesQueued    uint64 `json:"frames_queued"`
	FramesSkipped   uint64 `json:"frames_skipped"`
	FramesDropped   uint64 `json:"frames_dropped"`
	StickCycles     uint64 `json:"stick_cycles"`
	BallCycles      uint64 `json:"ball_cycles"`
	PhysicsCycles   uint64 `json:"physics_cycles"`
	NoStick         uint64 `json:"no_stick"`
	NoBall          uint64 `json:"no_ball"`
	NoTable         uint64 `json:"no_table"`
	DegenerateTable uint64 `json:"degenerate_table"`
	TableDetections uint64 `json:"table_detections"`
	TableMisses     uint64 `json:"table_misses"`
	Rendered        uint64 `json:"rendered"`
	RenderErrors    uint64 `json:"render_errors"`
	Overwritten     uint64 `json:"overwritten"`
	Panics          uint64 `json:"panics"`
	Turn            string `json:"turn"`
	Running         bool   `json:"running"`
	TablePresent    bool   `json:"table_present"`
}

func (s *Stats) snapshot() StatsSnapshot {
	return StatsSnapshot{
		FramesCaptured:  s.FramesCaptured.Load(),
		FramesQueued:    s.FramesQueued.Load(),
		FramesSkipped:   s.FramesSkipped.Load(),
		FramesDropped:   s.FramesDropped.Load(),
		StickCycles:     s.StickCycles.Load(),
		BallCycles:      s.BallCycles.Load(),
		PhysicsCycles:   s.PhysicsCycles.Load(),
		NoStick:         s.NoStick.Load(),
		NoBall:          s.NoBall.Load(),
		NoTable:         s.NoTable.Load(),
		DegenerateTable: s.DegenerateTable.Load(),
		TableDetections: s.TableDetections.Load(),
		TableMisses:     s.TableMisses.Load(),
		Rendered:        s.Rendered.Load(),
		RenderErrors:    s.RenderErrors.Load(),
		Overwritten:     s.Overwritten.Load(),
		Panics:          s.Panics.Load(),
	}
}
