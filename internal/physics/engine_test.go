package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/playmatatu/cueassist/internal/geometry"
)

func squareTable(t *testing.T, lo, hi float64) *geometry.Table {
	t.Helper()
	table, err := geometry.NewTable([]geometry.Vec2{{X: lo, Y: lo}, {X: hi, Y: lo}, {X: hi, Y: hi}, {X: lo, Y: hi}})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func newEngine(t *testing.T, mutate func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestSingleBounceProducesTwoSegments(t *testing.T) {
	engine := newEngine(t, func(c *Config) {
		c.StepBudget = 20
		c.BounceBudget = 1
	})
	ball := MovingBall{Position: geometry.NewVec2(5, 5), Direction: geometry.NewVec2(1, 0), Radius: 1}

	traj := engine.Simulate(squareTable(t, 0, 10), ball, nil)

	if len(traj.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(traj.Segments), traj.Segments)
	}
	first, second := traj.Segments[0], traj.Segments[1]
	if first.Start != geometry.NewVec2(5, 5) || first.End != geometry.NewVec2(10, 5) {
		t.Errorf("first segment = %v -> %v, want (5,5) -> (10,5)", first.Start, first.End)
	}
	if second.Start != geometry.NewVec2(10, 5) {
		t.Errorf("second segment should start at (10,5), got %v", second.Start)
	}
	heading := second.End.Minus(second.Start).Normalize()
	if !heading.ApproxEqual(geometry.NewVec2(-1, 0), 1e-12) {
		t.Errorf("second segment heading = %v, want (-1,0)", heading)
	}
	if traj.WallHits != 2 || traj.StrikerOutcome != OutcomeWall {
		t.Errorf("wall hits=%d outcome=%q", traj.WallHits, traj.StrikerOutcome)
	}
}

func TestBounceBudgetLimitsSegments(t *testing.T) {
	engine := newEngine(t, func(c *Config) { c.BounceBudget = 3 })
	ball := MovingBall{Position: geometry.NewVec2(50, 50), Direction: geometry.NewVec2(3, 2), Radius: 4}

	traj := engine.Simulate(squareTable(t, 0, 100), ball, nil)

	if len(traj.Segments) != 4 {
		t.Fatalf("expected bounce budget 3 to give 4 segments, got %d", len(traj.Segments))
	}
	for i := 1; i < len(traj.Segments); i++ {
		if traj.Segments[i].Start != traj.Segments[i-1].End {
			t.Errorf("segment %d does not continue from previous end", i)
		}
	}
}

func TestHeadOnImpactTransfersFullDirection(t *testing.T) {
	engine := newEngine(t, nil)
	striker := MovingBall{Position: geometry.NewVec2(0, 0), Direction: geometry.NewVec2(1, 0), Radius: 1}
	target := MovingBall{Position: geometry.NewVec2(3, 0), Radius: 1}

	traj := engine.Simulate(squareTable(t, -50, 50), striker, &target)

	if !traj.BallHit {
		t.Fatal("expected ball impact")
	}
	if traj.StrikerOutcome != OutcomeBall {
		t.Errorf("striker outcome = %q", traj.StrikerOutcome)
	}
	strikerLeg := traj.Segments[0]
	if strikerLeg.Role != RoleStriker || strikerLeg.End.DistanceTo(target.Position) > 3 {
		t.Errorf("striker leg should end in contact range, got %+v", strikerLeg)
	}

	var targetLegs []Segment
	for _, s := range traj.Segments {
		if s.Role == RoleTarget {
			targetLegs = append(targetLegs, s)
		}
	}
	if len(targetLegs) == 0 {
		t.Fatal("expected target segments after impact")
	}
	if targetLegs[0].Start != target.Position {
		t.Errorf("target path should start at its rest position, got %v", targetLegs[0].Start)
	}
	heading := targetLegs[0].End.Minus(targetLegs[0].Start).Normalize()
	if !heading.ApproxEqual(geometry.NewVec2(1, 0), 1e-9) {
		t.Errorf("target heading = %v, want (1,0)", heading)
	}
	// struck ball gets one further bounce at most
	if len(targetLegs) > DefaultTargetBounceBudget+1 {
		t.Errorf("target has %d legs, budget allows %d", len(targetLegs), DefaultTargetBounceBudget+1)
	}
}

func TestStrikerMissesTarget(t *testing.T) {
	engine := newEngine(t, func(c *Config) { c.BounceBudget = 0 })
	striker := MovingBall{Position: geometry.NewVec2(0, 0), Direction: geometry.NewVec2(1, 0), Radius: 1}
	target := MovingBall{Position: geometry.NewVec2(10, 20), Radius: 1}

	traj := engine.Simulate(squareTable(t, -50, 50), striker, &target)

	if traj.BallHit {
		t.Error("no impact expected")
	}
	for _, s := range traj.Segments {
		if s.Role == RoleTarget {
			t.Error("target should not move")
		}
	}
}

func TestNoTableGivesEmptyTrajectory(t *testing.T) {
	engine := newEngine(t, nil)
	ball := MovingBall{Position: geometry.NewVec2(5, 5), Direction: geometry.NewVec2(1, 0), Radius: 1}

	traj := engine.Simulate(nil, ball, nil)

	if !traj.Empty() {
		t.Errorf("expected empty trajectory, got %+v", traj)
	}
}

func TestMotionlessStrikerGivesEmptyTrajectory(t *testing.T) {
	engine := newEngine(t, nil)
	traj := engine.Simulate(squareTable(t, 0, 10), MovingBall{Position: geometry.NewVec2(5, 5), Radius: 1}, nil)
	if !traj.Empty() {
		t.Errorf("expected empty trajectory, got %d segments", len(traj.Segments))
	}
}

func TestStepBudgetExhaustedEndsLeg(t *testing.T) {
	engine := newEngine(t, func(c *Config) { c.StepBudget = 5 })
	ball := MovingBall{Position: geometry.NewVec2(0, 0), Direction: geometry.NewVec2(1, 0), Radius: 1}

	traj := engine.Simulate(squareTable(t, -1000, 1000), ball, nil)

	if len(traj.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(traj.Segments))
	}
	if traj.Segments[0].End != geometry.NewVec2(5, 0) {
		t.Errorf("leg should stop after 5 ticks, ended at %v", traj.Segments[0].End)
	}
	if traj.StrikerOutcome != OutcomeBudget {
		t.Errorf("outcome = %q, want budget", traj.StrikerOutcome)
	}
}

func TestLegsNeverExceedStepBudget(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const budget = 50
	engine := newEngine(t, func(c *Config) { c.StepBudget = budget })
	table := squareTable(t, 0, 200)

	for i := 0; i < 300; i++ {
		dir := geometry.NewVec2(rng.Float64()*20-10, rng.Float64()*20-10)
		striker := MovingBall{
			// some starts are deliberately off the table
			Position:  geometry.NewVec2(rng.Float64()*260-30, rng.Float64()*260-30),
			Direction: dir,
			Radius:    4,
		}
		target := MovingBall{Position: geometry.NewVec2(rng.Float64()*200, rng.Float64()*200), Radius: 11}

		traj := engine.Simulate(table, striker, &target)

		step := dir.Magnitude()
		maxLegs := DefaultBounceBudget + 1 + DefaultTargetBounceBudget + 1
		if len(traj.Segments) > maxLegs {
			t.Fatalf("run %d produced %d legs, more than %d", i, len(traj.Segments), maxLegs)
		}
		for _, s := range traj.Segments {
			if s.Role != RoleStriker {
				continue
			}
			if s.End.DistanceTo(s.Start) > float64(budget)*step+1e-6 {
				t.Fatalf("run %d: striker leg longer than the step budget allows", i)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	run := func() Trajectory {
		engine := newEngine(t, nil)
		striker := MovingBall{Position: geometry.NewVec2(20, 30), Direction: geometry.NewVec2(7, 3), Radius: 4}
		target := MovingBall{Position: geometry.NewVec2(80, 55), Radius: 11}
		return engine.Simulate(squareTable(t, 0, 300), striker, &target)
	}

	a, b := run(), run()
	if len(a.Segments) != len(b.Segments) {
		t.Fatalf("non-deterministic segment count %d vs %d", len(a.Segments), len(b.Segments))
	}
	for i := range a.Segments {
		if a.Segments[i] != b.Segments[i] {
			t.Errorf("segment %d differs: %+v vs %+v", i, a.Segments[i], b.Segments[i])
		}
	}
}

func TestConfigValidation(t *testing.T) {
	bad := []Config{
		{StepBudget: 0},
		{StepBudget: 10, BounceBudget: -1},
		{StepBudget: 10, TargetBounceBudget: -1},
		{StepBudget: 10, LookAhead: -0.5},
	}
	for i, cfg := range bad {
		if _, err := NewEngine(cfg); err == nil {
			t.Errorf("config %d should be rejected", i)
		}
	}
}

func TestCirclesOverlapIsSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		a := MovingBall{Position: geometry.NewVec2(rng.Float64()*40, rng.Float64()*40), Radius: rng.Float64() * 10}
		b := MovingBall{Position: geometry.NewVec2(rng.Float64()*40, rng.Float64()*40), Radius: rng.Float64() * 10}
		if CirclesOverlap(a, b) != CirclesOverlap(b, a) {
			t.Fatalf("asymmetric overlap for %+v and %+v", a, b)
		}
	}
}

func TestCirclesOverlapTolerance(t *testing.T) {
	a := MovingBall{Position: geometry.NewVec2(0, 0), Radius: 1}
	if !CirclesOverlap(a, MovingBall{Position: geometry.NewVec2(3, 0), Radius: 1}) {
		t.Error("centres 3 apart with radii 1 should touch (1+1+tolerance)")
	}
	if CirclesOverlap(a, MovingBall{Position: geometry.NewVec2(3.01, 0), Radius: 1}) {
		t.Error("centres 3.01 apart should not touch")
	}
}

func TestElasticTransferEqualMasses(t *testing.T) {
	striker := MovingBall{Position: geometry.NewVec2(0, 0), Direction: geometry.NewVec2(1, 0), Radius: 1}
	struck := MovingBall{Position: geometry.NewVec2(2, 0), Radius: 1}

	got := ElasticTransfer(struck, striker)
	if !got.ApproxEqual(geometry.NewVec2(1, 0), 1e-12) {
		t.Errorf("head-on equal masses: got %v, want (1,0)", got)
	}
}

func TestElasticTransferFollowsLineOfCentres(t *testing.T) {
	striker := MovingBall{Position: geometry.NewVec2(0, 0), Direction: geometry.NewVec2(1, 0), Radius: 1}
	struck := MovingBall{Position: geometry.NewVec2(1, 1), Radius: 1}

	got := ElasticTransfer(struck, striker)
	// 45° cut: half the component along the line of centres
	if !got.ApproxEqual(geometry.NewVec2(0.5, 0.5), 1e-12) {
		t.Errorf("cut shot: got %v, want (0.5,0.5)", got)
	}
}

func TestElasticTransferMassRatio(t *testing.T) {
	light := MovingBall{Position: geometry.NewVec2(0, 0), Direction: geometry.NewVec2(1, 0), Radius: 4}
	heavy := MovingBall{Position: geometry.NewVec2(15, 0), Radius: 11}

	got := ElasticTransfer(heavy, light)
	m1, m2 := light.Mass(), heavy.Mass()
	want := 2 * m1 / (m1 + m2)
	if math.Abs(got.X-want) > 1e-12 || got.Y != 0 {
		t.Errorf("got %v, want (%f,0)", got, want)
	}
}

// The striker keeps its own direction: only the struck ball is resolved.
func TestElasticTransferLeavesStrikerUntouched(t *testing.T) {
	striker := MovingBall{Position: geometry.NewVec2(0, 0), Direction: geometry.NewVec2(1, 0), Radius: 1}
	struck := MovingBall{Position: geometry.NewVec2(2, 0), Radius: 1}
	ElasticTransfer(struck, striker)
	if striker.Direction != geometry.NewVec2(1, 0) {
		t.Errorf("striker direction changed to %v", striker.Direction)
	}
}

func TestElasticTransferCoincidentCentres(t *testing.T) {
	striker := MovingBall{Position: geometry.NewVec2(1, 1), Direction: geometry.NewVec2(1, 0), Radius: 1}
	struck := MovingBall{Position: geometry.NewVec2(1, 1), Direction: geometry.NewVec2(0, 2), Radius: 1}
	if got := ElasticTransfer(struck, striker); got != struck.Direction {
		t.Errorf("expected unchanged direction, got %v", got)
	}
}
