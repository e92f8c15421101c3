package sim

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func testConfig(fish int, seed int64) Config {
	cfg := DefaultConfig()
	cfg.FishCount = fish
	cfg.Seed = seed
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"negative fish count":       func(c *Config) { c.FishCount = -1 },
		"zero tank axis":            func(c *Config) { c.TankSize[1] = 0 },
		"negative tank axis":        func(c *Config) { c.TankSize[2] = -1.4 },
		"zero min speed":            func(c *Config) { c.MinSpeed = 0 },
		"inverted speed bounds":     func(c *Config) { c.MinSpeed, c.MaxSpeed = 0.6, 0.3 },
		"zero turn rate":            func(c *Config) { c.TurnRate = 0 },
		"negative separation range": func(c *Config) { c.SeparationRadius = -0.1 },
	}
	for name, mutate := range cases {
		cfg := testConfig(4, 1)
		mutate(&cfg)
		if _, err := New(cfg); err == nil {
			t.Errorf("%s: expected construction to fail", name)
		}
	}
}

func TestSpawnRespectsConfig(t *testing.T) {
	cfg := testConfig(24, 99)
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	half := cfg.halfExtents()
	for _, a := range s.Snapshot() {
		if math.Abs(a.Position.X) > half.X || math.Abs(a.Position.Y) > half.Y || math.Abs(a.Position.Z) > half.Z {
			t.Fatalf("fish %d spawned outside tank: %+v", a.ID, a.Position)
		}
		if a.Speed < cfg.MinSpeed || a.Speed > cfg.MaxSpeed {
			t.Fatalf("fish %d spawned at speed %v outside [%v, %v]", a.ID, a.Speed, cfg.MinSpeed, cfg.MaxSpeed)
		}
		if a.Phase < 0 || a.Phase >= 2*math.Pi {
			t.Fatalf("fish %d spawned with phase %v outside [0, 2π)", a.ID, a.Phase)
		}
		if a.Scale < 0.8 || a.Scale > 1.2 {
			t.Fatalf("fish %d spawned with scale %v", a.ID, a.Scale)
		}
	}
}

func TestStepKeepsInvariants(t *testing.T) {
	cfg := testConfig(12, 42)
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	half := cfg.halfExtents()
	const eps = 1e-9
	for step := 0; step < 400; step++ {
		s.Step(0.05)
		for _, a := range s.Snapshot() {
			if a.Speed < cfg.MinSpeed-eps || a.Speed > cfg.MaxSpeed+eps {
				t.Fatalf("step %d fish %d: speed %v outside [%v, %v]", step, a.ID, a.Speed, cfg.MinSpeed, cfg.MaxSpeed)
			}
			if math.Abs(a.Position.X) > half.X+eps ||
				math.Abs(a.Position.Y) > half.Y+eps ||
				math.Abs(a.Position.Z) > half.Z+eps {
				t.Fatalf("step %d fish %d: escaped tank at %+v", step, a.ID, a.Position)
			}
			if a.Phase < 0 || a.Phase >= 2*math.Pi {
				t.Fatalf("step %d fish %d: phase %v outside [0, 2π)", step, a.ID, a.Phase)
			}
		}
	}
}

func TestDeterministicGivenSeed(t *testing.T) {
	cfg := testConfig(8, 7)
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 120; i++ {
		a.Step(1.0 / 20)
		b.Step(1.0 / 20)
	}
	sa, sb := a.Snapshot(), b.Snapshot()
	if len(sa) != len(sb) {
		t.Fatalf("snapshot lengths differ: %d vs %d", len(sa), len(sb))
	}
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("fish %d diverged:\n%+v\n%+v", i, sa[i], sb[i])
		}
	}
}

func TestHardWallReflects(t *testing.T) {
	cfg := testConfig(1, 1)
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	hx := cfg.halfExtents().X
	v := cfg.MaxSpeed
	s.agents[0].Position = r3.Vec{X: hx}
	s.agents[0].Velocity = r3.Vec{X: v}

	s.Step(0.1)

	got := s.Snapshot()[0]
	if got.Position.X != hx {
		t.Fatalf("expected x clamped to %v, got %v", hx, got.Position.X)
	}
	if got.Velocity.X >= 0 {
		t.Fatalf("expected reflected (negative) x velocity, got %v", got.Velocity.X)
	}
	if math.Abs(got.Velocity.X) >= v {
		t.Fatalf("expected bounce to lose energy: |%v| >= %v", got.Velocity.X, v)
	}
}

func TestCoincidentSchoolRecovers(t *testing.T) {
	cfg := testConfig(10, 5)
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := range s.agents {
		s.agents[i].Position = r3.Vec{}
		s.agents[i].Velocity = r3.Vec{}
	}

	s.Step(0.05)

	for _, a := range s.Snapshot() {
		if math.IsNaN(a.Position.X + a.Position.Y + a.Position.Z) {
			t.Fatalf("fish %d position went NaN: %+v", a.ID, a.Position)
		}
		if math.Abs(a.Speed-cfg.MinSpeed) > 1e-9 {
			t.Fatalf("fish %d should recover at min speed %v, got %v", a.ID, cfg.MinSpeed, a.Speed)
		}
	}
}

func TestSeparationPushesApart(t *testing.T) {
	cfg := testConfig(2, 3)
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gap := cfg.SeparationRadius / 2
	s.agents[0].Position = r3.Vec{X: -gap / 2}
	s.agents[0].Velocity = r3.Vec{}
	s.agents[1].Position = r3.Vec{X: gap / 2}
	s.agents[1].Velocity = r3.Vec{}

	before := gap
	s.Step(0.05)

	snap := s.Snapshot()
	if snap[0].Velocity.X >= 0 {
		t.Fatalf("left fish should move further left, vx=%v", snap[0].Velocity.X)
	}
	if snap[1].Velocity.X <= 0 {
		t.Fatalf("right fish should move further right, vx=%v", snap[1].Velocity.X)
	}
	after := r3.Norm(r3.Sub(snap[1].Position, snap[0].Position))
	if after <= before {
		t.Fatalf("expected fish to separate: distance %v -> %v", before, after)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s, err := New(testConfig(3, 11))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	snap := s.Snapshot()
	snap[0].Position = r3.Vec{X: 999}
	if got := s.Snapshot()[0].Position.X; got == 999 {
		t.Fatal("mutating a snapshot leaked into simulator state")
	}
}

func TestCentroidIsMeanPosition(t *testing.T) {
	s, err := New(testConfig(2, 2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.agents[0].Position = r3.Vec{X: 1, Y: 0.2}
	s.agents[1].Position = r3.Vec{X: -0.5, Y: -0.2, Z: 0.6}
	got := s.Centroid()
	want := r3.Vec{X: 0.25, Z: 0.3}
	if r3.Norm(r3.Sub(got, want)) > 1e-12 {
		t.Fatalf("centroid: got %+v, want %+v", got, want)
	}
}

func TestEmptySchool(t *testing.T) {
	s, err := New(testConfig(0, 1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Step(0.1) // must not panic
	if n := len(s.Snapshot()); n != 0 {
		t.Fatalf("expected empty snapshot, got %d fish", n)
	}
}

func TestTimeBasedSeedIsRecorded(t *testing.T) {
	s, err := New(testConfig(1, 0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Seed() == 0 {
		t.Fatal("zero config seed should be replaced by a recorded time-based seed")
	}
}
