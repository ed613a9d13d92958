package sim

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-tiles/engine"
	"github.com/sheikhrachel/go-gol-tiles/model"
)

func newTestSimulation(t *testing.T, a engine.Algorithm) *Simulation {
	t.Helper()
	s, err := New(WithMode(Mode{Algorithm: a}), WithWorkers(2), WithRandomSeed(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func liveCells(s *Simulation) map[[2]int]bool {
	live := make(map[[2]int]bool)
	for _, tile := range s.Store().Tiles() {
		tile.Current.ForEachLive(func(x, y int) {
			live[[2]int{tile.Coord.X + x, tile.Coord.Y + y}] = true
		})
	}
	return live
}

func mustStep(t *testing.T, s *Simulation) StepResult {
	t.Helper()
	res, err := s.Step(context.Background())
	if err != nil {
		t.Fatalf("unexpected step error: %v", err)
	}
	return res
}

func TestGliderTranslatesAcrossTiles(t *testing.T) {
	for _, a := range []engine.Algorithm{engine.NeighborCount, engine.QuadTree} {
		s := newTestSimulation(t, a)
		var seed model.Bits
		seed.Stamp(20, 20, model.GliderRows...)
		if err := s.SeedTile(model.Coord{}, seed); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		start := liveCells(s)

		for period := 1; period <= 20; period++ {
			for range 4 {
				mustStep(t, s)
				if s.Store().Len() > 16 {
					t.Fatalf("%s: expected at most 16 tiles, got %d", a, s.Store().Len())
				}
			}

			got := liveCells(s)
			if len(got) != len(start) {
				t.Fatalf("%s period %d: expected %d live cells, got %d", a, period, len(start), len(got))
			}
			for c := range start {
				if !got[[2]int{c[0] + period, c[1] + period}] {
					t.Fatalf("%s period %d: expected cell (%d, %d) alive", a, period, c[0]+period, c[1]+period)
				}
			}
		}

		if s.Generation() != 80 {
			t.Errorf("%s: expected generation 80, got %d", a, s.Generation())
		}
	}
}

func TestBoundaryCreation(t *testing.T) {
	s := newTestSimulation(t, engine.NeighborCount)
	var seed model.Bits
	seed.Set(model.TileEdge-1, 10, true)
	if err := s.SeedTile(model.Coord{}, seed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := mustStep(t, s)

	for _, n := range (model.Coord{}).Neighbors() {
		if !s.Store().Has(n) {
			t.Errorf("expected tile at %v", n)
		}
	}
	if res.Stats.Created != 8 || res.Stats.ActiveTiles != 1 {
		t.Errorf("expected 8 created and 1 active, got %d and %d", res.Stats.Created, res.Stats.ActiveTiles)
	}
}

func TestAllDeadUniverseIsReclaimed(t *testing.T) {
	s := newTestSimulation(t, engine.QuadTree)
	if err := s.SeedGrid(3, 3, FillPattern(model.Bits{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := mustStep(t, s)

	if s.Store().Len() != 0 {
		t.Errorf("expected every empty tile reclaimed, got %d tiles", s.Store().Len())
	}
	if res.Stats.Destroyed != 9 || res.Stats.Population != 0 {
		t.Errorf("expected 9 destroyed and no population, got %d and %d", res.Stats.Destroyed, res.Stats.Population)
	}
	mustStep(t, s)
	if s.Store().Len() != 0 {
		t.Errorf("expected empty universe to stay empty, got %d tiles", s.Store().Len())
	}
}

func TestPausedStepDoesNothing(t *testing.T) {
	s := newTestSimulation(t, engine.NeighborCount)
	var seed model.Bits
	seed.Stamp(5, 5, model.BlinkerRows...)
	if err := s.SeedTile(model.Coord{}, seed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := s.Store().Hash()

	s.SetPaused(true)
	res := mustStep(t, s)

	if !res.Skipped {
		t.Error("expected paused step to be skipped")
	}
	if s.Store().Hash() != before || s.Store().Len() != 1 || s.Generation() != 0 {
		t.Error("expected paused step to leave the universe untouched")
	}
	if _, ok := s.Preview(model.Coord{}); ok {
		t.Error("expected no preview while paused")
	}

	if s.TogglePause() {
		t.Error("expected TogglePause to resume")
	}
	mustStep(t, s)
	if s.Generation() != 1 {
		t.Errorf("expected generation 1, got %d", s.Generation())
	}
}

func TestFreezeCommitKeepsPreviewOnly(t *testing.T) {
	for _, a := range []engine.Algorithm{engine.NeighborCount, engine.QuadTree} {
		s := newTestSimulation(t, a)
		var seed model.Bits
		seed.Stamp(5, 5, model.BlinkerRows...)
		if err := s.SeedTile(model.Coord{}, seed); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		s.SetFreezeCommit(true)
		for range 3 {
			res := mustStep(t, s)
			if !res.Frozen {
				t.Fatalf("%s: expected frozen step", a)
			}
		}

		tile, _ := s.Store().Get(model.Coord{})
		if tile.Current != seed || s.Store().Len() != 1 || s.Generation() != 0 {
			t.Errorf("%s: expected frozen steps to leave the universe untouched", a)
		}

		var expected model.Bits
		expected.Stamp(6, 4, "#", "#", "#")
		preview, ok := s.Preview(model.Coord{})
		if !ok || preview != expected {
			t.Errorf("%s: expected vertical blinker preview, got\n%s", a, preview.String())
		}

		s.SetFreezeCommit(false)
		mustStep(t, s)
		tile, _ = s.Store().Get(model.Coord{})
		if tile.Current != expected || s.Generation() != 1 {
			t.Errorf("%s: expected committed blinker phase after unfreezing", a)
		}
		if _, ok := s.Preview(model.Coord{}); ok {
			t.Errorf("%s: expected preview cleared by commit", a)
		}
	}
}

func TestToggleRoundTrip(t *testing.T) {
	s := newTestSimulation(t, engine.NeighborCount)
	var seed model.Bits
	seed.Stamp(1, 1, "##", "##")
	if err := s.SeedTile(model.Coord{}, seed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.Toggle(10, 10) {
		t.Fatal("expected first toggle to set the cell alive")
	}
	if res := mustStep(t, s); !res.Frozen {
		t.Fatal("expected step after an edit to be frozen")
	}
	if s.Toggle(10, 10) {
		t.Fatal("expected second toggle to kill the cell")
	}
	if res := mustStep(t, s); !res.Frozen {
		t.Fatal("expected step after an edit to be frozen")
	}

	tile, _ := s.Store().Get(model.Coord{})
	if tile.Current != seed {
		t.Errorf("expected original tile after round trip, got\n%s", tile.Current.String())
	}
	if s.Generation() != 0 {
		t.Errorf("expected no committed step, got generation %d", s.Generation())
	}

	if res := mustStep(t, s); res.Frozen || s.Generation() != 1 {
		t.Error("expected the edit freeze to last a single step")
	}
}

func TestToggleCreatesMissingTile(t *testing.T) {
	s := newTestSimulation(t, engine.NeighborCount)
	s.Toggle(-1, -40)

	c := model.Coord{X: -32, Y: -64}
	if !s.Store().Has(c) {
		t.Fatalf("expected tile %v created by the edit", c)
	}
	if !s.Get(-1, -40) || s.Get(0, 0) {
		t.Error("expected only the toggled cell alive")
	}
}

func TestSwitchAlgorithmKeepsTiles(t *testing.T) {
	s := newTestSimulation(t, engine.NeighborCount)
	if err := s.SeedGrid(2, 2, FillDensity(s.rng, 0.4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustStep(t, s)
	before := s.Store().Hash()

	if err := s.SetAlgorithm(engine.QuadTree); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Store().Hash() != before || s.Mode().Algorithm != engine.QuadTree {
		t.Error("expected switching algorithm to leave tiles untouched")
	}
	if res := mustStep(t, s); res.Stats.Algorithm != engine.QuadTree {
		t.Errorf("expected quadtree stats, got %s", res.Stats.Algorithm)
	}
	if err := s.SetAlgorithm(engine.Algorithm(9)); !errors.Is(err, engine.ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestEnginesAgreeOverManySteps(t *testing.T) {
	run := func(a engine.Algorithm) string {
		s := newTestSimulation(t, a)
		if err := s.SeedPreset(PresetGospelGun, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		s.SetPaused(false)
		for range 60 {
			mustStep(t, s)
		}
		if s.Stats().Population == 0 {
			t.Fatalf("%s: expected the gun to stay alive", a)
		}
		return s.Store().Hash()
	}

	if run(engine.NeighborCount) != run(engine.QuadTree) {
		t.Error("expected both engines to produce the same universe")
	}
}

func TestStepCancelled(t *testing.T) {
	s := newTestSimulation(t, engine.NeighborCount)
	if err := s.SeedGrid(1, 1, FillPattern(model.Fill(model.GliderWord))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := s.Store().Hash()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Step(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if s.Store().Hash() != before || s.Generation() != 0 {
		t.Error("expected cancelled step to leave the universe untouched")
	}
	if err := s.Run(ctx, 0); err != nil {
		t.Errorf("expected Run to stop quietly on a done context, got %v", err)
	}
}

func TestNewRejectsUnknownAlgorithm(t *testing.T) {
	if _, err := New(WithMode(Mode{Algorithm: engine.Algorithm(5)})); !errors.Is(err, engine.ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
}
