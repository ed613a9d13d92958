package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-tiles/model"
	"github.com/sheikhrachel/go-gol-tiles/sim"
	"github.com/sheikhrachel/go-gol-tiles/utils"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeedUniverse(t *testing.T) {
	testCases := []struct {
		pattern string
		tiles   int
		wantErr error
	}{
		{"density", 6, nil},
		{"random", 6, nil},
		{"glider", 6, nil},
		{"spacefiller", 6, nil},
		{"gospel", 2, nil},
		{"pulsar", 0, model.ErrUnknownPattern},
	}

	for _, tc := range testCases {
		s, err := sim.New(sim.WithRandomSeed(3))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seed := utils.SeedConfig{Pattern: tc.pattern, Cols: 3, Rows: 2, Density: 0.5}

		err = seedUniverse(s, seed, rand.New(rand.NewSource(3)))
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("%s: expected %v, got %v", tc.pattern, tc.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.pattern, err)
		}
		if s.Store().Len() != tc.tiles {
			t.Errorf("%s: expected %d tiles, got %d", tc.pattern, tc.tiles, s.Store().Len())
		}
	}
}

func TestInitializeGameAppliesConfig(t *testing.T) {
	config := utils.DefaultConfig()
	config.Paused = true
	config.Seed.Pattern = "gospel"

	var out bytes.Buffer
	s, renderer, stats, err := initializeGame(config, discardLogger(), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Mode().Paused || renderer.Out != &out || stats == nil {
		t.Error("expected a paused simulation wired to the output")
	}

	displayGameInfo(&out, config, s)
	if !strings.Contains(out.String(), "Algorithm: neighbor-count") {
		t.Errorf("unexpected game info %q", out.String())
	}
}

func TestCheckStopConditions(t *testing.T) {
	config := utils.DefaultConfig()
	config.MaxGenerations = 10
	config.StagnationThreshold = 3

	testCases := []struct {
		stats     sim.StepStats
		stagnant  int
		stop      bool
		reasonHas string
	}{
		{sim.StepStats{Generation: 0, Population: 0}, 0, false, ""},
		{sim.StepStats{Generation: 4, Population: 0}, 0, true, "extinction"},
		{sim.StepStats{Generation: 4, Population: 9}, 3, true, "stagnation"},
		{sim.StepStats{Generation: 10, Population: 9}, 0, true, "maximum"},
		{sim.StepStats{Generation: 9, Population: 9}, 2, false, ""},
	}

	for i, tc := range testCases {
		stop, reason := checkStopConditions(tc.stats, tc.stagnant, config)
		if stop != tc.stop || !strings.Contains(reason, tc.reasonHas) {
			t.Errorf("case %d: expected (%v, %q), got (%v, %q)", i, tc.stop, tc.reasonHas, stop, reason)
		}
	}
}

func TestUpdateGameStateDetectsStagnation(t *testing.T) {
	s, err := sim.New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var seed model.Bits
	seed.Stamp(4, 4, "##", "##")
	if err := s.SeedTile(model.Coord{}, seed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var (
		history model.History
		stats   = utils.NewStats(4)
		status  string
		stuck   bool
	)
	for range 4 {
		res, err := s.Step(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		status, stuck = updateGameState(res, stats.StartTime, stats, &history, s)
	}
	if !stuck || !strings.HasPrefix(status, "Stagnant") {
		t.Errorf("expected a still life to be stagnant, got %q", status)
	}

	rec := stepRecord(s.Stats())
	if rec.Generation != 4 || rec.Population != 4 || rec.Algorithm != "neighbor-count" {
		t.Errorf("unexpected step record %+v", rec)
	}
}
