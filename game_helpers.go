package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-tiles/model"
	"github.com/sheikhrachel/go-gol-tiles/sim"
	"github.com/sheikhrachel/go-gol-tiles/utils"
)

// patternDensity seeds tiles at config.Seed.Density instead of a named pattern
const patternDensity = "density"

// initializeGame sets up the initial game state
func initializeGame(config utils.Config, logger *slog.Logger, out io.Writer) (
	*sim.Simulation,
	*model.TerminalRenderer,
	*utils.Stats,
	error,
) {
	randomSeed := config.Seed.RandomSeed
	if randomSeed == 0 {
		randomSeed = time.Now().UnixNano()
	}

	s, err := sim.New(
		sim.WithLogger(logger),
		sim.WithWorkers(config.Workers),
		sim.WithMode(sim.Mode{Algorithm: config.Algorithm}),
		sim.WithRandomSeed(randomSeed),
	)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "[initializeGame] failed to create simulation")
	}

	if err = seedUniverse(s, config.Seed, rand.New(rand.NewSource(randomSeed))); err != nil {
		return nil, nil, nil, err
	}
	s.SetPaused(config.Paused)

	renderer := &model.TerminalRenderer{Out: out}
	stats := utils.NewStats(config.Stats.Window)

	return s, renderer, stats, nil
}

// seedUniverse fills the universe from the seed settings. Named patterns
// repeat across a cols x rows grid; the glider gun is always one pair.
func seedUniverse(s *sim.Simulation, seed utils.SeedConfig, r *rand.Rand) error {
	var fill sim.Fill
	switch seed.Pattern {
	case patternDensity:
		fill = sim.FillDensity(r, seed.Density)
	case sim.PresetRandom:
		fill = sim.FillRandom(r)
	case sim.PresetGospelGun:
		if err := s.SeedPreset(sim.PresetGospelGun, 0); err != nil {
			return errors.Wrap(err, "[seedUniverse] failed to load preset")
		}
		return nil
	default:
		b, err := model.PatternByName(seed.Pattern)
		if err != nil {
			return errors.Wrap(err, "[seedUniverse] failed to resolve pattern")
		}
		fill = sim.FillPattern(b)
	}

	if err := s.SeedGrid(max(seed.Cols, 1), max(seed.Rows, 1), fill); err != nil {
		return errors.Wrap(err, "[seedUniverse] failed to seed grid")
	}
	return nil
}

// displayGameInfo shows the initial game information
func displayGameInfo(out io.Writer, config utils.Config, s *sim.Simulation) {
	fmt.Fprintf(out, "Algorithm: %s | Workers: %d | Paused: %v\n",
		config.Algorithm, config.Workers, s.Mode().Paused)
	fmt.Fprintf(out, "Seed: %s %dx%d tiles | Initial living cells: %d\n",
		config.Seed.Pattern, config.Seed.Cols, config.Seed.Rows, s.Stats().Population)
	fmt.Fprintln(out, "Press Ctrl+C to exit gracefully")
	fmt.Fprintln(out)
}

// updateGameState records the last step and returns status information
func updateGameState(
	res sim.StepResult,
	lastFrameTime time.Time,
	stats *utils.Stats,
	history *model.History,
	s *sim.Simulation,
) (string, bool) {
	st := res.Stats
	stats.Update(utils.Sample{
		Generation:    st.Generation,
		Population:    st.Population,
		Tiles:         st.Tiles,
		ActiveTiles:   st.ActiveTiles,
		RetainedTiles: st.RetainedTiles,
		StepDuration:  st.Duration,
		FrameDuration: time.Since(lastFrameTime),
	})

	// Only committed steps change the universe
	isStagnant := false
	if !res.Skipped && !res.Frozen {
		history.UpdateHistory(s.Store())
		isStagnant = history.IsStagnant()
	}

	status := "Active"
	switch {
	case res.Skipped:
		status = "Paused"
	case res.Frozen:
		status = "Frozen"
	case st.Population == 0:
		status = "Extinct"
	case isStagnant:
		status = fmt.Sprintf("Stagnant (%d)", st.Generation)
	}

	return status, isStagnant
}

// displayGameStatus shows the current game status
func displayGameStatus(out io.Writer, st sim.StepStats, status string, stats *utils.Stats) {
	fmt.Fprintf(out, "Gen: %d | Living: %d | Tiles: %d (active %d, retained %d) | Status: %s\n",
		st.Generation, st.Population, st.Tiles, st.ActiveTiles, st.RetainedTiles, status)
	fmt.Fprintf(out, "Performance: %.1f gen/sec | Step: %.2fms | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.MeanStepMillis(), stats.AveragePopulation,
		time.Since(stats.StartTime).Seconds())
	fmt.Fprintln(out)
}

// checkStopConditions determines if the run should end
func checkStopConditions(st sim.StepStats, stagnantCount int, config utils.Config) (bool, string) {
	if st.Population == 0 && st.Generation > 0 {
		return true, "extinction"
	}
	if config.StagnationThreshold > 0 && stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	if config.MaxGenerations > 0 && st.Generation >= config.MaxGenerations {
		return true, fmt.Sprintf("maximum generations limit (%d)", config.MaxGenerations)
	}
	return false, ""
}

// stepRecord converts a step summary into a CSV row
func stepRecord(st sim.StepStats) utils.StepRecord {
	return utils.StepRecord{
		Generation:    st.Generation,
		Algorithm:     st.Algorithm.String(),
		Population:    st.Population,
		Tiles:         st.Tiles,
		ActiveTiles:   st.ActiveTiles,
		RetainedTiles: st.RetainedTiles,
		Created:       st.Created,
		Destroyed:     st.Destroyed,
		StepMillis:    float64(st.Duration) / float64(time.Millisecond),
	}
}
