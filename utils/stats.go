package utils

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	TotalGenerations     int
	StartTime            time.Time
	Population           int
	Tiles                int

	// rolling windows, oldest sample overwritten first
	window     int
	next       int
	filled     int
	active     []float64
	retained   []float64
	stepMillis []float64
}

// NewStats creates stats averaging the last window steps
func NewStats(window int) *Stats {
	if window < 1 {
		window = 60
	}
	return &Stats{
		StartTime:  time.Now(),
		window:     window,
		active:     make([]float64, window),
		retained:   make([]float64, window),
		stepMillis: make([]float64, window),
	}
}

// Sample is one step's worth of measurements
type Sample struct {
	Generation    int
	Population    int
	Tiles         int
	ActiveTiles   int
	RetainedTiles int
	// StepDuration is the engine-to-apply time of the step.
	StepDuration time.Duration
	// FrameDuration is the wall time since the previous frame.
	FrameDuration time.Duration
}

func (s *Stats) Update(sample Sample) {
	s.TotalGenerations = sample.Generation
	s.Population = sample.Population
	s.Tiles = sample.Tiles
	if sample.FrameDuration > 0 {
		s.GenerationsPerSecond = 1.0 / sample.FrameDuration.Seconds()
	}

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(sample.Population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(sample.Population) * 0.1)
	}

	s.active[s.next] = float64(sample.ActiveTiles)
	s.retained[s.next] = float64(sample.RetainedTiles)
	s.stepMillis[s.next] = float64(sample.StepDuration) / float64(time.Millisecond)
	s.next = (s.next + 1) % s.window
	s.filled = min(s.filled+1, s.window)
}

// MeanActiveTiles averages the active tile count over the window
func (s *Stats) MeanActiveTiles() float64 {
	return s.mean(s.active)
}

// MeanRetainedTiles averages the retained tile count over the window
func (s *Stats) MeanRetainedTiles() float64 {
	return s.mean(s.retained)
}

// MeanStepMillis averages step duration in milliseconds over the window
func (s *Stats) MeanStepMillis() float64 {
	return s.mean(s.stepMillis)
}

// StdDevStepMillis is the spread of step durations over the window
func (s *Stats) StdDevStepMillis() float64 {
	if s.filled < 2 {
		return 0
	}
	return stat.StdDev(s.stepMillis[:s.filled], nil)
}

// mean only reads filled slots; the ring is filled from index 0
func (s *Stats) mean(ring []float64) float64 {
	if s.filled == 0 {
		return 0
	}
	return stat.Mean(ring[:s.filled], nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s *Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.TotalGenerations),
		slog.Int("population", s.Population),
		slog.Int("tiles", s.Tiles),
		slog.Float64("gen_per_sec", s.GenerationsPerSecond),
		slog.Float64("avg_population", s.AveragePopulation),
		slog.Float64("mean_active", s.MeanActiveTiles()),
		slog.Float64("mean_retained", s.MeanRetainedTiles()),
		slog.Float64("mean_step_ms", s.MeanStepMillis()),
		slog.Float64("stddev_step_ms", s.StdDevStepMillis()),
	)
}
