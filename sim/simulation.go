// Package sim drives the tiled universe one generation at a time.
//
// A Simulation owns the tile store and the stepping mode. Step runs the
// selected engine over every tile, then plans structural changes from the
// engine's active flags, commits Next into Current and finally creates and
// destroys tiles. A Simulation is not safe for concurrent use; edits and
// steps must come from the same goroutine.
package sim

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-tiles/engine"
	"github.com/sheikhrachel/go-gol-tiles/model"
	"github.com/sheikhrachel/go-gol-tiles/region"
)

// Option configures a Simulation
type Option func(*Simulation)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWorkers sets the number of engine workers; <= 0 uses one per CPU
func WithWorkers(workers int) Option {
	return func(s *Simulation) {
		s.workers = workers
	}
}

// WithMode sets the initial mode
func WithMode(m Mode) Option {
	return func(s *Simulation) {
		s.mode = m
	}
}

// WithRandomSeed seeds the generator used by random fills
func WithRandomSeed(seed int64) Option {
	return func(s *Simulation) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// Simulation is a tiled Game of Life universe
type Simulation struct {
	store   *model.Store
	mode    Mode
	engines map[engine.Algorithm]engine.Engine
	workers int
	logger  *slog.Logger
	rng     *rand.Rand

	generation    int
	pendingFreeze bool
	previewReady  bool
	stats         StepStats
}

// StepResult describes what a call to Step did
type StepResult struct {
	// Skipped is set when the simulation was paused and nothing ran.
	Skipped bool
	// Frozen is set when Next was computed as a preview and discarded.
	Frozen bool
	// Stats is the state after the step.
	Stats StepStats
}

// New creates an empty universe
func New(opts ...Option) (*Simulation, error) {
	s := &Simulation{
		store:   model.NewStore(model.NewTilePool()),
		mode:    DefaultMode(),
		engines: make(map[engine.Algorithm]engine.Engine, 2),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e, err := engine.New(s.mode.Algorithm, s.workers)
	if err != nil {
		return nil, errors.Wrap(err, "[New] invalid mode")
	}
	s.engines[s.mode.Algorithm] = e
	s.stats.Algorithm = s.mode.Algorithm
	return s, nil
}

// Generation returns the number of committed steps
func (s *Simulation) Generation() int {
	return s.generation
}

// Store exposes the tile store for read-only queries
func (s *Simulation) Store() *model.Store {
	return s.store
}

// Step advances the universe by one generation. A paused simulation does
// nothing. Under freeze-commit, or right after an edit, the engine runs but
// its output is kept only as a preview; the edit freeze is consumed by this
// step. A failed or cancelled step leaves Current and the tile set unchanged.
func (s *Simulation) Step(ctx context.Context) (StepResult, error) {
	if s.mode.Paused {
		return StepResult{Skipped: true, Stats: s.stats}, nil
	}

	start := time.Now()
	eng := s.engines[s.mode.Algorithm]
	active, err := eng.Compute(ctx, s.store)
	if err != nil {
		s.previewReady = false
		return StepResult{}, errors.Wrapf(err, "[Step] generation %d", s.generation)
	}

	if s.mode.FreezeCommit || s.pendingFreeze {
		s.pendingFreeze = false
		s.previewReady = true
		s.logger.Debug("step frozen", "generation", s.generation, "active", active.Count())
		return StepResult{Frozen: true, Stats: s.stats}, nil
	}

	changes := region.Plan(s.store, active)
	Commit(s.store)
	created, destroyed := region.Apply(s.store, changes)
	s.generation++
	s.previewReady = false

	s.stats = StepStats{
		Generation:    s.generation,
		ActiveTiles:   changes.Active,
		RetainedTiles: changes.Retained,
		Created:       created,
		Destroyed:     destroyed,
		Tiles:         s.store.Len(),
		Population:    s.store.Population(),
		Algorithm:     s.mode.Algorithm,
		Duration:      time.Since(start),
	}
	if !changes.Empty() {
		s.logger.Debug("tiles changed",
			"generation", s.generation,
			"created", created,
			"destroyed", destroyed,
			"tiles", s.stats.Tiles,
		)
	}
	return StepResult{Stats: s.stats}, nil
}

// Run steps until ctx is done or n steps have been taken; n <= 0 means no limit.
// Paused steps count towards n.
func (s *Simulation) Run(ctx context.Context, n int) error {
	for i := 0; n <= 0 || i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if _, err := s.Step(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
	return nil
}
