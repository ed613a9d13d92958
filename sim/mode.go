package sim

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-tiles/engine"
)

// Mode is the simulation-wide stepping mode
type Mode struct {
	// Algorithm selects the engine; exactly one runs per step.
	Algorithm engine.Algorithm
	// Paused stops every engine; nothing is computed or committed.
	Paused bool
	// FreezeCommit lets the engine compute a preview but discards it.
	FreezeCommit bool
}

// DefaultMode runs the neighbor-count engine unpaused
func DefaultMode() Mode {
	return Mode{Algorithm: engine.NeighborCount}
}

// LogValue implements slog.LogValuer for structured logging.
func (m Mode) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("algorithm", m.Algorithm.String()),
		slog.Bool("paused", m.Paused),
		slog.Bool("freeze_commit", m.FreezeCommit),
	)
}

// Mode returns the current mode
func (s *Simulation) Mode() Mode {
	return s.mode
}

// SetAlgorithm switches engines. Tile data is left untouched.
func (s *Simulation) SetAlgorithm(a engine.Algorithm) error {
	if !a.Valid() {
		return errors.Wrapf(engine.ErrUnknownAlgorithm, "[SetAlgorithm] %d", int(a))
	}
	if a == s.mode.Algorithm {
		return nil
	}
	if _, ok := s.engines[a]; !ok {
		e, err := engine.New(a, s.workers)
		if err != nil {
			return errors.Wrap(err, "[SetAlgorithm] failed to create engine")
		}
		s.engines[a] = e
	}
	s.mode.Algorithm = a
	s.logger.Info("algorithm changed", "mode", s.mode)
	return nil
}

// TogglePause flips the pause flag and returns the new value
func (s *Simulation) TogglePause() bool {
	s.SetPaused(!s.mode.Paused)
	return s.mode.Paused
}

// SetPaused sets the pause flag
func (s *Simulation) SetPaused(paused bool) {
	if s.mode.Paused == paused {
		return
	}
	s.mode.Paused = paused
	s.logger.Info("pause changed", "mode", s.mode)
}

// SetFreezeCommit sets the sticky freeze-commit flag
func (s *Simulation) SetFreezeCommit(freeze bool) {
	if s.mode.FreezeCommit == freeze {
		return
	}
	s.mode.FreezeCommit = freeze
	s.logger.Info("freeze changed", "mode", s.mode)
}
