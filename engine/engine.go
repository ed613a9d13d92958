// Package engine computes the next generation of every tile in a store.
//
// Two interchangeable engines are provided. NeighborCount stamps live cells
// into a padded byte accumulator and exchanges edge summaries with adjacent
// tiles. QuadTree decodes live cells into points and counts neighbours with
// range queries. Both write every tile's Next buffer and report which tiles
// were active, and both produce bit-identical results.
package engine

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-tiles/model"
)

// ErrUnknownAlgorithm is returned when an algorithm name or value has no engine
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Algorithm selects the next-generation engine
type Algorithm int

const (
	NeighborCount Algorithm = iota
	QuadTree
)

var algorithmNames = map[Algorithm]string{
	NeighborCount: "neighbor-count",
	QuadTree:      "quadtree",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether a names an implemented engine
func (a Algorithm) Valid() bool {
	_, ok := algorithmNames[a]
	return ok
}

// ParseAlgorithm resolves an algorithm by name
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range algorithmNames {
		if n == name {
			return a, nil
		}
	}
	switch name {
	case "neighborcount", "hashmap", "edges":
		return NeighborCount, nil
	case "quad-tree", "qt":
		return QuadTree, nil
	}
	return 0, errors.Wrapf(ErrUnknownAlgorithm, "[ParseAlgorithm] %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, errors.Wrapf(ErrUnknownAlgorithm, "[MarshalText] %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ActiveMap records, per tile coordinate, whether the tile's current
// generation had a living cell when the engine ran.
type ActiveMap map[model.Coord]bool

// Count returns the number of active tiles
func (m ActiveMap) Count() (n int) {
	for _, active := range m {
		if active {
			n++
		}
	}
	return
}

// Engine computes Next for every tile in the store from Current. The store
// must not be structurally modified while Compute runs.
type Engine interface {
	Name() string
	Compute(ctx context.Context, store *model.Store) (ActiveMap, error)
}

// New returns the engine for an algorithm. workers <= 0 uses one worker per CPU.
func New(a Algorithm, workers int) (Engine, error) {
	switch a {
	case NeighborCount:
		return NewNeighborCountEngine(workers), nil
	case QuadTree:
		return NewQuadTreeEngine(workers), nil
	}
	return nil, errors.Wrapf(ErrUnknownAlgorithm, "[New] %d", int(a))
}
