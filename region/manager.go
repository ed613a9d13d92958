// Package region grows and shrinks the set of tiles around the live area.
package region

import (
	"slices"

	"github.com/sheikhrachel/go-gol-tiles/engine"
	"github.com/sheikhrachel/go-gol-tiles/model"
)

// Changes is the structural update planned for one step
type Changes struct {
	// Create holds absent neighbours of active tiles, sorted row-major.
	Create []model.Coord
	// Destroy holds inactive tiles with no active neighbour, sorted row-major.
	Destroy []model.Coord
	// Active counts tiles flagged active by the engine.
	Active int
	// Retained counts inactive tiles kept because a neighbour is active.
	Retained int
}

// Empty reports whether the plan changes nothing
func (c Changes) Empty() bool {
	return len(c.Create) == 0 && len(c.Destroy) == 0
}

// Plan decides which tiles to create and destroy from the engine's active
// flags. Tiles missing from active count as inactive. The store is only read.
func Plan(store *model.Store, active engine.ActiveMap) Changes {
	var (
		changes Changes
		create  = make(map[model.Coord]struct{})
	)

	for _, c := range store.Coords() {
		if active[c] {
			changes.Active++
			for _, n := range c.Neighbors() {
				if !store.Has(n) {
					create[n] = struct{}{}
				}
			}
			continue
		}

		if hasActiveNeighbor(c, active) {
			changes.Retained++
		} else {
			changes.Destroy = append(changes.Destroy, c)
		}
	}

	changes.Create = make([]model.Coord, 0, len(create))
	for c := range create {
		changes.Create = append(changes.Create, c)
	}
	slices.SortFunc(changes.Create, compareCoords)
	return changes
}

func hasActiveNeighbor(c model.Coord, active engine.ActiveMap) bool {
	for _, n := range c.Neighbors() {
		if active[n] {
			return true
		}
	}
	return false
}

// Apply performs a plan: destroyed tiles go back to the pool, created tiles
// are inserted all-dead. Coordinates that are already in the desired state
// are skipped.
func Apply(store *model.Store, changes Changes) (created, destroyed int) {
	for _, c := range changes.Destroy {
		if store.Remove(c) {
			destroyed++
		}
	}
	for _, c := range changes.Create {
		if _, err := store.Insert(c, model.Bits{}); err == nil {
			created++
		}
	}
	return
}

func compareCoords(a, b model.Coord) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}
