package sim

import "github.com/sheikhrachel/go-gol-tiles/model"

// Commit publishes every tile's Next generation as Current and clears Next.
// It must run after the engine and the region plan have read Current, and
// before planned tiles are created or destroyed.
func Commit(store *model.Store) {
	for _, t := range store.Tiles() {
		t.Commit()
	}
}
