package engine

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol-tiles/model"
)

// tileFunc computes one tile. worker identifies the goroutine so callers
// can keep per-worker scratch state.
type tileFunc func(worker int, t *model.Tile) (active bool, err error)

func resolveWorkers(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}

// forEachTile runs fn over tiles split into contiguous chunks, one per
// worker, and returns once every chunk has finished. Each call writes only
// its own tile and its own slot of the returned flags.
func forEachTile(ctx context.Context, tiles []*model.Tile, workers int, fn tileFunc) ([]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "[forEachTile] step cancelled")
	}
	active := make([]bool, len(tiles))
	if len(tiles) == 0 {
		return active, nil
	}

	var (
		numWorkers     = min(resolveWorkers(workers), len(tiles))
		tilesPerWorker = (len(tiles) + numWorkers - 1) / numWorkers // Ceiling division
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(numWorkers)
	for i := range numWorkers {
		var (
			start = i * tilesPerWorker
			end   = min(start+tilesPerWorker, len(tiles))
		)
		if start >= len(tiles) {
			break
		}

		eg.Go(func() error {
			for j := start; j < end; j++ {
				if err := ctx.Err(); err != nil {
					return errors.Wrap(err, "[forEachTile] step cancelled")
				}
				a, err := fn(i, tiles[j])
				if err != nil {
					return errors.Wrapf(err, "[forEachTile] tile %v", tiles[j].Coord)
				}
				active[j] = a
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return active, nil
}

func toActiveMap(tiles []*model.Tile, flags []bool) ActiveMap {
	m := make(ActiveMap, len(tiles))
	for i, t := range tiles {
		m[t.Coord] = flags[i]
	}
	return m
}
