package engine

import (
	"context"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/sheikhrachel/go-gol-tiles/model"
	"github.com/sheikhrachel/go-gol-tiles/rules"
	"github.com/sheikhrachel/go-gol-tiles/spatial"
)

const (
	// tileReach covers the 3x3 block of tile origins around a tile origin.
	tileReach = 1.5 * model.TileEdge
	// cellReach covers a cell and its 8 neighbours.
	cellReach = 1.5
)

// QuadTreeEngine computes generations from range queries over live-cell
// positions. It is slower than NeighborCountEngine and serves as a
// reference for it.
type QuadTreeEngine struct {
	workers int
}

// NewQuadTreeEngine creates the engine. workers <= 0 uses one worker per CPU.
func NewQuadTreeEngine(workers int) *QuadTreeEngine {
	return &QuadTreeEngine{workers: workers}
}

func (e *QuadTreeEngine) Name() string {
	return QuadTree.String()
}

// Compute fills Next for every tile. The tile-level index is built once and
// only queried during the parallel phase; each worker owns a cell-level index
// that it rebuilds per tile.
func (e *QuadTreeEngine) Compute(ctx context.Context, store *model.Store) (ActiveMap, error) {
	tiles := store.Tiles()
	index := buildTileIndex(tiles)
	scratch := make([]*cellScratch, resolveWorkers(e.workers))

	flags, err := forEachTile(ctx, tiles, e.workers, func(worker int, t *model.Tile) (bool, error) {
		s := scratch[worker]
		if s == nil {
			s = newCellScratch()
			scratch[worker] = s
		}
		s.nextGeneration(index, t)
		return t.Current.Any(), nil
	})
	if err != nil {
		return nil, err
	}
	return toActiveMap(tiles, flags), nil
}

func tileOrigin(c model.Coord) r2.Vec {
	return r2.Vec{X: float64(c.X), Y: float64(c.Y)}
}

// buildTileIndex indexes every tile by its origin
func buildTileIndex(tiles []*model.Tile) *spatial.Quadtree[*model.Tile] {
	var bounds r2.Box
	for i, t := range tiles {
		o := tileOrigin(t.Coord)
		if i == 0 {
			bounds = r2.Box{Min: o, Max: o}
			continue
		}
		bounds.Min.X, bounds.Min.Y = min(bounds.Min.X, o.X), min(bounds.Min.Y, o.Y)
		bounds.Max.X, bounds.Max.Y = max(bounds.Max.X, o.X), max(bounds.Max.Y, o.Y)
	}

	index := spatial.New[*model.Tile](bounds, spatial.DefaultCapacity, spatial.DefaultMaxDepth)
	for _, t := range tiles {
		index.Insert(tileOrigin(t.Coord), t)
	}
	return index
}

// cellScratch is the per-worker state of the quadtree engine
type cellScratch struct {
	found []spatial.Item[*model.Tile]
	cells *spatial.Quadtree[struct{}]
}

func newCellScratch() *cellScratch {
	return &cellScratch{
		found: make([]spatial.Item[*model.Tile], 0, 9),
		cells: spatial.New[struct{}](r2.Box{}, spatial.DefaultCapacity, spatial.DefaultMaxDepth),
	}
}

// nextGeneration writes t.Next. Live cells of the tile and its neighbours
// that fall within one cell of the tile's footprint go into the cell index;
// every cell then counts the points in its 3x3 neighbourhood, itself included.
func (s *cellScratch) nextGeneration(index *spatial.Quadtree[*model.Tile], t *model.Tile) {
	origin := tileOrigin(t.Coord)
	s.found = index.Query(spatial.BoxAround(origin, tileReach), s.found[:0])

	s.cells.Reset(r2.Box{
		Min: r2.Sub(origin, r2.Vec{X: 1, Y: 1}),
		Max: r2.Add(origin, r2.Vec{X: model.TileEdge, Y: model.TileEdge}),
	})
	for _, it := range s.found {
		n := it.Value
		n.Current.ForEachLive(func(x, y int) {
			s.cells.Insert(r2.Vec{X: float64(n.Coord.X + x), Y: float64(n.Coord.Y + y)}, struct{}{})
		})
	}

	t.Next = model.Bits{}
	if s.cells.Len() == 0 {
		return
	}

	for sy := range model.SubBlocks {
		for sx := range model.SubBlocks {
			x0, y0 := sx*model.BlockEdge, sy*model.BlockEdge
			block := r2.Box{
				Min: r2.Add(origin, r2.Vec{X: float64(x0) - cellReach, Y: float64(y0) - cellReach}),
				Max: r2.Add(origin, r2.Vec{X: float64(x0+model.BlockEdge-1) + cellReach, Y: float64(y0+model.BlockEdge-1) + cellReach}),
			}
			if s.cells.Count(block) == 0 {
				continue
			}

			current := t.Current.Word(sx, sy)
			var word uint64
			for by := range model.BlockEdge {
				for bx := range model.BlockEdge {
					bit := by*model.BlockEdge + bx
					cell := r2.Add(origin, r2.Vec{X: float64(x0 + bx), Y: float64(y0 + by)})
					count := s.cells.Count(spatial.BoxAround(cell, cellReach))
					if rules.ApplyInclusiveRules(count, current>>bit&1 == 1) {
						word |= 1 << bit
					}
				}
			}
			t.Next[sy*model.SubBlocks+sx] = word
		}
	}
}
