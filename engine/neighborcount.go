package engine

import (
	"context"
	"math/bits"

	"github.com/sheikhrachel/go-gol-tiles/model"
	"github.com/sheikhrachel/go-gol-tiles/rules"
)

const (
	// accEdge is the accumulator width: the tile plus a one-cell border.
	accEdge = model.TileEdge + 2
	accSize = accEdge * accEdge
	// far is the local coordinate of the border column/row past the last cell.
	far = model.TileEdge
)

// accumulator holds one encoded slot per cell of a tile and its border:
// bit 3 is the cell's own state, bits 0-2 its saturated neighbour count.
type accumulator [accSize]uint8

func slot(x, y int) int {
	return (y+1)*accEdge + x + 1
}

// stamp adds one neighbour to each of the 8 slots around local (x, y).
// (x, y) may lie on the border; slots beyond the border are skipped.
func (a *accumulator) stamp(x, y int) {
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		if ny < -1 || ny > far {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := x + dx
			if (dx == 0 && dy == 0) || nx < -1 || nx > far {
				continue
			}
			i := slot(nx, ny)
			a[i] = rules.Increment(a[i])
		}
	}
}

// stampLine stamps every live bit of an edge line. Bit i sits at
// (i, fixed) for a horizontal line and (fixed, i) for a vertical one.
func (a *accumulator) stampLine(line uint32, fixed int, horizontal bool) {
	for line != 0 {
		i := bits.TrailingZeros32(line)
		line &= line - 1
		if horizontal {
			a.stamp(i, fixed)
		} else {
			a.stamp(fixed, i)
		}
	}
}

// NeighborCountEngine computes generations with a per-tile byte accumulator
// and edge summaries exchanged between adjacent tiles.
type NeighborCountEngine struct {
	workers int
}

// NewNeighborCountEngine creates the engine. workers <= 0 uses one worker per CPU.
func NewNeighborCountEngine(workers int) *NeighborCountEngine {
	return &NeighborCountEngine{workers: workers}
}

func (e *NeighborCountEngine) Name() string {
	return NeighborCount.String()
}

// Compute fills Next for every tile. Edge summaries of all non-empty tiles
// are collected first and only read during the parallel phase.
func (e *NeighborCountEngine) Compute(ctx context.Context, store *model.Store) (ActiveMap, error) {
	tiles := store.Tiles()
	edges := collectEdges(tiles)
	scratch := make([]accumulator, resolveWorkers(e.workers))

	flags, err := forEachTile(ctx, tiles, e.workers, func(worker int, t *model.Tile) (bool, error) {
		acc := &scratch[worker]
		*acc = accumulator{}
		accumulate(acc, t, edges)
		t.Next = resolve(acc)
		return t.Current.Any(), nil
	})
	if err != nil {
		return nil, err
	}
	return toActiveMap(tiles, flags), nil
}

// collectEdges snapshots the edge summaries of tiles with a live boundary cell.
// Missing entries read as all-dead.
func collectEdges(tiles []*model.Tile) map[model.Coord]model.EdgeSummary {
	edges := make(map[model.Coord]model.EdgeSummary, len(tiles))
	for _, t := range tiles {
		if e := t.Current.Edges(); !e.Empty() {
			edges[t.Coord] = e
		}
	}
	return edges
}

// accumulate stamps the tile's own live cells, then the boundary cells of
// its eight neighbours at their positions on the border.
func accumulate(acc *accumulator, t *model.Tile, edges map[model.Coord]model.EdgeSummary) {
	t.Current.ForEachLive(func(x, y int) {
		acc.stamp(x, y)
		acc[slot(x, y)] |= rules.AliveFlag
	})

	c := t.Coord
	if e, ok := edges[c.Add(0, -1)]; ok {
		acc.stampLine(e.Bottom, -1, true)
	}
	if e, ok := edges[c.Add(0, 1)]; ok {
		acc.stampLine(e.Top, far, true)
	}
	if e, ok := edges[c.Add(-1, 0)]; ok {
		acc.stampLine(e.Right, -1, false)
	}
	if e, ok := edges[c.Add(1, 0)]; ok {
		acc.stampLine(e.Left, far, false)
	}

	if e, ok := edges[c.Add(-1, -1)]; ok && e.BottomRight() {
		acc.stamp(-1, -1)
	}
	if e, ok := edges[c.Add(1, -1)]; ok && e.BottomLeft() {
		acc.stamp(far, -1)
	}
	if e, ok := edges[c.Add(-1, 1)]; ok && e.TopRight() {
		acc.stamp(-1, far)
	}
	if e, ok := edges[c.Add(1, 1)]; ok && e.TopLeft() {
		acc.stamp(far, far)
	}
}

// resolve maps the interior slots through the rule table. Border slots only
// carry counts that belong to neighbouring tiles and are ignored.
func resolve(acc *accumulator) (next model.Bits) {
	for sy := range model.SubBlocks {
		for sx := range model.SubBlocks {
			var word uint64
			for by := range model.BlockEdge {
				row := slot(sx*model.BlockEdge, sy*model.BlockEdge+by)
				for bx := range model.BlockEdge {
					word |= rules.NextStateTable[acc[row+bx]&(rules.AliveFlag|rules.CountMask)] << (by*model.BlockEdge + bx)
				}
			}
			next[sy*model.SubBlocks+sx] = word
		}
	}
	return
}
