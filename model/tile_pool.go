package model

import "sync"

// TileToPool returns a tile to the pool for reuse
func TileToPool(tile *Tile, pool *TilePool) {
	if pool == nil {
		return
	}

	pool.Put(tile)
}

// TilePool recycles tiles reclaimed by the active-region manager
type TilePool struct {
	pool sync.Pool
}

func NewTilePool() *TilePool {
	return &TilePool{
		pool: sync.Pool{
			New: func() interface{} {
				return &Tile{}
			},
		},
	}
}

// Get retrieves an empty tile from the pool positioned at c.
// A nil pool allocates a new tile.
func (p *TilePool) Get(c Coord) *Tile {
	if p == nil {
		return &Tile{Coord: c}
	}
	t := p.pool.Get().(*Tile)
	t.Coord = c
	return t
}

// Put returns a tile to the pool, clearing both generations
func (p *TilePool) Put(t *Tile) {
	// Clear the tile before returning to pool
	t.Current.Clear()
	t.Next.Clear()
	p.pool.Put(t)
}
