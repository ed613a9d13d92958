package model

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/pkg/errors"
)

// ErrTileExists is returned when a tile is inserted at an occupied coordinate
var ErrTileExists = errors.New("tile already exists")

// Store maps tile coordinates to tiles. It holds exactly one tile per coordinate.
// It is not safe for concurrent mutation; engines only read it while they run.
type Store struct {
	tiles map[Coord]*Tile
	pool  *TilePool
}

// NewStore creates an empty store. A nil pool allocates fresh tiles.
func NewStore(pool *TilePool) *Store {
	return &Store{
		tiles: make(map[Coord]*Tile, 256),
		pool:  pool,
	}
}

// Len returns the number of tiles
func (s *Store) Len() int {
	return len(s.tiles)
}

// Get returns the tile at c
func (s *Store) Get(c Coord) (*Tile, bool) {
	t, ok := s.tiles[c]
	return t, ok
}

// Has reports whether a tile exists at c
func (s *Store) Has(c Coord) bool {
	_, ok := s.tiles[c]
	return ok
}

// Insert adds a tile at c seeded with the given generation. An occupied
// coordinate is left untouched and ErrTileExists is returned.
func (s *Store) Insert(c Coord, seed Bits) (*Tile, error) {
	if c.X%TileEdge != 0 || c.Y%TileEdge != 0 {
		panic(fmt.Sprintf("model: tile coordinate %v not aligned to %d", c, TileEdge))
	}
	if existing, ok := s.tiles[c]; ok {
		return existing, errors.Wrapf(ErrTileExists, "[Insert] coordinate %v", c)
	}
	t := s.pool.Get(c)
	t.Current = seed
	s.tiles[c] = t
	return t, nil
}

// Ensure returns the tile at c, creating an empty one if absent
func (s *Store) Ensure(c Coord) *Tile {
	if t, ok := s.tiles[c]; ok {
		return t
	}
	t, _ := s.Insert(c, Bits{})
	return t
}

// Remove deletes the tile at c and recycles it
func (s *Store) Remove(c Coord) bool {
	t, ok := s.tiles[c]
	if !ok {
		return false
	}
	delete(s.tiles, c)
	TileToPool(t, s.pool)
	return true
}

// Reset removes every tile
func (s *Store) Reset() {
	for c := range s.tiles {
		s.Remove(c)
	}
}

// Coords returns all tile coordinates in row-major order
func (s *Store) Coords() []Coord {
	coords := make([]Coord, 0, len(s.tiles))
	for c := range s.tiles {
		coords = append(coords, c)
	}
	slices.SortFunc(coords, compareCoords)
	return coords
}

// Tiles returns a row-major snapshot of the tiles
func (s *Store) Tiles() []*Tile {
	tiles := make([]*Tile, 0, len(s.tiles))
	for _, c := range s.Coords() {
		tiles = append(tiles, s.tiles[c])
	}
	return tiles
}

// Population returns the number of living cells across all tiles
func (s *Store) Population() (count int) {
	for _, t := range s.tiles {
		count += t.Current.Population()
	}
	return
}

// Bounds returns the smallest tile-aligned rectangle covering every tile;
// hi is exclusive. ok is false for an empty store.
func (s *Store) Bounds() (lo, hi Coord, ok bool) {
	for c := range s.tiles {
		if !ok {
			lo, hi, ok = c, c, true
			continue
		}
		lo.X, lo.Y = min(lo.X, c.X), min(lo.Y, c.Y)
		hi.X, hi.Y = max(hi.X, c.X), max(hi.Y, c.Y)
	}
	if ok {
		hi = hi.Add(1, 1)
	}
	return
}

// Hash returns an MD5 hash of the live state. Empty tiles are skipped so
// the hash does not change when idle tiles are created or reclaimed.
func (s *Store) Hash() string {
	h := md5.New()
	var buf [8]byte
	for _, c := range s.Coords() {
		t := s.tiles[c]
		if !t.Current.Any() {
			continue
		}
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(c.X)))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(c.Y)))
		h.Write(buf[:])
		for _, w := range t.Current {
			binary.LittleEndian.PutUint64(buf[:], w)
			h.Write(buf[:])
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func compareCoords(a, b Coord) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}
