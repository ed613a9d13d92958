package model

import "fmt"

// Coord is the world-space origin of a tile. Both components are multiples of TileEdge.
type Coord struct {
	X, Y int
}

// CoordOf returns the tile containing world cell (wx, wy) and the cell's local position in it
func CoordOf(wx, wy int) (c Coord, lx, ly int) {
	c = Coord{X: floorTile(wx), Y: floorTile(wy)}
	return c, wx - c.X, wy - c.Y
}

func floorTile(v int) int {
	if v >= 0 {
		return v / TileEdge * TileEdge
	}
	return -((-v + TileEdge - 1) / TileEdge * TileEdge)
}

// Add offsets the coordinate by whole tiles
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx*TileEdge, Y: c.Y + dy*TileEdge}
}

// Neighbors returns the 8 surrounding tile coordinates, row by row from the top left
func (c Coord) Neighbors() [8]Coord {
	return [8]Coord{
		c.Add(-1, -1), c.Add(0, -1), c.Add(1, -1),
		c.Add(-1, 0), c.Add(1, 0),
		c.Add(-1, 1), c.Add(0, 1), c.Add(1, 1),
	}
}

// Less orders coordinates row-major
func (c Coord) Less(o Coord) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Tile is a fixed 32x32 block of the universe. Current is the published
// generation; Next is scratch for the step in progress.
type Tile struct {
	Coord   Coord
	Current Bits
	Next    Bits
}

// NewTile creates a tile at c seeded with the given generation
func NewTile(c Coord, seed Bits) *Tile {
	return &Tile{Coord: c, Current: seed}
}

// Commit publishes Next as Current and clears Next
func (t *Tile) Commit() {
	t.Current = t.Next
	t.Next = Bits{}
}

// Active reports whether the current generation has a living cell
func (t *Tile) Active() bool {
	return t.Current.Any()
}
