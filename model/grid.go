package model

import "github.com/sheikhrachel/go-gol-tiles/rules"

// Grid is a dense, bounded window onto the universe in world coordinates.
// It backs terminal rendering and serves as a brute-force reference stepper.
type Grid struct {
	originX int
	originY int
	width   int
	height  int
	cells   [][]bool
}

// NewGrid creates a dead grid covering world cells [x, x+width) × [y, y+height)
func NewGrid(x, y, width, height int) *Grid {
	cells := make([][]bool, height)
	for i := range cells {
		cells[i] = make([]bool, width)
	}
	return &Grid{
		originX: x,
		originY: y,
		width:   width,
		height:  height,
		cells:   cells,
	}
}

// GetWidth returns the width of the grid
func (g *Grid) GetWidth() int {
	return g.width
}

// GetHeight returns the height of the grid
func (g *Grid) GetHeight() int {
	return g.height
}

// Origin returns the world coordinate of the top-left cell
func (g *Grid) Origin() (x, y int) {
	return g.originX, g.originY
}

// Set sets a world cell to alive (true) or dead (false); cells outside the grid are ignored
func (g *Grid) Set(wx, wy int, alive bool) {
	x, y := wx-g.originX, wy-g.originY
	if x >= 0 && x < g.width && y >= 0 && y < g.height {
		g.cells[y][x] = alive
	}
}

// Get returns the state of a world cell; cells outside the grid are dead
func (g *Grid) Get(wx, wy int) bool {
	x, y := wx-g.originX, wy-g.originY
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return false
	}
	return g.cells[y][x]
}

// Blit copies a tile generation into the grid at the tile's world position
func (g *Grid) Blit(c Coord, b *Bits) {
	b.ForEachLive(func(x, y int) {
		g.Set(c.X+x, c.Y+y, true)
	})
}

// CountNeighborsOptimized counts living neighbors of grid-local (x, y) with bounds checking
func (g *Grid) CountNeighborsOptimized(x, y int) int {
	count := 0

	minX := max(0, x-1)
	maxX := min(g.width-1, x+1)
	minY := max(0, y-1)
	maxY := min(g.height-1, y+1)

	for ny := minY; ny <= maxY; ny++ {
		for nx := minX; nx <= maxX; nx++ {
			if nx == x && ny == y {
				continue // Skip the cell itself
			}
			if g.cells[ny][nx] {
				count++
			}
		}
	}

	return count
}

// NextGeneration calculates the next generation; everything outside the grid is dead
func (g *Grid) NextGeneration() *Grid {
	next := NewGrid(g.originX, g.originY, g.width, g.height)
	for y := range g.height {
		for x := range g.width {
			next.cells[y][x] = rules.ApplyConwayRules(g.CountNeighborsOptimized(x, y), g.cells[y][x])
		}
	}
	return next
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for y := range g.height {
		for x := range g.width {
			if g.cells[y][x] {
				count++
			}
		}
	}
	return
}

// LiveCells returns the world coordinates of every living cell in row-major order
func (g *Grid) LiveCells() [][2]int {
	var live [][2]int
	for y := range g.height {
		for x := range g.width {
			if g.cells[y][x] {
				live = append(live, [2]int{g.originX + x, g.originY + y})
			}
		}
	}
	return live
}
