package model

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	// SubBlocks is the number of sub-blocks along one tile edge.
	SubBlocks = 4
	// BlockEdge is the number of cells along one sub-block edge.
	BlockEdge = 8
	// TileEdge is the number of cells along one tile edge.
	TileEdge = SubBlocks * BlockEdge
	// TileWords is the number of 64-bit words in one generation of a tile.
	TileWords = SubBlocks * SubBlocks

	blockShift = 3
	blockMask  = BlockEdge - 1
)

// Bits holds one generation of a tile. Word sy*SubBlocks+sx encodes sub-block
// (sx, sy); bit by*BlockEdge+bx of that word is local cell (sx*8+bx, sy*8+by).
type Bits [TileWords]uint64

// BitIndex resolves a local cell to its word and bit. It panics when x or y
// fall outside the tile.
func BitIndex(x, y int) (word, bit int) {
	if x < 0 || x >= TileEdge || y < 0 || y >= TileEdge {
		panic(fmt.Sprintf("model: local cell (%d, %d) outside 0..%d", x, y, TileEdge-1))
	}
	word = (y>>blockShift)*SubBlocks + x>>blockShift
	bit = (y&blockMask)*BlockEdge + x&blockMask
	return
}

// Get returns the state of a local cell
func (b *Bits) Get(x, y int) bool {
	w, i := BitIndex(x, y)
	return b[w]>>i&1 == 1
}

// Set sets a local cell to alive (true) or dead (false)
func (b *Bits) Set(x, y int, alive bool) {
	w, i := BitIndex(x, y)
	if alive {
		b[w] |= 1 << i
	} else {
		b[w] &^= 1 << i
	}
}

// Toggle flips a local cell and returns its new state
func (b *Bits) Toggle(x, y int) bool {
	w, i := BitIndex(x, y)
	b[w] ^= 1 << i
	return b[w]>>i&1 == 1
}

// Word returns the word of sub-block (sx, sy)
func (b *Bits) Word(sx, sy int) uint64 {
	return b[sy*SubBlocks+sx]
}

// Any reports whether at least one cell is alive
func (b *Bits) Any() bool {
	for _, w := range b {
		if w != 0 {
			return true
		}
	}
	return false
}

// Population returns the number of living cells
func (b *Bits) Population() (count int) {
	for _, w := range b {
		count += bits.OnesCount64(w)
	}
	return
}

// Clear kills every cell
func (b *Bits) Clear() {
	*b = Bits{}
}

// ForEachLive calls fn with the local coordinate of every living cell,
// sub-block by sub-block.
func (b *Bits) ForEachLive(fn func(x, y int)) {
	for w, word := range b {
		if word == 0 {
			continue
		}
		ox := (w % SubBlocks) * BlockEdge
		oy := (w / SubBlocks) * BlockEdge
		for word != 0 {
			i := bits.TrailingZeros64(word)
			word &= word - 1
			fn(ox+i&blockMask, oy+i>>blockShift)
		}
	}
}

// Edges derives the edge summary of this generation.
func (b *Bits) Edges() (e EdgeSummary) {
	for sx := range SubBlocks {
		e.Top |= uint32(b[sx]&0xFF) << (sx * BlockEdge)
		e.Bottom |= uint32(b[(SubBlocks-1)*SubBlocks+sx]>>56) << (sx * BlockEdge)
	}
	for sy := range SubBlocks {
		left := b[sy*SubBlocks]
		right := b[sy*SubBlocks+SubBlocks-1]
		if left == 0 && right == 0 {
			continue
		}
		for by := range BlockEdge {
			e.Left |= uint32(left>>(by*BlockEdge)&1) << (sy*BlockEdge + by)
			e.Right |= uint32(right>>(by*BlockEdge+blockMask)&1) << (sy*BlockEdge + by)
		}
	}
	return
}

// String renders the tile as 32 lines of '#' and '.'
func (b *Bits) String() string {
	var sb strings.Builder
	sb.Grow(TileEdge * (TileEdge + 1))
	for y := range TileEdge {
		for x := range TileEdge {
			if b.Get(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// EdgeSummary holds the four boundary lines of a tile. Bit i of Top and Bottom
// is column i of the first and last row; bit i of Left and Right is row i of
// the first and last column.
type EdgeSummary struct {
	Top, Bottom, Left, Right uint32
}

// Empty reports whether no boundary cell is alive
func (e EdgeSummary) Empty() bool {
	return e.Top|e.Bottom|e.Left|e.Right == 0
}

// TopLeft, TopRight, BottomLeft and BottomRight return the corner cells.
func (e EdgeSummary) TopLeft() bool     { return e.Top&1 != 0 }
func (e EdgeSummary) TopRight() bool    { return e.Top>>(TileEdge-1) != 0 }
func (e EdgeSummary) BottomLeft() bool  { return e.Bottom&1 != 0 }
func (e EdgeSummary) BottomRight() bool { return e.Bottom>>(TileEdge-1) != 0 }
