package model

import (
	"math/rand"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownPattern is returned for a pattern name outside the library
var ErrUnknownPattern = errors.New("unknown pattern")

// Single sub-block patterns, one 8x8 word each.
const (
	GliderWord      uint64 = 0x00000000020A0600
	BlinkWord       uint64 = 0x0077007700770077
	BoxWord         uint64 = 0x0000000000CCCC00
	TinyBoxWord     uint64 = 0x0000000000000303
	BigBlockWord    uint64 = ^uint64(0)
	LightweightWord uint64 = 0x0000003C22201200
)

// SpaceFiller is a full-tile pattern that grows to fill the plane.
var SpaceFiller = Bits{
	0xC0A08080C0000000, 0xA7AAE84599390000, 0x238010365E820000, 0x1200000000000000,
	0x00E0202040006000, 0xF906A52048004420, 0x2A02FAA9F40179C9, 0x253B0400043B2521,
	0x0000402020E00000, 0x4008229CF50679A8, 0xB8A82E2414049124, 0x082A1F0031001020,
	0x0000000000000000, 0x000000000008D060, 0x0000000000E2CB13, 0x0000000000041C0D,
}

// GospelGliderGun returns the two horizontally adjacent tiles of a Gosper
// glider gun, left tile first.
func GospelGliderGun() (left, right Bits) {
	left[3] = 0x0000000030300000
	right[0] = 0x0080800000008080
	right[1] = 0x0080C28C0C0C0200
	right[2] = 0x11202220110C0000
	right[3] = 0x0000C0C000000000
	right[6] = 0x000000000000000C
	return
}

var wordPatterns = map[string]uint64{
	"glider":      GliderWord,
	"blink":       BlinkWord,
	"box":         BoxWord,
	"tinybox":     TinyBoxWord,
	"bigblock":    BigBlockWord,
	"lightweight": LightweightWord,
}

// PatternNames lists the names accepted by PatternByName
func PatternNames() []string {
	names := []string{"spacefiller"}
	for name := range wordPatterns {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Fill repeats one sub-block word across every sub-block of a tile
func Fill(word uint64) (b Bits) {
	for i := range b {
		b[i] = word
	}
	return
}

// PatternByName returns a full tile for a named pattern. Single sub-block
// patterns are repeated in every sub-block.
func PatternByName(name string) (Bits, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "spacefiller" {
		return SpaceFiller, nil
	}
	word, ok := wordPatterns[name]
	if !ok {
		return Bits{}, errors.Wrapf(ErrUnknownPattern, "[PatternByName] %q", name)
	}
	return Fill(word), nil
}

// RandomBits fills a tile uniformly at random
func RandomBits(r *rand.Rand) (b Bits) {
	for i := range b {
		b[i] = r.Uint64()
	}
	return
}

// RandomDensity fills a tile with living cells at the given density
func RandomDensity(r *rand.Rand, density float64) (b Bits) {
	for y := range TileEdge {
		for x := range TileEdge {
			if r.Float64() < density {
				b.Set(x, y, true)
			}
		}
	}
	return
}

// Stamp draws rows of text at local (x, y); '#' and 'O' are alive, anything
// else is dead. Cells falling outside the tile are dropped.
func (b *Bits) Stamp(x, y int, rows ...string) {
	for dy, row := range rows {
		for dx, ch := range row {
			cx, cy := x+dx, y+dy
			if cx < 0 || cx >= TileEdge || cy < 0 || cy >= TileEdge {
				continue
			}
			b.Set(cx, cy, ch == '#' || ch == 'O')
		}
	}
}

// GliderRows is a glider heading towards increasing x and y
var GliderRows = []string{
	".#.",
	"..#",
	"###",
}

// BlinkerRows is a period-2 oscillator
var BlinkerRows = []string{"###"}
