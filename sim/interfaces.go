package sim

import (
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-tiles/engine"
	"github.com/sheikhrachel/go-gol-tiles/model"
)

var (
	// ErrUnknownPreset is returned by SeedPreset for an unknown preset name
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrPresetSize is returned by SeedPreset for a size index outside PresetSizes
	ErrPresetSize = errors.New("preset size out of range")
)

// PresetSizes lists the tile counts SeedPreset can lay out, by size index.
var PresetSizes = []int{1, 1024, 2048, 4096, 8192, 16384, 32768, 65536, 131072, 262144}

// presetWidths is the grid width in tiles for each entry of PresetSizes
var presetWidths = []int{1, 32, 32, 64, 64, 128, 128, 256, 256, 512}

// Preset names accepted by SeedPreset
const (
	PresetGlider      = "glider"
	PresetLightweight = "lightweight"
	PresetGospelGun   = "gospel"
	PresetSpaceFiller = "spacefiller"
	PresetRandom      = "random"
)

// Fill produces the seed of the tile at grid cell (x, y)
type Fill func(x, y int) model.Bits

// FillPattern seeds every tile with the same generation
func FillPattern(b model.Bits) Fill {
	return func(int, int) model.Bits { return b }
}

// FillRandom seeds every tile uniformly at random from r
func FillRandom(r *rand.Rand) Fill {
	return func(int, int) model.Bits { return model.RandomBits(r) }
}

// FillDensity seeds every tile at random with the given share of live cells
func FillDensity(r *rand.Rand, density float64) Fill {
	return func(int, int) model.Bits { return model.RandomDensity(r, density) }
}

// Toggle flips the world cell (wx, wy), creating its tile if absent, and
// freezes the next step. It returns the cell's new state.
func (s *Simulation) Toggle(wx, wy int) bool {
	c, lx, ly := model.CoordOf(wx, wy)
	alive := s.store.Ensure(c).Current.Toggle(lx, ly)
	s.markEdited()
	return alive
}

// Set sets the world cell (wx, wy), creating its tile if absent, and freezes
// the next step.
func (s *Simulation) Set(wx, wy int, alive bool) {
	c, lx, ly := model.CoordOf(wx, wy)
	s.store.Ensure(c).Current.Set(lx, ly, alive)
	s.markEdited()
}

// Get returns the state of world cell (wx, wy); cells of absent tiles are dead
func (s *Simulation) Get(wx, wy int) bool {
	c, lx, ly := model.CoordOf(wx, wy)
	t, ok := s.store.Get(c)
	return ok && t.Current.Get(lx, ly)
}

func (s *Simulation) markEdited() {
	s.pendingFreeze = true
	s.previewReady = false
}

// SeedTile inserts one tile. An occupied coordinate is left untouched and
// model.ErrTileExists is returned.
func (s *Simulation) SeedTile(c model.Coord, b model.Bits) error {
	if _, err := s.store.Insert(c, b); err != nil {
		return errors.Wrap(err, "[SeedTile] failed to insert tile")
	}
	s.previewReady = false
	return nil
}

// SeedGrid inserts a cols x rows block of tiles centred on the origin,
// seeding each from fill. Occupied coordinates are skipped; the first such
// conflict is returned after the rest of the grid has been inserted.
func (s *Simulation) SeedGrid(cols, rows int, fill Fill) error {
	var firstErr error
	for y := range rows {
		for x := range cols {
			c := model.Coord{
				X: model.TileEdge * (x - cols/2 - 1),
				Y: model.TileEdge * (y - rows/2 - 1),
			}
			if err := s.SeedTile(c, fill(x, y)); err != nil && firstErr == nil {
				firstErr = errors.Wrapf(err, "[SeedGrid] grid cell (%d, %d)", x, y)
			}
		}
	}
	s.refreshTotals()
	s.logger.Debug("grid seeded", "cols", cols, "rows", rows, "tiles", s.stats.Tiles)
	return firstErr
}

// SeedPreset replaces the universe with a named preset laid out over
// PresetSizes[size] tiles and pauses the simulation.
func (s *Simulation) SeedPreset(name string, size int) error {
	if size < 0 || size >= len(PresetSizes) {
		return errors.Wrapf(ErrPresetSize, "[SeedPreset] %d", size)
	}

	var fill Fill
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PresetGlider:
		fill = FillPattern(model.Fill(model.GliderWord))
	case PresetLightweight:
		fill = FillPattern(model.Fill(model.LightweightWord))
	case PresetSpaceFiller:
		fill = FillPattern(model.SpaceFiller)
	case PresetRandom:
		fill = FillRandom(s.rng)
	case PresetGospelGun:
		s.Reset()
		s.seedGospelGuns(PresetSizes[size])
		s.SetPaused(true)
		return nil
	default:
		return errors.Wrapf(ErrUnknownPreset, "[SeedPreset] %q", name)
	}

	s.Reset()
	cols := presetWidths[size]
	if err := s.SeedGrid(cols, PresetSizes[size]/cols, fill); err != nil {
		return errors.Wrap(err, "[SeedPreset] failed to seed grid")
	}
	s.SetPaused(true)
	return nil
}

// seedGospelGuns lays out pairs of gun tiles in a row, one pair per two tiles
func (s *Simulation) seedGospelGuns(tiles int) {
	left, right := model.GospelGliderGun()
	y := -model.TileEdge
	for i := 0; i < tiles; i += 2 {
		x := model.TileEdge * i
		// Both coordinates advance by two tiles per pair, so they never collide.
		_ = s.SeedTile(model.Coord{X: x - model.TileEdge, Y: y}, left)
		_ = s.SeedTile(model.Coord{X: x, Y: y}, right)
	}
	s.refreshTotals()
}

// refreshTotals brings the tile and population counts up to date after seeding
func (s *Simulation) refreshTotals() {
	s.stats.Tiles = s.store.Len()
	s.stats.Population = s.store.Population()
}

// Reset empties the universe and clears the generation counter
func (s *Simulation) Reset() {
	s.store.Reset()
	s.generation = 0
	s.pendingFreeze = false
	s.previewReady = false
	s.stats = StepStats{Algorithm: s.mode.Algorithm}
}

// TileView is the rendered state of one tile
type TileView struct {
	Coord model.Coord
	Bits  model.Bits
}

// Window returns size x size tiles starting at origin in row-major order.
// Tiles missing from the store are returned all-dead.
func (s *Simulation) Window(origin model.Coord, size int) []TileView {
	views := make([]TileView, 0, size*size)
	for ty := range size {
		for tx := range size {
			c := origin.Add(tx, ty)
			v := TileView{Coord: c}
			if t, ok := s.store.Get(c); ok {
				v.Bits = t.Current
			}
			views = append(views, v)
		}
	}
	return views
}

// WindowGrid renders the same window as Window into a dense grid
func (s *Simulation) WindowGrid(origin model.Coord, size int) *model.Grid {
	g := model.NewGrid(origin.X, origin.Y, size*model.TileEdge, size*model.TileEdge)
	for _, v := range s.Window(origin, size) {
		g.Blit(v.Coord, &v.Bits)
	}
	return g
}

// Preview returns the Next generation of tile c computed by the last frozen
// step. ok is false when no preview is available for c.
func (s *Simulation) Preview(c model.Coord) (model.Bits, bool) {
	if !s.previewReady {
		return model.Bits{}, false
	}
	t, ok := s.store.Get(c)
	if !ok {
		return model.Bits{}, false
	}
	return t.Next, true
}

// StepStats is the per-step summary exposed to user interfaces
type StepStats struct {
	Generation int
	// ActiveTiles counts tiles that had a live cell going into the step.
	ActiveTiles int
	// RetainedTiles counts inactive tiles kept next to active ones.
	RetainedTiles int
	Created       int
	Destroyed     int
	Tiles         int
	Population    int
	Algorithm     engine.Algorithm
	Duration      time.Duration
}

// LogValue implements slog.LogValuer for structured logging.
func (st StepStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", st.Generation),
		slog.Int("active", st.ActiveTiles),
		slog.Int("retained", st.RetainedTiles),
		slog.Int("created", st.Created),
		slog.Int("destroyed", st.Destroyed),
		slog.Int("tiles", st.Tiles),
		slog.Int("population", st.Population),
		slog.String("algorithm", st.Algorithm.String()),
		slog.Duration("duration", st.Duration),
	)
}

// Stats returns the summary of the last committed step
func (s *Simulation) Stats() StepStats {
	return s.stats
}
