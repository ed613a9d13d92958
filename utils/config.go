package utils

import (
	_ "embed"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sheikhrachel/go-gol-tiles/engine"
	"github.com/sheikhrachel/go-gol-tiles/model"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the configuration for the game
type Config struct {
	Algorithm           engine.Algorithm `yaml:"algorithm"`
	Workers             int              `yaml:"workers"`
	FrameRate           time.Duration    `yaml:"frame_rate"`
	MaxGenerations      int              `yaml:"max_generations"`
	Paused              bool             `yaml:"paused"`
	StagnationThreshold int              `yaml:"stagnation_threshold"`
	Seed                SeedConfig       `yaml:"seed"`
	Render              RenderConfig     `yaml:"render"`
	Stats               StatsConfig      `yaml:"stats"`
}

// SeedConfig describes the initial universe
type SeedConfig struct {
	Pattern    string  `yaml:"pattern"`
	Cols       int     `yaml:"cols"`
	Rows       int     `yaml:"rows"`
	Density    float64 `yaml:"density"`
	RandomSeed int64   `yaml:"random_seed"`
}

// RenderConfig places the terminal view window, in tiles
type RenderConfig struct {
	Enabled     bool `yaml:"enabled"`
	WindowTiles int  `yaml:"window_tiles"`
	OriginX     int  `yaml:"origin_x"`
	OriginY     int  `yaml:"origin_y"`
}

// StatsConfig controls rolling statistics and CSV output
type StatsConfig struct {
	Window    int    `yaml:"window"`
	OutputDir string `yaml:"output_dir"`
	LogEvery  int    `yaml:"log_every"`
}

// DefaultConfig returns the embedded defaults
func DefaultConfig() Config {
	var config Config
	if err := yaml.Unmarshal(defaultsYAML, &config); err != nil {
		panic("utils: embedded defaults do not parse: " + err.Error())
	}
	return config
}

// LoadConfig overlays a YAML file on the defaults. Only fields present in
// the file are changed. An empty filename returns the defaults.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()
	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] file: %+v", filename)
	}
	return config, nil
}

// Validate rejects settings no component can run with
func (c Config) Validate() error {
	switch {
	case !c.Algorithm.Valid():
		return errors.Wrapf(ErrInvalidConfig, "[Validate] algorithm %d", int(c.Algorithm))
	case c.Workers < 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] workers %d", c.Workers)
	case c.FrameRate < 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] frame_rate %v", c.FrameRate)
	case c.Render.WindowTiles <= 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] render.window_tiles %d", c.Render.WindowTiles)
	case c.Render.OriginX%model.TileEdge != 0 || c.Render.OriginY%model.TileEdge != 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] render origin (%d, %d) not tile aligned", c.Render.OriginX, c.Render.OriginY)
	case c.Seed.Cols < 0 || c.Seed.Rows < 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] seed grid %dx%d", c.Seed.Cols, c.Seed.Rows)
	case c.Seed.Density < 0 || c.Seed.Density > 1:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] seed.density %v", c.Seed.Density)
	case c.Stats.Window <= 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] stats.window %d", c.Stats.Window)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file
func (c Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "[WriteYAML] failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "[WriteYAML] failed to write file: %+v", path)
	}
	return nil
}
