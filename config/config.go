package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var ErrInvalid = errors.New("invalid config")

type Config struct {
	TileSize  int        `yaml:"tile_size"`
	Map       MapSize    `yaml:"map"`
	Zoom      ZoomRange  `yaml:"zoom"`
	UndoLimit int        `yaml:"undo_limit"`
	Render    RenderSpec `yaml:"render"`
	DataDir   string     `yaml:"data_dir"`
	Store     StoreSpec  `yaml:"store"`
	Server    ServerSpec `yaml:"server"`
	Log       LogSpec    `yaml:"log"`
}

type MapSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ZoomRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type RenderSpec struct {
	Debounce         time.Duration `yaml:"debounce"`
	Timeout          time.Duration `yaml:"timeout"`
	ShowGrid         bool          `yaml:"show_grid"`
	ShowCheckerboard bool          `yaml:"show_checkerboard"`
	CacheSize        int           `yaml:"cache_size"`
	MaxCanvasSide    int           `yaml:"max_canvas_side"`
	MaxCanvasPixels  int           `yaml:"max_canvas_pixels"`
}

type StoreSpec struct {
	Kind string `yaml:"kind"`
	DSN  string `yaml:"dsn"`
}

type ServerSpec struct {
	Addr string `yaml:"addr"`
}

type LogSpec struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		panic(fmt.Sprintf("config: bad default.yaml: %v", err))
	}
	return c
}

// Load reads path over the defaults. An empty path returns the defaults.
// DB_TYPE, DATABASE_URL and PORT override the file.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
		}
	}
	c.applyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("DB_TYPE"); v != "" {
		c.Store.Kind = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.Store.DSN = v
	}
	if v := getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
}

func (c Config) Validate() error {
	switch {
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile_size must be positive, got %d", ErrInvalid, c.TileSize)
	case c.Map.Width <= 0 || c.Map.Height <= 0:
		return fmt.Errorf("%w: map size %dx%d", ErrInvalid, c.Map.Width, c.Map.Height)
	case c.Zoom.Min < 1 || c.Zoom.Max < c.Zoom.Min:
		return fmt.Errorf("%w: zoom range %d..%d", ErrInvalid, c.Zoom.Min, c.Zoom.Max)
	case c.Render.Timeout <= 0:
		return fmt.Errorf("%w: render timeout must be positive", ErrInvalid)
	case c.Render.MaxCanvasSide <= 0 || c.Render.MaxCanvasPixels <= 0:
		return fmt.Errorf("%w: render canvas limits must be positive", ErrInvalid)
	case c.Store.Kind != "json" && c.Store.Kind != "postgres":
		return fmt.Errorf("%w: unknown store kind %q", ErrInvalid, c.Store.Kind)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalid, err)
	}
	return nil
}

// LogLevel is the parsed log level, falling back to info.
func (c Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
