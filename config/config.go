// Package config loads the TOML settings of the dbdiagram tool.
//
// A config file may hold three tables, all optional:
//
//	[layout]
//	columns = 4
//	table_width = 220
//
//	[theme]
//	header_fill = "#316896"
//
//	[log]
//	level = "debug"
//	format = "json"
//
// Keys that are absent keep their defaults. Unknown keys are rejected.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/lucasefe/dbdiagram/diagram"
	"github.com/lucasefe/dbdiagram/svg"
)

// Config is the full tool configuration.
type Config struct {
	Layout Layout `toml:"layout"`
	Theme  Theme  `toml:"theme"`
	Log    Log    `toml:"log"`
}

// Layout controls table placement and the rendered canvas.
type Layout struct {
	// Columns is the number of tables per grid row.
	Columns      int     `toml:"columns" validate:"min=1,max=64"`
	TableWidth   float64 `toml:"table_width" validate:"gt=0"`
	HeaderHeight float64 `toml:"header_height" validate:"gt=0"`
	RowHeight    float64 `toml:"row_height" validate:"gt=0"`
	Gap          float64 `toml:"gap" validate:"gte=0"`
	// Padding is the empty margin around a rendered diagram, in pixels.
	Padding  float64 `toml:"padding" validate:"gte=0"`
	Scale    float64 `toml:"scale" validate:"gt=0,gtefield=MinScale,ltefield=MaxScale"`
	MinScale float64 `toml:"min_scale" validate:"gt=0"`
	MaxScale float64 `toml:"max_scale" validate:"gtefield=MinScale"`
}

// Theme holds SVG colors. Colors accept any CSS hex, rgb or hsl notation.
type Theme struct {
	Background  string  `toml:"background" validate:"iscolor"`
	TableFill   string  `toml:"table_fill" validate:"iscolor"`
	TableStroke string  `toml:"table_stroke" validate:"iscolor"`
	HeaderFill  string  `toml:"header_fill" validate:"iscolor"`
	HeaderText  string  `toml:"header_text" validate:"iscolor"`
	Text        string  `toml:"text" validate:"iscolor"`
	TypeText    string  `toml:"type_text" validate:"iscolor"`
	EdgeStroke  string  `toml:"edge_stroke" validate:"iscolor"`
	FontFamily  string  `toml:"font_family" validate:"required"`
	FontSize    float64 `toml:"font_size" validate:"gt=0"`
}

// Log configures the slog logger.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	// Format is text or json.
	Format    string `toml:"format" validate:"oneof=text json"`
	AddSource bool   `toml:"add_source"`
}

// Default returns the built-in configuration.
func Default() *Config {
	l := diagram.DefaultLayout()
	t := svg.DefaultTheme()
	return &Config{
		Layout: Layout{
			Columns:      l.Columns,
			TableWidth:   l.TableWidth,
			HeaderHeight: l.HeaderHeight,
			RowHeight:    l.RowHeight,
			Gap:          l.Gap,
			Padding:      40,
			Scale:        1,
			MinScale:     diagram.DefaultMinScale,
			MaxScale:     diagram.DefaultMaxScale,
		},
		Theme: Theme{
			Background:  t.Background,
			TableFill:   t.TableFill,
			TableStroke: t.TableStroke,
			HeaderFill:  t.HeaderFill,
			HeaderText:  t.HeaderText,
			Text:        t.Text,
			TypeText:    t.TypeText,
			EdgeStroke:  t.EdgeStroke,
			FontFamily:  t.FontFamily,
			FontSize:    t.FontSize,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load reads the config file at path on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := checkUndecoded(meta); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads a config document on top of the defaults.
func Parse(data string) (*Config, error) {
	cfg := Default()
	meta, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := checkUndecoded(meta); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkUndecoded(meta toml.MetaData) error {
	keys := meta.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return fmt.Errorf("unknown config keys: %s", strings.Join(names, ", "))
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DiagramLayout returns the grid layout for diagram controllers.
func (c *Config) DiagramLayout() diagram.Layout {
	return diagram.Layout{
		Columns:      c.Layout.Columns,
		TableWidth:   c.Layout.TableWidth,
		HeaderHeight: c.Layout.HeaderHeight,
		RowHeight:    c.Layout.RowHeight,
		Gap:          c.Layout.Gap,
	}
}

// SVGTheme returns the theme for the SVG painter.
func (c *Config) SVGTheme() svg.Theme {
	return svg.Theme{
		Background:  c.Theme.Background,
		TableFill:   c.Theme.TableFill,
		TableStroke: c.Theme.TableStroke,
		HeaderFill:  c.Theme.HeaderFill,
		HeaderText:  c.Theme.HeaderText,
		Text:        c.Theme.Text,
		TypeText:    c.Theme.TypeText,
		EdgeStroke:  c.Theme.EdgeStroke,
		FontFamily:  c.Theme.FontFamily,
		FontSize:    c.Theme.FontSize,
	}
}

// NewLogger builds a logger writing to w.
func (l Log) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: l.AddSource}
	switch strings.ToLower(l.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", l.Format)
	}
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level: %s", level)
	}
}
