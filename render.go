package dbdiagram

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lucasefe/dbdiagram/config"
	"github.com/lucasefe/dbdiagram/diagram"
	"github.com/lucasefe/dbdiagram/generator"
	"github.com/lucasefe/dbdiagram/geom"
	"github.com/lucasefe/dbdiagram/model"
	"github.com/lucasefe/dbdiagram/resolver"
	"github.com/lucasefe/dbdiagram/svg"
)

// Resolve parses DBML source into a model. It never fails; problems are reported
// as diagnostics on the result.
func Resolve(src string, opts ...resolver.Option) *resolver.Result {
	return resolver.Resolve(src, opts...)
}

// Format resolves src and writes it back as canonical DBML. Sources with errors are
// rejected so that nothing the author wrote is silently dropped.
func Format(src string) (string, error) {
	res := resolver.Resolve(src)
	if res.HasErrors() {
		return "", fmt.Errorf("failed to format: source has %d diagnostics", len(res.Diagnostics))
	}
	return generator.GenerateString(res.Model)
}

// RenderSVG lays m out on a grid and writes it as a standalone SVG document. A nil
// cfg uses config.Default.
func RenderSVG(w io.Writer, m *model.ProjectModel, cfg *config.Config, logger *slog.Logger) error {
	if cfg == nil {
		cfg = config.Default()
	}
	c := NewController(cfg, logger)
	defer c.Close()
	c.SetModel(m)
	return RenderController(w, c, cfg)
}

// NewController returns a diagram controller laid out by cfg.
func NewController(cfg *config.Config, logger *slog.Logger) *diagram.Controller {
	return diagram.NewController(
		diagram.WithLayout(cfg.DiagramLayout()),
		diagram.WithScaleLimits(cfg.Layout.MinScale, cfg.Layout.MaxScale),
		diagram.WithLogger(logger),
	)
}

// RenderController writes the current frame of c as SVG. The viewport is refit so
// the whole diagram is visible at the configured scale.
func RenderController(w io.Writer, c *diagram.Controller, cfg *config.Config) error {
	canvas := CanvasSize(c, cfg)
	if err := c.Fit(canvas, cfg.Layout.Padding); err != nil {
		return fmt.Errorf("failed to fit diagram: %w", err)
	}
	if err := svg.Render(w, canvas, c.Frame(canvas), cfg.SVGTheme()); err != nil {
		return fmt.Errorf("failed to render svg: %w", err)
	}
	return nil
}

// CanvasSize returns the canvas that shows every table of c at the configured
// scale with the configured padding on each side. The scale is clamped to the
// configured limits, as the viewport clamps it when fitting.
func CanvasSize(c *diagram.Controller, cfg *config.Config) geom.Size {
	pad := 2 * cfg.Layout.Padding
	b, ok := c.Bounds()
	if !ok {
		return geom.Size{Width: pad, Height: pad}
	}
	scale := min(max(cfg.Layout.Scale, cfg.Layout.MinScale), cfg.Layout.MaxScale)
	return geom.Size{
		Width:  b.Width*scale + pad,
		Height: b.Height*scale + pad,
	}
}
