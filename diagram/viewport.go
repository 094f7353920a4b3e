package diagram

import (
	"errors"
	"fmt"

	"github.com/lucasefe/dbdiagram/geom"
)

// ErrInvalidScale is returned when a scale, zoom factor or scale limit is not
// positive.
var ErrInvalidScale = errors.New("scale must be positive")

// Zoom limits of a new Viewport.
const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 4.0
)

// Viewport is the pan/zoom transform between world and screen coordinates:
//
//	screen = world*scale + translation
//
// It is mutated only by the controller that owns it.
type Viewport struct {
	scale       float64
	translation geom.Point
	minScale    float64
	maxScale    float64
}

// NewViewport returns an identity viewport.
func NewViewport() *Viewport {
	return &Viewport{scale: 1, minScale: DefaultMinScale, maxScale: DefaultMaxScale}
}

// Scale returns the current zoom factor.
func (v *Viewport) Scale() float64 {
	return v.scale
}

// Translation returns the current screen offset of the world origin.
func (v *Viewport) Translation() geom.Point {
	return v.translation
}

// ToScreen maps a world point to the screen.
func (v *Viewport) ToScreen(p geom.Point) geom.Point {
	return p.Mul(v.scale).Add(v.translation)
}

// ToWorld maps a screen point back into the world.
func (v *Viewport) ToWorld(p geom.Point) geom.Point {
	return p.Sub(v.translation).Mul(1 / v.scale)
}

// RectToScreen maps a world rectangle to the screen.
func (v *Viewport) RectToScreen(r geom.Rect) geom.Rect {
	origin := v.ToScreen(geom.Pt(r.X, r.Y))
	return geom.R(origin.X, origin.Y, r.Width*v.scale, r.Height*v.scale)
}

// SetLimits sets the range zoom operations are clamped to. The current scale is
// clamped into the new range.
func (v *Viewport) SetLimits(minScale, maxScale float64) error {
	if minScale <= 0 || maxScale <= 0 {
		return fmt.Errorf("failed to set scale limits %g..%g: %w", minScale, maxScale, ErrInvalidScale)
	}
	if minScale > maxScale {
		return fmt.Errorf("failed to set scale limits: minimum %g exceeds maximum %g", minScale, maxScale)
	}
	v.minScale, v.maxScale = minScale, maxScale
	v.scale = v.clamp(v.scale)
	return nil
}

// SetScale sets the zoom factor, clamped to the viewport limits, keeping the
// translation unchanged.
func (v *Viewport) SetScale(scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("failed to set scale %g: %w", scale, ErrInvalidScale)
	}
	v.scale = v.clamp(scale)
	return nil
}

// SetTranslation moves the world origin to t in screen space.
func (v *Viewport) SetTranslation(t geom.Point) {
	v.translation = t
}

// Pan moves the view by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.translation = v.translation.Add(geom.Pt(dx, dy))
}

// ZoomAt multiplies the scale by factor, keeping the world point under the screen
// point at fixed.
func (v *Viewport) ZoomAt(at geom.Point, factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("failed to zoom by %g: %w", factor, ErrInvalidScale)
	}
	anchor := v.ToWorld(at)
	v.scale = v.clamp(v.scale * factor)
	v.translation = at.Sub(anchor.Mul(v.scale))
	return nil
}

func (v *Viewport) clamp(s float64) float64 {
	if s < v.minScale {
		return v.minScale
	}
	if s > v.maxScale {
		return v.maxScale
	}
	return s
}
