package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasefe/dbdiagram/geom"
)

func TestViewportRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		scale       float64
		translation geom.Point
	}{
		{"identity", 1, geom.Pt(0, 0)},
		{"zoomed in", 2.5, geom.Pt(10, -4)},
		{"zoomed out", 0.3, geom.Pt(-120.5, 77.25)},
		{"max scale", DefaultMaxScale, geom.Pt(1e4, -1e4)},
	}
	points := []geom.Point{geom.Pt(0, 0), geom.Pt(3, 7), geom.Pt(-250.75, 1024), geom.Pt(1e6, -1e-3)}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport()
			require.NoError(t, v.SetScale(tt.scale))
			v.SetTranslation(tt.translation)
			for _, p := range points {
				got := v.ToWorld(v.ToScreen(p))
				assert.True(t, got.Near(p, 1e-6), "round trip of %v gave %v", p, got)
			}
		})
	}
}

func TestViewportToScreen(t *testing.T) {
	v := NewViewport()
	require.NoError(t, v.SetScale(2.5))
	v.SetTranslation(geom.Pt(10, -4))

	assert.Equal(t, geom.Pt(17.5, 13.5), v.ToScreen(geom.Pt(3, 7)))
	assert.Equal(t, geom.R(17.5, 13.5, 25, 5), v.RectToScreen(geom.R(3, 7, 10, 2)))
}

func TestViewportInvalidScale(t *testing.T) {
	v := NewViewport()
	assert.ErrorIs(t, v.SetScale(0), ErrInvalidScale)
	assert.ErrorIs(t, v.SetScale(-1), ErrInvalidScale)
	assert.ErrorIs(t, v.ZoomAt(geom.Pt(0, 0), 0), ErrInvalidScale)
	assert.ErrorIs(t, v.SetLimits(0, 2), ErrInvalidScale)
	assert.Error(t, v.SetLimits(3, 2))
	assert.Equal(t, 1.0, v.Scale())
}

func TestViewportClamp(t *testing.T) {
	v := NewViewport()
	require.NoError(t, v.SetScale(100))
	assert.Equal(t, DefaultMaxScale, v.Scale())

	require.NoError(t, v.SetScale(0.001))
	assert.Equal(t, DefaultMinScale, v.Scale())

	require.NoError(t, v.SetLimits(0.5, 1))
	assert.Equal(t, 0.5, v.Scale())
}

func TestViewportPan(t *testing.T) {
	v := NewViewport()
	v.Pan(10, 20)
	v.Pan(-5, 5)
	assert.Equal(t, geom.Pt(5, 25), v.Translation())
	assert.Equal(t, geom.Pt(6, 26), v.ToScreen(geom.Pt(1, 1)))
}

func TestViewportZoomAtKeepsCursorFixed(t *testing.T) {
	v := NewViewport()
	v.SetTranslation(geom.Pt(40, 30))
	cursor := geom.Pt(200, 150)
	before := v.ToWorld(cursor)

	require.NoError(t, v.ZoomAt(cursor, 2))
	assert.Equal(t, 2.0, v.Scale())
	assert.True(t, v.ToWorld(cursor).Near(before, 1e-9))

	require.NoError(t, v.ZoomAt(cursor, 100))
	assert.Equal(t, DefaultMaxScale, v.Scale())
	assert.True(t, v.ToWorld(cursor).Near(before, 1e-9))
}
