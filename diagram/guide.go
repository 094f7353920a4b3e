package diagram

import "github.com/lucasefe/dbdiagram/geom"

// Orientation is the direction a guide runs in.
type Orientation int

const (
	// Horizontal guides run along the x axis at a fixed y.
	Horizontal Orientation = iota
	// Vertical guides run along the y axis at a fixed x.
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Guide is an alignment line pinned to one world coordinate: y for horizontal
// guides, x for vertical ones.
type Guide struct {
	Orientation Orientation
	Position    float64
}

// GuideRenderer projects guides across the whole canvas.
type GuideRenderer struct {
	Viewport *Viewport
}

// Paint returns the screen line for guide spanning a canvas of the given size. The
// span is taken from the world rectangle currently visible, so the line always
// covers the canvas edge to edge whatever the pan and zoom.
func (r GuideRenderer) Paint(guide Guide, canvas geom.Size) Line {
	topLeft := r.Viewport.ToWorld(geom.Pt(0, 0))
	bottomRight := r.Viewport.ToWorld(geom.Pt(canvas.Width, canvas.Height))

	var from, to geom.Point
	if guide.Orientation == Vertical {
		from = geom.Pt(guide.Position, topLeft.Y)
		to = geom.Pt(guide.Position, bottomRight.Y)
	} else {
		from = geom.Pt(topLeft.X, guide.Position)
		to = geom.Pt(bottomRight.X, guide.Position)
	}
	return Line{
		From:  r.Viewport.ToScreen(from),
		To:    r.Viewport.ToScreen(to),
		Width: 1,
		Dash:  []float64{5, 5},
		Color: "black",
	}
}
