package diagram

import (
	"fmt"

	"github.com/lucasefe/dbdiagram/geom"
	"github.com/lucasefe/dbdiagram/model"
)

// Drawable is one primitive of a frame: a Line, an Edge or a TableBox.
type Drawable interface {
	drawable()
}

// Line is a straight stroke in screen coordinates.
type Line struct {
	From  geom.Point
	To    geom.Point
	Width float64
	Dash  []float64
	Color string
}

// EdgeKind selects how an Edge's points are interpreted.
type EdgeKind int

const (
	// EdgeCurve is a cubic Bezier: start, two control points, end.
	EdgeCurve EdgeKind = iota
	// EdgeLoop is an orthogonal polyline leaving and entering on the right side.
	EdgeLoop
)

func (k EdgeKind) String() string {
	if k == EdgeLoop {
		return "loop"
	}
	return "curve"
}

// Edge is the connector drawn for one relation, in screen coordinates.
type Edge struct {
	RefID       model.ID
	FromFieldID model.ID
	ToFieldID   model.ID
	Kind        EdgeKind
	Points      []geom.Point
}

// Start returns the anchor on the source field.
func (e Edge) Start() geom.Point {
	return e.Points[0]
}

// End returns the anchor on the target field.
func (e Edge) End() geom.Point {
	return e.Points[len(e.Points)-1]
}

// TableBox is a table card with its header and one row per field, in screen
// coordinates.
type TableBox struct {
	TableID     model.ID
	Schema      string
	Name        string
	HeaderColor string
	Rect        geom.Rect
	Header      geom.Rect
	Rows        []TableRow
}

// TableRow is one field line of a TableBox.
type TableRow struct {
	FieldID model.ID
	Name    string
	Type    string
	PK      bool
	NotNull bool
	Rect    geom.Rect
}

func (Line) drawable()     {}
func (Edge) drawable()     {}
func (TableBox) drawable() {}

// Painter draws primitives onto some surface.
type Painter interface {
	DrawLine(Line) error
	DrawEdge(Edge) error
	DrawTableBox(TableBox) error
}

// Paint hands every drawable to the matching Painter method, in order.
func Paint(p Painter, items []Drawable) error {
	for i, item := range items {
		var err error
		switch d := item.(type) {
		case Line:
			err = p.DrawLine(d)
		case Edge:
			err = p.DrawEdge(d)
		case TableBox:
			err = p.DrawTableBox(d)
		default:
			err = fmt.Errorf("unsupported drawable %T", item)
		}
		if err != nil {
			return fmt.Errorf("failed to paint drawable %d: %w", i, err)
		}
	}
	return nil
}
