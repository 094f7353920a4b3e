package diagram

import (
	"github.com/lucasefe/dbdiagram/geom"
	"github.com/lucasefe/dbdiagram/model"
)

// Layout places table cards on a grid in world space. Tables are laid out in
// schema order, then declaration order, filling each row left to right.
type Layout struct {
	Columns      int
	TableWidth   float64
	HeaderHeight float64
	RowHeight    float64
	Gap          float64
}

// DefaultLayout returns the layout used when none is configured.
func DefaultLayout() Layout {
	return Layout{
		Columns:      4,
		TableWidth:   220,
		HeaderHeight: 32,
		RowHeight:    24,
		Gap:          80,
	}
}

// Placement is the world rectangle assigned to one table.
type Placement struct {
	Schema string
	Table  *model.Table
	Rect   geom.Rect
}

// Place lays out every table of m. The returned placements point into m.
func (l Layout) Place(m *model.ProjectModel) []Placement {
	if m == nil {
		return nil
	}
	columns := l.Columns
	if columns < 1 {
		columns = 1
	}

	var out []Placement
	y, rowHeight, col := 0.0, 0.0, 0
	for si := range m.Schemas {
		schema := &m.Schemas[si]
		for ti := range schema.Tables {
			table := &schema.Tables[ti]
			if col == columns {
				y += rowHeight + l.Gap
				rowHeight, col = 0, 0
			}
			h := l.TableHeight(len(table.Fields))
			x := float64(col) * (l.TableWidth + l.Gap)
			out = append(out, Placement{Schema: schema.Name, Table: table, Rect: geom.R(x, y, l.TableWidth, h)})
			if h > rowHeight {
				rowHeight = h
			}
			col++
		}
	}
	return out
}

// TableHeight returns the height of a card with n fields.
func (l Layout) TableHeight(n int) float64 {
	return l.HeaderHeight + float64(n)*l.RowHeight
}

// HeaderRect returns the header band of a table card.
func (l Layout) HeaderRect(table geom.Rect) geom.Rect {
	return geom.R(table.X, table.Y, table.Width, l.HeaderHeight)
}

// FieldRect returns the row of the i-th field inside a table card.
func (l Layout) FieldRect(table geom.Rect, i int) geom.Rect {
	return geom.R(table.X, table.Y+l.HeaderHeight+float64(i)*l.RowHeight, table.Width, l.RowHeight)
}
