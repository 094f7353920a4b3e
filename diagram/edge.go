package diagram

import (
	"math"

	"github.com/lucasefe/dbdiagram/geom"
	"github.com/lucasefe/dbdiagram/relation"
)

const (
	// LoopOffset is how far, in world units, a loop edge runs right of the
	// rightmost of its two rectangles.
	LoopOffset = 24.0
	// minHandle is the shortest horizontal control handle of a curved edge.
	minHandle = 40.0
)

// EdgeRenderer turns relations into edges using the rectangles currently mounted in
// Registry. It keeps no state between calls: every Paint recomputes all geometry
// from the registry and viewport.
type EdgeRenderer struct {
	Registry *FieldRegistry
	Viewport *Viewport
}

// Paint returns one edge per relation whose two fields are both mounted. Relations
// with an unmounted end are skipped.
func (r EdgeRenderer) Paint(relations []relation.Relation) []Edge {
	edges := make([]Edge, 0, len(relations))
	for _, rel := range relations {
		from, ok := r.Registry.Resolve(rel.FromFieldID)
		if !ok {
			continue
		}
		to, ok := r.Registry.Resolve(rel.ToFieldID)
		if !ok {
			continue
		}
		kind, points := route(from, to)
		for i := range points {
			points[i] = r.Viewport.ToScreen(points[i])
		}
		edges = append(edges, Edge{
			RefID:       rel.RefID,
			FromFieldID: rel.FromFieldID,
			ToFieldID:   rel.ToFieldID,
			Kind:        kind,
			Points:      points,
		})
	}
	return edges
}

// route computes the world-space path between two field rectangles. Each end sits on
// the vertical side facing the other rectangle. Rectangles stacked in the same
// column have no facing sides, so both ends leave to the right and the path loops.
func route(from, to geom.Rect) (EdgeKind, []geom.Point) {
	fc, tc := from.Center(), to.Center()
	if from.OverlapsX(to) {
		x := math.Max(from.Right(), to.Right()) + LoopOffset
		start := geom.Pt(from.Right(), fc.Y)
		end := geom.Pt(to.Right(), tc.Y)
		return EdgeLoop, []geom.Point{start, geom.Pt(x, start.Y), geom.Pt(x, end.Y), end}
	}

	var start, end geom.Point
	dir := 1.0
	if fc.X <= tc.X {
		start = geom.Pt(from.Right(), fc.Y)
		end = geom.Pt(to.Left(), tc.Y)
	} else {
		start = geom.Pt(from.Left(), fc.Y)
		end = geom.Pt(to.Right(), tc.Y)
		dir = -1
	}
	handle := math.Max(math.Abs(end.X-start.X)/2, minHandle)
	c1 := start.Add(geom.Pt(dir*handle, 0))
	c2 := end.Sub(geom.Pt(dir*handle, 0))
	return EdgeCurve, []geom.Point{start, c1, c2, end}
}
