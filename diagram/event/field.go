package event

import (
	"github.com/lucasefe/dbdiagram/geom"
	"github.com/lucasefe/dbdiagram/model"
)

const (
	// FieldInsert is emitted when a field widget is mounted.
	FieldInsert Type = "field-insert"
	// FieldRemove is emitted when a field widget is unmounted.
	FieldRemove Type = "field-remove"
)

// BoundsFunc reports the current rectangle of a mounted field, or false when it is
// not laid out.
type BoundsFunc func() (geom.Rect, bool)

// Handle is the position handle of one mounted field widget. Its identity is the
// pointer: every mount creates a new Handle, even for the same field id.
type Handle struct {
	field  model.ID
	bounds BoundsFunc
}

// NewHandle returns a handle for field whose position is reported by bounds.
func NewHandle(field model.ID, bounds BoundsFunc) *Handle {
	return &Handle{field: field, bounds: bounds}
}

// FieldID returns the field the handle is bound to.
func (h *Handle) FieldID() model.ID {
	return h.field
}

// Bounds returns the field's current rectangle in world coordinates.
func (h *Handle) Bounds() (geom.Rect, bool) {
	if h == nil || h.bounds == nil {
		return geom.Rect{}, false
	}
	return h.bounds()
}

// FieldInsertEvent is emitted when a field widget mounts.
type FieldInsertEvent struct {
	ID     model.ID
	Handle *Handle
}

// Type returns FieldInsert.
func (FieldInsertEvent) Type() Type { return FieldInsert }

// FieldRemoveEvent is emitted when a field widget unmounts. Handle is the handle the
// unmounting widget registered, which lets the registry ignore stale removals.
type FieldRemoveEvent struct {
	ID     model.ID
	Handle *Handle
}

// Type returns FieldRemove.
func (FieldRemoveEvent) Type() Type { return FieldRemove }
