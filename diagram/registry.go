package diagram

import (
	"github.com/lucasefe/dbdiagram/diagram/event"
	"github.com/lucasefe/dbdiagram/geom"
	"github.com/lucasefe/dbdiagram/model"
)

// FieldRegistry maps field ids to the handle of the widget currently mounted for
// them. It is fed exclusively by field insert and remove events.
//
// Mount and unmount events of sibling widgets can arrive in any order, so a remove
// only clears the entry when it carries the exact handle that is stored. A stale
// remove for a handle that was already replaced is ignored.
type FieldRegistry struct {
	handles map[model.ID]*event.Handle
	detach  []func()
}

// NewFieldRegistry returns a registry subscribed to events.
func NewFieldRegistry(events *event.Manager) *FieldRegistry {
	r := &FieldRegistry{handles: make(map[model.ID]*event.Handle)}
	r.detach = append(r.detach,
		events.AddEventListener(event.FieldInsert, r.onInsert),
		events.AddEventListener(event.FieldRemove, r.onRemove),
	)
	return r
}

func (r *FieldRegistry) onInsert(ev event.Event) {
	e, ok := ev.(event.FieldInsertEvent)
	if !ok || e.Handle == nil {
		return
	}
	r.handles[e.ID] = e.Handle
}

func (r *FieldRegistry) onRemove(ev event.Event) {
	e, ok := ev.(event.FieldRemoveEvent)
	if !ok {
		return
	}
	if current, found := r.handles[e.ID]; found && current == e.Handle {
		delete(r.handles, e.ID)
	}
}

// Resolve returns the current world rectangle of the field, or false when no
// widget is mounted for it or the mounted widget has no layout yet.
func (r *FieldRegistry) Resolve(id model.ID) (geom.Rect, bool) {
	h, ok := r.handles[id]
	if !ok {
		return geom.Rect{}, false
	}
	return h.Bounds()
}

// Handle returns the handle registered for id, or nil.
func (r *FieldRegistry) Handle(id model.ID) *event.Handle {
	return r.handles[id]
}

// Len returns the number of registered fields.
func (r *FieldRegistry) Len() int {
	return len(r.handles)
}

// Detach unsubscribes the registry from its event manager. Registered handles are
// kept.
func (r *FieldRegistry) Detach() {
	for _, remove := range r.detach {
		remove()
	}
	r.detach = nil
}
