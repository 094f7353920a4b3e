// Package event is the publish/subscribe bus of one diagram instance.
//
// A Manager is owned by a single diagram controller and is not shared between
// diagrams. Delivery is synchronous, in registration order, and nothing is queued
// or replayed: a listener registered after an event was emitted never sees it.
// A Manager is not safe for concurrent use.
package event

// Type names a kind of event.
type Type string

// Event is anything that can be emitted on a Manager.
type Event interface {
	Type() Type
}

// Listener handles one event.
type Listener func(Event)

type entry struct {
	fn      Listener
	removed bool
}

// Manager dispatches events to listeners.
type Manager struct {
	listeners map[Type][]*entry
	closed    bool
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{listeners: make(map[Type][]*entry)}
}

// AddEventListener registers fn for events of type t and returns a function that
// unregisters it. Registering on a closed Manager is a no-op.
func (m *Manager) AddEventListener(t Type, fn Listener) (remove func()) {
	if m.closed || fn == nil {
		return func() {}
	}
	e := &entry{fn: fn}
	m.listeners[t] = append(m.listeners[t], e)
	return func() {
		if e.removed {
			return
		}
		e.removed = true
		list := m.listeners[t]
		for i, other := range list {
			if other == e {
				m.listeners[t] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// Emit delivers ev to the listeners registered for its type at the time of the
// call. Listeners removed during delivery are skipped.
func (m *Manager) Emit(ev Event) {
	if m.closed || ev == nil {
		return
	}
	list := m.listeners[ev.Type()]
	snapshot := make([]*entry, len(list))
	copy(snapshot, list)
	for _, e := range snapshot {
		if e.removed {
			continue
		}
		e.fn(ev)
	}
}

// Len returns the number of listeners registered for t.
func (m *Manager) Len(t Type) int {
	return len(m.listeners[t])
}

// Close drops every listener. Emit and AddEventListener become no-ops.
func (m *Manager) Close() {
	for _, list := range m.listeners {
		for _, e := range list {
			e.removed = true
		}
	}
	m.listeners = make(map[Type][]*entry)
	m.closed = true
}
