package resource

import (
	"sync"
)

// Table wraps an Arena with lifecycle observers.
type Table struct {
	arena     *Arena
	observers []subscription
	nextSubID uint64
	obsMu     sync.RWMutex
}

type subscription struct {
	id uint64
	o  Observer
}

// NewTable creates a new table over a fresh arena.
func NewTable(limits Limits) *Table {
	return &Table{
		arena: NewArena(limits),
	}
}

// Insert adds a value and returns its handle.
func (t *Table) Insert(typeID TypeID, value any) (Handle, error) {
	handle, err := t.arena.Create(typeID, value)
	if err != nil {
		return 0, err
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})

	return handle, nil
}

// Get retrieves a value by handle.
func (t *Table) Get(handle Handle) (any, bool) {
	return t.arena.Get(handle)
}

// GetTyped retrieves a value only if it matches the expected type.
func (t *Table) GetTyped(handle Handle, typeID TypeID) (any, bool) {
	return t.arena.GetTyped(handle, typeID)
}

// Subscribe adds an observer for lifecycle events and returns a func that
// removes it. Calling the func more than once is a no-op.
func (t *Table) Subscribe(o Observer) (unsubscribe func()) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.nextSubID++
	id := t.nextSubID
	t.observers = append(t.observers, subscription{id: id, o: o})
	return func() { t.unsubscribe(id) }
}

func (t *Table) unsubscribe(id uint64) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, s := range t.observers {
		if s.id == id {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of issued handles.
func (t *Table) Len() int {
	return t.arena.Len()
}

// Each iterates over all live handles.
func (t *Table) Each(fn func(Handle, TypeID, any) bool) {
	t.arena.Each(fn)
}

// Reset releases all values at the end of an invocation.
func (t *Table) Reset() {
	n := t.arena.Reset()
	t.notify(Event{
		Type:   EventReset,
		Handle: Handle(n),
	})
}

// Arena returns the underlying arena.
func (t *Table) Arena() *Arena {
	return t.arena
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, s := range t.observers {
		s.o.OnResourceEvent(e)
	}
}
