package resource

import (
	"errors"
	"sync"
)

var (
	ErrExhausted = errors.New("resource arena exhausted")
)

// Arena is an in-memory handle store with monotonic issuance.
type Arena struct {
	entries []entry
	limits  Limits
	mu      sync.RWMutex
}

type entry struct {
	value  any
	typeID TypeID
}

// NewArena creates an empty arena.
func NewArena(limits Limits) *Arena {
	return &Arena{
		entries: make([]entry, 0, 64),
		limits:  limits,
	}
}

// Create stores a value and returns a fresh handle.
func (a *Arena) Create(typeID TypeID, value any) (Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.limits.MaxHandles > 0 && len(a.entries) >= a.limits.MaxHandles {
		return 0, ErrExhausted
	}

	a.entries = append(a.entries, entry{typeID: typeID, value: value})
	return Handle(len(a.entries)), nil
}

// Get retrieves a value by handle.
func (a *Arena) Get(handle Handle) (any, bool) {
	if handle <= 0 {
		return nil, false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	idx := int(handle) - 1
	if idx >= len(a.entries) {
		return nil, false
	}
	return a.entries[idx].value, true
}

// GetTyped retrieves a value only if it was stored with the expected type.
func (a *Arena) GetTyped(handle Handle, typeID TypeID) (any, bool) {
	if handle <= 0 {
		return nil, false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	idx := int(handle) - 1
	if idx >= len(a.entries) {
		return nil, false
	}
	e := a.entries[idx]
	if e.typeID != typeID {
		return nil, false
	}
	return e.value, true
}

// TypeID returns the type ID for a handle.
func (a *Arena) TypeID(handle Handle) (TypeID, bool) {
	if handle <= 0 {
		return 0, false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	idx := int(handle) - 1
	if idx >= len(a.entries) {
		return 0, false
	}
	return a.entries[idx].typeID, true
}

// Len returns the number of issued handles.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Each iterates over all live handles in issue order.
func (a *Arena) Each(fn func(Handle, TypeID, any) bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for i, e := range a.entries {
		if !fn(Handle(i+1), e.typeID, e.value) {
			break
		}
	}
}

// Reset releases every value and restarts numbering. It returns how many
// handles were released.
func (a *Arena) Reset() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := len(a.entries)
	for i := range a.entries {
		a.entries[i].value = nil
	}
	a.entries = a.entries[:0]
	return n
}
