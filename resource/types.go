package resource

import (
	wasmmanaged "github.com/wippyai/wasm-managed"
)

// Handle is an opaque reference to a value in an arena.
// Handle 0 is reserved and always invalid.
type Handle = wasmmanaged.Handle

// TypeID tags the kind of value stored behind a handle.
type TypeID uint32

const (
	TypeBigInt TypeID = iota + 1
	TypeBuffer
)

func (t TypeID) String() string {
	switch t {
	case TypeBigInt:
		return "bigint"
	case TypeBuffer:
		return "buffer"
	default:
		return "unknown"
	}
}

// EventType identifies a lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventReset
)

// Event represents a resource lifecycle event.
// For EventReset, Handle is the number of handles released.
type Event struct {
	Value  any
	Handle Handle
	TypeID TypeID
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Limits bounds the arena. Zero means unlimited.
type Limits struct {
	MaxHandles int
}

// DefaultLimits returns the limits used by NewTable callers that do not care.
func DefaultLimits() Limits {
	return Limits{MaxHandles: 1 << 20}
}
