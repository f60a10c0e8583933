package boundary

import (
	"github.com/wippyai/wasm-managed/codec"
)

// Event is an emitted log entry. Data holds the top-level form of the
// emitted value.
type Event struct {
	Topics [][32]byte
	Data   []byte
}

// Logs collects the events of one invocation in emission order.
type Logs struct {
	events []Event
}

// Emit records an event. Topics are copied.
func (l *Logs) Emit(topics [][32]byte, data any) error {
	out := codec.NewByteOutput()
	if err := codec.EncodeTop(out, data); err != nil {
		return err
	}
	l.events = append(l.events, Event{
		Topics: append([][32]byte(nil), topics...),
		Data:   out.Bytes(),
	})
	return nil
}

func (l *Logs) Events() []Event { return l.events }

func (l *Logs) Len() int { return len(l.events) }

func (l *Logs) reset() { l.events = nil }
