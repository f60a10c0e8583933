package codec

// NestedOutput is a sink for nested-form bytes.
type NestedOutput interface {
	// Write appends raw bytes.
	Write(p []byte)

	// PushSpecialized offers a value the sink may transfer directly.
	// It returns false when the caller must write the bytes itself.
	// A sink that returns true has written exactly the bytes the generic
	// path would have written.
	PushSpecialized(v any) bool
}

// TopOutput is a sink for exactly one top-level value.
type TopOutput interface {
	// SetSlice stores the complete encoded value.
	SetSlice(p []byte)

	// SetSpecialized offers the whole value for a direct transfer.
	SetSpecialized(v any) bool

	// StartNested returns a nested sink whose content becomes the value
	// once passed to FinalizeNested.
	StartNested() NestedOutput
	FinalizeNested(n NestedOutput)
}

// Stats counts how a sink served pushes.
type Stats struct {
	Specialized int
	Generic     int
}

// StatsReporter is implemented by sinks that count their pushes.
type StatsReporter interface {
	Stats() Stats
}

// ByteOutput is the generic in-memory sink. It serves both forms and never
// specializes.
type ByteOutput struct {
	buf   []byte
	stats Stats
}

var (
	_ NestedOutput  = (*ByteOutput)(nil)
	_ TopOutput     = (*ByteOutput)(nil)
	_ StatsReporter = (*ByteOutput)(nil)
)

// NewByteOutput returns an empty sink.
func NewByteOutput() *ByteOutput {
	return &ByteOutput{buf: make([]byte, 0, 64)}
}

func (o *ByteOutput) Write(p []byte) {
	o.stats.Generic++
	o.buf = append(o.buf, p...)
}

func (o *ByteOutput) WriteByte(b byte) error {
	o.stats.Generic++
	o.buf = append(o.buf, b)
	return nil
}

func (o *ByteOutput) PushSpecialized(any) bool { return false }

func (o *ByteOutput) SetSlice(p []byte) {
	o.stats.Generic++
	o.buf = append(o.buf[:0], p...)
}

func (o *ByteOutput) SetSpecialized(any) bool { return false }

func (o *ByteOutput) StartNested() NestedOutput {
	return NewByteOutput()
}

func (o *ByteOutput) FinalizeNested(n NestedOutput) {
	o.SetSlice(n.(*ByteOutput).buf)
}

// Bytes returns the accumulated bytes. The slice aliases the sink.
func (o *ByteOutput) Bytes() []byte { return o.buf }

// Len returns the number of bytes written.
func (o *ByteOutput) Len() int { return len(o.buf) }

// Reset empties the sink for reuse.
func (o *ByteOutput) Reset() {
	o.buf = o.buf[:0]
	o.stats = Stats{}
}

func (o *ByteOutput) Stats() Stats { return o.stats }
