package managed

import (
	"go.bytecodealliance.org/wit"

	wasmmanaged "github.com/wippyai/wasm-managed"
	"github.com/wippyai/wasm-managed/codec"
	"github.com/wippyai/wasm-managed/errors"
)

// ManagedBuffer is a byte sequence held by the registry.
type ManagedBuffer struct {
	api    wasmmanaged.ManagedTypeAPI
	handle wasmmanaged.Handle
}

var (
	_ codec.NestedOutput = ManagedBuffer{}
	_ codec.TopOutput    = ManagedBuffer{}
)

// NewManagedBuffer allocates an empty buffer.
func NewManagedBuffer(api wasmmanaged.ManagedTypeAPI) ManagedBuffer {
	return ManagedBuffer{api: api, handle: api.MBufferNew()}
}

// NewManagedBufferFromBytes allocates a buffer holding a copy of b.
func NewManagedBufferFromBytes(api wasmmanaged.ManagedTypeAPI, b []byte) ManagedBuffer {
	return ManagedBuffer{api: api, handle: api.MBufferNewFromBytes(b)}
}

// ManagedBufferFromHandle wraps an existing buffer handle.
func ManagedBufferFromHandle(api wasmmanaged.ManagedTypeAPI, h wasmmanaged.Handle) ManagedBuffer {
	return ManagedBuffer{api: api, handle: h}
}

func (b ManagedBuffer) Handle() wasmmanaged.Handle      { return b.handle }
func (b ManagedBuffer) API() wasmmanaged.ManagedTypeAPI { return b.api }

func (b ManagedBuffer) Len() int {
	return b.api.MBufferLen(b.handle)
}

func (b ManagedBuffer) IsEmpty() bool {
	return b.Len() == 0
}

// Overwrite replaces the whole content.
func (b ManagedBuffer) Overwrite(p []byte) {
	b.api.MBufferSetBytes(b.handle, p)
}

// Append appends the content of other at the handle level.
func (b ManagedBuffer) Append(other ManagedBuffer) {
	b.api.MBufferAppend(b.handle, other.handle)
}

func (b ManagedBuffer) AppendBytes(p []byte) {
	b.api.MBufferAppendBytes(b.handle, p)
}

// ToBoxedBytes materializes the content into Go memory.
func (b ManagedBuffer) ToBoxedBytes() BoxedBytes {
	return BoxedBytes{data: b.api.MBufferGetBytes(b.handle)}
}

// LoadSlice copies len(dst) bytes starting at start into dst.
func (b ManagedBuffer) LoadSlice(start int, dst []byte) error {
	if !b.api.MBufferGetSlice(b.handle, start, dst) {
		return errors.OutOfBounds(errors.PhaseRuntime, nil, start, b.Len())
	}
	return nil
}

// CopySlice returns a new buffer holding length bytes starting at start,
// or false when the range is outside the buffer.
func (b ManagedBuffer) CopySlice(start, length int) (ManagedBuffer, bool) {
	dest := b.api.MBufferNew()
	if !b.api.MBufferCopyRange(b.handle, start, length, dest) {
		return ManagedBuffer{}, false
	}
	return ManagedBuffer{api: b.api, handle: dest}, true
}

// Equal compares content.
func (b ManagedBuffer) Equal(other ManagedBuffer) bool {
	return b.api.MBufferEqual(b.handle, other.handle)
}

// Clone copies the content into a new handle. The cost is linear in the
// length.
func (b ManagedBuffer) Clone() ManagedBuffer {
	dest := b.api.MBufferNew()
	b.api.MBufferAppend(dest, b.handle)
	return ManagedBuffer{api: b.api, handle: dest}
}

// String returns the content as a string.
func (b ManagedBuffer) String() string {
	if b.api == nil {
		return ""
	}
	return string(b.api.MBufferGetBytes(b.handle))
}

// Keccak256 hashes the content.
func (b ManagedBuffer) Keccak256() [32]byte {
	return Keccak256(b.ToBoxedBytes())
}

// Sha256 hashes the content.
func (b ManagedBuffer) Sha256() [32]byte {
	return Sha256(b.ToBoxedBytes())
}

func (ManagedBuffer) DescribeWIT() (wit.Type, error) { return codec.BufferType, nil }

func (b ManagedBuffer) EncodeNested(out codec.NestedOutput) error {
	if b.writesInto(out) {
		b = b.Clone()
	}
	if err := codec.WriteLength(out, b.Len()); err != nil {
		return err
	}
	if !out.PushSpecialized(b) {
		out.Write(b.api.MBufferGetBytes(b.handle))
	}
	return nil
}

func (b ManagedBuffer) EncodeTop(out codec.TopOutput) error {
	if !out.SetSpecialized(b) {
		out.SetSlice(b.api.MBufferGetBytes(b.handle))
	}
	return nil
}

func (b *ManagedBuffer) DecodeNested(in codec.NestedInput) error {
	if ok, err := in.ReadSpecialized(b); ok || err != nil {
		return err
	}
	api, err := codec.ResolveAPI(b.api, in)
	if err != nil {
		return err
	}
	data, err := codec.ReadLengthPrefixed(in)
	if err != nil {
		return err
	}
	*b = NewManagedBufferFromBytes(api, data)
	return nil
}

func (b *ManagedBuffer) DecodeTop(in codec.TopInput) error {
	if ok, err := in.IntoSpecialized(b); ok || err != nil {
		return err
	}
	api, err := codec.ResolveAPI(b.api, in)
	if err != nil {
		return err
	}
	*b = NewManagedBufferFromBytes(api, in.Bytes())
	return nil
}

// Write appends raw bytes; it makes the buffer a nested codec sink.
func (b ManagedBuffer) Write(p []byte) {
	b.AppendBytes(p)
}

// PushSpecialized appends a ManagedBuffer or BigUint from the same registry
// without copying it through Go memory.
func (b ManagedBuffer) PushSpecialized(v any) bool {
	if other, ok := codec.TryCast[ManagedBuffer](v); ok && b.sameRegistry(other.api) {
		b.api.MBufferAppend(b.handle, other.handle)
		return true
	}
	if bi, ok := codec.TryCast[BigUint](v); ok && b.sameRegistry(bi.api) {
		tmp := b.api.MBufferNew()
		b.api.MBufferFromBigIntUnsigned(tmp, bi.handle)
		b.api.MBufferAppend(b.handle, tmp)
		return true
	}
	return false
}

// SetSlice replaces the content; it makes the buffer a top-level sink.
func (b ManagedBuffer) SetSlice(p []byte) {
	b.Overwrite(p)
}

// SetSpecialized stores a whole ManagedBuffer, BigUint or BigInt from the
// same registry at the handle level.
func (b ManagedBuffer) SetSpecialized(v any) bool {
	if other, ok := codec.TryCast[ManagedBuffer](v); ok && b.sameRegistry(other.api) {
		if other.handle != b.handle {
			b.api.MBufferCopyRange(other.handle, 0, other.Len(), b.handle)
		}
		return true
	}
	if bi, ok := codec.TryCast[BigUint](v); ok && b.sameRegistry(bi.api) {
		b.api.MBufferFromBigIntUnsigned(b.handle, bi.handle)
		return true
	}
	if bi, ok := codec.TryCast[BigInt](v); ok && b.sameRegistry(bi.api) {
		b.api.MBufferFromBigIntSigned(b.handle, bi.handle)
		return true
	}
	return false
}

// StartNested returns a scratch buffer in the same registry.
func (b ManagedBuffer) StartNested() codec.NestedOutput {
	return NewManagedBuffer(b.api)
}

func (b ManagedBuffer) FinalizeNested(n codec.NestedOutput) {
	switch scratch := n.(type) {
	case ManagedBuffer:
		b.SetSpecialized(scratch)
	case *BufferOutput:
		b.SetSpecialized(scratch.buf)
	case *codec.ByteOutput:
		b.Overwrite(scratch.Bytes())
	}
}

// writesInto reports whether out appends to b itself.
func (b ManagedBuffer) writesInto(out codec.NestedOutput) bool {
	var sink ManagedBuffer
	switch o := out.(type) {
	case ManagedBuffer:
		sink = o
	case *BufferOutput:
		sink = o.buf
	default:
		return false
	}
	return sink.handle == b.handle && b.sameRegistry(sink.api)
}

func (b ManagedBuffer) sameRegistry(api wasmmanaged.ManagedTypeAPI) bool {
	return api != nil && api == b.api
}

// BufferOutput is a ManagedBuffer sink that counts how pushes were served.
type BufferOutput struct {
	buf   ManagedBuffer
	stats codec.Stats
}

var (
	_ codec.NestedOutput  = (*BufferOutput)(nil)
	_ codec.StatsReporter = (*BufferOutput)(nil)
)

// NewBufferOutput wraps buf. Writes append to it.
func NewBufferOutput(buf ManagedBuffer) *BufferOutput {
	return &BufferOutput{buf: buf}
}

func (o *BufferOutput) Write(p []byte) {
	o.stats.Generic++
	o.buf.AppendBytes(p)
}

func (o *BufferOutput) PushSpecialized(v any) bool {
	if o.buf.PushSpecialized(v) {
		o.stats.Specialized++
		return true
	}
	return false
}

func (o *BufferOutput) Buffer() ManagedBuffer { return o.buf }
func (o *BufferOutput) Stats() codec.Stats    { return o.stats }
