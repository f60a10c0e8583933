package managed

import (
	wasmmanaged "github.com/wippyai/wasm-managed"
	"github.com/wippyai/wasm-managed/codec"
	"github.com/wippyai/wasm-managed/errors"
)

// BufferInput decodes from a managed buffer. Managed fields are copied
// between handles without passing through Go memory.
type BufferInput struct {
	buf ManagedBuffer
	pos int
	end int
}

var (
	_ codec.NestedInput = (*BufferInput)(nil)
	_ codec.TopInput    = (*BufferInput)(nil)
)

// NewBufferInput returns an input over the current content of buf.
func NewBufferInput(buf ManagedBuffer) *BufferInput {
	return &BufferInput{buf: buf, end: buf.Len()}
}

func (in *BufferInput) Remaining() int { return in.end - in.pos }

func (in *BufferInput) ReadInto(p []byte) error {
	if len(p) > in.Remaining() {
		return errors.Truncated(nil, len(p), in.Remaining())
	}
	if !in.buf.api.MBufferGetSlice(in.buf.handle, in.pos, p) {
		return errors.Truncated(nil, len(p), in.Remaining())
	}
	in.pos += len(p)
	return nil
}

func (in *BufferInput) API() wasmmanaged.ManagedTypeAPI { return in.buf.api }

// take moves n bytes at the cursor into a new buffer handle.
func (in *BufferInput) take(n int) (wasmmanaged.Handle, error) {
	if n > in.Remaining() {
		return 0, errors.Truncated(nil, n, in.Remaining())
	}
	api := in.buf.api
	dest := api.MBufferNew()
	if !api.MBufferCopyRange(in.buf.handle, in.pos, n, dest) {
		return 0, errors.Truncated(nil, n, in.Remaining())
	}
	in.pos += n
	return dest, nil
}

func (in *BufferInput) fill(target any, n int) (bool, error) {
	api := in.buf.api
	switch {
	case isTarget[*ManagedBuffer](target):
		h, err := in.take(n)
		if err != nil {
			return true, err
		}
		*target.(*ManagedBuffer) = ManagedBuffer{api: api, handle: h}
	case isTarget[*BigUint](target):
		h, err := in.take(n)
		if err != nil {
			return true, err
		}
		bi := api.BigIntNew(0)
		api.MBufferToBigIntUnsigned(h, bi)
		*target.(*BigUint) = BigUint{api: api, handle: bi}
	case isTarget[*BigInt](target):
		h, err := in.take(n)
		if err != nil {
			return true, err
		}
		bi := api.BigIntNew(0)
		api.MBufferToBigIntSigned(h, bi)
		*target.(*BigInt) = BigInt{api: api, handle: bi}
	default:
		return false, nil
	}
	return true, nil
}

func isTarget[T any](target any) bool {
	_, ok := codec.TryCast[T](target)
	return ok
}

// specializable reports whether target is a managed type that is unbound or
// already bound to the input's registry.
func (in *BufferInput) specializable(target any) bool {
	var own wasmmanaged.ManagedTypeAPI
	switch {
	case isTarget[*ManagedBuffer](target):
		own = target.(*ManagedBuffer).api
	case isTarget[*BigUint](target):
		own = target.(*BigUint).api
	case isTarget[*BigInt](target):
		own = target.(*BigInt).api
	default:
		return false
	}
	return own == nil || own == in.buf.api
}

// ReadSpecialized fills ManagedBuffer, BigUint and BigInt targets directly
// from the source handle.
func (in *BufferInput) ReadSpecialized(target any) (bool, error) {
	if !in.specializable(target) {
		return false, nil
	}
	n, err := codec.ReadLength(in)
	if err != nil {
		return true, err
	}
	return in.fill(target, n)
}

// Bytes materializes the unread content.
func (in *BufferInput) Bytes() []byte {
	p := make([]byte, in.Remaining())
	if len(p) > 0 {
		in.buf.api.MBufferGetSlice(in.buf.handle, in.pos, p)
	}
	return p
}

func (in *BufferInput) Len() int { return in.Remaining() }

func (in *BufferInput) IntoNested() codec.NestedInput { return in }

func (in *BufferInput) IntoSpecialized(target any) (bool, error) {
	if !in.specializable(target) {
		return false, nil
	}
	return in.fill(target, in.Remaining())
}
