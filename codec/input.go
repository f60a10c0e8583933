package codec

import (
	wasmmanaged "github.com/wippyai/wasm-managed"
	"github.com/wippyai/wasm-managed/errors"
)

// NestedInput is a cursor over nested-form bytes.
type NestedInput interface {
	// Remaining returns the number of unread bytes.
	Remaining() int

	// ReadInto fills p or fails with a truncation error.
	ReadInto(p []byte) error

	// ReadSpecialized offers a decode target the input may fill directly.
	// It returns false when the caller must decode the bytes itself.
	ReadSpecialized(target any) (bool, error)

	// API returns the registry managed values are decoded into, or nil.
	API() wasmmanaged.ManagedTypeAPI
}

// TopInput holds the complete bytes of one top-level value.
type TopInput interface {
	Bytes() []byte
	Len() int

	// IntoNested returns a nested cursor over the same bytes.
	IntoNested() NestedInput

	// IntoSpecialized offers a decode target for the whole value.
	IntoSpecialized(target any) (bool, error)

	API() wasmmanaged.ManagedTypeAPI
}

// InputOption configures a ByteInput.
type InputOption func(*ByteInput)

// WithAPI binds the registry managed values are decoded into.
func WithAPI(api wasmmanaged.ManagedTypeAPI) InputOption {
	return func(in *ByteInput) { in.api = api }
}

// ByteInput is the generic input over a byte slice. It serves both forms
// and never specializes.
type ByteInput struct {
	api  wasmmanaged.ManagedTypeAPI
	data []byte
	pos  int
}

var (
	_ NestedInput = (*ByteInput)(nil)
	_ TopInput    = (*ByteInput)(nil)
)

// NewByteInput returns an input positioned at the start of data.
func NewByteInput(data []byte, opts ...InputOption) *ByteInput {
	in := &ByteInput{data: data}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func (in *ByteInput) Remaining() int { return len(in.data) - in.pos }

func (in *ByteInput) ReadInto(p []byte) error {
	if len(p) > in.Remaining() {
		return errors.Truncated(nil, len(p), in.Remaining())
	}
	copy(p, in.data[in.pos:])
	in.pos += len(p)
	return nil
}

// Next returns the next n bytes without copying.
func (in *ByteInput) Next(n int) ([]byte, error) {
	if n < 0 || n > in.Remaining() {
		return nil, errors.Truncated(nil, n, in.Remaining())
	}
	b := in.data[in.pos : in.pos+n]
	in.pos += n
	return b, nil
}

func (in *ByteInput) ReadSpecialized(any) (bool, error) { return false, nil }

func (in *ByteInput) API() wasmmanaged.ManagedTypeAPI { return in.api }

// Bytes returns the unread bytes.
func (in *ByteInput) Bytes() []byte { return in.data[in.pos:] }

func (in *ByteInput) Len() int { return in.Remaining() }

func (in *ByteInput) IntoNested() NestedInput { return in }

func (in *ByteInput) IntoSpecialized(any) (bool, error) { return false, nil }
