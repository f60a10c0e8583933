package managed

import (
	"bytes"
	"encoding/hex"

	"go.bytecodealliance.org/wit"

	wasmmanaged "github.com/wippyai/wasm-managed"
	"github.com/wippyai/wasm-managed/codec"
)

// BoxedBytes is an immutable byte sequence in Go memory.
type BoxedBytes struct {
	data []byte
}

// NewBoxedBytes copies b.
func NewBoxedBytes(b []byte) BoxedBytes {
	return BoxedBytes{data: bytes.Clone(b)}
}

// Bytes returns the content. Callers must not modify it.
func (b BoxedBytes) Bytes() []byte { return b.data }

func (b BoxedBytes) Len() int      { return len(b.data) }
func (b BoxedBytes) IsEmpty() bool { return len(b.data) == 0 }

func (b BoxedBytes) Equal(other BoxedBytes) bool {
	return bytes.Equal(b.data, other.data)
}

// Concat returns b followed by others.
func (b BoxedBytes) Concat(others ...BoxedBytes) BoxedBytes {
	n := len(b.data)
	for _, o := range others {
		n += len(o.data)
	}
	out := make([]byte, 0, n)
	out = append(out, b.data...)
	for _, o := range others {
		out = append(out, o.data...)
	}
	return BoxedBytes{data: out}
}

// ToBuffer copies the content into a new managed buffer.
func (b BoxedBytes) ToBuffer(api wasmmanaged.ManagedTypeAPI) ManagedBuffer {
	return NewManagedBufferFromBytes(api, b.data)
}

func (b BoxedBytes) String() string {
	return hex.EncodeToString(b.data)
}

func (BoxedBytes) DescribeWIT() (wit.Type, error) {
	return &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}, nil
}

func (b BoxedBytes) EncodeNested(out codec.NestedOutput) error {
	return codec.WriteLengthPrefixed(out, b.data)
}

func (b BoxedBytes) EncodeTop(out codec.TopOutput) error {
	out.SetSlice(b.data)
	return nil
}

func (b *BoxedBytes) DecodeNested(in codec.NestedInput) error {
	data, err := codec.ReadLengthPrefixed(in)
	if err != nil {
		return err
	}
	b.data = data
	return nil
}

func (b *BoxedBytes) DecodeTop(in codec.TopInput) error {
	b.data = bytes.Clone(in.Bytes())
	return nil
}
