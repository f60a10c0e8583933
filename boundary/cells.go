package boundary

import (
	wasmmanaged "github.com/wippyai/wasm-managed"
	"github.com/wippyai/wasm-managed/codec"
	"github.com/wippyai/wasm-managed/errors"
)

// Cells encodes and decodes values stored under byte keys. Managed values
// are decoded into the invocation's registry. Writes are staged and reach
// the Storage only when the invocation's Run succeeds; reads see them.
type Cells struct {
	store  *Storage
	writes *writeSet
	api    wasmmanaged.ManagedTypeAPI
}

// Store writes the top-level form of v under key. A value whose encoding
// is empty clears the key.
func (c Cells) Store(key []byte, v any) error {
	out := codec.NewByteOutput()
	if err := codec.EncodeTop(out, v); err != nil {
		return err
	}
	c.writes.set(key, out.Bytes())
	return nil
}

func (c Cells) get(key []byte) []byte {
	if v, ok := c.writes.get(key); ok {
		return v
	}
	return c.store.Get(key)
}

// Load decodes the value under key into ptr. A missing key decodes from
// empty input, which yields the zero value for integers and buffers.
func (c Cells) Load(key []byte, ptr any) error {
	raw := c.get(key)
	if err := codec.DecodeTop(codec.NewByteInput(raw, codec.WithAPI(c.api)), ptr); err != nil {
		return errors.New(errors.PhaseBoundary, errors.KindInvalidData).
			Path(string(key)).
			Detail("cannot decode storage cell").
			Cause(err).
			Build()
	}
	return nil
}

// Raw returns the encoded bytes under key.
func (c Cells) Raw(key []byte) []byte { return c.get(key) }

func (c Cells) IsEmpty(key []byte) bool { return len(c.get(key)) == 0 }

func (c Cells) Clear(key []byte) { c.writes.set(key, nil) }

// Keys returns every non-empty key in ascending byte order.
func (c Cells) Keys() [][]byte { return c.writes.merge(c.store.Keys()) }
