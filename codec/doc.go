// Package codec implements the boundary binary encoding.
//
// Every value has two encoded forms. The nested form is used for a value
// that is a field inside a larger composite: fixed-size values are written
// as fixed-width big-endian bytes, variable-length values carry a u32
// big-endian length prefix. The top-level form is used when a value is the
// entire payload of a boundary slot (one call argument, one storage cell):
// length prefixes are dropped and integers are written in their minimal
// big-endian form, with zero encoded as the empty slice.
//
// The wire format carries no type tags. The decoder must know the expected
// type.
//
// # Encoding and decoding
//
// Types that implement [NestedEncoder], [TopEncoder], [NestedDecoder] or
// [TopDecoder] control their own encoding. Everything else is handled by a
// reflection plan built and cached by a [Compiler]:
//
//	out := codec.NewByteOutput()
//	err := codec.EncodeNested(out, Transfer{To: addr, Amount: 42})
//
//	var t Transfer
//	err = codec.DecodeNested(codec.NewByteInput(out.Bytes(), codec.WithAPI(api)), &t)
//
// Encoders take the value, decoders take a pointer to where it goes. A
// pointer passed to an encoder is itself the value: *T encodes as
// option<T>, so EncodeNested(out, &t) writes a 01 tag before the fields and
// pairs with decoding into a *Transfer variable, not into t:
//
//	err = codec.EncodeNested(out, &t) // 01 followed by the fields
//	var p *Transfer
//	err = codec.DecodeNested(in, &p)
//
// # Specialization
//
// Sinks expose [NestedOutput.PushSpecialized]. Encoders of handle-backed
// values offer themselves to the sink first; a sink that shares their
// storage domain performs a handle-level transfer and reports true,
// otherwise the encoder falls back to bytes. Both paths produce the same
// content. [TryCast] is the exact-type check sinks use to recognize values.
//
// # Schemas
//
// [Describe] maps Go types onto WIT type expressions, [ParseType] reads such
// expressions back, and [DynamicEncode] / [DynamicDecode] run the codec from a
// schema over untyped values.
package codec
