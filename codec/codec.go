package codec

import (
	"fmt"
	"reflect"

	wasmmanaged "github.com/wippyai/wasm-managed"
	"github.com/wippyai/wasm-managed/errors"
)

// MaxNestedLength bounds any decoded length or count prefix.
const MaxNestedLength = 1 << 28

// NestedEncoder writes the nested form of a value.
type NestedEncoder interface {
	EncodeNested(out NestedOutput) error
}

// TopEncoder writes the top-level form of a value.
type TopEncoder interface {
	EncodeTop(out TopOutput) error
}

// NestedDecoder reads the nested form of a value into the receiver.
type NestedDecoder interface {
	DecodeNested(in NestedInput) error
}

// TopDecoder reads the top-level form of a value into the receiver.
// The whole input must be consumed.
type TopDecoder interface {
	DecodeTop(in TopInput) error
}

var (
	nestedEncoderType = reflect.TypeFor[NestedEncoder]()
	topEncoderType    = reflect.TypeFor[TopEncoder]()
	nestedDecoderType = reflect.TypeFor[NestedDecoder]()
	topDecoderType    = reflect.TypeFor[TopDecoder]()
)

var defaultCompiler = NewCompiler()

// EncodeNested writes the nested form of v.
func EncodeNested(out NestedOutput, v any) error {
	if enc, ok := v.(NestedEncoder); ok {
		return enc.EncodeNested(out)
	}
	if ok, err := encodePrimitiveNested(out, v); ok {
		return err
	}
	return defaultCompiler.EncodeNested(out, reflect.ValueOf(v))
}

// EncodeTop writes the top-level form of v.
func EncodeTop(out TopOutput, v any) error {
	if enc, ok := v.(TopEncoder); ok {
		return enc.EncodeTop(out)
	}
	if ok, err := encodePrimitiveTop(out, v); ok {
		return err
	}
	if enc, ok := v.(NestedEncoder); ok {
		nested := out.StartNested()
		if err := enc.EncodeNested(nested); err != nil {
			return err
		}
		out.FinalizeNested(nested)
		return nil
	}
	return defaultCompiler.EncodeTop(out, reflect.ValueOf(v))
}

// DecodeNested reads the nested form of a value into ptr, which must be a
// non-nil pointer.
func DecodeNested(in NestedInput, ptr any) error {
	if dec, ok := ptr.(NestedDecoder); ok {
		return dec.DecodeNested(in)
	}
	if ok, err := decodePrimitiveNested(in, ptr); ok {
		return err
	}
	v, err := target(ptr)
	if err != nil {
		return err
	}
	return defaultCompiler.DecodeNested(in, v)
}

// DecodeTop reads the top-level form of a value into ptr. Trailing input is
// an error.
func DecodeTop(in TopInput, ptr any) error {
	if dec, ok := ptr.(TopDecoder); ok {
		return dec.DecodeTop(in)
	}
	if ok, err := decodePrimitiveTop(in, ptr); ok {
		return err
	}
	if dec, ok := ptr.(NestedDecoder); ok {
		nested := in.IntoNested()
		if err := dec.DecodeNested(nested); err != nil {
			return err
		}
		return ExpectEnd(nested)
	}
	v, err := target(ptr)
	if err != nil {
		return err
	}
	return defaultCompiler.DecodeTop(in, v)
}

// NestedEncodeToBytes returns the nested form of v.
func NestedEncodeToBytes(v any) ([]byte, error) {
	out := NewByteOutput()
	if err := EncodeNested(out, v); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// TopEncodeToBytes returns the top-level form of v.
func TopEncodeToBytes(v any) ([]byte, error) {
	out := NewByteOutput()
	if err := EncodeTop(out, v); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// NestedDecodeFromBytes decodes one nested value and requires that it
// spans all of data.
func NestedDecodeFromBytes(data []byte, ptr any, opts ...InputOption) error {
	in := NewByteInput(data, opts...)
	if err := DecodeNested(in, ptr); err != nil {
		return err
	}
	return ExpectEnd(in)
}

// TopDecodeFromBytes decodes the top-level form in data into ptr.
func TopDecodeFromBytes(data []byte, ptr any, opts ...InputOption) error {
	return DecodeTop(NewByteInput(data, opts...), ptr)
}

// ResolveAPI picks the registry a managed decoder should allocate in: its own
// when already bound, otherwise the input's.
func ResolveAPI(own wasmmanaged.ManagedTypeAPI, in interface {
	API() wasmmanaged.ManagedTypeAPI
}) (wasmmanaged.ManagedTypeAPI, error) {
	if own != nil {
		return own, nil
	}
	if api := in.API(); api != nil {
		return api, nil
	}
	return nil, errors.NotInitialized(errors.PhaseDecode, "managed type registry")
}

func target(ptr any) (reflect.Value, error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidInput).
			GoType(fmt.Sprintf("%T", ptr)).
			Detail("decode target must be a non-nil pointer").
			Build()
	}
	return v.Elem(), nil
}

// ExpectEnd fails when in has unread bytes.
func ExpectEnd(in NestedInput) error {
	if n := in.Remaining(); n > 0 {
		return errors.TrailingData(nil, n)
	}
	return nil
}
