package codec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-managed/errors"
	"github.com/wippyai/wasm-managed/internal/bigbytes"
)

// Dynamic values are plain Go values: bool, sized integers, string, []byte
// for list<u8> and buffer, *big.Int for biguint and bigint, []any for lists
// and tuples, map[string]any for records and nil for an absent option.
// Encoding accepts any integer type, json.Number or a decimal string where a
// number is expected, and a hex string where bytes are expected.

// DynamicEncode encodes v as described by t.
func DynamicEncode(t wit.Type, v any, top bool) ([]byte, error) {
	out := NewByteOutput()
	var err error
	if top {
		err = DynamicEncodeTop(out, t, v)
	} else {
		err = DynamicEncodeNested(out, t, v)
	}
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DynamicDecode decodes data as described by t. All of data must be used.
func DynamicDecode(t wit.Type, data []byte, top bool) (any, error) {
	in := NewByteInput(data)
	if top {
		return DynamicDecodeTop(in, t)
	}
	v, err := DynamicDecodeNested(in, t)
	if err != nil {
		return nil, err
	}
	if err := ExpectEnd(in); err != nil {
		return nil, err
	}
	return v, nil
}

func managedName(t wit.Type) string {
	if td, ok := t.(*wit.TypeDef); ok && td.Name != nil {
		if _, ok := namedTypes[*td.Name]; ok {
			return *td.Name
		}
	}
	return ""
}

func typeKind(t wit.Type) any {
	for {
		td, ok := t.(*wit.TypeDef)
		if !ok {
			return t
		}
		switch k := td.Kind.(type) {
		case *wit.Record, *wit.List, *wit.Option, *wit.Tuple:
			return k
		case wit.Type:
			t = k
			continue
		}
		return td.Kind
	}
}

func isByteList(l *wit.List) bool {
	_, ok := l.Type.(wit.U8)
	return ok
}

func mismatch(phase errors.Phase, v any, t wit.Type) error {
	return errors.TypeMismatch(phase, nil, fmt.Sprintf("%T", v), FormatType(t))
}

// DynamicEncodeNested writes the nested form of v.
func DynamicEncodeNested(out NestedOutput, t wit.Type, v any) error {
	switch managedName(t) {
	case "biguint":
		x, err := toBig(v)
		if err != nil {
			return err
		}
		if x.Sign() < 0 {
			return errors.New(errors.PhaseEncode, errors.KindUnderflow).
				Value(x.String()).
				Detail("biguint cannot hold a negative value").
				Build()
		}
		return WriteLengthPrefixed(out, bigbytes.Unsigned(x))
	case "bigint":
		x, err := toBig(v)
		if err != nil {
			return err
		}
		return WriteLengthPrefixed(out, bigbytes.Signed(x))
	case "buffer":
		b, err := toBytes(v)
		if err != nil {
			return err
		}
		return WriteLengthPrefixed(out, b)
	case "address":
		b, err := toBytes(v)
		if err != nil {
			return err
		}
		if len(b) != 32 {
			return errors.InvalidData(errors.PhaseEncode, nil, "address must be 32 bytes, got "+strconv.Itoa(len(b)))
		}
		out.Write(b)
		return nil
	}

	switch k := typeKind(t).(type) {
	case wit.Bool:
		b, ok := v.(bool)
		if !ok {
			return mismatch(errors.PhaseEncode, v, t)
		}
		writeFixed(out, boolByte(b), 1)
	case wit.U8, wit.U16, wit.U32, wit.U64:
		bits := intBits(k)
		u, err := toUint(v, bits)
		if err != nil {
			return err
		}
		writeFixed(out, u, bits/8)
	case wit.S8, wit.S16, wit.S32, wit.S64:
		bits := intBits(k)
		i, err := toInt(v, bits)
		if err != nil {
			return err
		}
		writeFixed(out, uint64(i), bits/8)
	case wit.String:
		s, ok := v.(string)
		if !ok {
			return mismatch(errors.PhaseEncode, v, t)
		}
		return WriteLengthPrefixed(out, []byte(s))
	case *wit.List:
		if isByteList(k) {
			b, err := toBytes(v)
			if err != nil {
				return err
			}
			return WriteLengthPrefixed(out, b)
		}
		items, ok := v.([]any)
		if !ok {
			return mismatch(errors.PhaseEncode, v, t)
		}
		if err := WriteLength(out, len(items)); err != nil {
			return err
		}
		for i, item := range items {
			if err := DynamicEncodeNested(out, k.Type, item); err != nil {
				return withPath(err, "["+strconv.Itoa(i)+"]")
			}
		}
	case *wit.Option:
		if v == nil {
			writeFixed(out, 0, 1)
			return nil
		}
		writeFixed(out, 1, 1)
		return DynamicEncodeNested(out, k.Type, v)
	case *wit.Tuple:
		items, err := tupleItems(v, len(k.Types), t)
		if err != nil {
			return err
		}
		for i, et := range k.Types {
			if err := DynamicEncodeNested(out, et, items[i]); err != nil {
				return withPath(err, "["+strconv.Itoa(i)+"]")
			}
		}
	case *wit.Record:
		fields, ok := v.(map[string]any)
		if !ok {
			return mismatch(errors.PhaseEncode, v, t)
		}
		for _, f := range k.Fields {
			fv, ok := fields[f.Name]
			if !ok {
				return errors.New(errors.PhaseEncode, errors.KindNotFound).
					Path(f.Name).
					Detail("record field missing").
					Build()
			}
			if err := DynamicEncodeNested(out, f.Type, fv); err != nil {
				return withPath(err, f.Name)
			}
		}
	default:
		return errors.Unsupported(errors.PhaseEncode, "schema "+FormatType(t))
	}
	return nil
}

// DynamicEncodeTop writes the top-level form of v.
func DynamicEncodeTop(out TopOutput, t wit.Type, v any) error {
	switch managedName(t) {
	case "biguint", "bigint", "buffer":
		nested := NewByteOutput()
		if err := DynamicEncodeNested(nested, t, v); err != nil {
			return err
		}
		out.SetSlice(nested.Bytes()[4:])
		return nil
	}

	switch k := typeKind(t).(type) {
	case wit.Bool:
		b, ok := v.(bool)
		if !ok {
			return mismatch(errors.PhaseEncode, v, t)
		}
		out.SetSlice(TopUint(boolByte(b)))
		return nil
	case wit.U8, wit.U16, wit.U32, wit.U64:
		u, err := toUint(v, intBits(k))
		if err != nil {
			return err
		}
		out.SetSlice(TopUint(u))
		return nil
	case wit.S8, wit.S16, wit.S32, wit.S64:
		i, err := toInt(v, intBits(k))
		if err != nil {
			return err
		}
		out.SetSlice(TopInt(i))
		return nil
	case wit.String:
		s, ok := v.(string)
		if !ok {
			return mismatch(errors.PhaseEncode, v, t)
		}
		out.SetSlice([]byte(s))
		return nil
	case *wit.List:
		if isByteList(k) {
			b, err := toBytes(v)
			if err != nil {
				return err
			}
			out.SetSlice(b)
			return nil
		}
		items, ok := v.([]any)
		if !ok {
			return mismatch(errors.PhaseEncode, v, t)
		}
		nested := out.StartNested()
		for i, item := range items {
			if err := DynamicEncodeNested(nested, k.Type, item); err != nil {
				return withPath(err, "["+strconv.Itoa(i)+"]")
			}
		}
		out.FinalizeNested(nested)
		return nil
	case *wit.Option:
		if v == nil {
			out.SetSlice(nil)
			return nil
		}
	}

	nested := out.StartNested()
	if err := DynamicEncodeNested(nested, t, v); err != nil {
		return err
	}
	out.FinalizeNested(nested)
	return nil
}

// DynamicDecodeNested reads one nested value.
func DynamicDecodeNested(in NestedInput, t wit.Type) (any, error) {
	switch managedName(t) {
	case "biguint", "bigint":
		b, err := ReadLengthPrefixed(in)
		if err != nil {
			return nil, err
		}
		if *t.(*wit.TypeDef).Name == "bigint" {
			return bigbytes.FromSigned(b), nil
		}
		return bigbytes.FromUnsigned(b), nil
	case "buffer":
		return ReadLengthPrefixed(in)
	case "address":
		return ReadBytes(in, 32)
	}

	switch k := typeKind(t).(type) {
	case wit.Bool:
		return readBool(in)
	case wit.U8, wit.U16, wit.U32, wit.U64:
		bits := intBits(k)
		u, err := readFixed(in, bits/8)
		if err != nil {
			return nil, err
		}
		return sizedUint(u, bits), nil
	case wit.S8, wit.S16, wit.S32, wit.S64:
		bits := intBits(k)
		u, err := readFixed(in, bits/8)
		if err != nil {
			return nil, err
		}
		return sizedInt(signExtend(u, bits/8), bits), nil
	case wit.String:
		b, err := ReadLengthPrefixed(in)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case *wit.List:
		if isByteList(k) {
			return ReadLengthPrefixed(in)
		}
		n, err := ReadLength(in)
		if err != nil {
			return nil, err
		}
		items := make([]any, 0, min(n, in.Remaining()))
		for i := 0; i < n; i++ {
			item, err := DynamicDecodeNested(in, k.Type)
			if err != nil {
				return nil, withPath(err, "["+strconv.Itoa(i)+"]")
			}
			items = append(items, item)
		}
		return items, nil
	case *wit.Option:
		tag, err := readFixed(in, 1)
		if err != nil {
			return nil, err
		}
		switch tag {
		case 0:
			return nil, nil
		case 1:
			return DynamicDecodeNested(in, k.Type)
		}
		return nil, errors.InvalidData(errors.PhaseDecode, nil, "option tag must be 0 or 1, got "+strconv.FormatUint(tag, 10))
	case *wit.Tuple:
		items := make([]any, len(k.Types))
		for i, et := range k.Types {
			item, err := DynamicDecodeNested(in, et)
			if err != nil {
				return nil, withPath(err, "["+strconv.Itoa(i)+"]")
			}
			items[i] = item
		}
		return items, nil
	case *wit.Record:
		fields := make(map[string]any, len(k.Fields))
		for _, f := range k.Fields {
			fv, err := DynamicDecodeNested(in, f.Type)
			if err != nil {
				return nil, withPath(err, f.Name)
			}
			fields[f.Name] = fv
		}
		return fields, nil
	}
	return nil, errors.Unsupported(errors.PhaseDecode, "schema "+FormatType(t))
}

// DynamicDecodeTop reads one top-level value spanning all of in.
func DynamicDecodeTop(in TopInput, t wit.Type) (any, error) {
	data := in.Bytes()
	switch managedName(t) {
	case "biguint":
		return bigbytes.FromUnsigned(data), nil
	case "bigint":
		return bigbytes.FromSigned(data), nil
	case "buffer":
		return append([]byte{}, data...), nil
	}

	switch k := typeKind(t).(type) {
	case wit.Bool:
		return parseTopBool(data)
	case wit.U8, wit.U16, wit.U32, wit.U64:
		bits := intBits(k)
		u, err := ParseTopUint(data, bits)
		if err != nil {
			return nil, err
		}
		return sizedUint(u, bits), nil
	case wit.S8, wit.S16, wit.S32, wit.S64:
		bits := intBits(k)
		i, err := ParseTopInt(data, bits)
		if err != nil {
			return nil, err
		}
		return sizedInt(i, bits), nil
	case wit.String:
		return string(data), nil
	case *wit.List:
		if isByteList(k) {
			return append([]byte{}, data...), nil
		}
		nested := in.IntoNested()
		items := []any{}
		for nested.Remaining() > 0 {
			before := nested.Remaining()
			item, err := DynamicDecodeNested(nested, k.Type)
			if err != nil {
				return nil, withPath(err, "["+strconv.Itoa(len(items))+"]")
			}
			if nested.Remaining() == before {
				return nil, errors.InvalidData(errors.PhaseDecode, nil, "top-level list of zero-width items")
			}
			items = append(items, item)
		}
		return items, nil
	case *wit.Option:
		if len(data) == 0 {
			return nil, nil
		}
	}

	nested := in.IntoNested()
	v, err := DynamicDecodeNested(nested, t)
	if err != nil {
		return nil, err
	}
	if err := ExpectEnd(nested); err != nil {
		return nil, err
	}
	return v, nil
}

func intBits(t any) int {
	switch t.(type) {
	case wit.U8, wit.S8:
		return 8
	case wit.U16, wit.S16:
		return 16
	case wit.U32, wit.S32:
		return 32
	}
	return 64
}

func sizedUint(u uint64, bits int) any {
	switch bits {
	case 8:
		return uint8(u)
	case 16:
		return uint16(u)
	case 32:
		return uint32(u)
	}
	return u
}

func sizedInt(i int64, bits int) any {
	switch bits {
	case 8:
		return int8(i)
	case 16:
		return int16(i)
	case 32:
		return int32(i)
	}
	return i
}

func tupleItems(v any, n int, t wit.Type) ([]any, error) {
	if items, ok := v.([]any); ok && len(items) == n {
		return items, nil
	}
	if b, err := toBytes(v); err == nil && len(b) == n {
		items := make([]any, n)
		for i := range b {
			items[i] = b[i]
		}
		return items, nil
	}
	return nil, mismatch(errors.PhaseEncode, v, t)
}

func toBig(v any) (*big.Int, error) {
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return nil, errors.NilPointer(errors.PhaseEncode, nil, "*big.Int")
		}
		return x, nil
	case json.Number:
		return parseBig(string(x))
	case string:
		return parseBig(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	case reflect.Float64, reflect.Float32:
		f := rv.Float()
		if f != float64(int64(f)) {
			return nil, errors.InvalidData(errors.PhaseEncode, nil, "non-integral number "+strconv.FormatFloat(f, 'g', -1, 64))
		}
		return big.NewInt(int64(f)), nil
	}
	return nil, errors.TypeMismatch(errors.PhaseEncode, nil, fmt.Sprintf("%T", v), "integer")
}

func parseBig(s string) (*big.Int, error) {
	x, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return nil, errors.InvalidData(errors.PhaseEncode, nil, "not an integer: "+strconv.Quote(s))
	}
	return x, nil
}

func toUint(v any, bits int) (uint64, error) {
	x, err := toBig(v)
	if err != nil {
		return 0, err
	}
	if x.Sign() < 0 || x.BitLen() > bits {
		return 0, errors.Overflow(errors.PhaseEncode, nil, x.String(), "u"+strconv.Itoa(bits))
	}
	return x.Uint64(), nil
}

func toInt(v any, bits int) (int64, error) {
	x, err := toBig(v)
	if err != nil {
		return 0, err
	}
	lim := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	if x.Cmp(lim) >= 0 || x.Cmp(new(big.Int).Neg(lim)) < 0 {
		return 0, errors.Overflow(errors.PhaseEncode, nil, x.String(), "s"+strconv.Itoa(bits))
	}
	return x.Int64(), nil
}

func toBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		s := strings.TrimPrefix(x, "0x")
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "bytes must be hex")
		}
		return b, nil
	case []any:
		b := make([]byte, len(x))
		for i, item := range x {
			u, err := toUint(item, 8)
			if err != nil {
				return nil, withPath(err, "["+strconv.Itoa(i)+"]")
			}
			b[i] = byte(u)
		}
		return b, nil
	}
	return nil, errors.TypeMismatch(errors.PhaseEncode, nil, fmt.Sprintf("%T", v), "bytes")
}
