package codec

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/wippyai/wasm-managed/errors"
)

// WriteU32 writes a fixed-width big-endian u32.
func WriteU32(out NestedOutput, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	out.Write(b[:])
}

// WriteLength writes a nested length or count prefix.
func WriteLength(out NestedOutput, n int) error {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return errors.Overflow(errors.PhaseEncode, nil, n, "u32 length")
	}
	WriteU32(out, uint32(n))
	return nil
}

// ReadU32 reads a fixed-width big-endian u32.
func ReadU32(in NestedInput) (uint32, error) {
	var b [4]byte
	if err := in.ReadInto(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// ReadLength reads a nested length or count prefix.
func ReadLength(in NestedInput) (int, error) {
	n, err := ReadU32(in)
	if err != nil {
		return 0, err
	}
	if n > MaxNestedLength {
		return 0, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Value(n).
			Detail("length prefix %d exceeds limit %d", n, MaxNestedLength).
			Build()
	}
	return int(n), nil
}

// ReadBytes reads exactly n bytes into a fresh slice.
func ReadBytes(in NestedInput, n int) ([]byte, error) {
	if n > in.Remaining() {
		return nil, errors.Truncated(nil, n, in.Remaining())
	}
	b := make([]byte, n)
	if err := in.ReadInto(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadLengthPrefixed reads a u32 length followed by that many bytes.
func ReadLengthPrefixed(in NestedInput) ([]byte, error) {
	n, err := ReadLength(in)
	if err != nil {
		return nil, err
	}
	return ReadBytes(in, n)
}

// WriteLengthPrefixed writes a u32 length followed by p.
func WriteLengthPrefixed(out NestedOutput, p []byte) error {
	if err := WriteLength(out, len(p)); err != nil {
		return err
	}
	out.Write(p)
	return nil
}

// TopUint returns the minimal big-endian form of v. Zero is empty.
func TopUint(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	i := 0
	for i < 8 && b[i] == 0 {
		i++
	}
	return b[i:]
}

// TopInt returns the minimal big-endian two's complement form of v.
// Zero is empty.
func TopInt(v int64) []byte {
	if v == 0 {
		return []byte{}
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	i := 0
	if v > 0 {
		for i < 7 && b[i] == 0 && b[i+1]&0x80 == 0 {
			i++
		}
	} else {
		for i < 7 && b[i] == 0xff && b[i+1]&0x80 != 0 {
			i++
		}
	}
	return b[i:]
}

// ParseTopUint decodes a top-level unsigned integer of the given bit width.
// Leading zero bytes are accepted.
func ParseTopUint(b []byte, bits int) (uint64, error) {
	if len(b) > 8 {
		for len(b) > 8 && b[0] == 0 {
			b = b[1:]
		}
		if len(b) > 8 {
			return 0, errors.Overflow(errors.PhaseDecode, nil, len(b), "u"+strconv.Itoa(bits))
		}
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	if bits < 64 && v>>bits != 0 {
		return 0, errors.Overflow(errors.PhaseDecode, nil, v, "u"+strconv.Itoa(bits))
	}
	return v, nil
}

// ParseTopInt decodes a top-level two's complement integer of the given bit
// width. Empty input is zero.
func ParseTopInt(b []byte, bits int) (int64, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if len(b) > 8 {
		return 0, errors.Overflow(errors.PhaseDecode, nil, len(b), "s"+strconv.Itoa(bits))
	}
	var u uint64
	if b[0]&0x80 != 0 {
		u = math.MaxUint64
	}
	for _, c := range b {
		u = u<<8 | uint64(c)
	}
	v := int64(u)
	if bits < 64 {
		lim := int64(1) << (bits - 1)
		if v < -lim || v >= lim {
			return 0, errors.Overflow(errors.PhaseDecode, nil, v, "s"+strconv.Itoa(bits))
		}
	}
	return v, nil
}

func parseTopBool(b []byte) (bool, error) {
	v, err := ParseTopUint(b, 8)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.InvalidData(errors.PhaseDecode, nil, "bool must be 0 or 1, got "+strconv.FormatUint(v, 10))
}

func readFixed(in NestedInput, n int) (uint64, error) {
	var b [8]byte
	if err := in.ReadInto(b[8-n:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func writeFixed(out NestedOutput, v uint64, n int) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	out.Write(b[8-n:])
}

func readBool(in NestedInput) (bool, error) {
	v, err := readFixed(in, 1)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.InvalidData(errors.PhaseDecode, nil, "bool must be 0 or 1, got "+strconv.FormatUint(v, 10))
}

func boolByte(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

func encodePrimitiveNested(out NestedOutput, v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		writeFixed(out, boolByte(x), 1)
	case uint8:
		writeFixed(out, uint64(x), 1)
	case int8:
		writeFixed(out, uint64(x), 1)
	case uint16:
		writeFixed(out, uint64(x), 2)
	case int16:
		writeFixed(out, uint64(x), 2)
	case uint32:
		writeFixed(out, uint64(x), 4)
	case int32:
		writeFixed(out, uint64(x), 4)
	case uint64:
		writeFixed(out, x, 8)
	case int64:
		writeFixed(out, uint64(x), 8)
	case uint:
		writeFixed(out, uint64(x), 8)
	case int:
		writeFixed(out, uint64(x), 8)
	case string:
		return true, WriteLengthPrefixed(out, []byte(x))
	case []byte:
		return true, WriteLengthPrefixed(out, x)
	default:
		return false, nil
	}
	return true, nil
}

func encodePrimitiveTop(out TopOutput, v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		out.SetSlice(TopUint(boolByte(x)))
	case uint8:
		out.SetSlice(TopUint(uint64(x)))
	case uint16:
		out.SetSlice(TopUint(uint64(x)))
	case uint32:
		out.SetSlice(TopUint(uint64(x)))
	case uint64:
		out.SetSlice(TopUint(x))
	case uint:
		out.SetSlice(TopUint(uint64(x)))
	case int8:
		out.SetSlice(TopInt(int64(x)))
	case int16:
		out.SetSlice(TopInt(int64(x)))
	case int32:
		out.SetSlice(TopInt(int64(x)))
	case int64:
		out.SetSlice(TopInt(x))
	case int:
		out.SetSlice(TopInt(int64(x)))
	case string:
		out.SetSlice([]byte(x))
	case []byte:
		out.SetSlice(x)
	default:
		return false, nil
	}
	return true, nil
}

func decodePrimitiveNested(in NestedInput, ptr any) (bool, error) {
	var err error
	switch p := ptr.(type) {
	case *bool:
		*p, err = readBool(in)
	case *uint8:
		var v uint64
		v, err = readFixed(in, 1)
		*p = uint8(v)
	case *int8:
		var v uint64
		v, err = readFixed(in, 1)
		*p = int8(v)
	case *uint16:
		var v uint64
		v, err = readFixed(in, 2)
		*p = uint16(v)
	case *int16:
		var v uint64
		v, err = readFixed(in, 2)
		*p = int16(v)
	case *uint32:
		var v uint64
		v, err = readFixed(in, 4)
		*p = uint32(v)
	case *int32:
		var v uint64
		v, err = readFixed(in, 4)
		*p = int32(v)
	case *uint64:
		*p, err = readFixed(in, 8)
	case *int64:
		var v uint64
		v, err = readFixed(in, 8)
		*p = int64(v)
	case *uint:
		var v uint64
		v, err = readFixed(in, 8)
		*p = uint(v)
	case *int:
		var v uint64
		v, err = readFixed(in, 8)
		*p = int(v)
	case *string:
		var b []byte
		b, err = ReadLengthPrefixed(in)
		*p = string(b)
	case *[]byte:
		*p, err = ReadLengthPrefixed(in)
	default:
		return false, nil
	}
	return true, err
}

func decodePrimitiveTop(in TopInput, ptr any) (bool, error) {
	switch ptr.(type) {
	case *bool, *uint8, *uint16, *uint32, *uint64, *uint,
		*int8, *int16, *int32, *int64, *int, *string, *[]byte:
	default:
		return false, nil
	}

	b := in.Bytes()
	var err error
	switch p := ptr.(type) {
	case *bool:
		*p, err = parseTopBool(b)
	case *uint8:
		var v uint64
		v, err = ParseTopUint(b, 8)
		*p = uint8(v)
	case *uint16:
		var v uint64
		v, err = ParseTopUint(b, 16)
		*p = uint16(v)
	case *uint32:
		var v uint64
		v, err = ParseTopUint(b, 32)
		*p = uint32(v)
	case *uint64:
		*p, err = ParseTopUint(b, 64)
	case *uint:
		var v uint64
		v, err = ParseTopUint(b, 64)
		*p = uint(v)
	case *int8:
		var v int64
		v, err = ParseTopInt(b, 8)
		*p = int8(v)
	case *int16:
		var v int64
		v, err = ParseTopInt(b, 16)
		*p = int16(v)
	case *int32:
		var v int64
		v, err = ParseTopInt(b, 32)
		*p = int32(v)
	case *int64:
		*p, err = ParseTopInt(b, 64)
	case *int:
		var v int64
		v, err = ParseTopInt(b, 64)
		*p = int(v)
	case *string:
		*p = string(b)
	case *[]byte:
		*p = append([]byte{}, b...)
	}
	return true, err
}
