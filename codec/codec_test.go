package codec

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/wippyai/wasm-managed/errors"
)

func TestEncodeNested_Primitives(t *testing.T) {
	tests := []struct {
		value    any
		name     string
		expected []byte
	}{
		{true, "bool", []byte{1}},
		{false, "bool false", []byte{0}},
		{uint8(7), "u8", []byte{7}},
		{int8(-1), "s8", []byte{0xff}},
		{uint16(0x0102), "u16", []byte{1, 2}},
		{int16(-2), "s16", []byte{0xff, 0xfe}},
		{uint32(300), "u32", []byte{0, 0, 1, 0x2c}},
		{int32(-1), "s32", []byte{0xff, 0xff, 0xff, 0xff}},
		{uint64(1), "u64", []byte{0, 0, 0, 0, 0, 0, 0, 1}},
		{int64(-256), "s64", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0}},
		{"ab", "string", []byte{0, 0, 0, 2, 'a', 'b'}},
		{[]byte{9}, "bytes", []byte{0, 0, 0, 1, 9}},
		{[]byte{}, "empty bytes", []byte{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NestedEncodeToBytes(tt.value)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !bytes.Equal(got, tt.expected) {
				t.Errorf("NestedEncodeToBytes(%v) = %x, want %x", tt.value, got, tt.expected)
			}

			ptr := reflect.New(reflect.TypeOf(tt.value))
			if err := NestedDecodeFromBytes(got, ptr.Interface()); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(ptr.Elem().Interface(), tt.value) {
				t.Errorf("round trip = %v, want %v", ptr.Elem().Interface(), tt.value)
			}
		})
	}
}

func TestEncodeTop_Primitives(t *testing.T) {
	tests := []struct {
		value    any
		name     string
		expected []byte
	}{
		{true, "bool", []byte{1}},
		{false, "bool false", []byte{}},
		{uint8(0), "u8 zero", []byte{}},
		{uint32(300), "u32", []byte{1, 0x2c}},
		{uint64(1 << 40), "u64", []byte{1, 0, 0, 0, 0, 0}},
		{int8(-1), "s8", []byte{0xff}},
		{int32(127), "s32 127", []byte{0x7f}},
		{int32(128), "s32 128", []byte{0, 0x80}},
		{int64(-129), "s64 -129", []byte{0xff, 0x7f}},
		{int64(0), "s64 zero", []byte{}},
		{"ab", "string", []byte{'a', 'b'}},
		{[]byte{1, 2}, "bytes", []byte{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TopEncodeToBytes(tt.value)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !bytes.Equal(got, tt.expected) {
				t.Errorf("TopEncodeToBytes(%v) = %x, want %x", tt.value, got, tt.expected)
			}

			ptr := reflect.New(reflect.TypeOf(tt.value))
			if err := TopDecodeFromBytes(got, ptr.Interface()); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(ptr.Elem().Interface(), tt.value) {
				t.Errorf("round trip = %v, want %v", ptr.Elem().Interface(), tt.value)
			}
		})
	}
}

func TestDecodeTop_Overflow(t *testing.T) {
	var v uint8
	err := TopDecodeFromBytes([]byte{1, 0}, &v)
	if !errors.IsKind(err, errors.KindOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}

	var s int8
	err = TopDecodeFromBytes([]byte{0, 0x80}, &s)
	if !errors.IsKind(err, errors.KindOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}

	var b bool
	err = TopDecodeFromBytes([]byte{2}, &b)
	if !errors.IsKind(err, errors.KindInvalidData) {
		t.Fatalf("expected invalid data, got %v", err)
	}
}

func TestDecodeNested_Truncated(t *testing.T) {
	var v uint32
	err := NestedDecodeFromBytes([]byte{0, 1}, &v)
	if !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Fatalf("expected out of bounds, got %v", err)
	}

	var s string
	err = NestedDecodeFromBytes([]byte{0, 0, 0, 5, 'a'}, &s)
	if !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Fatalf("expected out of bounds, got %v", err)
	}
}

func TestDecodeNested_TrailingData(t *testing.T) {
	var v uint8
	err := NestedDecodeFromBytes([]byte{1, 2}, &v)
	if !errors.IsKind(err, errors.KindInvalidData) {
		t.Fatalf("expected trailing data error, got %v", err)
	}
}

func TestDecode_NonPointerTarget(t *testing.T) {
	type point struct{ X uint8 }
	err := NestedDecodeFromBytes([]byte{1}, point{})
	if !errors.IsKind(err, errors.KindInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

type transfer struct {
	Name   []byte
	Pair   [2]uint8
	Amount uint64
	Memo   *string
	Tags   []string
	cache  int
	Skip   int `codec:"-"`
}

func TestStruct_NestedLayout(t *testing.T) {
	type pair struct {
		Name []byte
		Pair [2]uint8
	}

	got, err := NestedEncodeToBytes(pair{Name: []byte("ab"), Pair: [2]uint8{1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0, 2, 'a', 'b', 1, 2}
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestStruct_RoundTrip(t *testing.T) {
	memo := "hi"
	in := transfer{
		Name:   []byte("alice"),
		Pair:   [2]uint8{3, 4},
		Amount: 1000,
		Memo:   &memo,
		Tags:   []string{"x", "yz"},
		cache:  9,
		Skip:   5,
	}

	for _, top := range []bool{false, true} {
		var data []byte
		var err error
		if top {
			data, err = TopEncodeToBytes(in)
		} else {
			data, err = NestedEncodeToBytes(in)
		}
		if err != nil {
			t.Fatal(err)
		}

		var out transfer
		if top {
			err = TopDecodeFromBytes(data, &out)
		} else {
			err = NestedDecodeFromBytes(data, &out)
		}
		if err != nil {
			t.Fatalf("top=%v: %v", top, err)
		}

		want := in
		want.cache = 0
		want.Skip = 0
		if !reflect.DeepEqual(out, want) {
			t.Errorf("top=%v: got %+v, want %+v", top, out, want)
		}
	}
}

func TestStruct_Deterministic(t *testing.T) {
	v := transfer{Name: []byte("k"), Tags: []string{"a"}}
	a, _ := NestedEncodeToBytes(v)
	b, _ := NestedEncodeToBytes(v)
	if !bytes.Equal(a, b) {
		t.Errorf("encodings differ: %x vs %x", a, b)
	}
}

func TestStruct_ErrorPath(t *testing.T) {
	type inner struct{ Value uint32 }
	type outer struct {
		Items []inner
	}

	data := []byte{0, 0, 0, 2, 0, 0, 0, 1, 0, 0}
	var out outer
	err := NestedDecodeFromBytes(data, &out)

	var e *errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected structured error, got %v", err)
	}
	want := []string{"Items", "[1]", "Value"}
	if !reflect.DeepEqual(e.Path, want) {
		t.Errorf("path = %v, want %v", e.Path, want)
	}
}

func TestTop_ListHasNoCount(t *testing.T) {
	got, err := TopEncodeToBytes([]uint16{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 1, 0, 2}
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}

	var out []uint16
	if err := TopDecodeFromBytes(got, &out); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, []uint16{1, 2}) {
		t.Errorf("got %v", out)
	}

	if err := TopDecodeFromBytes([]byte{0, 1, 0}, &out); err == nil {
		t.Error("expected error for partial item")
	}
}

func TestTop_PointerOption(t *testing.T) {
	var none *uint32
	got, err := TopEncodeToBytes(none)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("none = %x, want empty", got)
	}

	v := uint32(5)
	got, err = TopEncodeToBytes(&v)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 0, 0, 0, 5}
	if !bytes.Equal(got, want) {
		t.Errorf("some = %x, want %x", got, want)
	}

	var out *uint32
	if err := TopDecodeFromBytes(got, &out); err != nil {
		t.Fatal(err)
	}
	if out == nil || *out != 5 {
		t.Errorf("decoded %v", out)
	}
}

func TestPointerArgumentIsOption(t *testing.T) {
	type point struct{ X, Y uint8 }
	p := point{X: 1, Y: 2}

	byValue, err := NestedEncodeToBytes(p)
	if err != nil {
		t.Fatal(err)
	}
	byPointer, err := NestedEncodeToBytes(&p)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{1, 2}; !bytes.Equal(byValue, want) {
		t.Errorf("value = %x, want %x", byValue, want)
	}
	if want := []byte{1, 1, 2}; !bytes.Equal(byPointer, want) {
		t.Errorf("pointer = %x, want %x", byPointer, want)
	}

	var back point
	if err := NestedDecodeFromBytes(byValue, &back); err != nil || back != p {
		t.Errorf("decode value = %+v, %v", back, err)
	}
	var backPtr *point
	if err := NestedDecodeFromBytes(byPointer, &backPtr); err != nil || backPtr == nil || *backPtr != p {
		t.Errorf("decode pointer = %v, %v", backPtr, err)
	}
	if err := NestedDecodeFromBytes(byPointer, &back); err == nil {
		t.Error("option bytes decoded into a plain struct without error")
	}
}

func TestStruct_TopTrailingData(t *testing.T) {
	type point struct{ X, Y uint8 }
	var p point
	err := TopDecodeFromBytes([]byte{1, 2, 3}, &p)
	if !errors.IsKind(err, errors.KindInvalidData) {
		t.Fatalf("expected trailing data, got %v", err)
	}
}

func TestCompiler_Unsupported(t *testing.T) {
	c := NewCompiler()
	_, err := c.Compile(reflect.TypeOf(map[string]int{}))
	if !errors.IsKind(err, errors.KindUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}

	_, err = c.Compile(reflect.TypeOf(struct{ F float64 }{}))
	if !errors.IsKind(err, errors.KindUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}

type node struct {
	Value uint8
	Next  *node
}

func TestCompiler_RecursiveType(t *testing.T) {
	in := &node{Value: 1, Next: &node{Value: 2}}
	data, err := NestedEncodeToBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 1, 1, 2, 0}
	if !bytes.Equal(data, want) {
		t.Errorf("got %x, want %x", data, want)
	}

	var out *node
	if err := NestedDecodeFromBytes(data, &out); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("got %+v", out)
	}
}

func TestCompiler_Caches(t *testing.T) {
	c := NewCompiler()
	a, err := c.Compile(reflect.TypeOf(transfer{}))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.Compile(reflect.TypeOf(transfer{}))
	if a != b {
		t.Error("expected cached plan")
	}
	if len(a.Fields) != 5 {
		t.Errorf("fields = %d, want 5", len(a.Fields))
	}
}

type counter struct {
	n uint8
}

func (c counter) EncodeNested(out NestedOutput) error {
	out.Write([]byte{c.n, c.n})
	return nil
}

func (c *counter) DecodeNested(in NestedInput) error {
	var b [2]byte
	if err := in.ReadInto(b[:]); err != nil {
		return err
	}
	c.n = b[0]
	return nil
}

func TestCustomEncoderTakesPrecedence(t *testing.T) {
	type wrapper struct {
		C counter
		L []counter
	}

	data, err := NestedEncodeToBytes(wrapper{C: counter{3}, L: []counter{{4}}})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{3, 3, 0, 0, 0, 1, 4, 4}
	if !bytes.Equal(data, want) {
		t.Errorf("got %x, want %x", data, want)
	}

	var out wrapper
	if err := NestedDecodeFromBytes(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.C.n != 3 || len(out.L) != 1 || out.L[0].n != 4 {
		t.Errorf("got %+v", out)
	}

	top, err := TopEncodeToBytes(counter{7})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(top, []byte{7, 7}) {
		t.Errorf("top = %x", top)
	}
}

func TestByteOutput_Stats(t *testing.T) {
	out := NewByteOutput()
	if err := EncodeNested(out, "abc"); err != nil {
		t.Fatal(err)
	}
	if out.PushSpecialized(out) {
		t.Error("byte output must not specialize")
	}
	s := out.Stats()
	if s.Specialized != 0 || s.Generic != 2 {
		t.Errorf("stats = %+v", s)
	}
	out.Reset()
	if out.Len() != 0 || out.Stats() != (Stats{}) {
		t.Error("reset did not clear sink")
	}
}

func TestReadLength_Limit(t *testing.T) {
	in := NewByteInput([]byte{0xff, 0xff, 0xff, 0xff})
	if _, err := ReadLength(in); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Fatalf("expected out of bounds, got %v", err)
	}
}
