package codec

import (
	"strconv"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-managed/errors"
)

// EncodeSlice writes the nested form of items: a u32 count, then each item.
func EncodeSlice[T any](out NestedOutput, items []T) error {
	if err := WriteLength(out, len(items)); err != nil {
		return err
	}
	for i := range items {
		if err := EncodeNested(out, items[i]); err != nil {
			return withPath(err, "["+strconv.Itoa(i)+"]")
		}
	}
	return nil
}

// DecodeSlice reads the nested form written by EncodeSlice.
func DecodeSlice[T any](in NestedInput) ([]T, error) {
	n, err := ReadLength(in)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, min(n, in.Remaining()))
	for i := 0; i < n; i++ {
		var item T
		if err := DecodeNested(in, &item); err != nil {
			return nil, withPath(err, "["+strconv.Itoa(i)+"]")
		}
		items = append(items, item)
	}
	return items, nil
}

// Option is an optional value with explicit presence.
type Option[T any] struct {
	Value T
	Valid bool
}

// Some returns a present option.
func Some[T any](v T) Option[T] {
	return Option[T]{Value: v, Valid: true}
}

// None returns an absent option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

func (Option[T]) DescribeWIT() (wit.Type, error) {
	elem, err := DescribeOf[T]()
	if err != nil {
		return nil, err
	}
	return &wit.TypeDef{Kind: &wit.Option{Type: elem}}, nil
}

func (o Option[T]) EncodeNested(out NestedOutput) error {
	if !o.Valid {
		out.Write([]byte{0})
		return nil
	}
	out.Write([]byte{1})
	return EncodeNested(out, o.Value)
}

func (o Option[T]) EncodeTop(out TopOutput) error {
	if !o.Valid {
		out.SetSlice(nil)
		return nil
	}
	nested := out.StartNested()
	if err := o.EncodeNested(nested); err != nil {
		return err
	}
	out.FinalizeNested(nested)
	return nil
}

func (o *Option[T]) DecodeNested(in NestedInput) error {
	var tag [1]byte
	if err := in.ReadInto(tag[:]); err != nil {
		return err
	}
	switch tag[0] {
	case 0:
		*o = Option[T]{}
		return nil
	case 1:
		o.Valid = true
		return DecodeNested(in, &o.Value)
	}
	return errors.InvalidData(errors.PhaseDecode, nil, "option tag must be 0 or 1, got "+strconv.Itoa(int(tag[0])))
}

func (o *Option[T]) DecodeTop(in TopInput) error {
	if in.Len() == 0 {
		*o = Option[T]{}
		return nil
	}
	nested := in.IntoNested()
	if err := o.DecodeNested(nested); err != nil {
		return err
	}
	return ExpectEnd(nested)
}
