package codec

import (
	stderrors "errors"
	"reflect"
	"strconv"

	"github.com/wippyai/wasm-managed/errors"
)

// withPath prefixes the location of a structured error with elem.
func withPath(err error, elem string) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		e.Path = append([]string{elem}, e.Path...)
	}
	return err
}

func (p *Plan) nestedEncoder(v reflect.Value) NestedEncoder {
	if p.encNested {
		return v.Interface().(NestedEncoder)
	}
	return addressable(v).Interface().(NestedEncoder)
}

func (p *Plan) topEncoder(v reflect.Value) (TopEncoder, bool) {
	switch {
	case p.encTop:
		return v.Interface().(TopEncoder), true
	case p.ptrEncTop:
		return addressable(v).Interface().(TopEncoder), true
	}
	return nil, false
}

func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v.Addr()
	}
	nv := reflect.New(v.Type())
	nv.Elem().Set(v)
	return nv
}

func signExtend(u uint64, width int) int64 {
	shift := 64 - 8*width
	return int64(u<<shift) >> shift
}

func (p *Plan) encodeNested(out NestedOutput, v reflect.Value) error {
	switch p.Kind {
	case KindCustom:
		return p.nestedEncoder(v).EncodeNested(out)
	case KindBool:
		writeFixed(out, boolByte(v.Bool()), 1)
	case KindU8, KindU16, KindU32, KindU64:
		writeFixed(out, v.Uint(), p.Kind.Width())
	case KindS8, KindS16, KindS32, KindS64:
		writeFixed(out, uint64(v.Int()), p.Kind.Width())
	case KindString:
		return WriteLengthPrefixed(out, []byte(v.String()))
	case KindBytes:
		return WriteLengthPrefixed(out, v.Bytes())
	case KindList:
		n := v.Len()
		if err := WriteLength(out, n); err != nil {
			return err
		}
		return p.encodeItems(out, v, n)
	case KindArray:
		return p.encodeItems(out, v, p.Len)
	case KindOption:
		if v.IsNil() {
			writeFixed(out, 0, 1)
			return nil
		}
		writeFixed(out, 1, 1)
		return p.Elem.encodeNested(out, v.Elem())
	case KindStruct:
		for _, f := range p.Fields {
			if err := f.Plan.encodeNested(out, v.Field(f.Index)); err != nil {
				return withPath(err, f.Name)
			}
		}
	}
	return nil
}

func (p *Plan) encodeItems(out NestedOutput, v reflect.Value, n int) error {
	for i := 0; i < n; i++ {
		if err := p.Elem.encodeNested(out, v.Index(i)); err != nil {
			return withPath(err, "["+strconv.Itoa(i)+"]")
		}
	}
	return nil
}

func (p *Plan) encodeTop(out TopOutput, v reflect.Value) error {
	switch p.Kind {
	case KindCustom:
		if enc, ok := p.topEncoder(v); ok {
			return enc.EncodeTop(out)
		}
	case KindBool:
		out.SetSlice(TopUint(boolByte(v.Bool())))
		return nil
	case KindU8, KindU16, KindU32, KindU64:
		out.SetSlice(TopUint(v.Uint()))
		return nil
	case KindS8, KindS16, KindS32, KindS64:
		out.SetSlice(TopInt(v.Int()))
		return nil
	case KindString:
		out.SetSlice([]byte(v.String()))
		return nil
	case KindBytes:
		out.SetSlice(v.Bytes())
		return nil
	case KindList:
		nested := out.StartNested()
		if err := p.encodeItems(nested, v, v.Len()); err != nil {
			return err
		}
		out.FinalizeNested(nested)
		return nil
	case KindOption:
		if v.IsNil() {
			out.SetSlice(nil)
			return nil
		}
	}

	nested := out.StartNested()
	if err := p.encodeNested(nested, v); err != nil {
		return err
	}
	out.FinalizeNested(nested)
	return nil
}

func (p *Plan) decodeNested(in NestedInput, v reflect.Value) error {
	switch p.Kind {
	case KindCustom:
		return v.Addr().Interface().(NestedDecoder).DecodeNested(in)
	case KindBool:
		b, err := readBool(in)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case KindU8, KindU16, KindU32, KindU64:
		u, err := readFixed(in, p.Kind.Width())
		if err != nil {
			return err
		}
		v.SetUint(u)
	case KindS8, KindS16, KindS32, KindS64:
		u, err := readFixed(in, p.Kind.Width())
		if err != nil {
			return err
		}
		v.SetInt(signExtend(u, p.Kind.Width()))
	case KindString:
		b, err := ReadLengthPrefixed(in)
		if err != nil {
			return err
		}
		v.SetString(string(b))
	case KindBytes:
		b, err := ReadLengthPrefixed(in)
		if err != nil {
			return err
		}
		v.SetBytes(b)
	case KindList:
		n, err := ReadLength(in)
		if err != nil {
			return err
		}
		s := reflect.MakeSlice(p.Type, 0, min(n, in.Remaining()))
		zero := reflect.Zero(p.Type.Elem())
		for i := 0; i < n; i++ {
			s = reflect.Append(s, zero)
			if err := p.Elem.decodeNested(in, s.Index(i)); err != nil {
				return withPath(err, "["+strconv.Itoa(i)+"]")
			}
		}
		v.Set(s)
	case KindArray:
		for i := 0; i < p.Len; i++ {
			if err := p.Elem.decodeNested(in, v.Index(i)); err != nil {
				return withPath(err, "["+strconv.Itoa(i)+"]")
			}
		}
	case KindOption:
		tag, err := readFixed(in, 1)
		if err != nil {
			return err
		}
		switch tag {
		case 0:
			v.SetZero()
		case 1:
			nv := reflect.New(p.Type.Elem())
			if err := p.Elem.decodeNested(in, nv.Elem()); err != nil {
				return err
			}
			v.Set(nv)
		default:
			return errors.InvalidData(errors.PhaseDecode, nil, "option tag must be 0 or 1, got "+strconv.FormatUint(tag, 10))
		}
	case KindStruct:
		for _, f := range p.Fields {
			if err := f.Plan.decodeNested(in, v.Field(f.Index)); err != nil {
				return withPath(err, f.Name)
			}
		}
	}
	return nil
}

func (p *Plan) decodeTop(in TopInput, v reflect.Value) error {
	switch p.Kind {
	case KindCustom:
		if dec, ok := v.Addr().Interface().(TopDecoder); ok {
			return dec.DecodeTop(in)
		}
	case KindBool:
		b, err := parseTopBool(in.Bytes())
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil
	case KindU8, KindU16, KindU32, KindU64:
		u, err := ParseTopUint(in.Bytes(), 8*p.Kind.Width())
		if err != nil {
			return err
		}
		v.SetUint(u)
		return nil
	case KindS8, KindS16, KindS32, KindS64:
		i, err := ParseTopInt(in.Bytes(), 8*p.Kind.Width())
		if err != nil {
			return err
		}
		v.SetInt(i)
		return nil
	case KindString:
		v.SetString(string(in.Bytes()))
		return nil
	case KindBytes:
		v.SetBytes(append([]byte{}, in.Bytes()...))
		return nil
	case KindList:
		nested := in.IntoNested()
		s := reflect.MakeSlice(p.Type, 0, 0)
		zero := reflect.Zero(p.Type.Elem())
		for i := 0; nested.Remaining() > 0; i++ {
			before := nested.Remaining()
			s = reflect.Append(s, zero)
			if err := p.Elem.decodeNested(nested, s.Index(i)); err != nil {
				return withPath(err, "["+strconv.Itoa(i)+"]")
			}
			if nested.Remaining() == before {
				return errors.InvalidData(errors.PhaseDecode, nil, "top-level list of zero-width items")
			}
		}
		v.Set(s)
		return nil
	case KindOption:
		if in.Len() == 0 {
			v.SetZero()
			return nil
		}
	}

	nested := in.IntoNested()
	if err := p.decodeNested(nested, v); err != nil {
		return err
	}
	return ExpectEnd(nested)
}
