package codec

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-managed/errors"
)

// Describer is implemented by types that provide their own schema.
type Describer interface {
	DescribeWIT() (wit.Type, error)
}

var describerType = reflect.TypeFor[Describer]()

// Named schema types for handle-backed values. BigUint, BigInt and Buffer
// share the wire shape of list<u8>; Address is 32 fixed bytes.
var (
	BigUintType = namedType("biguint", &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}})
	BigIntType  = namedType("bigint", &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}})
	BufferType  = namedType("buffer", &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}})
	AddressType = namedType("address", &wit.TypeDef{Kind: fixedBytes(32)})
)

func namedType(name string, td *wit.TypeDef) *wit.TypeDef {
	td.Name = &name
	return td
}

func fixedBytes(n int) *wit.Tuple {
	types := make([]wit.Type, n)
	for i := range types {
		types[i] = wit.U8{}
	}
	return &wit.Tuple{Types: types}
}

var namedTypes = map[string]*wit.TypeDef{
	"biguint": BigUintType,
	"bigint":  BigIntType,
	"buffer":  BufferType,
	"address": AddressType,
}

// Describe returns the schema of a codec-compatible Go type.
func Describe(t reflect.Type) (wit.Type, error) {
	return describe(t, map[reflect.Type]bool{}, nil)
}

// DescribeOf returns the schema of T.
func DescribeOf[T any]() (wit.Type, error) {
	return Describe(reflect.TypeFor[T]())
}

func describe(t reflect.Type, visiting map[reflect.Type]bool, path []string) (wit.Type, error) {
	if t == nil {
		return nil, errors.NilPointer(errors.PhaseSchema, path, "nil")
	}
	if t.Implements(describerType) {
		return reflect.Zero(t).Interface().(Describer).DescribeWIT()
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(describerType) {
		return reflect.New(t).Interface().(Describer).DescribeWIT()
	}

	switch t.Kind() {
	case reflect.Bool:
		return wit.Bool{}, nil
	case reflect.Uint8:
		return wit.U8{}, nil
	case reflect.Uint16:
		return wit.U16{}, nil
	case reflect.Uint32:
		return wit.U32{}, nil
	case reflect.Uint64, reflect.Uint:
		return wit.U64{}, nil
	case reflect.Int8:
		return wit.S8{}, nil
	case reflect.Int16:
		return wit.S16{}, nil
	case reflect.Int32:
		return wit.S32{}, nil
	case reflect.Int64, reflect.Int:
		return wit.S64{}, nil
	case reflect.String:
		return wit.String{}, nil
	}

	if visiting[t] {
		return nil, errors.New(errors.PhaseSchema, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("recursive types have no schema").
			Build()
	}
	visiting[t] = true
	defer delete(visiting, t)

	switch t.Kind() {
	case reflect.Slice:
		elem, err := describe(t.Elem(), visiting, appendPath(path, "[elem]"))
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.List{Type: elem}}, nil
	case reflect.Array:
		elem, err := describe(t.Elem(), visiting, appendPath(path, "[elem]"))
		if err != nil {
			return nil, err
		}
		types := make([]wit.Type, t.Len())
		for i := range types {
			types[i] = elem
		}
		return &wit.TypeDef{Kind: &wit.Tuple{Types: types}}, nil
	case reflect.Pointer:
		elem, err := describe(t.Elem(), visiting, path)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Option{Type: elem}}, nil
	case reflect.Struct:
		record := &wit.Record{}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("codec") == "-" {
				continue
			}
			ft, err := describe(f.Type, visiting, appendPath(path, f.Name))
			if err != nil {
				return nil, err
			}
			record.Fields = append(record.Fields, wit.Field{Name: fieldName(f), Type: ft})
		}
		return &wit.TypeDef{Kind: record}, nil
	}

	return nil, errors.New(errors.PhaseSchema, errors.KindUnsupported).
		Path(path...).
		GoType(t.String()).
		Detail("no schema for %s values", t.Kind()).
		Build()
}

// fieldName prefers a wit tag, then the kebab-case Go name.
func fieldName(f reflect.StructField) string {
	if tag := f.Tag.Get("wit"); tag != "" && tag != "-" {
		return tag
	}
	return toKebabCase(f.Name)
}

func toKebabCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatType renders a schema as a type expression accepted by ParseType.
func FormatType(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		switch k := v.Kind.(type) {
		case *wit.List:
			return "list<" + FormatType(k.Type) + ">"
		case *wit.Option:
			return "option<" + FormatType(k.Type) + ">"
		case *wit.Tuple:
			parts := make([]string, len(k.Types))
			for i, et := range k.Types {
				parts[i] = FormatType(et)
			}
			return "tuple<" + strings.Join(parts, ", ") + ">"
		case *wit.Record:
			parts := make([]string, len(k.Fields))
			for i, f := range k.Fields {
				parts[i] = f.Name + ": " + FormatType(f.Type)
			}
			return "record{" + strings.Join(parts, ", ") + "}"
		case wit.Type:
			return FormatType(k)
		}
	}
	return "<unsupported>"
}

// ParseType parses a type expression such as
// "record{to: address, amounts: list<biguint>}".
func ParseType(s string) (wit.Type, error) {
	p := &typeParser{src: s}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.fail("unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) fail(format string, args ...any) error {
	return errors.New(errors.PhaseSchema, errors.KindInvalidInput).
		Value(p.pos).
		Detail("offset "+strconv.Itoa(p.pos)+": "+format, args...).
		Build()
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return p.fail("expected %q", string(c))
	}
	p.pos++
	return nil
}

func (p *typeParser) peek(c byte) bool {
	p.skipSpace()
	return p.pos < len(p.src) && p.src[p.pos] == c
}

func (p *typeParser) parseType() (wit.Type, error) {
	name := p.ident()
	switch name {
	case "bool":
		return wit.Bool{}, nil
	case "u8":
		return wit.U8{}, nil
	case "s8":
		return wit.S8{}, nil
	case "u16":
		return wit.U16{}, nil
	case "s16":
		return wit.S16{}, nil
	case "u32":
		return wit.U32{}, nil
	case "s32":
		return wit.S32{}, nil
	case "u64":
		return wit.U64{}, nil
	case "s64":
		return wit.S64{}, nil
	case "string":
		return wit.String{}, nil
	case "list", "option":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		if name == "list" {
			return &wit.TypeDef{Kind: &wit.List{Type: elem}}, nil
		}
		return &wit.TypeDef{Kind: &wit.Option{Type: elem}}, nil
	case "tuple":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		var types []wit.Type
		for {
			et, err := p.parseType()
			if err != nil {
				return nil, err
			}
			types = append(types, et)
			if !p.peek(',') {
				break
			}
			p.pos++
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Tuple{Types: types}}, nil
	case "record":
		if err := p.expect('{'); err != nil {
			return nil, err
		}
		record := &wit.Record{}
		for !p.peek('}') {
			field := p.ident()
			if field == "" {
				return nil, p.fail("expected field name")
			}
			if err := p.expect(':'); err != nil {
				return nil, err
			}
			ft, err := p.parseType()
			if err != nil {
				return nil, err
			}
			record.Fields = append(record.Fields, wit.Field{Name: field, Type: ft})
			if !p.peek(',') {
				break
			}
			p.pos++
		}
		if err := p.expect('}'); err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: record}, nil
	case "":
		return nil, p.fail("expected type")
	}

	if td, ok := namedTypes[name]; ok {
		return td, nil
	}
	return nil, errors.NotFound(errors.PhaseSchema, "type", name)
}
