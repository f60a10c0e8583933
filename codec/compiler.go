package codec

import (
	"reflect"
	"strconv"
	"sync"

	"github.com/wippyai/wasm-managed/errors"
)

// Kind classifies a compiled plan.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindU8
	KindU16
	KindU32
	KindU64
	KindS8
	KindS16
	KindS32
	KindS64
	KindString
	KindBytes
	KindList
	KindArray
	KindStruct
	KindOption
	KindCustom
)

var kindNames = [...]string{
	KindBool:   "bool",
	KindU8:     "u8",
	KindU16:    "u16",
	KindU32:    "u32",
	KindU64:    "u64",
	KindS8:     "s8",
	KindS16:    "s16",
	KindS32:    "s32",
	KindS64:    "s64",
	KindString: "string",
	KindBytes:  "bytes",
	KindList:   "list",
	KindArray:  "array",
	KindStruct: "struct",
	KindOption: "option",
	KindCustom: "custom",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Width returns the nested byte width of fixed-size integer kinds, or 0.
func (k Kind) Width() int {
	switch k {
	case KindBool, KindU8, KindS8:
		return 1
	case KindU16, KindS16:
		return 2
	case KindU32, KindS32:
		return 4
	case KindU64, KindS64:
		return 8
	}
	return 0
}

func (k Kind) signed() bool {
	return k >= KindS8 && k <= KindS64
}

// Plan is the compiled encoding of one Go type.
type Plan struct {
	Type   reflect.Type
	Elem   *Plan
	Fields []FieldPlan
	Len    int // array length
	Kind   Kind

	// custom type capabilities
	encNested, encTop bool
	ptrEncNested      bool
	ptrEncTop         bool
}

// FieldPlan is one encoded struct field.
type FieldPlan struct {
	Plan  *Plan
	Name  string
	Index int
}

// Compiler builds and caches plans. It is safe for concurrent use.
type Compiler struct {
	cache sync.Map // reflect.Type -> *Plan
}

// NewCompiler returns a compiler with an empty cache.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile returns the plan for t, building it on first use.
func (c *Compiler) Compile(t reflect.Type) (*Plan, error) {
	if t == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindNilPointer).
			Detail("Go type cannot be nil").
			Build()
	}
	if cached, ok := c.cache.Load(t); ok {
		return cached.(*Plan), nil
	}

	building := make(map[reflect.Type]*Plan)
	p, err := c.compile(t, building, nil)
	if err != nil {
		return nil, err
	}
	for typ, plan := range building {
		c.cache.LoadOrStore(typ, plan)
	}
	actual, _ := c.cache.LoadOrStore(t, p)
	return actual.(*Plan), nil
}

func (c *Compiler) compile(t reflect.Type, building map[reflect.Type]*Plan, path []string) (*Plan, error) {
	if cached, ok := c.cache.Load(t); ok {
		return cached.(*Plan), nil
	}
	if p, ok := building[t]; ok {
		return p, nil
	}

	p := &Plan{Type: t}
	building[t] = p

	pt := reflect.PointerTo(t)
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		p.encNested = t.Implements(nestedEncoderType)
		p.encTop = t.Implements(topEncoderType)
		p.ptrEncNested = pt.Implements(nestedEncoderType)
		p.ptrEncTop = pt.Implements(topEncoderType)
		if (p.encNested || p.ptrEncNested) && pt.Implements(nestedDecoderType) {
			p.Kind = KindCustom
			return p, nil
		}
	}

	switch t.Kind() {
	case reflect.Bool:
		p.Kind = KindBool
	case reflect.Uint8:
		p.Kind = KindU8
	case reflect.Uint16:
		p.Kind = KindU16
	case reflect.Uint32:
		p.Kind = KindU32
	case reflect.Uint64, reflect.Uint:
		p.Kind = KindU64
	case reflect.Int8:
		p.Kind = KindS8
	case reflect.Int16:
		p.Kind = KindS16
	case reflect.Int32:
		p.Kind = KindS32
	case reflect.Int64, reflect.Int:
		p.Kind = KindS64
	case reflect.String:
		p.Kind = KindString
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && !reflect.PointerTo(t.Elem()).Implements(nestedDecoderType) {
			p.Kind = KindBytes
			return p, nil
		}
		elem, err := c.compile(t.Elem(), building, appendPath(path, "[elem]"))
		if err != nil {
			return nil, err
		}
		p.Kind = KindList
		p.Elem = elem
	case reflect.Array:
		elem, err := c.compile(t.Elem(), building, appendPath(path, "[elem]"))
		if err != nil {
			return nil, err
		}
		p.Kind = KindArray
		p.Elem = elem
		p.Len = t.Len()
	case reflect.Pointer:
		elem, err := c.compile(t.Elem(), building, path)
		if err != nil {
			return nil, err
		}
		p.Kind = KindOption
		p.Elem = elem
	case reflect.Struct:
		p.Kind = KindStruct
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("codec") == "-" {
				continue
			}
			fp, err := c.compile(f.Type, building, appendPath(path, f.Name))
			if err != nil {
				return nil, err
			}
			p.Fields = append(p.Fields, FieldPlan{Name: f.Name, Index: i, Plan: fp})
		}
	default:
		delete(building, t)
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("no encoding for %s values", t.Kind()).
			Build()
	}
	return p, nil
}

func appendPath(path []string, elem string) []string {
	return append(append(make([]string, 0, len(path)+1), path...), elem)
}

// EncodeNested encodes v through its plan.
func (c *Compiler) EncodeNested(out NestedOutput, v reflect.Value) error {
	if !v.IsValid() {
		return errors.NilPointer(errors.PhaseEncode, nil, "nil")
	}
	p, err := c.Compile(v.Type())
	if err != nil {
		return err
	}
	return p.encodeNested(out, v)
}

// EncodeTop encodes v in top-level form through its plan.
func (c *Compiler) EncodeTop(out TopOutput, v reflect.Value) error {
	if !v.IsValid() {
		return errors.NilPointer(errors.PhaseEncode, nil, "nil")
	}
	p, err := c.Compile(v.Type())
	if err != nil {
		return err
	}
	return p.encodeTop(out, v)
}

// DecodeNested decodes into the addressable value v.
func (c *Compiler) DecodeNested(in NestedInput, v reflect.Value) error {
	p, err := c.Compile(v.Type())
	if err != nil {
		return err
	}
	return p.decodeNested(in, v)
}

// DecodeTop decodes the top-level form into the addressable value v.
func (c *Compiler) DecodeTop(in TopInput, v reflect.Value) error {
	p, err := c.Compile(v.Type())
	if err != nil {
		return err
	}
	return p.decodeTop(in, v)
}
