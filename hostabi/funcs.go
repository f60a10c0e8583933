package hostabi

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	wasmmanaged "github.com/wippyai/wasm-managed"
)

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

func params(types ...api.ValueType) []api.ValueType { return types }

func handle(v uint64) wasmmanaged.Handle       { return wasmmanaged.Handle(int32(v)) }
func encodeHandle(h wasmmanaged.Handle) uint64 { return uint64(uint32(h)) }

func encodeI32(v int32) uint64 { return uint64(uint32(v)) }

func encodeBool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// status is 0 on success and 1 on a range failure.
func status(ok bool) uint64 {
	if ok {
		return 0
	}
	return 1
}

func (m *Module) define() []Func {
	r := m.reg

	binary := func(name string, op func(dest, x, y wasmmanaged.Handle)) Func {
		return Func{
			Name:   name,
			Params: params(i32, i32, i32),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				op(handle(stack[0]), handle(stack[1]), handle(stack[2]))
			},
		}
	}
	unary := func(name string, op func(dest, x wasmmanaged.Handle)) Func {
		return Func{
			Name:   name,
			Params: params(i32, i32),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				op(handle(stack[0]), handle(stack[1]))
			},
		}
	}
	shift := func(name string, op func(dest, x wasmmanaged.Handle, bits uint)) Func {
		return Func{
			Name:   name,
			Params: params(i32, i32, i32),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				op(handle(stack[0]), handle(stack[1]), uint(api.DecodeU32(stack[2])))
			},
		}
	}
	setBytes := func(name string, op func(h wasmmanaged.Handle, b []byte)) Func {
		return Func{
			Name:   name,
			Params: params(i32, i32, i32),
			Fn: func(_ context.Context, mod api.Module, stack []uint64) {
				data := m.read(name, mod, api.DecodeU32(stack[1]), api.DecodeU32(stack[2]))
				op(handle(stack[0]), data)
			},
		}
	}

	return []Func{
		{
			Name:    "bigIntNew",
			Params:  params(i64),
			Results: params(i32),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = encodeHandle(r.BigIntNew(int64(stack[0])))
			},
		},
		{
			Name:   "bigIntSetInt64",
			Params: params(i32, i64),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				r.BigIntSetInt64(handle(stack[0]), int64(stack[1]))
			},
		},
		{
			Name:    "bigIntGetInt64",
			Params:  params(i32),
			Results: params(i64),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = uint64(r.BigIntGetInt64(handle(stack[0])))
			},
		},
		{
			Name:    "bigIntIsInt64",
			Params:  params(i32),
			Results: params(i32),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = encodeBool(r.BigIntIsInt64(handle(stack[0])))
			},
		},
		{
			Name:    "bigIntUnsignedByteLength",
			Params:  params(i32),
			Results: params(i32),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = api.EncodeU32(uint32(r.BigIntUnsignedByteLength(handle(stack[0]))))
			},
		},
		{
			Name:    "bigIntGetUnsignedBytes",
			Params:  params(i32, i32),
			Results: params(i32),
			Fn: func(_ context.Context, mod api.Module, stack []uint64) {
				data := r.BigIntGetUnsignedBytes(handle(stack[0]))
				m.write("bigIntGetUnsignedBytes", mod, api.DecodeU32(stack[1]), data)
				stack[0] = api.EncodeU32(uint32(len(data)))
			},
		},
		setBytes("bigIntSetUnsignedBytes", r.BigIntSetUnsignedBytes),
		setBytes("bigIntSetSignedBytes", r.BigIntSetSignedBytes),

		binary("bigIntAdd", r.BigIntAdd),
		binary("bigIntSub", r.BigIntSub),
		binary("bigIntMul", r.BigIntMul),
		binary("bigIntTDiv", r.BigIntTDiv),
		binary("bigIntTMod", r.BigIntTMod),
		binary("bigIntAnd", r.BigIntAnd),
		binary("bigIntOr", r.BigIntOr),
		binary("bigIntXor", r.BigIntXor),
		shift("bigIntShl", r.BigIntShl),
		shift("bigIntShr", r.BigIntShr),
		unary("bigIntNeg", r.BigIntNeg),
		unary("bigIntAbs", r.BigIntAbs),

		{
			Name:    "bigIntSign",
			Params:  params(i32),
			Results: params(i32),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = encodeI32(int32(r.BigIntSign(handle(stack[0]))))
			},
		},
		{
			Name:    "bigIntCmp",
			Params:  params(i32, i32),
			Results: params(i32),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = encodeI32(int32(r.BigIntCmp(handle(stack[0]), handle(stack[1]))))
			},
		},

		{
			Name:    "mBufferNew",
			Results: params(i32),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = encodeHandle(r.MBufferNew())
			},
		},
		{
			Name:    "mBufferNewFromBytes",
			Params:  params(i32, i32),
			Results: params(i32),
			Fn: func(_ context.Context, mod api.Module, stack []uint64) {
				data := m.read("mBufferNewFromBytes", mod, api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
				stack[0] = encodeHandle(r.MBufferNewFromBytes(data))
			},
		},
		{
			Name:    "mBufferGetLength",
			Params:  params(i32),
			Results: params(i32),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = api.EncodeU32(uint32(r.MBufferLen(handle(stack[0]))))
			},
		},
		{
			Name:   "mBufferGetBytes",
			Params: params(i32, i32),
			Fn: func(_ context.Context, mod api.Module, stack []uint64) {
				data := r.MBufferGetBytes(handle(stack[0]))
				m.write("mBufferGetBytes", mod, api.DecodeU32(stack[1]), data)
			},
		},
		{
			Name:    "mBufferGetByteSlice",
			Params:  params(i32, i32, i32, i32),
			Results: params(i32),
			Fn: func(_ context.Context, mod api.Module, stack []uint64) {
				h := handle(stack[0])
				start, n := int(api.DecodeU32(stack[1])), int(api.DecodeU32(stack[2]))
				if n > r.MBufferLen(h) {
					stack[0] = status(false)
					return
				}
				dst := make([]byte, n)
				ok := r.MBufferGetSlice(h, start, dst)
				if ok {
					m.write("mBufferGetByteSlice", mod, api.DecodeU32(stack[3]), dst)
				}
				stack[0] = status(ok)
			},
		},
		{
			Name:    "mBufferCopyByteSlice",
			Params:  params(i32, i32, i32, i32),
			Results: params(i32),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				ok := r.MBufferCopyRange(handle(stack[0]), int(api.DecodeU32(stack[1])), int(api.DecodeU32(stack[2])), handle(stack[3]))
				stack[0] = status(ok)
			},
		},
		setBytes("mBufferSetBytes", r.MBufferSetBytes),
		setBytes("mBufferAppendBytes", r.MBufferAppendBytes),
		{
			Name:   "mBufferAppend",
			Params: params(i32, i32),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				r.MBufferAppend(handle(stack[0]), handle(stack[1]))
			},
		},
		{
			Name:    "mBufferEq",
			Params:  params(i32, i32),
			Results: params(i32),
			Fn: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = encodeBool(r.MBufferEqual(handle(stack[0]), handle(stack[1])))
			},
		},
		unary("mBufferFromBigIntUnsigned", r.MBufferFromBigIntUnsigned),
		unary("mBufferFromBigIntSigned", r.MBufferFromBigIntSigned),
		unary("mBufferToBigIntUnsigned", r.MBufferToBigIntUnsigned),
		unary("mBufferToBigIntSigned", r.MBufferToBigIntSigned),
	}
}
