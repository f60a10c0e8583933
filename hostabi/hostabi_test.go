package hostabi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-managed/errors"
	"github.com/wippyai/wasm-managed/host"
)

// memoryModule exports one page of memory as "memory" and nothing else.
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01,
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
}

// adderModule imports bigIntNew, bigIntAdd and bigIntGetInt64 from env and
// exports run, which computes 40 + 2 through handles.
var adderModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// types: (i64)->i32, (i32 i32 i32)->(), (i32)->i64, ()->i64
	0x01, 0x15, 0x04,
	0x60, 0x01, 0x7e, 0x01, 0x7f,
	0x60, 0x03, 0x7f, 0x7f, 0x7f, 0x00,
	0x60, 0x01, 0x7f, 0x01, 0x7e,
	0x60, 0x00, 0x01, 0x7e,
	// imports
	0x02, 0x36, 0x03,
	0x03, 'e', 'n', 'v', 0x09, 'b', 'i', 'g', 'I', 'n', 't', 'N', 'e', 'w', 0x00, 0x00,
	0x03, 'e', 'n', 'v', 0x09, 'b', 'i', 'g', 'I', 'n', 't', 'A', 'd', 'd', 0x00, 0x01,
	0x03, 'e', 'n', 'v', 0x0e, 'b', 'i', 'g', 'I', 'n', 't', 'G', 'e', 't', 'I', 'n', 't', '6', '4', 0x00, 0x02,
	// functions
	0x03, 0x02, 0x01, 0x03,
	// memory
	0x05, 0x03, 0x01, 0x00, 0x01,
	// exports
	0x07, 0x10, 0x02,
	0x03, 'r', 'u', 'n', 0x00, 0x03,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	// code
	0x0a, 0x1a, 0x01, 0x18, 0x01, 0x01, 0x7f,
	0x42, 0x28, 0x10, 0x00, 0x21, 0x00,
	0x20, 0x00, 0x20, 0x00, 0x42, 0x02, 0x10, 0x00, 0x10, 0x01,
	0x20, 0x00, 0x10, 0x02,
	0x0b,
}

type fixture struct {
	ctx   context.Context
	rt    wazero.Runtime
	reg   *host.Registry
	mod   *Module
	host  api.Module
	guest api.Module
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	reg := host.NewRegistry(host.DefaultOptions())
	mod := New(reg, DefaultOptions())
	hostMod, err := mod.Build(ctx, rt)
	require.NoError(t, err)

	guest, err := rt.Instantiate(ctx, memoryModule)
	require.NoError(t, err)

	return &fixture{ctx: ctx, rt: rt, reg: reg, mod: mod, host: hostMod, guest: guest}
}

// call runs a host function against the guest's memory and returns the
// stack, or the trap it raised.
func (f *fixture) call(t *testing.T, name string, args ...uint64) (stack []uint64, err error) {
	t.Helper()
	fn, ok := f.mod.Func(name)
	require.True(t, ok, "missing host function %s", name)
	require.Len(t, args, len(fn.Params))

	stack = make([]uint64, max(len(fn.Params), len(fn.Results)))
	copy(stack, args)
	defer errors.Recover(&err)
	fn.Fn(f.ctx, f.guest, stack)
	return stack, nil
}

func (f *fixture) mustCall(t *testing.T, name string, args ...uint64) []uint64 {
	t.Helper()
	stack, err := f.call(t, name, args...)
	require.NoError(t, err)
	return stack
}

func TestModule_Exports(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, "env", f.host.Name())

	for _, name := range []string{
		"bigIntNew", "bigIntAdd", "bigIntSub", "bigIntMul", "bigIntTDiv", "bigIntTMod",
		"bigIntAnd", "bigIntOr", "bigIntXor", "bigIntShl", "bigIntShr", "bigIntNeg", "bigIntAbs",
		"bigIntSign", "bigIntCmp", "bigIntSetInt64", "bigIntGetInt64", "bigIntIsInt64",
		"bigIntUnsignedByteLength", "bigIntGetUnsignedBytes", "bigIntSetUnsignedBytes",
		"mBufferNew", "mBufferNewFromBytes", "mBufferGetLength", "mBufferGetBytes",
		"mBufferSetBytes", "mBufferAppend", "mBufferAppendBytes", "mBufferEq",
		"mBufferFromBigIntUnsigned", "mBufferToBigIntUnsigned",
	} {
		require.NotNil(t, f.host.ExportedFunction(name), name)
	}
}

func TestModule_CallThroughRuntime(t *testing.T) {
	f := newFixture(t)

	a, err := f.host.ExportedFunction("bigIntNew").Call(f.ctx, 40)
	require.NoError(t, err)
	b, err := f.host.ExportedFunction("bigIntNew").Call(f.ctx, 2)
	require.NoError(t, err)

	_, err = f.host.ExportedFunction("bigIntAdd").Call(f.ctx, a[0], a[0], b[0])
	require.NoError(t, err)

	got, err := f.host.ExportedFunction("bigIntGetInt64").Call(f.ctx, a[0])
	require.NoError(t, err)
	require.Equal(t, int64(42), int64(got[0]))

	_, err = f.host.ExportedFunction("bigIntSign").Call(f.ctx, 99)
	require.Error(t, err, "invalid handle traps the call")
}

func TestModule_GuestCallsHost(t *testing.T) {
	f := newFixture(t)

	adder, err := f.rt.Instantiate(f.ctx, adderModule)
	require.NoError(t, err)

	res, err := adder.ExportedFunction("run").Call(f.ctx)
	require.NoError(t, err)
	require.Equal(t, int64(42), int64(res[0]))
	require.Equal(t, 2, f.reg.Len())
}

func TestModule_BigIntArithmetic(t *testing.T) {
	f := newFixture(t)

	neg := f.mustCall(t, "bigIntNew", uint64(int64(-7)))[0]
	two := f.mustCall(t, "bigIntNew", 2)[0]
	dest := f.mustCall(t, "bigIntNew", 0)[0]

	f.mustCall(t, "bigIntTDiv", dest, neg, two)
	require.Equal(t, int64(-3), int64(f.mustCall(t, "bigIntGetInt64", dest)[0]))

	f.mustCall(t, "bigIntShl", dest, two, 3)
	require.Equal(t, int64(16), int64(f.mustCall(t, "bigIntGetInt64", dest)[0]))

	require.Equal(t, int32(-1), int32(f.mustCall(t, "bigIntSign", neg)[0]))
	require.Equal(t, int32(-1), int32(f.mustCall(t, "bigIntCmp", neg, two)[0]))
	require.Equal(t, uint64(1), f.mustCall(t, "bigIntIsInt64", neg)[0])

	zero := f.mustCall(t, "bigIntNew", 0)[0]
	_, err := f.call(t, "bigIntTMod", dest, neg, zero)
	require.True(t, errors.IsKind(err, errors.KindDivisionByZero), "got %v", err)

	_, err = f.call(t, "bigIntShl", dest, two, uint64(^uint32(0)))
	require.True(t, errors.IsKind(err, errors.KindAllocation), "got %v", err)
}

func TestModule_BigIntBytes(t *testing.T) {
	f := newFixture(t)
	mem := f.guest.Memory()
	require.True(t, mem.Write(16, []byte{0x01, 0x2c}))

	h := f.mustCall(t, "bigIntNew", 0)[0]
	f.mustCall(t, "bigIntSetUnsignedBytes", h, 16, 2)
	require.Equal(t, "300", f.reg.BigIntString(h32(h)))
	require.Equal(t, uint64(2), f.mustCall(t, "bigIntUnsignedByteLength", h)[0])

	n := f.mustCall(t, "bigIntGetUnsignedBytes", h, 100)[0]
	require.Equal(t, uint64(2), n)
	got, ok := mem.Read(100, 2)
	require.True(t, ok)
	require.Equal(t, []byte{0x01, 0x2c}, got)
}

func TestModule_Buffers(t *testing.T) {
	f := newFixture(t)
	mem := f.guest.Memory()
	require.True(t, mem.Write(0, []byte("hello")))

	buf := f.mustCall(t, "mBufferNewFromBytes", 0, 5)[0]
	require.Equal(t, uint64(5), f.mustCall(t, "mBufferGetLength", buf)[0])

	f.mustCall(t, "mBufferAppendBytes", buf, 0, 2)
	other := f.mustCall(t, "mBufferNew")[0]
	f.mustCall(t, "mBufferAppend", other, buf)
	require.Equal(t, uint64(1), f.mustCall(t, "mBufferEq", buf, other)[0])

	f.mustCall(t, "mBufferGetBytes", other, 200)
	got, ok := mem.Read(200, 7)
	require.True(t, ok)
	require.Equal(t, []byte("hellohe"), got)

	require.Equal(t, uint64(0), f.mustCall(t, "mBufferGetByteSlice", buf, 5, 2, 300)[0])
	got, _ = mem.Read(300, 2)
	require.Equal(t, []byte("he"), got)
	require.Equal(t, uint64(1), f.mustCall(t, "mBufferGetByteSlice", buf, 6, 2, 300)[0])

	part := f.mustCall(t, "mBufferNew")[0]
	require.Equal(t, uint64(0), f.mustCall(t, "mBufferCopyByteSlice", buf, 1, 3, part)[0])
	require.Equal(t, []byte("ell"), f.reg.MBufferGetBytes(h32(part)))

	f.mustCall(t, "mBufferSetBytes", buf, 0, 1)
	require.Equal(t, []byte("h"), f.reg.MBufferGetBytes(h32(buf)))
}

func TestModule_BufferBigIntConversions(t *testing.T) {
	f := newFixture(t)

	n := f.mustCall(t, "bigIntNew", 300)[0]
	buf := f.mustCall(t, "mBufferNew")[0]
	f.mustCall(t, "mBufferFromBigIntUnsigned", buf, n)
	require.Equal(t, []byte{0x01, 0x2c}, f.reg.MBufferGetBytes(h32(buf)))

	back := f.mustCall(t, "bigIntNew", 0)[0]
	f.mustCall(t, "mBufferToBigIntSigned", buf, back)
	require.Equal(t, "300", f.reg.BigIntString(h32(back)))
}

func TestModule_MemoryTraps(t *testing.T) {
	f := newFixture(t)
	const page = 65536

	_, err := f.call(t, "mBufferNewFromBytes", page-1, 2)
	require.True(t, errors.IsKind(err, errors.KindOutOfBounds), "got %v", err)

	buf := f.mustCall(t, "mBufferNewFromBytes", 0, 4)[0]
	_, err = f.call(t, "mBufferGetBytes", buf, page-2)
	require.True(t, errors.IsKind(err, errors.KindOutOfBounds), "got %v", err)

	fn, _ := f.mod.Func("mBufferNewFromBytes")
	require.Panics(t, func() {
		fn.Fn(f.ctx, f.host, []uint64{0, 1})
	}, "the host module has no memory")
}

func TestModule_CustomName(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	reg := host.NewRegistry(host.DefaultOptions())
	mod, err := New(reg, Options{ModuleName: "managed"}).Build(ctx, rt)
	require.NoError(t, err)
	require.Equal(t, "managed", mod.Name())

	_, err = New(reg, Options{ModuleName: "managed"}).Build(ctx, rt)
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, errors.PhaseHost, e.Phase)
}

func h32(v uint64) host.Handle { return handle(v) }
