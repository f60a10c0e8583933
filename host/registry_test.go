package host

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	wasmmanaged "github.com/wippyai/wasm-managed"
	"github.com/wippyai/wasm-managed/errors"
	"github.com/wippyai/wasm-managed/resource"
)

func trapOf(t *testing.T, fn func()) *errors.Error {
	t.Helper()
	var err error
	func() {
		defer errors.Recover(&err)
		fn()
	}()
	require.Error(t, err, "expected trap")
	e, ok := err.(*errors.Error)
	require.True(t, ok)
	return e
}

func TestRegistry_HandlesAreSequential(t *testing.T) {
	r := NewRegistry(DefaultOptions())

	a := r.BigIntNew(1)
	b := r.MBufferNew()
	c := r.BigIntNew(2)

	require.Equal(t, Handle(1), a)
	require.Equal(t, Handle(2), b)
	require.Equal(t, Handle(3), c)
	require.Equal(t, 3, r.Len())

	r.Reset()
	require.Equal(t, 0, r.Len())
	require.Equal(t, Handle(1), r.BigIntNew(0))
}

func TestRegistry_InvalidHandleTraps(t *testing.T) {
	r := NewRegistry(DefaultOptions())
	buf := r.MBufferNew()

	e := trapOf(t, func() { r.BigIntSign(0) })
	require.Equal(t, errors.KindInvalidHandle, e.Kind)
	require.Equal(t, int32(0), e.Value)

	e = trapOf(t, func() { r.BigIntSign(buf) })
	require.Equal(t, errors.KindInvalidHandle, e.Kind)

	e = trapOf(t, func() { r.MBufferLen(99) })
	require.Equal(t, errors.KindInvalidHandle, e.Kind)
}

func TestRegistry_Arithmetic(t *testing.T) {
	r := NewRegistry(DefaultOptions())
	x := r.BigIntNew(-7)
	y := r.BigIntNew(2)
	d := r.BigIntNew(0)

	r.BigIntAdd(d, x, y)
	require.Equal(t, "-5", r.BigIntString(d))

	r.BigIntSub(d, x, y)
	require.Equal(t, "-9", r.BigIntString(d))

	r.BigIntMul(d, x, y)
	require.Equal(t, "-14", r.BigIntString(d))

	r.BigIntTDiv(d, x, y)
	require.Equal(t, "-3", r.BigIntString(d))

	r.BigIntTMod(d, x, y)
	require.Equal(t, "-1", r.BigIntString(d))

	r.BigIntNeg(d, x)
	require.Equal(t, "7", r.BigIntString(d))

	r.BigIntAbs(d, x)
	require.Equal(t, wasmmanaged.Positive, r.BigIntSign(d))

	r.BigIntShl(d, y, 10)
	require.Equal(t, int64(2048), r.BigIntGetInt64(d))

	r.BigIntShr(d, d, 3)
	require.Equal(t, int64(256), r.BigIntGetInt64(d))

	r.BigIntSetInt64(x, 12)
	r.BigIntSetInt64(y, 10)
	r.BigIntAnd(d, x, y)
	require.Equal(t, int64(8), r.BigIntGetInt64(d))
	r.BigIntOr(d, x, y)
	require.Equal(t, int64(14), r.BigIntGetInt64(d))
	r.BigIntXor(d, x, y)
	require.Equal(t, int64(6), r.BigIntGetInt64(d))

	require.Equal(t, 1, r.BigIntCmp(x, y))
	require.Equal(t, 0, r.BigIntCmp(x, x))
	require.Equal(t, -1, r.BigIntCmp(y, x))
}

func TestRegistry_AliasedOperands(t *testing.T) {
	r := NewRegistry(DefaultOptions())
	x := r.BigIntNew(21)

	r.BigIntAdd(x, x, x)
	require.Equal(t, int64(42), r.BigIntGetInt64(x))
}

func TestRegistry_DivisionByZero(t *testing.T) {
	r := NewRegistry(DefaultOptions())
	x := r.BigIntNew(1)
	z := r.BigIntNew(0)

	e := trapOf(t, func() { r.BigIntTDiv(x, x, z) })
	require.Equal(t, errors.KindDivisionByZero, e.Kind)

	e = trapOf(t, func() { r.BigIntTMod(x, x, z) })
	require.Equal(t, errors.KindDivisionByZero, e.Kind)
}

func TestRegistry_Bytes(t *testing.T) {
	r := NewRegistry(DefaultOptions())
	h := r.BigIntNew(0)

	r.BigIntSetUnsignedBytes(h, []byte{0x01, 0x00})
	require.Equal(t, int64(256), r.BigIntGetInt64(h))
	require.Equal(t, 2, r.BigIntUnsignedByteLength(h))
	require.Equal(t, []byte{0x01, 0x00}, r.BigIntGetUnsignedBytes(h))

	dst := make([]byte, 2)
	r.BigIntCopyUnsignedBytes(h, dst)
	require.Equal(t, []byte{0x01, 0x00}, dst)

	e := trapOf(t, func() { r.BigIntCopyUnsignedBytes(h, make([]byte, 3)) })
	require.Equal(t, errors.KindOutOfBounds, e.Kind)

	r.BigIntSetSignedBytes(h, []byte{0xff})
	require.Equal(t, int64(-1), r.BigIntGetInt64(h))
	require.Equal(t, []byte{0xff}, r.BigIntGetSignedBytes(h))

	r.BigIntSetSignedBytes(h, nil)
	require.Equal(t, wasmmanaged.Zero, r.BigIntSign(h))
	require.Empty(t, r.BigIntGetSignedBytes(h))
	require.Equal(t, 0, r.BigIntUnsignedByteLength(h))
}

func TestRegistry_GetInt64Overflow(t *testing.T) {
	r := NewRegistry(DefaultOptions())
	h := r.BigIntNew(0)
	r.BigIntSetUnsignedBytes(h, new(big.Int).Lsh(big.NewInt(1), 64).Bytes())

	require.False(t, r.BigIntIsInt64(h))
	e := trapOf(t, func() { r.BigIntGetInt64(h) })
	require.Equal(t, errors.KindOverflow, e.Kind)
}

func TestRegistry_Buffers(t *testing.T) {
	r := NewRegistry(DefaultOptions())

	src := []byte("hello")
	a := r.MBufferNewFromBytes(src)
	src[0] = 'j'
	require.Equal(t, []byte("hello"), r.MBufferGetBytes(a))

	r.MBufferAppendBytes(a, []byte(" world"))
	require.Equal(t, 11, r.MBufferLen(a))

	dst := make([]byte, 5)
	require.True(t, r.MBufferGetSlice(a, 6, dst))
	require.Equal(t, []byte("world"), dst)
	require.False(t, r.MBufferGetSlice(a, 7, dst))
	require.False(t, r.MBufferGetSlice(a, -1, dst))

	b := r.MBufferNew()
	require.True(t, r.MBufferCopyRange(a, 0, 5, b))
	require.Equal(t, []byte("hello"), r.MBufferGetBytes(b))
	require.False(t, r.MBufferCopyRange(a, 10, 5, b))

	c := r.MBufferNewFromBytes([]byte("hello"))
	require.True(t, r.MBufferEqual(b, c))
	require.False(t, r.MBufferEqual(a, c))

	r.MBufferAppend(c, c)
	require.Equal(t, []byte("hellohello"), r.MBufferGetBytes(c))

	r.MBufferSetBytes(c, nil)
	require.Equal(t, 0, r.MBufferLen(c))
}

func TestRegistry_BufferBigIntConversion(t *testing.T) {
	r := NewRegistry(DefaultOptions())
	bi := r.BigIntNew(-129)
	buf := r.MBufferNew()

	r.MBufferFromBigIntSigned(buf, bi)
	require.Equal(t, []byte{0xff, 0x7f}, r.MBufferGetBytes(buf))

	r.MBufferFromBigIntUnsigned(buf, bi)
	require.Equal(t, []byte{0x81}, r.MBufferGetBytes(buf))

	out := r.BigIntNew(0)
	r.MBufferToBigIntUnsigned(buf, out)
	require.Equal(t, int64(129), r.BigIntGetInt64(out))

	r.MBufferToBigIntSigned(buf, out)
	require.Equal(t, int64(-127), r.BigIntGetInt64(out))
}

func TestRegistry_Limits(t *testing.T) {
	opts := DefaultOptions()
	opts.Limits = resource.Limits{MaxHandles: 2}
	opts.MaxBufferLen = 4
	r := NewRegistry(opts)

	r.BigIntNew(0)
	buf := r.MBufferNew()

	e := trapOf(t, func() { r.BigIntNew(1) })
	require.Equal(t, errors.KindAllocation, e.Kind)

	e = trapOf(t, func() { r.MBufferAppendBytes(buf, []byte("12345")) })
	require.Equal(t, errors.KindAllocation, e.Kind)
	require.Equal(t, 0, r.MBufferLen(buf))
}

func TestRegistry_BufferLimitOnConversion(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxBufferLen = 1024
	r := NewRegistry(opts)

	x := r.BigIntNew(1)
	r.BigIntShl(x, x, 8*4096)
	buf := r.MBufferNew()

	e := trapOf(t, func() { r.MBufferFromBigIntUnsigned(buf, x) })
	require.Equal(t, errors.KindAllocation, e.Kind)
	e = trapOf(t, func() { r.MBufferFromBigIntSigned(buf, x) })
	require.Equal(t, errors.KindAllocation, e.Kind)
	require.Equal(t, 0, r.MBufferLen(buf))

	r.BigIntSetInt64(x, 300)
	r.MBufferFromBigIntUnsigned(buf, x)
	require.Equal(t, []byte{0x01, 0x2c}, r.MBufferGetBytes(buf))
}

func TestRegistry_BigIntLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxBigIntBytes = 8
	r := NewRegistry(opts)

	x := r.BigIntNew(1)
	r.BigIntShl(x, x, 63)
	require.Equal(t, "9223372036854775808", r.BigIntString(x))

	e := trapOf(t, func() { r.BigIntShl(x, x, 1<<32-1) })
	require.Equal(t, errors.KindAllocation, e.Kind)
	require.Equal(t, "9223372036854775808", r.BigIntString(x))

	zero := r.BigIntNew(0)
	r.BigIntShl(zero, zero, 1<<32-1)
	require.Equal(t, wasmmanaged.Zero, r.BigIntSign(zero))

	e = trapOf(t, func() { r.BigIntMul(x, x, x) })
	require.Equal(t, errors.KindAllocation, e.Kind)

	e = trapOf(t, func() { r.BigIntSetUnsignedBytes(x, make([]byte, 9)) })
	require.Equal(t, errors.KindAllocation, e.Kind)
	e = trapOf(t, func() { r.BigIntSetSignedBytes(x, make([]byte, 9)) })
	require.Equal(t, errors.KindAllocation, e.Kind)

	buf := r.MBufferNewFromBytes(make([]byte, 9))
	e = trapOf(t, func() { r.MBufferToBigIntUnsigned(buf, x) })
	require.Equal(t, errors.KindAllocation, e.Kind)
}
