package managed

import (
	"encoding/binary"
	"math"

	"github.com/holiman/uint256"
	"go.bytecodealliance.org/wit"

	wasmmanaged "github.com/wippyai/wasm-managed"
	"github.com/wippyai/wasm-managed/codec"
	"github.com/wippyai/wasm-managed/errors"
)

// BigUint is a non-negative big integer held by the registry.
// The zero value is only usable as a decode target.
type BigUint struct {
	api    wasmmanaged.ManagedTypeAPI
	handle wasmmanaged.Handle
}

// NewBigUint allocates a BigUint holding v.
func NewBigUint(api wasmmanaged.ManagedTypeAPI, v uint64) BigUint {
	if v <= math.MaxInt64 {
		return BigUint{api: api, handle: api.BigIntNew(int64(v))}
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return BigUintFromBytesBE(api, b[:])
}

// BigUintFromInt64 allocates a BigUint holding v. A negative v traps.
func BigUintFromInt64(api wasmmanaged.ManagedTypeAPI, v int64) BigUint {
	if v < 0 {
		errors.Trap(errors.KindUnderflow, "biguint from negative value %d", v)
	}
	return BigUint{api: api, handle: api.BigIntNew(v)}
}

// BigUintZero allocates a BigUint holding zero.
func BigUintZero(api wasmmanaged.ManagedTypeAPI) BigUint {
	return BigUint{api: api, handle: api.BigIntNew(0)}
}

// BigUintFromBytesBE allocates a BigUint from a big-endian magnitude.
// Leading zero bytes are allowed; empty input is zero.
func BigUintFromBytesBE(api wasmmanaged.ManagedTypeAPI, b []byte) BigUint {
	h := api.BigIntNew(0)
	api.BigIntSetUnsignedBytes(h, b)
	return BigUint{api: api, handle: h}
}

// BigUintFromBuffer interprets the buffer content as a big-endian magnitude
// without copying it through Go memory.
func BigUintFromBuffer(buf ManagedBuffer) BigUint {
	h := buf.api.BigIntNew(0)
	buf.api.MBufferToBigIntUnsigned(buf.handle, h)
	return BigUint{api: buf.api, handle: h}
}

// BigUintFromUint256 allocates a BigUint holding x.
func BigUintFromUint256(api wasmmanaged.ManagedTypeAPI, x *uint256.Int) BigUint {
	b := x.Bytes32()
	return BigUintFromBytesBE(api, b[:])
}

// BigUintFromHandle wraps a handle the caller knows to hold a non-negative
// value.
func BigUintFromHandle(api wasmmanaged.ManagedTypeAPI, h wasmmanaged.Handle) BigUint {
	return BigUint{api: api, handle: h}
}

func (b BigUint) Handle() wasmmanaged.Handle      { return b.handle }
func (b BigUint) API() wasmmanaged.ManagedTypeAPI { return b.api }

func (b BigUint) result(op func(dest, x, y wasmmanaged.Handle), other BigUint) BigUint {
	dest := b.api.BigIntNew(0)
	op(dest, b.handle, other.handle)
	return BigUint{api: b.api, handle: dest}
}

func (b BigUint) Add(other BigUint) BigUint { return b.result(b.api.BigIntAdd, other) }
func (b BigUint) Mul(other BigUint) BigUint { return b.result(b.api.BigIntMul, other) }
func (b BigUint) Div(other BigUint) BigUint { return b.result(b.api.BigIntTDiv, other) }
func (b BigUint) Rem(other BigUint) BigUint { return b.result(b.api.BigIntTMod, other) }
func (b BigUint) And(other BigUint) BigUint { return b.result(b.api.BigIntAnd, other) }
func (b BigUint) Or(other BigUint) BigUint  { return b.result(b.api.BigIntOr, other) }
func (b BigUint) Xor(other BigUint) BigUint { return b.result(b.api.BigIntXor, other) }

// Sub traps when other is greater than b.
func (b BigUint) Sub(other BigUint) BigUint {
	b.checkSub(other)
	return b.result(b.api.BigIntSub, other)
}

func (b BigUint) checkSub(other BigUint) {
	if b.api.BigIntCmp(b.handle, other.handle) < 0 {
		errors.Trap(errors.KindUnderflow, "biguint subtraction result would be negative")
	}
}

func (b BigUint) Shl(bits uint) BigUint {
	dest := b.api.BigIntNew(0)
	b.api.BigIntShl(dest, b.handle, bits)
	return BigUint{api: b.api, handle: dest}
}

func (b BigUint) Shr(bits uint) BigUint {
	dest := b.api.BigIntNew(0)
	b.api.BigIntShr(dest, b.handle, bits)
	return BigUint{api: b.api, handle: dest}
}

// Assignment forms write into the receiver's handle.

func (b BigUint) AddAssign(other BigUint) { b.api.BigIntAdd(b.handle, b.handle, other.handle) }
func (b BigUint) MulAssign(other BigUint) { b.api.BigIntMul(b.handle, b.handle, other.handle) }
func (b BigUint) DivAssign(other BigUint) { b.api.BigIntTDiv(b.handle, b.handle, other.handle) }
func (b BigUint) RemAssign(other BigUint) { b.api.BigIntTMod(b.handle, b.handle, other.handle) }
func (b BigUint) AndAssign(other BigUint) { b.api.BigIntAnd(b.handle, b.handle, other.handle) }
func (b BigUint) OrAssign(other BigUint)  { b.api.BigIntOr(b.handle, b.handle, other.handle) }
func (b BigUint) XorAssign(other BigUint) { b.api.BigIntXor(b.handle, b.handle, other.handle) }
func (b BigUint) ShlAssign(bits uint)     { b.api.BigIntShl(b.handle, b.handle, bits) }
func (b BigUint) ShrAssign(bits uint)     { b.api.BigIntShr(b.handle, b.handle, bits) }

func (b BigUint) SubAssign(other BigUint) {
	b.checkSub(other)
	b.api.BigIntSub(b.handle, b.handle, other.handle)
}

// Cmp returns -1, 0 or +1 as b is less than, equal to or greater than other.
func (b BigUint) Cmp(other BigUint) int {
	return b.api.BigIntCmp(b.handle, other.handle)
}

func (b BigUint) Equal(other BigUint) bool          { return b.Cmp(other) == 0 }
func (b BigUint) Less(other BigUint) bool           { return b.Cmp(other) < 0 }
func (b BigUint) LessOrEqual(other BigUint) bool    { return b.Cmp(other) <= 0 }
func (b BigUint) Greater(other BigUint) bool        { return b.Cmp(other) > 0 }
func (b BigUint) GreaterOrEqual(other BigUint) bool { return b.Cmp(other) >= 0 }

// CmpInt64 compares against a native integer. Comparing against zero only
// queries the sign; any other value is loaded into a temporary handle.
func (b BigUint) CmpInt64(v int64) int {
	if v == 0 {
		return int(b.api.BigIntSign(b.handle))
	}
	tmp := b.api.BigIntNew(v)
	return b.api.BigIntCmp(b.handle, tmp)
}

// CmpUint64 is CmpInt64 for unsigned values.
func (b BigUint) CmpUint64(v uint64) int {
	if v <= math.MaxInt64 {
		return b.CmpInt64(int64(v))
	}
	tmp := NewBigUint(b.api, v)
	return b.Cmp(tmp)
}

func (b BigUint) EqualInt64(v int64) bool   { return b.CmpInt64(v) == 0 }
func (b BigUint) EqualUint64(v uint64) bool { return b.CmpUint64(v) == 0 }

// IsZero reports whether b is zero without allocating.
func (b BigUint) IsZero() bool {
	return b.api.BigIntSign(b.handle) == wasmmanaged.Zero
}

// Sign is Zero or Positive.
func (b BigUint) Sign() wasmmanaged.Sign {
	return b.api.BigIntSign(b.handle)
}

// ByteLength returns the length of the minimal big-endian magnitude.
func (b BigUint) ByteLength() int {
	return b.api.BigIntUnsignedByteLength(b.handle)
}

// ToBytesBE materializes the minimal big-endian magnitude. Zero is empty.
func (b BigUint) ToBytesBE() BoxedBytes {
	return BoxedBytes{data: b.api.BigIntGetUnsignedBytes(b.handle)}
}

// CopyToSliceBigEndian writes the magnitude to the start of dst and returns
// its length. It traps when dst is too short.
func (b BigUint) CopyToSliceBigEndian(dst []byte) int {
	n := b.ByteLength()
	if n > len(dst) {
		errors.Trap(errors.KindOutOfBounds, "biguint of %d bytes does not fit a %d byte slice", n, len(dst))
	}
	b.api.BigIntCopyUnsignedBytes(b.handle, dst[:n])
	return n
}

// CopyToArrayBigEndianPadRight writes the magnitude into the low-order end
// of target and zeroes the rest. It traps when the value needs more than
// 32 bytes.
func (b BigUint) CopyToArrayBigEndianPadRight(target *[32]byte) {
	n := b.ByteLength()
	if n > len(target) {
		errors.Trap(errors.KindOverflow, "biguint of %d bytes does not fit 32 bytes", n)
	}
	clear(target[:32-n])
	b.api.BigIntCopyUnsignedBytes(b.handle, target[32-n:])
}

// ToBytesBEPadRight returns the magnitude left-padded with zeros to n bytes,
// or false when it does not fit.
func (b BigUint) ToBytesBEPadRight(n int) (BoxedBytes, bool) {
	size := b.ByteLength()
	if size > n {
		return BoxedBytes{}, false
	}
	out := make([]byte, n)
	b.api.BigIntCopyUnsignedBytes(b.handle, out[n-size:])
	return BoxedBytes{data: out}, true
}

// ToUint64 returns the value when it fits in 64 bits.
func (b BigUint) ToUint64() (uint64, bool) {
	n := b.ByteLength()
	if n > 8 {
		return 0, false
	}
	var buf [8]byte
	b.api.BigIntCopyUnsignedBytes(b.handle, buf[8-n:])
	return binary.BigEndian.Uint64(buf[:]), true
}

// ToUint256 returns the value as a fixed-width 256-bit integer when it fits.
func (b BigUint) ToUint256() (*uint256.Int, bool) {
	if b.ByteLength() > 32 {
		return nil, false
	}
	var buf [32]byte
	b.CopyToArrayBigEndianPadRight(&buf)
	return new(uint256.Int).SetBytes32(buf[:]), true
}

// ToBuffer writes the magnitude into a new buffer without materializing it.
func (b BigUint) ToBuffer() ManagedBuffer {
	buf := NewManagedBuffer(b.api)
	b.api.MBufferFromBigIntUnsigned(buf.handle, b.handle)
	return buf
}

// ToBigInt returns a signed copy.
func (b BigUint) ToBigInt() BigInt {
	return BigInt{api: b.api, handle: copyBigInt(b.api, b.handle)}
}

// Clone returns an independent copy in a new handle.
func (b BigUint) Clone() BigUint {
	return BigUint{api: b.api, handle: copyBigInt(b.api, b.handle)}
}

func copyBigInt(api wasmmanaged.ManagedTypeAPI, src wasmmanaged.Handle) wasmmanaged.Handle {
	dest := api.BigIntNew(0)
	api.BigIntAdd(dest, src, dest)
	return dest
}

// String renders the decimal value.
func (b BigUint) String() string {
	if b.api == nil {
		return "<nil>"
	}
	return b.api.BigIntString(b.handle)
}

func (BigUint) DescribeWIT() (wit.Type, error) { return codec.BigUintType, nil }

func (b BigUint) EncodeNested(out codec.NestedOutput) error {
	if err := codec.WriteLength(out, b.ByteLength()); err != nil {
		return err
	}
	if !out.PushSpecialized(b) {
		out.Write(b.api.BigIntGetUnsignedBytes(b.handle))
	}
	return nil
}

func (b BigUint) EncodeTop(out codec.TopOutput) error {
	if !out.SetSpecialized(b) {
		out.SetSlice(b.api.BigIntGetUnsignedBytes(b.handle))
	}
	return nil
}

func (b *BigUint) DecodeNested(in codec.NestedInput) error {
	if ok, err := in.ReadSpecialized(b); ok || err != nil {
		return err
	}
	api, err := codec.ResolveAPI(b.api, in)
	if err != nil {
		return err
	}
	data, err := codec.ReadLengthPrefixed(in)
	if err != nil {
		return err
	}
	*b = BigUintFromBytesBE(api, data)
	return nil
}

func (b *BigUint) DecodeTop(in codec.TopInput) error {
	if ok, err := in.IntoSpecialized(b); ok || err != nil {
		return err
	}
	api, err := codec.ResolveAPI(b.api, in)
	if err != nil {
		return err
	}
	*b = BigUintFromBytesBE(api, in.Bytes())
	return nil
}
