package managed

import (
	"go.bytecodealliance.org/wit"

	wasmmanaged "github.com/wippyai/wasm-managed"
	"github.com/wippyai/wasm-managed/codec"
	"github.com/wippyai/wasm-managed/errors"
)

// BigInt is a signed big integer held by the registry.
type BigInt struct {
	api    wasmmanaged.ManagedTypeAPI
	handle wasmmanaged.Handle
}

// NewBigInt allocates a BigInt holding v.
func NewBigInt(api wasmmanaged.ManagedTypeAPI, v int64) BigInt {
	return BigInt{api: api, handle: api.BigIntNew(v)}
}

// BigIntFromSignedBytesBE allocates a BigInt from big-endian two's
// complement bytes. Empty input is zero.
func BigIntFromSignedBytesBE(api wasmmanaged.ManagedTypeAPI, b []byte) BigInt {
	h := api.BigIntNew(0)
	api.BigIntSetSignedBytes(h, b)
	return BigInt{api: api, handle: h}
}

// BigIntFromBigUint returns a signed copy of u.
func BigIntFromBigUint(u BigUint) BigInt {
	return u.ToBigInt()
}

// BigIntFromHandle wraps an existing handle.
func BigIntFromHandle(api wasmmanaged.ManagedTypeAPI, h wasmmanaged.Handle) BigInt {
	return BigInt{api: api, handle: h}
}

func (b BigInt) Handle() wasmmanaged.Handle      { return b.handle }
func (b BigInt) API() wasmmanaged.ManagedTypeAPI { return b.api }

func (b BigInt) result(op func(dest, x, y wasmmanaged.Handle), other BigInt) BigInt {
	dest := b.api.BigIntNew(0)
	op(dest, b.handle, other.handle)
	return BigInt{api: b.api, handle: dest}
}

func (b BigInt) Add(other BigInt) BigInt { return b.result(b.api.BigIntAdd, other) }
func (b BigInt) Sub(other BigInt) BigInt { return b.result(b.api.BigIntSub, other) }
func (b BigInt) Mul(other BigInt) BigInt { return b.result(b.api.BigIntMul, other) }

// Div truncates toward zero.
func (b BigInt) Div(other BigInt) BigInt { return b.result(b.api.BigIntTDiv, other) }

// Rem has the sign of the dividend.
func (b BigInt) Rem(other BigInt) BigInt { return b.result(b.api.BigIntTMod, other) }

func (b BigInt) AddAssign(other BigInt) { b.api.BigIntAdd(b.handle, b.handle, other.handle) }
func (b BigInt) SubAssign(other BigInt) { b.api.BigIntSub(b.handle, b.handle, other.handle) }
func (b BigInt) MulAssign(other BigInt) { b.api.BigIntMul(b.handle, b.handle, other.handle) }
func (b BigInt) DivAssign(other BigInt) { b.api.BigIntTDiv(b.handle, b.handle, other.handle) }
func (b BigInt) RemAssign(other BigInt) { b.api.BigIntTMod(b.handle, b.handle, other.handle) }

// Neg returns -b.
func (b BigInt) Neg() BigInt {
	dest := b.api.BigIntNew(0)
	b.api.BigIntNeg(dest, b.handle)
	return BigInt{api: b.api, handle: dest}
}

// Abs returns the magnitude as a BigUint.
func (b BigInt) Abs() BigUint {
	dest := b.api.BigIntNew(0)
	b.api.BigIntAbs(dest, b.handle)
	return BigUint{api: b.api, handle: dest}
}

func (b BigInt) Sign() wasmmanaged.Sign {
	return b.api.BigIntSign(b.handle)
}

func (b BigInt) IsZero() bool {
	return b.Sign() == wasmmanaged.Zero
}

func (b BigInt) Cmp(other BigInt) int {
	return b.api.BigIntCmp(b.handle, other.handle)
}

func (b BigInt) Equal(other BigInt) bool          { return b.Cmp(other) == 0 }
func (b BigInt) Less(other BigInt) bool           { return b.Cmp(other) < 0 }
func (b BigInt) LessOrEqual(other BigInt) bool    { return b.Cmp(other) <= 0 }
func (b BigInt) Greater(other BigInt) bool        { return b.Cmp(other) > 0 }
func (b BigInt) GreaterOrEqual(other BigInt) bool { return b.Cmp(other) >= 0 }

// CmpInt64 compares against a native integer, using only the sign for zero.
func (b BigInt) CmpInt64(v int64) int {
	if v == 0 {
		return int(b.api.BigIntSign(b.handle))
	}
	tmp := b.api.BigIntNew(v)
	return b.api.BigIntCmp(b.handle, tmp)
}

func (b BigInt) EqualInt64(v int64) bool { return b.CmpInt64(v) == 0 }

// ToSignedBytesBE materializes the minimal two's complement form.
func (b BigInt) ToSignedBytesBE() BoxedBytes {
	return BoxedBytes{data: b.api.BigIntGetSignedBytes(b.handle)}
}

// ToInt64 returns the value when it fits in 64 bits.
func (b BigInt) ToInt64() (int64, bool) {
	if !b.api.BigIntIsInt64(b.handle) {
		return 0, false
	}
	return b.api.BigIntGetInt64(b.handle), true
}

// ToBigUint returns an unsigned copy, or false when b is negative.
func (b BigInt) ToBigUint() (BigUint, bool) {
	if b.Sign() == wasmmanaged.Negative {
		return BigUint{}, false
	}
	return BigUint{api: b.api, handle: copyBigInt(b.api, b.handle)}, true
}

// MustBigUint is ToBigUint that traps on a negative value.
func (b BigInt) MustBigUint() BigUint {
	u, ok := b.ToBigUint()
	if !ok {
		errors.Trap(errors.KindUnderflow, "bigint %s is negative", b)
	}
	return u
}

func (b BigInt) Clone() BigInt {
	return BigInt{api: b.api, handle: copyBigInt(b.api, b.handle)}
}

func (b BigInt) String() string {
	if b.api == nil {
		return "<nil>"
	}
	return b.api.BigIntString(b.handle)
}

func (BigInt) DescribeWIT() (wit.Type, error) { return codec.BigIntType, nil }

func (b BigInt) EncodeNested(out codec.NestedOutput) error {
	data := b.api.BigIntGetSignedBytes(b.handle)
	return codec.WriteLengthPrefixed(out, data)
}

func (b BigInt) EncodeTop(out codec.TopOutput) error {
	if !out.SetSpecialized(b) {
		out.SetSlice(b.api.BigIntGetSignedBytes(b.handle))
	}
	return nil
}

func (b *BigInt) DecodeNested(in codec.NestedInput) error {
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
	*b = BigIntFromSignedBytesBE(api, data)
	return nil
}

func (b *BigInt) DecodeTop(in codec.TopInput) error {
	if ok, err := in.IntoSpecialized(b); ok || err != nil {
		return err
	}
	api, err := codec.ResolveAPI(b.api, in)
	if err != nil {
		return err
	}
	*b = BigIntFromSignedBytesBE(api, in.Bytes())
	return nil
}
