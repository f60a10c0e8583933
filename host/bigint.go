package host

import (
	"math/big"

	wasmmanaged "github.com/wippyai/wasm-managed"
	"github.com/wippyai/wasm-managed/errors"
	"github.com/wippyai/wasm-managed/internal/bigbytes"
	"github.com/wippyai/wasm-managed/resource"
)

func (r *Registry) BigIntNew(value int64) Handle {
	r.op("bigIntNew")
	return r.insert(resource.TypeBigInt, big.NewInt(value))
}

func (r *Registry) BigIntSetInt64(dest Handle, value int64) {
	r.op("bigIntSetInt64")
	r.bigInt("bigIntSetInt64", dest).SetInt64(value)
}

func (r *Registry) BigIntSetUnsignedBytes(dest Handle, bytes []byte) {
	r.op("bigIntSetUnsignedBytes")
	r.checkBigIntBits("bigIntSetUnsignedBytes", uint64(len(bytes))*8)
	r.bigInt("bigIntSetUnsignedBytes", dest).SetBytes(bytes)
}

func (r *Registry) BigIntSetSignedBytes(dest Handle, bytes []byte) {
	r.op("bigIntSetSignedBytes")
	r.checkBigIntBits("bigIntSetSignedBytes", uint64(len(bytes))*8)
	r.bigInt("bigIntSetSignedBytes", dest).Set(bigbytes.FromSigned(bytes))
}

func (r *Registry) BigIntUnsignedByteLength(h Handle) int {
	r.op("bigIntUnsignedByteLength")
	x := r.bigInt("bigIntUnsignedByteLength", h)
	return (x.BitLen() + 7) / 8
}

func (r *Registry) BigIntGetUnsignedBytes(h Handle) []byte {
	r.op("bigIntGetUnsignedBytes")
	return bigbytes.Unsigned(r.bigInt("bigIntGetUnsignedBytes", h))
}

func (r *Registry) BigIntGetSignedBytes(h Handle) []byte {
	r.op("bigIntGetSignedBytes")
	return bigbytes.Signed(r.bigInt("bigIntGetSignedBytes", h))
}

func (r *Registry) BigIntCopyUnsignedBytes(h Handle, dst []byte) {
	r.op("bigIntCopyUnsignedBytes")
	x := r.bigInt("bigIntCopyUnsignedBytes", h)
	if n := (x.BitLen() + 7) / 8; n != len(dst) {
		r.trap(errors.KindOutOfBounds, "bigIntCopyUnsignedBytes: value has %d bytes, target has %d", n, len(dst))
	}
	new(big.Int).Abs(x).FillBytes(dst)
}

func (r *Registry) BigIntIsInt64(h Handle) bool {
	r.op("bigIntIsInt64")
	return r.bigInt("bigIntIsInt64", h).IsInt64()
}

func (r *Registry) BigIntGetInt64(h Handle) int64 {
	r.op("bigIntGetInt64")
	x := r.bigInt("bigIntGetInt64", h)
	if !x.IsInt64() {
		r.trap(errors.KindOverflow, "bigIntGetInt64: value %s overflows s64", x)
	}
	return x.Int64()
}

func (r *Registry) BigIntAdd(dest, x, y Handle) {
	r.op("bigIntAdd")
	a, b := r.bigInt("bigIntAdd", x), r.bigInt("bigIntAdd", y)
	r.bigInt("bigIntAdd", dest).Add(a, b)
}

func (r *Registry) BigIntSub(dest, x, y Handle) {
	r.op("bigIntSub")
	a, b := r.bigInt("bigIntSub", x), r.bigInt("bigIntSub", y)
	r.bigInt("bigIntSub", dest).Sub(a, b)
}

func (r *Registry) BigIntMul(dest, x, y Handle) {
	r.op("bigIntMul")
	a, b := r.bigInt("bigIntMul", x), r.bigInt("bigIntMul", y)
	r.checkBigIntBits("bigIntMul", uint64(a.BitLen())+uint64(b.BitLen()))
	r.bigInt("bigIntMul", dest).Mul(a, b)
}

// BigIntTDiv divides truncating toward zero.
func (r *Registry) BigIntTDiv(dest, x, y Handle) {
	r.op("bigIntTDiv")
	a, b := r.bigInt("bigIntTDiv", x), r.bigInt("bigIntTDiv", y)
	if b.Sign() == 0 {
		r.trap(errors.KindDivisionByZero, "bigIntTDiv: division by zero")
	}
	r.bigInt("bigIntTDiv", dest).Quo(a, b)
}

// BigIntTMod is the remainder of BigIntTDiv; it has the sign of x.
func (r *Registry) BigIntTMod(dest, x, y Handle) {
	r.op("bigIntTMod")
	a, b := r.bigInt("bigIntTMod", x), r.bigInt("bigIntTMod", y)
	if b.Sign() == 0 {
		r.trap(errors.KindDivisionByZero, "bigIntTMod: division by zero")
	}
	r.bigInt("bigIntTMod", dest).Rem(a, b)
}

func (r *Registry) BigIntAnd(dest, x, y Handle) {
	r.op("bigIntAnd")
	a, b := r.bigInt("bigIntAnd", x), r.bigInt("bigIntAnd", y)
	r.bigInt("bigIntAnd", dest).And(a, b)
}

func (r *Registry) BigIntOr(dest, x, y Handle) {
	r.op("bigIntOr")
	a, b := r.bigInt("bigIntOr", x), r.bigInt("bigIntOr", y)
	r.bigInt("bigIntOr", dest).Or(a, b)
}

func (r *Registry) BigIntXor(dest, x, y Handle) {
	r.op("bigIntXor")
	a, b := r.bigInt("bigIntXor", x), r.bigInt("bigIntXor", y)
	r.bigInt("bigIntXor", dest).Xor(a, b)
}

func (r *Registry) BigIntShl(dest, x Handle, bits uint) {
	r.op("bigIntShl")
	a := r.bigInt("bigIntShl", x)
	if a.Sign() != 0 {
		r.checkBigIntBits("bigIntShl", uint64(a.BitLen())+uint64(bits))
	}
	r.bigInt("bigIntShl", dest).Lsh(a, bits)
}

func (r *Registry) BigIntShr(dest, x Handle, bits uint) {
	r.op("bigIntShr")
	a := r.bigInt("bigIntShr", x)
	r.bigInt("bigIntShr", dest).Rsh(a, bits)
}

func (r *Registry) BigIntNeg(dest, x Handle) {
	r.op("bigIntNeg")
	a := r.bigInt("bigIntNeg", x)
	r.bigInt("bigIntNeg", dest).Neg(a)
}

func (r *Registry) BigIntAbs(dest, x Handle) {
	r.op("bigIntAbs")
	a := r.bigInt("bigIntAbs", x)
	r.bigInt("bigIntAbs", dest).Abs(a)
}

func (r *Registry) BigIntSign(h Handle) wasmmanaged.Sign {
	r.op("bigIntSign")
	return wasmmanaged.Sign(r.bigInt("bigIntSign", h).Sign())
}

func (r *Registry) BigIntCmp(x, y Handle) int {
	r.op("bigIntCmp")
	return r.bigInt("bigIntCmp", x).Cmp(r.bigInt("bigIntCmp", y))
}

func (r *Registry) BigIntString(h Handle) string {
	r.op("bigIntString")
	return r.bigInt("bigIntString", h).String()
}
