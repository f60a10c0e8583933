// Package bigbytes converts between math/big integers and the big-endian
// byte forms used on the boundary.
package bigbytes

import "math/big"

// Unsigned returns the minimal big-endian magnitude of x. Zero is empty.
func Unsigned(x *big.Int) []byte {
	return new(big.Int).Abs(x).Bytes()
}

// Signed returns the minimal big-endian two's complement form of x.
// Zero is empty.
func Signed(x *big.Int) []byte {
	switch x.Sign() {
	case 0:
		return []byte{}
	case 1:
		out := make([]byte, (x.BitLen()+8)/8)
		return x.FillBytes(out)
	}

	m := new(big.Int).Neg(x)
	m.Sub(m, big.NewInt(1))
	n := (m.BitLen() + 8) / 8

	v := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
	v.Add(v, x)
	return v.FillBytes(make([]byte, n))
}

// FromSigned parses a big-endian two's complement value. Empty input is zero.
func FromSigned(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
	}
	return v
}

// FromUnsigned parses a big-endian magnitude. Empty input is zero.
func FromUnsigned(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
