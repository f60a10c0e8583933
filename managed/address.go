package managed

import (
	"encoding/hex"
	"strconv"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-managed/codec"
	"github.com/wippyai/wasm-managed/errors"
)

// AddressLen is the size of an address in bytes.
const AddressLen = 32

// Address is a fixed-size account identifier. It encodes as its 32 raw bytes
// in both forms.
type Address [AddressLen]byte

// AddressFromBytes copies b, which must be exactly 32 bytes.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, errors.InvalidData(errors.PhaseDecode, nil, "address must be 32 bytes, got "+strconv.Itoa(len(b)))
	}
	copy(a[:], b)
	return a, nil
}

// AddressFromHex parses a hex string with optional 0x prefix.
func AddressFromHex(s string) (Address, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "address hex")
	}
	return AddressFromBytes(b)
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) String() string { return a.Hex() }

func (Address) DescribeWIT() (wit.Type, error) { return codec.AddressType, nil }

func (a Address) EncodeNested(out codec.NestedOutput) error {
	out.Write(a[:])
	return nil
}

func (a Address) EncodeTop(out codec.TopOutput) error {
	out.SetSlice(a[:])
	return nil
}

func (a *Address) DecodeNested(in codec.NestedInput) error {
	return in.ReadInto(a[:])
}

func (a *Address) DecodeTop(in codec.TopInput) error {
	b, err := AddressFromBytes(in.Bytes())
	if err != nil {
		return err
	}
	*a = b
	return nil
}
