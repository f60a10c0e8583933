package wasmmanaged

// Handle is an opaque reference to a value owned by the handle registry.
// Handles are scoped to one invocation and are never reused within it.
// Handle 0 is reserved and always invalid.
type Handle int32

// Sign is the sign of a big integer. Zero has no sign, so a boolean is not enough.
type Sign int8

const (
	Negative Sign = -1
	Zero     Sign = 0
	Positive Sign = 1
)

func (s Sign) String() string {
	switch s {
	case Negative:
		return "negative"
	case Zero:
		return "zero"
	case Positive:
		return "positive"
	default:
		return "invalid"
	}
}

// BigIntAPI is the big-integer half of the handle registry.
// Every operation is keyed by handle; results are written into dest.
// Invalid handles, division by zero and resource exhaustion trap.
type BigIntAPI interface {
	BigIntNew(value int64) Handle
	BigIntSetInt64(dest Handle, value int64)
	BigIntSetUnsignedBytes(dest Handle, bytes []byte)
	BigIntSetSignedBytes(dest Handle, bytes []byte)

	BigIntUnsignedByteLength(h Handle) int
	BigIntGetUnsignedBytes(h Handle) []byte
	BigIntGetSignedBytes(h Handle) []byte
	// BigIntCopyUnsignedBytes writes the big-endian magnitude into dst,
	// which must be exactly BigIntUnsignedByteLength bytes long.
	BigIntCopyUnsignedBytes(h Handle, dst []byte)
	BigIntIsInt64(h Handle) bool
	BigIntGetInt64(h Handle) int64

	BigIntAdd(dest, x, y Handle)
	BigIntSub(dest, x, y Handle)
	BigIntMul(dest, x, y Handle)
	BigIntTDiv(dest, x, y Handle)
	BigIntTMod(dest, x, y Handle)
	BigIntAnd(dest, x, y Handle)
	BigIntOr(dest, x, y Handle)
	BigIntXor(dest, x, y Handle)
	BigIntShl(dest, x Handle, bits uint)
	BigIntShr(dest, x Handle, bits uint)
	BigIntNeg(dest, x Handle)
	BigIntAbs(dest, x Handle)

	BigIntSign(h Handle) Sign
	BigIntCmp(x, y Handle) int
	BigIntString(h Handle) string
}

// BufferAPI is the byte-buffer half of the handle registry.
type BufferAPI interface {
	MBufferNew() Handle
	MBufferNewFromBytes(bytes []byte) Handle
	MBufferLen(h Handle) int
	MBufferGetBytes(h Handle) []byte
	// MBufferGetSlice copies len(dst) bytes starting at start.
	// It reports false when the range is outside the buffer.
	MBufferGetSlice(h Handle, start int, dst []byte) bool
	// MBufferCopyRange replaces dest with length bytes of src starting at start.
	MBufferCopyRange(src Handle, start, length int, dest Handle) bool
	MBufferSetBytes(h Handle, bytes []byte)
	MBufferAppend(dest, src Handle)
	MBufferAppendBytes(dest Handle, bytes []byte)
	MBufferEqual(a, b Handle) bool

	MBufferFromBigIntUnsigned(dest, bi Handle)
	MBufferFromBigIntSigned(dest, bi Handle)
	MBufferToBigIntUnsigned(buf, dest Handle)
	MBufferToBigIntSigned(buf, dest Handle)
}

// ManagedTypeAPI is the complete handle registry contract consumed by the
// managed types.
type ManagedTypeAPI interface {
	BigIntAPI
	BufferAPI
}
