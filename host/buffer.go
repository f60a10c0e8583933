package host

import (
	"bytes"

	"github.com/wippyai/wasm-managed/internal/bigbytes"
	"github.com/wippyai/wasm-managed/resource"
)

func (r *Registry) MBufferNew() Handle {
	r.op("mBufferNew")
	return r.insert(resource.TypeBuffer, &buffer{})
}

func (r *Registry) MBufferNewFromBytes(data []byte) Handle {
	r.op("mBufferNewFromBytes")
	r.checkBufferLen("mBufferNewFromBytes", len(data))
	return r.insert(resource.TypeBuffer, &buffer{data: bytes.Clone(data)})
}

func (r *Registry) MBufferLen(h Handle) int {
	r.op("mBufferGetLength")
	return len(r.buffer("mBufferGetLength", h).data)
}

func (r *Registry) MBufferGetBytes(h Handle) []byte {
	r.op("mBufferGetBytes")
	b := r.buffer("mBufferGetBytes", h)
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

func (r *Registry) MBufferGetSlice(h Handle, start int, dst []byte) bool {
	r.op("mBufferGetByteSlice")
	b := r.buffer("mBufferGetByteSlice", h)
	if start < 0 || start+len(dst) > len(b.data) {
		return false
	}
	copy(dst, b.data[start:start+len(dst)])
	return true
}

func (r *Registry) MBufferCopyRange(src Handle, start, length int, dest Handle) bool {
	r.op("mBufferCopyByteSlice")
	s := r.buffer("mBufferCopyByteSlice", src)
	d := r.buffer("mBufferCopyByteSlice", dest)
	if start < 0 || length < 0 || start+length > len(s.data) {
		return false
	}
	d.data = bytes.Clone(s.data[start : start+length])
	return true
}

func (r *Registry) MBufferSetBytes(h Handle, data []byte) {
	r.op("mBufferSetBytes")
	b := r.buffer("mBufferSetBytes", h)
	r.checkBufferLen("mBufferSetBytes", len(data))
	b.data = bytes.Clone(data)
}

func (r *Registry) MBufferAppend(dest, src Handle) {
	r.op("mBufferAppend")
	d := r.buffer("mBufferAppend", dest)
	s := r.buffer("mBufferAppend", src)
	r.checkBufferLen("mBufferAppend", len(d.data)+len(s.data))
	d.data = append(d.data, s.data...)
}

func (r *Registry) MBufferAppendBytes(dest Handle, data []byte) {
	r.op("mBufferAppendBytes")
	d := r.buffer("mBufferAppendBytes", dest)
	r.checkBufferLen("mBufferAppendBytes", len(d.data)+len(data))
	d.data = append(d.data, data...)
}

func (r *Registry) MBufferEqual(a, b Handle) bool {
	r.op("mBufferEq")
	return bytes.Equal(r.buffer("mBufferEq", a).data, r.buffer("mBufferEq", b).data)
}

func (r *Registry) MBufferFromBigIntUnsigned(dest, bi Handle) {
	r.op("mBufferFromBigIntUnsigned")
	x := r.bigInt("mBufferFromBigIntUnsigned", bi)
	d := r.buffer("mBufferFromBigIntUnsigned", dest)
	r.checkBufferLen("mBufferFromBigIntUnsigned", (x.BitLen()+7)/8)
	d.data = bigbytes.Unsigned(x)
}

func (r *Registry) MBufferFromBigIntSigned(dest, bi Handle) {
	r.op("mBufferFromBigIntSigned")
	x := r.bigInt("mBufferFromBigIntSigned", bi)
	d := r.buffer("mBufferFromBigIntSigned", dest)
	r.checkBufferLen("mBufferFromBigIntSigned", x.BitLen()/8+1)
	d.data = bigbytes.Signed(x)
}

func (r *Registry) MBufferToBigIntUnsigned(buf, dest Handle) {
	r.op("mBufferToBigIntUnsigned")
	b := r.buffer("mBufferToBigIntUnsigned", buf)
	r.checkBigIntBits("mBufferToBigIntUnsigned", uint64(len(b.data))*8)
	r.bigInt("mBufferToBigIntUnsigned", dest).SetBytes(b.data)
}

func (r *Registry) MBufferToBigIntSigned(buf, dest Handle) {
	r.op("mBufferToBigIntSigned")
	b := r.buffer("mBufferToBigIntSigned", buf)
	r.checkBigIntBits("mBufferToBigIntSigned", uint64(len(b.data))*8)
	r.bigInt("mBufferToBigIntSigned", dest).Set(bigbytes.FromSigned(b.data))
}

