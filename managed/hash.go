package managed

import (
	sha256 "github.com/minio/sha256-simd"
	"golang.org/x/crypto/sha3"
)

// Sha256 hashes materialized bytes.
func Sha256(b BoxedBytes) [32]byte {
	return sha256.Sum256(b.data)
}

// Keccak256 hashes materialized bytes with the legacy Keccak padding.
func Keccak256(b BoxedBytes) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(b.data)
	var out [32]byte
	h.Sum(out[:0])
	return out
}
