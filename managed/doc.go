// Package managed provides values whose storage lives behind registry
// handles: BigUint, BigInt and ManagedBuffer. A managed value holds exactly
// one handle and the registry that issued it; every operation is forwarded
// to that registry and the value itself caches nothing.
//
// Managed values have value semantics. Clone allocates a new handle with a
// copy of the content, so mutating a clone never affects the original.
// Plain Go assignment copies the handle and therefore aliases; use Clone
// when an independent copy is needed.
//
// BoxedBytes is the escape hatch into ordinary memory. It is produced only
// by explicit materialization such as ManagedBuffer.ToBoxedBytes or
// BigUint.ToBytesBE, and is what hashing operates on.
//
// All types implement the codec interfaces. A ManagedBuffer is also a codec
// sink: encoding a ManagedBuffer or BigUint from the same registry into it
// takes a handle-level path instead of copying bytes through Go memory.
//
// Registry failures such as invalid handles or exhausted limits trap; they
// are not returned as errors.
package managed
