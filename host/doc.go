// Package host provides an in-process handle registry that satisfies the
// wasmmanaged.ManagedTypeAPI contract.
//
// In production the registry lives in the VM and is reached through host
// imports (see package hostabi). This implementation backs big integers with
// math/big and buffers with Go byte slices, and is what tests, tooling and the
// hostabi module use.
//
//	reg := host.NewRegistry(host.DefaultOptions())
//	defer reg.Reset()
//
//	h := reg.BigIntNew(300)
//	reg.BigIntGetUnsignedBytes(h) // 01 2c
//
// # Failures
//
// Every operation is total over valid handles. An unknown handle, a handle of
// the wrong kind, division by zero or exceeding Options limits traps with a
// runtime-phase *errors.Error.
//
// # Thread Safety
//
// A Registry serves one invocation at a time and is NOT safe for concurrent
// invocations. Reset releases every handle when the invocation ends.
package host
