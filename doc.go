// Package wasmmanaged defines the handle registry contract behind managed
// values: big integers and byte buffers whose storage and arithmetic live in
// an external engine and are reachable only through opaque handles.
//
// # Architecture Overview
//
//	wasmmanaged/         Root package with Handle, Sign and the registry interfaces
//	├── managed/         BigUint, BigInt, ManagedBuffer, BoxedBytes, Address
//	├── codec/           Nested and top-level encoding, specialization, WIT schemas
//	├── host/            In-process reference registry (math/big backed)
//	├── resource/        Handle arena used by the registry
//	├── boundary/        Arguments, results, storage cells and event logs
//	├── hostabi/         wazero host module exporting the registry to WASM guests
//	├── errors/          Structured error types and traps
//	└── cmd/mcodec/      Encode/decode/describe values from the command line
//
// # Quick Start
//
//	reg := host.NewRegistry(host.DefaultOptions())
//	defer reg.Reset()
//
//	a := managed.NewBigUint(reg, 300)
//	b := managed.NewBigUint(reg, 12)
//	sum := a.Add(b)
//
//	out := codec.NewByteOutput()
//	err := codec.EncodeTop(out, sum) // out.Bytes() is 01 38
//
// # Handles
//
// A Handle is the sole reference to registry data. Managed values hold one
// handle plus the registry accessor and never cache bytes locally. Cloning a
// managed value allocates a new handle with copied content, so two values
// never share a handle unless they are copies of the same Go value.
//
// # Failure Model
//
// Decode errors are returned as *errors.Error. Registry failures, invalid
// handles and fixed-width export overflows trap (panic) and abort the
// invocation; see errors.Trap and errors.Recover.
package wasmmanaged
