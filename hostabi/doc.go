// Package hostabi exports a handle registry to WebAssembly guests as a
// wazero host module.
//
// Handles cross the ABI as i32, native integers as i64. Functions that move
// bytes take a guest memory pointer and length; the guest module must export
// its memory. An out-of-range pointer traps the call.
//
//	rt := wazero.NewRuntime(ctx)
//	reg := host.NewRegistry(host.DefaultOptions())
//	if _, err := hostabi.New(reg, hostabi.DefaultOptions()).Build(ctx, rt); err != nil {
//		return err
//	}
//	guest, err := rt.Instantiate(ctx, wasmBytes)
package hostabi
