// Package resource provides the handle arena behind the managed-value registry.
//
// An arena maps integer handles to host-side values. Handles are issued
// monotonically and are never recycled while the arena lives, so a handle
// always refers to the same logical value for the whole invocation.
//
//	arena := resource.NewArena(resource.DefaultLimits())
//
//	// Insert a value, get a handle
//	h, err := arena.Create(resource.TypeBigInt, big.NewInt(7))
//
//	// Type-checked retrieval
//	v, ok := arena.GetTyped(h, resource.TypeBigInt) // ok
//	v, ok = arena.GetTyped(h, resource.TypeBuffer)  // !ok
//
// # Table
//
// Table wraps an arena with lifecycle observers:
//
//	table := resource.NewTable(resource.DefaultLimits())
//	unsubscribe := table.Subscribe(observer)
//	defer unsubscribe()
//	h, err := table.Insert(resource.TypeBuffer, buf)
//
// # Lifetime
//
// Values are not dropped individually. The owner calls Reset when the
// invocation ends; every handle issued before Reset becomes invalid and
// numbering starts over.
package resource
