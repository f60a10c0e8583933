// Package boundary is the edge of an invocation: arguments come in as
// top-level encoded bytes, results, storage cells and events go out the
// same way.
//
// Managed values never cross the boundary as handles. Everything stored or
// emitted is encoded first, so a Storage outlives the registry that served
// any single invocation.
//
//	inv := boundary.NewInvocation(reg, args, boundary.WithStorage(store))
//	err := inv.Run(func(inv *boundary.Invocation) error {
//		var amount managed.BigUint
//		if err := inv.Arg(0, &amount); err != nil {
//			return err
//		}
//		return inv.Finish(amount.Add(managed.NewBigUint(reg, 1)))
//	})
package boundary
