package errors

import "fmt"

// Trap aborts the current invocation. The panic value is a runtime-phase
// *Error so that boundary code can tell traps apart from foreign panics.
func Trap(kind Kind, format string, args ...any) {
	panic(&Error{
		Phase:  PhaseRuntime,
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	})
}

// TrapInvalidHandle aborts on an access through a handle the registry never issued.
func TrapInvalidHandle(op string, handle int32) {
	panic(&Error{
		Phase:  PhaseRuntime,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("%s: invalid handle %d", op, handle),
		Value:  handle,
	})
}

// IsTrap reports whether a recovered panic value was raised by Trap.
func IsTrap(r any) (*Error, bool) {
	e, ok := r.(*Error)
	if !ok || e.Phase != PhaseRuntime {
		return nil, false
	}
	return e, true
}

// Recover converts a trap into an error stored in *errp. Panics that did not
// come from Trap are re-raised. Must be called directly by defer.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := IsTrap(r)
	if !ok {
		panic(r)
	}
	*errp = e
}
