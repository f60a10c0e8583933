// Package errors provides structured error types for managed values and the
// boundary codec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/WIT type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
//		Path("order", "amount").
//		WitType("biguint").
//		Detail("need 4 bytes for length prefix, have 1").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(path, 4, 1)
//	err := errors.TrailingData(path, 3)
//
// # Recoverable versus fatal
//
// Decode format problems are returned as values so callers can reject
// malformed input. Registry failures, invalid handles and fixed-width export
// overflows are fatal: they are raised with Trap, which panics with a
// runtime-phase *Error. Code that sits on an explicit boundary may convert a
// trap back into an error with Recover:
//
//	func call() (err error) {
//		defer errors.Recover(&err)
//		...
//	}
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
