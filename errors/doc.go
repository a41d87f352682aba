// Package errors provides structured error types for proxy lifecycle failures.
//
// Errors are categorized by Phase (where in the proxy lifecycle the error
// occurred) and Kind (error category). The Error type carries the native
// handle, the proxy type name, the member being accessed and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseInvoke, errors.KindNativeCall).
//		TypeName("Workbook").
//		Member("Save").
//		Handle(h).
//		Cause(nativeErr).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidHandle("Chart", h)
//	err := errors.NativeCall(errors.PhaseInvoke, "Range", "Calculate", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// The sentinels ErrInvalidHandle, ErrNativeCall and ErrRelease match any
// error of the corresponding kind regardless of phase.
package errors
