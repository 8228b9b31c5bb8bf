// Package errors provides structured error types for the native add-in bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the member path (class, method, argument), the Go and
// host type names involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMarshal, errors.KindTypeMismatch).
//		Path("Utils", "Sleep", "arg0").
//		GoType("int32").
//		HostType("PWSTR").
//		Detail("cannot read string as integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseMarshal, path, "int32", "PWSTR")
//	err := errors.ArityMismatch(path, 2, 1)
//
// All errors implement the standard error interface and support errors.Is/As.
// Every failure crossing the dispatcher ends up as an *Error in the instance's
// error slot, so Error() is also the text the host reads back.
package errors
