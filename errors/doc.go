// Package errors provides structured error types for the payload library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: value path, Go type name, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindUnsavedFile).
//		Path("profile", "avatar").
//		GoType("*model.File").
//		Detail("tried to encode an unsaved file").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.RecursionLimit(path, 1000, 999)
//	err := errors.InvalidDate(path, t)
//
// All errors implement the standard error interface and support errors.Is/As.
// The package-level sentinels (ErrRecursionLimit, ErrDisallowedObject, ...)
// match any error of the same phase and kind:
//
//	if errors.Is(err, errors.ErrUnsavedFile) { ... }
package errors
