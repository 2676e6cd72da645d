// Package errors provides structured error types for the finite-repr module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a field path, Go type and shape names, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindInvalidValue).
//		Path("point", "x").
//		GoType("rune").
//		Shape("char").
//		Detail("surrogate code point").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Overflow(errors.PhaseEncode, idx, "u8")
//	err := errors.OutOfRange(errors.PhaseDecode, idx, card, "option<u8>")
//
// Composite shapes prefix the path while an error travels outward:
//
//	return errors.Within(err, fieldName)
//
// All errors implement the standard error interface and support errors.Is/As.
// A target without a Phase matches every error of its Kind.
package errors
