// Package errors provides structured error types for the tunefile library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category), with table and axis context attached so a per-table failure in a
// batch decode or edit pass can be reported precisely:
//
//	err := errors.OutOfBounds(errors.PhaseDecode, "Fuel Map", 0x7FF0, 32, 0x8000)
//	err := errors.RowCountMismatch("Fuel Map", 3, 2)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
