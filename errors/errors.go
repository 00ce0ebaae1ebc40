package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseSchema  Phase = "schema"  // definition parsing and resolution
	PhaseScaling Phase = "scaling" // expression evaluation
	PhaseDecode  Phase = "decode"  // binary to values
	PhaseEncode  Phase = "encode"  // values to binary
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInvalidData       Kind = "invalid_data"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindDimensionMismatch Kind = "dimension_mismatch"
	KindBadExpression     Kind = "bad_expression"
	KindEvalFault         Kind = "eval_fault"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Table  string
	Axis   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Table != "" {
		b.WriteString(" in table ")
		b.WriteString(fmt.Sprintf("%q", e.Table))
	}
	if e.Axis != "" {
		b.WriteString(" (")
		b.WriteString(e.Axis)
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// OutOfBounds reports an access of width bytes at offset that does not fit a
// buffer of bufLen bytes.
func OutOfBounds(phase Phase, table string, offset int64, width, bufLen int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Table:  table,
		Detail: fmt.Sprintf("%d bytes at offset 0x%X exceed buffer length %d", width, offset, bufLen),
	}
}

// AxisLengthMismatch reports a replacement axis whose length does not match
// the schema-declared element count.
func AxisLengthMismatch(table, axis string, expected, got int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindDimensionMismatch,
		Table:  table,
		Axis:   axis,
		Detail: fmt.Sprintf("length mismatch: expected %d, got %d", expected, got),
	}
}

// RowLengthMismatch reports a replacement body row of the wrong width.
func RowLengthMismatch(table string, row, expected, got int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindDimensionMismatch,
		Table:  table,
		Detail: fmt.Sprintf("row %d length mismatch: expected %d, got %d", row, expected, got),
	}
}

// RowCountMismatch reports a replacement body with the wrong number of rows.
func RowCountMismatch(table string, expected, got int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindDimensionMismatch,
		Table:  table,
		Detail: fmt.Sprintf("number of rows mismatch: expected %d, got %d", expected, got),
	}
}

// NotFound reports a named definition that has no corresponding record.
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// BadExpression reports a scaling formula that failed to compile.
func BadExpression(expression string, cause error) *Error {
	return &Error{
		Phase:  PhaseScaling,
		Kind:   KindBadExpression,
		Detail: fmt.Sprintf("cannot compile %q", expression),
		Cause:  cause,
	}
}

// EvalFault reports a scaling formula that failed at evaluation time.
func EvalFault(expression string, raw float64, cause error) *Error {
	return &Error{
		Phase:  PhaseScaling,
		Kind:   KindEvalFault,
		Detail: fmt.Sprintf("evaluating %q with x=%v", expression, raw),
		Cause:  cause,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, table, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Table:  table,
		Detail: detail,
	}
}

// Wrap wraps an existing error with phase, kind and table context
func Wrap(phase Phase, kind Kind, table string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  kind,
		Table: table,
		Cause: cause,
	}
}
