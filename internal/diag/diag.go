// Package diag defines the compile-time error taxonomy of the
// semantic core. Every user-facing error carries a stable code plus
// the offending names and type descriptions, so the reporting layer
// can render them without knowing the semantics.
package diag

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

type Code string

// Hierarchy errors.
const (
	InconsistentMRO     Code = "H001" // no valid linearization exists
	FieldMultipleDefs   Code = "H002" // diamond field conflict
	MethodMultipleDefs  Code = "H003" // same method from unrelated bases with different kinds
	MethodFieldConflict Code = "H004" // method and field share a name
	MultipleVirtual     Code = "H005" // same virtual slot from two unrelated bases
)

// Override contract errors.
const (
	NotOverriding        Code = "O001" // override with no virtual ancestor
	OverrideRequired     Code = "O002" // redefining a virtual slot without `override`
	ResultMismatch       Code = "O003" // override result type vs dispatcher result type
	UnstorableResult     Code = "O004" // virtual/override result type is not storable
	StaticOverridesInst  Code = "O005"
	InstOverridesStatic  Code = "O006"
	VirtualOverridesInst Code = "O007"
	CastNoImplementation Code = "O008" // cast resolves to a slot with no provider
)

// Call contract errors.
const (
	TooManyArgs       Code = "C001"
	UnexpectedKeyword Code = "C002"
	ArgGivenTwice     Code = "C003"
	MissingArg        Code = "C004"
	WrongArgType      Code = "C005"
	ConstructorResult Code = "C006" // custom constructor must produce none
	CantConstruct     Code = "C007" // template has no constructor at all
)

// Struct errors.
const (
	StructFieldMultipleDefs Code = "S001"
	UnsupportedStructField  Code = "S002"
)

// Error is a user-facing compile error. Construction aborts at the
// first Error raised; there is no recovery path.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("E-%s: %s", e.Code, e.Message)
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the diagnostic code of err, or "" if err is not a
// compile error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Internalf reports a violated internal invariant. These are defects
// in the compiler, not user errors; the assertion carries a stack
// trace for debugging.
func Internalf(format string, args ...any) error {
	return errors.AssertionFailedf(format, args...)
}

// IsInternal reports whether err is an internal invariant violation.
func IsInternal(err error) bool {
	return errors.HasAssertionFailure(err)
}
