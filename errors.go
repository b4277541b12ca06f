package taskfilter

import (
	"errors"
	"fmt"
)

// Sentinel errors for filter validation and parsing. Callers use errors.Is to
// distinguish "filter invalid" categories from "zero results matched", which
// is never an error in this package.
var (
	// Structural violations.
	ErrNotAnObject       = errors.New("taskfilter: expression must be an object")
	ErrMissingGroups     = errors.New("taskfilter: expression requires a non-empty groups array")
	ErrTooManyGroups     = errors.New("taskfilter: exceeds maximum number of groups")
	ErrEmptyGroup        = errors.New("taskfilter: group requires a non-empty conditions array")
	ErrTooManyConditions = errors.New("taskfilter: group exceeds maximum conditions")
	ErrTotalConditions   = errors.New("taskfilter: exceeds maximum total conditions")
	ErrInvalidGroupOp    = errors.New("taskfilter: invalid group operator")
	ErrUnknownField      = errors.New("taskfilter: unknown field")
	ErrInvalidOperator   = errors.New("taskfilter: invalid operator")

	// Value violations.
	ErrInvalidValue     = errors.New("taskfilter: invalid condition value")
	ErrValueTooLong     = errors.New("taskfilter: string value too long")
	ErrArrayTooLong     = errors.New("taskfilter: array value too long")
	ErrMixedArray       = errors.New("taskfilter: array value must be all-string or all-number")
	ErrDangerousContent = errors.New("taskfilter: dangerous content detected")

	// Serialization violations.
	ErrPayloadTooLarge  = errors.New("taskfilter: serialized expression exceeds maximum size")
	ErrMalformedPayload = errors.New("taskfilter: malformed expression payload")

	// Ad hoc grammar failure. Parse errors wrap this sentinel.
	ErrParse = errors.New("taskfilter: parse error")
)

// ValidationError reports a structured-expression violation with enough
// position information to point at the offending condition. Group and Cond
// are -1 when the violation is not tied to a specific group or condition.
type ValidationError struct {
	Group      int
	Cond       int
	Constraint error
	Detail     string
}

func (e *ValidationError) Error() string {
	msg := e.Constraint.Error()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	switch {
	case e.Group >= 0 && e.Cond >= 0:
		return fmt.Sprintf("%s in group %d condition %d", msg, e.Group, e.Cond)
	case e.Group >= 0:
		return fmt.Sprintf("%s in group %d", msg, e.Group)
	default:
		return msg
	}
}

// Unwrap exposes the violated constraint sentinel for errors.Is checks.
func (e *ValidationError) Unwrap() error {
	return e.Constraint
}

func validationErr(group, cond int, constraint error, detail string) error {
	return &ValidationError{Group: group, Cond: cond, Constraint: constraint, Detail: detail}
}

// parseError builds a soft-fail parser error carrying the source position.
func parseError(pos int, format string, args ...any) error {
	return fmt.Errorf("%w: %s at position %d", ErrParse, fmt.Sprintf(format, args...), pos)
}
