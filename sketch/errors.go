package sketch

import (
	"errors"
	"fmt"
)

// ErrUnknownPrimitive is returned when an operation references a
// primitive id that is not in the sketch.
var ErrUnknownPrimitive = errors.New("unknown primitive id")

// ErrPrimitiveInUse is returned when removing a point that other
// geometry still references.
var ErrPrimitiveInUse = errors.New("primitive is referenced by other geometry")

// ConstraintReason classifies why a constraint was rejected.
type ConstraintReason int

const (
	// InapplicableSelection means the selected primitives do not match
	// the arity or kind rules for the constraint type.
	InapplicableSelection ConstraintReason = iota
	// NegativeValue means a dimensional value below zero was supplied.
	NegativeValue
	// UnknownTarget means a target id does not resolve to a primitive.
	UnknownTarget
)

// String returns the string representation of a ConstraintReason.
func (r ConstraintReason) String() string {
	switch r {
	case InapplicableSelection:
		return "inapplicable selection"
	case NegativeValue:
		return "negative value"
	case UnknownTarget:
		return "unknown target"
	default:
		return "unknown"
	}
}

// ConstraintError reports a rejected constraint. The sketch is left
// unchanged whenever one is returned.
type ConstraintError struct {
	Type   ConstraintType
	Reason ConstraintReason
	Detail string
}

func (e *ConstraintError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s constraint rejected: %s (%s)", e.Type, e.Reason, e.Detail)
	}
	return fmt.Sprintf("%s constraint rejected: %s", e.Type, e.Reason)
}

// IsInapplicable reports whether err is a ConstraintError caused by an
// inapplicable selection.
func IsInapplicable(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Reason == InapplicableSelection
}
