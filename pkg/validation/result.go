// Package validation provides composable, accumulating input checks.
//
// A Rule inspects a value and reports every problem it finds as an Issue with
// a field path. Combinators never short-circuit: an object with three bad
// fields yields three issues.
package validation

import (
	pkgerrors "nodetree/pkg/errors"
)

// Issue is a single failed constraint with the path to the offending field.
type Issue = pkgerrors.Violation

// Result is either Valid(value) or Invalid(issues).
type Result[T any] struct {
	value  T
	issues []Issue
}

// Valid wraps a value that passed validation.
func Valid[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Invalid wraps the issues that made a value fail validation.
func Invalid[T any](issues []Issue) Result[T] {
	return Result[T]{issues: issues}
}

// Check runs rule against value.
func Check[T any](value T, rule Rule[T]) Result[T] {
	if issues := rule(value); len(issues) > 0 {
		return Invalid[T](issues)
	}
	return Valid(value)
}

// OK reports whether the value passed.
func (r Result[T]) OK() bool {
	return len(r.issues) == 0
}

// Value returns the validated value. It is the zero value when !OK().
func (r Result[T]) Value() T {
	return r.value
}

// Issues returns the collected issues in discovery order.
func (r Result[T]) Issues() []Issue {
	return r.issues
}

// Err converts an invalid result into an invalid-input error.
func (r Result[T]) Err(message string) error {
	if r.OK() {
		return nil
	}
	return pkgerrors.NewInvalidInputError(message, r.issues)
}
