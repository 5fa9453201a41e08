package errors

import "strings"

// Violations accumulates field violations so that every failing constraint
// is reported, not just the first one.
type Violations struct {
	items []Violation
}

// NewViolations creates an empty accumulator.
func NewViolations() *Violations {
	return &Violations{}
}

// Add records a violation at path.
func (v *Violations) Add(path []any, message string) {
	if path == nil {
		path = []any{}
	}
	v.items = append(v.items, Violation{Path: path, Message: message})
}

// Merge appends violations found elsewhere, prefixing each path with prefix.
func (v *Violations) Merge(prefix []any, others []Violation) {
	for _, o := range others {
		path := make([]any, 0, len(prefix)+len(o.Path))
		path = append(path, prefix...)
		path = append(path, o.Path...)
		v.items = append(v.items, Violation{Path: path, Message: o.Message})
	}
}

// HasErrors reports whether any violation was recorded.
func (v *Violations) HasErrors() bool {
	return len(v.items) > 0
}

// List returns the recorded violations in insertion order.
func (v *Violations) List() []Violation {
	out := make([]Violation, len(v.items))
	copy(out, v.items)
	return out
}

// Error implements the error interface
func (v *Violations) Error() string {
	parts := make([]string, len(v.items))
	for i, item := range v.items {
		parts[i] = item.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns an invalid-input AppError, or nil if nothing was recorded.
func (v *Violations) Err(message string) error {
	if !v.HasErrors() {
		return nil
	}
	return NewInvalidInputError(message, v.List())
}
