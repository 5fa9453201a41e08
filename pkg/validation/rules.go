package validation

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
)

// Rule inspects a value and returns every issue found, with paths relative
// to the value itself.
type Rule[T any] func(value T) []Issue

// All applies every rule and concatenates their issues.
func All[T any](rules ...Rule[T]) Rule[T] {
	return func(value T) []Issue {
		var issues []Issue
		for _, rule := range rules {
			issues = append(issues, rule(value)...)
		}
		return issues
	}
}

// Object checks the fields of a struct. It is All under a name that reads
// well in schema definitions.
func Object[S any](fields ...Rule[S]) Rule[S] {
	return All(fields...)
}

// Field checks one field of S, prefixing issue paths with name.
func Field[S, F any](name string, get func(S) F, rule Rule[F]) Rule[S] {
	return func(value S) []Issue {
		return prefix(name, rule(get(value)))
	}
}

// Each checks every element of a slice, prefixing issue paths with the index.
func Each[T any](rule Rule[T]) Rule[[]T] {
	return func(values []T) []Issue {
		var issues []Issue
		for i, v := range values {
			issues = append(issues, prefix(i, rule(v))...)
		}
		return issues
	}
}

// Nullable accepts nil and applies rule otherwise.
func Nullable[T any](rule Rule[T]) Rule[*T] {
	return func(value *T) []Issue {
		if value == nil {
			return nil
		}
		return rule(*value)
	}
}

// Required rejects nil with message and applies rule otherwise.
func Required[T any](message string, rule Rule[T]) Rule[*T] {
	return func(value *T) []Issue {
		if value == nil {
			return []Issue{issue(message)}
		}
		return rule(*value)
	}
}

// NonBlank rejects strings that are empty after trimming whitespace.
func NonBlank(message string) Rule[string] {
	return func(value string) []Issue {
		if strings.TrimSpace(value) == "" {
			return []Issue{issue(message)}
		}
		return nil
	}
}

// Finite rejects NaN and infinities.
func Finite(message string) Rule[float64] {
	return func(value float64) []Issue {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return []Issue{issue(message)}
		}
		return nil
	}
}

// Number checks an untyped decoded JSON value holds a finite number.
func Number(message string) Rule[any] {
	return func(value any) []Issue {
		if _, ok := AsNumber(value); !ok {
			return []Issue{issue(message)}
		}
		return nil
	}
}

// AsNumber extracts a finite float64 from an untyped decoded JSON value.
func AsNumber(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// UUID rejects strings that are not canonical, non-nil RFC 4122 UUIDs.
func UUID(message string) Rule[string] {
	return func(value string) []Issue {
		if !IsUUID(value) {
			return []Issue{issue(message)}
		}
		return nil
	}
}

// Matches rejects strings that do not match re.
func Matches(re *regexp.Regexp, message string) Rule[string] {
	return func(value string) []Issue {
		if !re.MatchString(value) {
			return []Issue{issue(message)}
		}
		return nil
	}
}

// ExactlyOne requires exactly one of the presence checks to hold.
func ExactlyOne[S any](message string, present ...func(S) bool) Rule[S] {
	return func(value S) []Issue {
		n := 0
		for _, p := range present {
			if p(value) {
				n++
			}
		}
		if n != 1 {
			return []Issue{issue(message)}
		}
		return nil
	}
}

// When applies rule only if cond holds for the value.
func When[T any](cond func(T) bool, rule Rule[T]) Rule[T] {
	return func(value T) []Issue {
		if !cond(value) {
			return nil
		}
		return rule(value)
	}
}

func issue(message string) Issue {
	return Issue{Path: []any{}, Message: message}
}

func prefix(segment any, issues []Issue) []Issue {
	for i := range issues {
		path := make([]any, 0, len(issues[i].Path)+1)
		path = append(path, segment)
		issues[i].Path = append(path, issues[i].Path...)
	}
	return issues
}
