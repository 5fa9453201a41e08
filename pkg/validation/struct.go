package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// IsUUID reports whether s is a canonical RFC 4122 UUID of a known version
// that is not the nil UUID.
func IsUUID(s string) bool {
	if validate.Var(s, "required,uuid_rfc4122") != nil {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil || u == uuid.Nil {
		return false
	}
	if u.Variant() != uuid.RFC4122 {
		return false
	}
	v := u.Version()
	return v >= 1 && v <= 8
}

// ValidateStruct validates a struct based on its `validate` tags and reports
// one issue per failing field.
func ValidateStruct(s interface{}) []Issue {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []Issue{issue(err.Error())}
	}
	issues := make([]Issue, 0, len(validationErrors))
	for _, e := range validationErrors {
		issues = append(issues, Issue{
			Path:    []any{e.Field()},
			Message: formatFieldError(e),
		})
	}
	return issues
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
