package helper

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validator is the shared instance handed to controllers.
func Validator() *validator.Validate { return validate }

// FieldErrors carries cross-field checks the struct tags cannot express.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for f, msgs := range e {
		parts = append(parts, f+" "+strings.Join(msgs, ", "))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func NewFieldError(field, msg string) FieldErrors {
	return FieldErrors{field: {msg}}
}

// ValidationFieldErrors flattens validator errors into field -> messages.
func ValidationFieldErrors(err error) (map[string][]string, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		field := toSnake(fe.Field())
		out[field] = append(out[field], describeTag(fe))
	}
	return out, true
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "datetime":
		return "must match format " + fe.Param()
	case "ltefield":
		return "must not exceed " + toSnake(fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
