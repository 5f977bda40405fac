// Package validation turns struct tag validation failures into field errors
// the API can return as-is.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"go-esg-platform/pkg/apierror"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
	return instance
}

// Struct validates v and returns a VALIDATION_ERROR carrying one field error
// per failed field, or nil.
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	fields := make([]apierror.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, apierror.FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return apierror.Validation("validation failed", fields...)
}

// Required reports a field error for every named field whose value is blank.
func Required(values map[string]string, names ...string) []apierror.FieldError {
	out := make([]apierror.FieldError, 0)
	for _, name := range names {
		if strings.TrimSpace(values[name]) == "" {
			out = append(out, apierror.FieldError{Field: name, Message: humanize(name) + " is required"})
		}
	}
	return out
}

func describe(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", label, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", label, strings.ToLower(humanize(lowerFirst(fe.Param()))))
	default:
		return label + " is invalid"
	}
}

// humanize turns a camelCase json name into a sentence-cased label.
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		if i == 0 && r >= 'a' && r <= 'z' {
			b.WriteRune(r - ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
