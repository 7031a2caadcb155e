// Package validation collects field level input errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error maps request fields to the problems found with them.
type Error struct {
	Fields map[string][]string
}

func New() *Error {
	return &Error{Fields: map[string][]string{}}
}

// Field returns an Error with a single problem.
func Field(field, message string) *Error {
	e := New()
	e.Add(field, message)
	return e
}

func (e *Error) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *Error) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns e when it holds problems and nil otherwise.
func (e *Error) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidator returns a validator that reports fields by their json name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// MustRegister adds the custom tag to v and panics if it cannot be
// registered.
func MustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: registering %q: %v", tag, err))
	}
}

// FromValidator converts validator errors into an Error keyed by the
// top level field. Other errors are returned unchanged.
func FromValidator(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	out := New()
	for _, fe := range validationErrs {
		out.Add(topLevelField(fe.Namespace()), message(fe))
	}
	return out
}

// "CreateParams.ingredients[0].amount" -> "ingredients"
func topLevelField(namespace string) string {
	_, rest, ok := strings.Cut(namespace, ".")
	if !ok {
		rest = namespace
	}
	field, _, _ := strings.Cut(rest, ".")
	field, _, _ = strings.Cut(field, "[")
	return field
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("ensure this field has at least %s items", fe.Param())
		}
		return fmt.Sprintf("ensure this value has at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("ensure this value is greater than %s", fe.Param())
	case "unique":
		return "duplicate values are not allowed"
	case "email":
		return "enter a valid email address"
	default:
		return fmt.Sprintf("failed the %q check", fe.Tag())
	}
}
