package handler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to echo. Field names in errors
// are the JSON names.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new request validator
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate implements echo.Validator
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

// pointer turns a field namespace like "CreateQuestionRequest.choices[0].title"
// into the JSON pointer "/choices/0/title"
func pointer(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}

	var sb strings.Builder
	for _, part := range strings.Split(ns, ".") {
		name, index, _ := strings.Cut(part, "[")
		sb.WriteByte('/')
		sb.WriteString(name)
		if index != "" {
			sb.WriteByte('/')
			sb.WriteString(strings.TrimSuffix(index, "]"))
		}
	}
	return sb.String()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s items", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot be longer than %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must have at most %s items", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s check", fe.Field(), fe.Tag())
	}
}
