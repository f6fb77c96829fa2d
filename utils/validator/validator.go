package validator

import (
	"fmt"
	"reflect"
	"strings"

	"idp-hub/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator, reporting violations with
// JSON field names and aggregating every violation instead of stopping at
// the first.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator instance.
func New() *Validator {
	validate := validator.New()

	// Use JSON field names in violation messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: validate}
}

// Validate checks a typed argument struct. On failure it returns a
// *domain.ValidationError carrying one message per violated field.
func (v *Validator) Validate(args any) error {
	err := v.validate.Struct(args)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	violations := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		violations[fe.Field()] = message(fe)
	}
	return &domain.ValidationError{Violations: violations}
}

// message renders one violation as a human-readable reason.
func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
