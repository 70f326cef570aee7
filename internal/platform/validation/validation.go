package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/lims/lims/internal/platform/apperror"
)

// Validator adapts go-playground/validator to echo's Validator interface so
// handlers can call c.Validate on bound request bodies.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks the struct tags on i. Failures come back as a validation
// error carrying one message per offending field.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.Internal(err)
	}
	return apperror.Validationf("request validation failed").WithFields(Format(verrs))
}

// Format renders field-level validation failures as readable messages keyed
// by field name.
func Format(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			fields[field] = field + " is required"
		case "email":
			fields[field] = field + " must be a valid email address"
		case "min":
			fields[field] = field + " must be at least " + e.Param()
		case "max":
			fields[field] = field + " must be at most " + e.Param()
		case "gt":
			fields[field] = field + " must be greater than " + e.Param()
		case "gte":
			fields[field] = field + " must be greater than or equal to " + e.Param()
		case "lte":
			fields[field] = field + " must be less than or equal to " + e.Param()
		case "oneof":
			fields[field] = field + " must be one of: " + e.Param()
		case "uuid":
			fields[field] = field + " must be a valid UUID"
		default:
			fields[field] = field + " is invalid"
		}
	}
	return fields
}
