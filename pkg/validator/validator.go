package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"emergencyHub/pkg/e"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	RegisterCustomValidations(validate)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Violations flattens a validation failure into one entry per failed field.
// Errors that are not validator errors yield nil.
func Violations(err error) []e.Violation {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]e.Violation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, e.Violation{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Value: fe.Value(),
		})
	}
	return out
}

// Check validates s and converts any failure into a structured error of the given kind.
func Check(op string, kind error, s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if v := Violations(err); len(v) > 0 {
		return e.Invalid(op, kind, v)
	}
	return e.Wrap(op, err)
}
