package autocar

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// formValidator is the echo.Validator of the app. Field errors are reported
// under the field's form name.
type formValidator struct {
	validate *validator.Validate
}

func newFormValidator() *formValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &formValidator{validate: v}
}

func (fv *formValidator) Validate(i any) error {
	return fv.validate.Struct(i)
}

var forms = newFormValidator()

// fieldErrors maps the failed rules of err to a message per form field.
// messages is keyed by "field.tag". It returns nil when err carries no
// field errors.
func fieldErrors(err error, messages map[string]string) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "Valeur invalide."
		}
		out[fe.Field()] = msg
	}
	return out
}
