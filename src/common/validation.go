package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"voyagemate/src/types"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	RegisterValidators(v)
	return v
}

// fieldName reports fields by their json, form or uri name so errors match
// the request payload.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// RegisterValidators adds field naming and the custom rules used by request
// bodies. It is also applied to gin's binding engine.
func RegisterValidators(v *validator.Validate) {
	v.RegisterTagNameFunc(fieldName)
	v.RegisterValidation("gtedate", gteDate)
}

// gteDate checks that a YYYY-MM-DD field is on or after the sibling field
// named by the param. A missing sibling passes.
var gteDate validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := stringValue(fl.Field())
	if !ok {
		return true
	}
	date, err := time.Parse(types.DATE_FORMAT, value)
	if err != nil {
		return false
	}
	other, ok := stringValue(fl.Parent().FieldByName(fl.Param()))
	if !ok {
		return true
	}
	otherDate, err := time.Parse(types.DATE_FORMAT, other)
	if err != nil {
		return true
	}
	return !date.Before(otherDate)
}

func stringValue(v reflect.Value) (string, bool) {
	for v.IsValid() && v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() != reflect.String || v.String() == "" {
		return "", false
	}
	return v.String(), true
}

// Validate checks s against its binding tags and converts failures into a
// *ValidationError.
func Validate(s any) error {
	if err := validate.Struct(s); err != nil {
		return ToValidationError(err)
	}
	return nil
}

// ToValidationError converts validator failures into a *ValidationError.
// Other errors are returned unchanged.
func ToValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{Fields: map[string]string{}}
	for _, fe := range verrs {
		ve.Fields[fe.Field()] = fieldMessage(fe)
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match the format %s", fe.Param())
	case "gtedate":
		return fmt.Sprintf("must be on or after %s", fe.Param())
	case "alpha":
		return "must contain letters only"
	}
	return "is invalid"
}
