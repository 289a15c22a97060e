package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var initOnce sync.Once

// Init configures the global validator used by Gin's binding.
// - Uses json (or form) tag names in errors.
// - Registers alias tags for account fields.
func Init() {
	initOnce.Do(func() {
		v := Engine()
		if v == nil {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
		v.RegisterAlias("pwd", "min=8,max=72")
		v.RegisterAlias("username", "alphanum,min=3,max=30")
	})
}

// Engine returns the validator instance behind Gin's binding.
func Engine() *validator.Validate {
	v, _ := binding.Validator.Engine().(*validator.Validate)
	return v
}

// Field validates a single value against tag and records a message under
// name in details when it fails.
func Field(details map[string]string, name string, value any, tag string) {
	err := Engine().Var(value, tag)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		details[name] = formatFieldError(verrs[0])
		return
	}
	details[name] = "is invalid"
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	kind := fe.Kind()

	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "alphanum":
		return "must contain alphanumeric characters only"
	case "oneof":
		return "must be one of [" + param + "]"
	case "len":
		return "must be exactly " + param + " characters long"
	case "min":
		if isNumberKind(kind) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(kind) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	}
	return "is invalid"
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
