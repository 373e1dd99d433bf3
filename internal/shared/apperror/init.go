package apperror

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init points gin's validator at FieldName so validation messages use the
// names clients send.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(FieldName)
	}
}

// FieldName resolves a struct field to its json, form or uri name, in that
// order. Fields hidden with "-" report no name; untagged fields fall back to
// the Go name inside the validator.
func FieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		switch name {
		case "":
			continue
		case "-":
			return ""
		default:
			return name
		}
	}
	return ""
}
