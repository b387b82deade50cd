package exceptions

import (
	"oncobilling-service/internal/pkg/constvars"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

func FormatFirstValidationError(err error) string {
	if err == nil {
		return constvars.ErrClientCannotProcessRequest
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		firstErr := validationErrors[0]
		fieldName := toSnakeCase(firstErr.Field())
		tag := firstErr.Tag()
		customMessage, ok := constvars.CustomValidationErrorMessages[tag]
		if !ok {
			customMessage = "is invalid"
		}

		if constvars.TagsWithParams[tag] {
			switch tag {
			case "oneof":
				customMessage = strings.Replace(customMessage, "%s", strings.Join(strings.Fields(firstErr.Param()), ", "), 1)
			case "required_if", "required_unless":
				for _, param := range strings.Fields(firstErr.Param()) {
					customMessage = strings.Replace(customMessage, "%s", toSnakeCase(param), 1)
				}
			default:
				customMessage = strings.Replace(customMessage, "%s", toSnakeCase(firstErr.Param()), 1)
			}
		}
		return fieldName + " " + customMessage
	}
	return constvars.ErrDevInvalidInput
}

// toSnakeCase turns a Go field name such as NewStatus into new_status so
// messages use the JSON names clients send.
func toSnakeCase(name string) string {
	var builder strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				builder.WriteByte('_')
			}
			builder.WriteRune(unicode.ToLower(r))
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
