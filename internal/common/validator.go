package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
	"github.com/jo-hoe/filterapi/internal/apperror"
)

// requestTags are checked in order to name a field in validation messages
var requestTags = []string{"param", "query", "form", "json"}

type GenericEchoValidator struct {
	Validator *validator.Validate
}

// NewGenericEchoValidator creates a validator that reports fields by their request names
func NewGenericEchoValidator() *GenericEchoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(requestFieldName)
	return &GenericEchoValidator{Validator: v}
}

func (gv *GenericEchoValidator) Validate(i interface{}) error {
	if gv.Validator == nil {
		gv.Validator = validator.New()
		gv.Validator.RegisterTagNameFunc(requestFieldName)
	}
	if err := gv.Validator.Struct(i); err != nil {
		return apperror.ValidationSchema(ValidationMessage(err), err)
	}
	return nil
}

// ValidationMessage renders validator errors as "Erro de validação: field: msg; ..."
func ValidationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Sprintf("Erro de validação: %v", err)
	}
	parts := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), describe(fe)))
	}
	return "Erro de validação: " + strings.Join(parts, "; ")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("valor %v inválido, esperado um de: %s", fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "required":
		return "campo obrigatório"
	case "min":
		return fmt.Sprintf("deve ser no mínimo %s", fe.Param())
	case "max":
		return fmt.Sprintf("deve ser no máximo %s", fe.Param())
	default:
		return fmt.Sprintf("valor %v inválido (%s)", fe.Value(), fe.Tag())
	}
}

func requestFieldName(field reflect.StructField) string {
	for _, tag := range requestTags {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}
