package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Ошибки регистрации возможны только при пустом теге, поэтому игнорируем их
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return Priority(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	return v
}

// имена полей в том виде, в каком они хранятся в документе
var fieldNames = map[string]string{
	"ActivityType": "activity_type",
	"Location":     "location",
	"Priority":     "priority",
	"Status":       "status",
	"AlertRadius":  "alert_radius",
}

// ValidateActivity проверяет инварианты записи и возвращает *ValidationError
func ValidateActivity(a Activity) error {
	err := validate.Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: "activity", Reason: err.Error()}
	}

	fe := verrs[0]
	field, ok := fieldNames[fe.StructField()]
	if !ok {
		field = fe.StructField()
	}
	return &ValidationError{Field: field, Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "must not be empty"
	case "priority":
		return fmt.Sprintf("unknown priority %q", fe.Value())
	case "status":
		return fmt.Sprintf("unknown status %q", fe.Value())
	case "min", "max":
		return fmt.Sprintf("must be between %d and %d meters, got %v", MinAlertRadius, MaxAlertRadius, fe.Value())
	}
	return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
}
