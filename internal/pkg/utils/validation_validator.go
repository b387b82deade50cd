package utils

import (
	"oncobilling-service/internal/app/models"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("competencia", validateBillingPeriod)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateBillingPeriod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := models.ParseBillingPeriod(value)
	return err == nil
}
