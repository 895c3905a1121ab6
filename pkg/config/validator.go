package config

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/compozy/pdftab/pkg/logger"
)

func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("log_level", validateLogLevel)
}

func validateLogLevel(fl validator.FieldLevel) bool {
	value := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	if value == "" {
		return true
	}
	return string(logger.ParseLevel(value)) == value
}
