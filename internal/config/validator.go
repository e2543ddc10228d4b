package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	return validate
}

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("configuration is nil")
	}

	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("configuration validation error: %w", err)
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		// Drop the root struct name so messages read "MonitorConfig.CheckIntervalMs".
		fieldName := e.Namespace()
		if idx := strings.Index(fieldName, "."); idx != -1 {
			fieldName = fieldName[idx+1:]
		}

		msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", fieldName, e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		messages = append(messages, msg)
	}
	return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(messages, "\n  "))
}
