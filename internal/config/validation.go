package config

import (
	"fmt"
	"strings"

	"bactool/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(err error) {
	if err == nil {
		return
	}
	if v, ok := err.(ValidationError); ok {
		*ve = append(*ve, v)
		return
	}
	*ve = append(*ve, ValidationError{Message: err.Error()})
}

// Suggestions returns one fix per error.
func (ve ValidationErrors) Suggestions() []string {
	var out []string
	for _, err := range ve {
		out = append(out, fmt.Sprintf("Set %s: %s", err.Field, err.Message))
	}
	return out
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "is required",
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Validate checks a loaded configuration.
func Validate(cfg BactoolConfig) ValidationErrors {
	var errs ValidationErrors
	errs.Add(ValidateOneOf("database.driver", cfg.Database.Driver, []string{DriverSQLite, DriverPostgres}))
	errs.Add(ValidateRequired("database.dsn", cfg.Database.DSN))
	errs.Add(ValidateRequired("output.directory", cfg.Output.Directory))
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		errs.Add(ValidateOneOf("logLevel", cfg.LogLevel, []string{"debug", "info", "warn", "error"}))
	}
	return errs
}
