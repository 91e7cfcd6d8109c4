package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"bactool/internal/directive"
)

// ConfigurationError represents a structured error found in a configuration
// file, either bactool's own config.yaml or an imported Bacula file.
type ConfigurationError struct {
	FilePath    string   `json:"filePath"`    // Full path to the file that caused the error
	FileName    string   `json:"fileName"`    // Base name of the file
	ErrorType   string   `json:"errorType"`   // Type of error (parse, validation, io, etc.)
	Message     string   `json:"message"`     // Human-readable error message
	Details     string   `json:"details"`     // Additional details about the error
	LineNumber  int      `json:"lineNumber"`  // Line number where error occurred (if available)
	Suggestions []string `json:"suggestions"` // Actionable suggestions to fix the error
}

// Error implements the error interface
func (ce ConfigurationError) Error() string {
	if ce.LineNumber > 0 {
		return fmt.Sprintf("%s:%d: %s", ce.FileName, ce.LineNumber, ce.Message)
	}
	return fmt.Sprintf("%s: %s", ce.FileName, ce.Message)
}

// DetailedError returns a detailed error message with all context
func (ce ConfigurationError) DetailedError() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Configuration Error in %s", ce.FileName))
	parts = append(parts, fmt.Sprintf("  File: %s", ce.FilePath))
	parts = append(parts, fmt.Sprintf("  Type: %s", ce.ErrorType))

	if ce.LineNumber > 0 {
		parts = append(parts, fmt.Sprintf("  Line: %d", ce.LineNumber))
	}

	parts = append(parts, fmt.Sprintf("  Error: %s", ce.Message))

	if ce.Details != "" {
		parts = append(parts, fmt.Sprintf("  Details: %s", ce.Details))
	}

	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, suggestion := range ce.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", suggestion))
		}
	}

	return strings.Join(parts, "\n")
}

// ConfigurationErrorCollection holds multiple configuration errors
type ConfigurationErrorCollection struct {
	Errors []ConfigurationError `json:"errors"`
}

// Error implements the error interface for the collection
func (cec ConfigurationErrorCollection) Error() string {
	if len(cec.Errors) == 0 {
		return "no configuration errors"
	}

	if len(cec.Errors) == 1 {
		return cec.Errors[0].Error()
	}

	return fmt.Sprintf("%d configuration errors: %s (and %d more)",
		len(cec.Errors), cec.Errors[0].Error(), len(cec.Errors)-1)
}

// HasErrors returns true if there are any errors in the collection
func (cec *ConfigurationErrorCollection) HasErrors() bool {
	return len(cec.Errors) > 0
}

// Count returns the number of errors in the collection
func (cec *ConfigurationErrorCollection) Count() int {
	return len(cec.Errors)
}

// Add adds a new error to the collection
func (cec *ConfigurationErrorCollection) Add(err ConfigurationError) {
	cec.Errors = append(cec.Errors, err)
}

// GetDetailedReport returns a detailed report of all errors
func (cec *ConfigurationErrorCollection) GetDetailedReport() string {
	if len(cec.Errors) == 0 {
		return "No configuration errors to report"
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Detailed Configuration Error Report (%d errors):", len(cec.Errors)))
	parts = append(parts, strings.Repeat("=", 60))

	for i, err := range cec.Errors {
		parts = append(parts, fmt.Sprintf("\nError %d:", i+1))
		parts = append(parts, err.DetailedError())

		if i < len(cec.Errors)-1 {
			parts = append(parts, strings.Repeat("-", 40))
		}
	}

	return strings.Join(parts, "\n")
}

// NewConfigurationError creates a new configuration error with basic information
func NewConfigurationError(filePath, errorType, message string) ConfigurationError {
	return ConfigurationError{
		FilePath:  filePath,
		FileName:  filepath.Base(filePath),
		ErrorType: errorType,
		Message:   message,
	}
}

// NewConfigurationErrorWithDetails creates a new configuration error with additional details
func NewConfigurationErrorWithDetails(filePath, errorType, message, details string, suggestions []string) ConfigurationError {
	ce := NewConfigurationError(filePath, errorType, message)
	ce.Details = details
	ce.Suggestions = suggestions
	return ce
}

// NewConfigurationErrorCollection creates a new empty error collection
func NewConfigurationErrorCollection() *ConfigurationErrorCollection {
	return &ConfigurationErrorCollection{
		Errors: make([]ConfigurationError, 0),
	}
}

// FromParseError describes a directive parse failure in a Bacula
// configuration file. lineOffset is added to the line the parser reports,
// which counts from the start of the resource body. keys are the directive
// keys the resource accepts.
func FromParseError(path string, lineOffset int, pe *directive.ParseError, keys []string) ConfigurationError {
	msg := pe.Err.Error()
	if pe.Reason != "" {
		msg += ": " + pe.Reason
	}
	ce := NewConfigurationError(path, "parse", msg)
	if pe.Line > 0 {
		ce.LineNumber = pe.Line + lineOffset
	}
	ce.Details = pe.Text

	switch {
	case errors.Is(pe, directive.ErrUnknownDirective) && len(keys) > 0:
		ce.Suggestions = []string{"Accepted keys: " + strings.Join(keys, ", ")}
	case errors.Is(pe, directive.ErrMissingName):
		ce.Suggestions = []string{`Add a "Name = ..." line to the resource`}
	case errors.Is(pe, directive.ErrRepeatedName):
		ce.Suggestions = []string{`Keep a single "Name = ..." line per resource`}
	case errors.Is(pe, directive.ErrMalformedValue):
		ce.Suggestions = []string{"Put one directive per line and close quoted values"}
	case errors.Is(pe, directive.ErrUnbalancedBraces):
		ce.Suggestions = []string{"Check that every '{' has a matching '}'"}
	}
	return ce
}
