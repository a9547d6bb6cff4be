package errors

import (
	"fmt"
	"strings"
)

// ConfigNotFound creates an error for a configuration file that was asked
// for explicitly but does not exist.
func ConfigNotFound(configPath string) *AppError {
	return &AppError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("configuration file not found: %s", configPath),
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Create a default configuration:
  gorestaurant init

or drop --config to run with built-in defaults.`,
	}
}

// ConfigParseError creates an error for YAML parsing failures.
func ConfigParseError(configPath string, parseErr error) *AppError {
	return &AppError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("failed to parse configuration: %s", configPath),
		Cause:   parseErr,
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: "Check the file for YAML syntax errors (indent with spaces, quote URLs with special characters).",
	}
}

// ConfigValidationError creates an error for invalid configuration values.
func ConfigValidationError(field, message string, validOptions []string) *AppError {
	suggestion := fmt.Sprintf("Fix the %q field in .gorestaurant/config.yaml", field)
	if len(validOptions) > 0 {
		suggestion += fmt.Sprintf("\n  Valid options: %s", strings.Join(validOptions, ", "))
	}

	return &AppError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("invalid configuration: %s", message),
		Details: map[string]string{
			"field": field,
		},
		Suggestion: suggestion,
	}
}

// FoodNotFound creates an error for an ID that is not in the list.
func FoodNotFound(id int) *AppError {
	return &AppError{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("food %d not found", id),
		Details: map[string]string{
			"id": fmt.Sprintf("%d", id),
		},
		Suggestion: "List the current items with: gorestaurant list",
	}
}
