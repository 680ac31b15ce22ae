// Package api provides the HTTP surface of the ranking service: route setup,
// request validation, and standardized error responses.
package api

import (
	"fmt"
	"strings"

	"github.com/gosearchlabs/go-chunk-ranker/config"
	"github.com/gosearchlabs/go-chunk-ranker/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateRankerName validates a ranker name parameter
func ValidateRankerName(rankerName string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if rankerName == "" {
		result.AddError("rankerName", "Ranker name is required")
		return result
	}

	if strings.TrimSpace(rankerName) != rankerName {
		result.AddError("rankerName", "Ranker name cannot have leading or trailing whitespace")
		return result
	}

	return result
}

// ValidateRankerSettings validates ranker settings for creation or update.
// Defaults are applied before validation; the ranking policy has no default.
func ValidateRankerSettings(settings *config.RankerSettings) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if settings == nil {
		result.AddError("settings", "Ranker settings are required")
		return result
	}

	settings.ApplyDefaults()

	for _, problem := range settings.Validate() {
		result.AddError("settings", problem)
	}

	return result
}

// ValidateDocuments validates a batch of document trees for ranking
func ValidateDocuments(docs []*model.Document) *ValidationResult {
	result := &ValidationResult{Valid: true}

	for i, doc := range docs {
		if doc == nil {
			result.AddError(fmt.Sprintf("documents[%d]", i), "Document cannot be null")
			continue
		}
		if strings.TrimSpace(doc.ID) == "" {
			result.AddError(fmt.Sprintf("documents[%d].id", i), "Document must have a non-empty 'id' field")
		}
	}

	return result
}
