package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidConfiguration is returned when ranker settings are rejected
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrMissingScore is returned when a candidate match lacks the configured metric
	ErrMissingScore = errors.New("missing score")

	// ErrRankerNotFound is returned when a ranker pipeline is not found
	ErrRankerNotFound = errors.New("ranker not found")

	// ErrRankerAlreadyExists is returned when trying to create a ranker that already exists
	ErrRankerAlreadyExists = errors.New("ranker already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// InvalidConfigurationError represents rejected ranker settings with context
type InvalidConfigurationError struct {
	Field   string
	Message string
}

func (e *InvalidConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid configuration for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Message)
}

func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// NewInvalidConfigurationError creates a new InvalidConfigurationError
func NewInvalidConfigurationError(field, message string) *InvalidConfigurationError {
	return &InvalidConfigurationError{Field: field, Message: message}
}

// MissingScoreError represents a candidate match without the configured
// metric in its score map. It names the offending match and the expected
// metric key to aid debugging.
type MissingScoreError struct {
	MatchID string
	Metric  string
}

func (e *MissingScoreError) Error() string {
	return fmt.Sprintf("match '%s' has no score under metric '%s'", e.MatchID, e.Metric)
}

func (e *MissingScoreError) Is(target error) bool {
	return target == ErrMissingScore
}

// NewMissingScoreError creates a new MissingScoreError
func NewMissingScoreError(matchID, metric string) *MissingScoreError {
	return &MissingScoreError{MatchID: matchID, Metric: metric}
}

// RankerNotFoundError represents a ranker not found error with context
type RankerNotFoundError struct {
	RankerName string
}

func (e *RankerNotFoundError) Error() string {
	return fmt.Sprintf("ranker named '%s' not found", e.RankerName)
}

func (e *RankerNotFoundError) Is(target error) bool {
	return target == ErrRankerNotFound
}

// NewRankerNotFoundError creates a new RankerNotFoundError
func NewRankerNotFoundError(rankerName string) *RankerNotFoundError {
	return &RankerNotFoundError{RankerName: rankerName}
}

// RankerAlreadyExistsError represents a ranker already exists error with context
type RankerAlreadyExistsError struct {
	RankerName string
}

func (e *RankerAlreadyExistsError) Error() string {
	return fmt.Sprintf("ranker named '%s' already exists", e.RankerName)
}

func (e *RankerAlreadyExistsError) Is(target error) bool {
	return target == ErrRankerAlreadyExists
}

// NewRankerAlreadyExistsError creates a new RankerAlreadyExistsError
func NewRankerAlreadyExistsError(rankerName string) *RankerAlreadyExistsError {
	return &RankerAlreadyExistsError{RankerName: rankerName}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
