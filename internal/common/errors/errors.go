// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidSchedule      ErrorCode = "INVALID_SCHEDULE"
	ErrCodeInvalidLaborProfile  ErrorCode = "INVALID_LABOR_PROFILE"
	ErrCodeInvalidCandidates    ErrorCode = "INVALID_CANDIDATES"
	ErrCodeInputSchemaViolation ErrorCode = "INPUT_SCHEMA_VIOLATION"

	ErrCodeCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeCatalogLoadFailed  ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogInvalid     ErrorCode = "CATALOG_INVALID"

	ErrCodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidScheduleError rejects a malformed schedule at the worker boundary.
func NewInvalidScheduleError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSchedule,
		Message:   "Invalid work schedule",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidLaborProfileError rejects a labor profile with impossible values.
func NewInvalidLaborProfileError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidLaborProfile,
		Message:   "Invalid job labor profile",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCandidatesError rejects a malformed candidate list.
func NewInvalidCandidatesError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCandidates,
		Message:   "Invalid candidate list",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputSchemaViolationError wraps JSON schema failures on job variables.
func NewInputSchemaViolationError(taskType string, violations []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputSchemaViolation,
		Message:   "Job variables do not match input schema",
		Details:   fmt.Sprintf("taskType: %s, violations: %s", taskType, strings.Join(violations, "; ")),
		Retryable: false,
		Metadata:  map[string]interface{}{"violations": violations},
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogUnavailableError is returned when no catalog snapshot has been loaded yet.
func NewCatalogUnavailableError() *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogUnavailable,
		Message:   "Visa rule catalog not loaded",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLoadFailedError creates a retryable catalog source error.
func NewCatalogLoadFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Failed to load visa rule catalog",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogInvalidError flags reference data that fails validation.
func NewCatalogInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogInvalid,
		Message:   "Visa rule catalog is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEngineUnavailableError wraps a transient Zeebe gateway failure.
func NewEngineUnavailableError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEngineUnavailable,
		Message:   "Process engine unavailable",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the codes modelled in the BPMN diagrams.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidSchedule:      "INVALID_SCHEDULE",
	ErrCodeInvalidLaborProfile:  "INVALID_LABOR_PROFILE",
	ErrCodeInvalidCandidates:    "INVALID_CANDIDATES",
	ErrCodeInputSchemaViolation: "INVALID_INPUT",
	ErrCodeCatalogUnavailable:   "CATALOG_UNAVAILABLE",
	ErrCodeCatalogLoadFailed:    "CATALOG_UNAVAILABLE",
	ErrCodeCatalogInvalid:       "CATALOG_INVALID",
	ErrCodeEngineUnavailable:    "ENGINE_UNAVAILABLE",
	ErrCodeInternal:             "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogLoadFailed, ErrCodeEngineUnavailable:
		return 3
	case ErrCodeCatalogUnavailable:
		return 2 // store may still be warming up
	default:
		return 0 // validation and business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "CATALOG"):
		return "CATALOG"
	case code == ErrCodeEngineUnavailable:
		return "INFRASTRUCTURE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "SCHEMA"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
