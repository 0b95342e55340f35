// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name      string
		err       *StandardError
		code      string
		retries   int
		retryable bool
	}{
		{"invalid schedule", NewInvalidScheduleError("MON: bad clock"), "INVALID_SCHEDULE", 0, false},
		{"schema violation", NewInputSchemaViolationError("reduce-schedule", []string{"x"}), "INVALID_INPUT", 0, false},
		{"catalog unavailable", NewCatalogUnavailableError(), "CATALOG_UNAVAILABLE", 2, true},
		{"catalog load failed", NewCatalogLoadFailedError("postgres", fmt.Errorf("dial tcp")), "CATALOG_UNAVAILABLE", 3, true},
		{"catalog invalid", NewCatalogInvalidError("duplicate visaCode D-2"), "CATALOG_INVALID", 0, false},
		{"engine unavailable", NewEngineUnavailableError("complete job", fmt.Errorf("unavailable")), "ENGINE_UNAVAILABLE", 3, true},
		{"internal", NewInternalError(fmt.Errorf("boom")), "INTERNAL_ERROR", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.code, bpmn.Code)
			assert.Equal(t, tt.retries, bpmn.Retries)
			assert.Equal(t, tt.retryable, bpmn.Retryable)

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, tt.code, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_UnmappedCodePassesThrough(t *testing.T) {
	bpmn := ConvertToBPMNError(&StandardError{Code: "SOMETHING_NEW", Retryable: true})
	assert.Equal(t, "SOMETHING_NEW", bpmn.Code)
	assert.Zero(t, bpmn.Retries)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CATALOG", GetErrorCategory(ErrCodeCatalogInvalid))
	assert.Equal(t, "INFRASTRUCTURE", GetErrorCategory(ErrCodeEngineUnavailable))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidSchedule))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputSchemaViolation))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeCatalogLoadFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidLaborProfile))
}

func TestNormalize(t *testing.T) {
	std := NewInvalidCandidatesError("duplicate workerId w-1")
	assert.Same(t, std, Normalize(fmt.Errorf("match: %w", std)))

	got := Normalize(fmt.Errorf("plain"))
	assert.Equal(t, ErrCodeInternal, got.Code)
	assert.Equal(t, "plain", got.Details)
}

func TestStandardError_Error(t *testing.T) {
	assert.Equal(t, "StandardError[CATALOG_UNAVAILABLE]: Visa rule catalog not loaded", NewCatalogUnavailableError().Error())
}
