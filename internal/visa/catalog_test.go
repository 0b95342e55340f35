// internal/visa/catalog_test.go
package visa

import (
	stderrors "errors"
	"testing"

	"visa-workers/internal/common/errors"
	"visa-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules_Valid(t *testing.T) {
	rules := DefaultRules()
	require.NoError(t, Validate(rules))

	var noAuth []string
	for _, r := range rules {
		if r.NoWorkAuthorization {
			noAuth = append(noAuth, r.VisaCode)
		}
	}
	assert.ElementsMatch(t, []string{"C-3", "B-1", "B-2"}, noAuth)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		rules []models.VisaRule
	}{
		{"empty", nil},
		{"blank code", []models.VisaRule{{VisaCode: "  "}}},
		{"duplicate code", []models.VisaRule{{VisaCode: "D-2"}, {VisaCode: "D-2"}}},
		{"negative hours", []models.VisaRule{{VisaCode: "D-2", MaxWeeklyHours: floatPtr(-1)}}},
		{"negative workplaces", []models.VisaRule{{VisaCode: "D-2", MaxWorkplaces: intPtr(-2)}}},
		{"blank permit", []models.VisaRule{{VisaCode: "D-2", RequiredPermit: strPtr("")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.rules)
			require.Error(t, err)

			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, errors.ErrCodeCatalogInvalid, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

func TestVersion(t *testing.T) {
	a := DefaultRules()
	b := DefaultRules()
	assert.Equal(t, Version(a), Version(b))
	assert.Len(t, Version(a), 16)

	b[0].MaxWeeklyHours = floatPtr(26)
	assert.NotEqual(t, Version(a), Version(b))
}
