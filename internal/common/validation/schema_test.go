// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile("broken", `{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile("broken", `{`) })
}

func TestJobConditionsSchema(t *testing.T) {
	schema := MustCompile("job-conditions", JobConditionsSchema)

	tests := []struct {
		name      string
		doc       string
		valid     bool
		badFields []string
	}{
		{
			name:  "labor profile",
			doc:   `{"laborProfile": {"weeklyHours": 20, "industryCode": "I", "isWeekendOnly": true}}`,
			valid: true,
		},
		{
			name:  "schedule entries",
			doc:   `{"scheduleEntries": [{"dayOfWeek": "SAT", "startTime": "10:00", "endTime": "24:00"}], "industryCode": "I"}`,
			valid: true,
		},
		{
			name:  "neither",
			doc:   `{"industryCode": "I"}`,
			valid: false,
		},
		{
			name:      "negative hours",
			doc:       `{"laborProfile": {"weeklyHours": -1}}`,
			valid:     false,
			badFields: []string{"laborProfile.weeklyHours"},
		},
		{
			name:      "unknown day",
			doc:       `{"scheduleEntries": [{"dayOfWeek": "MONDAY", "startTime": "10:00", "endTime": "12:00"}]}`,
			valid:     false,
			badFields: []string{"scheduleEntries.0.dayOfWeek"},
		},
		{
			name:      "24:00 start",
			doc:       `{"scheduleEntries": [{"dayOfWeek": "MON", "startTime": "24:00", "endTime": "24:00"}]}`,
			valid:     false,
			badFields: []string{"scheduleEntries.0.startTime"},
		},
		{
			name:  "malformed json",
			doc:   `{"laborProfile": `,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := schema.ValidateJSON(tt.doc)
			assert.Equal(t, tt.valid, res.Valid, "errors: %v", res.GetErrorMessages())
			if !tt.valid {
				require.NotEmpty(t, res.Errors)
			}
			for _, f := range tt.badFields {
				assert.True(t, res.HasErrors(f), "expected error on %s, got %v", f, res.GetErrorMessages())
			}
		})
	}
}

func TestValidateValue(t *testing.T) {
	schema := MustCompile("schedule", `{"type": "object", "properties": {"scheduleEntries": `+ScheduleEntriesSchema+`}}`)

	res := schema.ValidateValue(map[string]interface{}{
		"scheduleEntries": []interface{}{
			map[string]interface{}{"dayOfWeek": "MON", "startTime": "9:00", "endTime": "18:00"},
		},
	})
	assert.False(t, res.Valid)
	assert.Len(t, res.GetErrorsForField("scheduleEntries"), 1)
	assert.Equal(t, "schedule", schema.Name())
}
