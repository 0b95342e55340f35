// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema is a compiled JSON schema for one job's variables.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile parses a JSON schema document. name appears in error messages.
func Compile(name, schemaJSON string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

// MustCompile is Compile for package-level schemas that are known to be valid.
func MustCompile(name, schemaJSON string) *Schema {
	s, err := Compile(name, schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string { return s.name }

// ValidateJSON validates a raw JSON document, such as job.Variables.
func (s *Schema) ValidateJSON(document string) *ValidationResult {
	return s.validate(gojsonschema.NewStringLoader(document))
}

// ValidateValue validates an already decoded Go value.
func (s *Schema) ValidateValue(v interface{}) *ValidationResult {
	return s.validate(gojsonschema.NewGoLoader(v))
}

func (s *Schema) validate(doc gojsonschema.JSONLoader) *ValidationResult {
	result, err := s.schema.Validate(doc)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "MALFORMED_DOCUMENT",
			}},
		}
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool { return out.Errors[i].Field < out.Errors[j].Field })
	return out
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	return len(vr.GetErrorsForField(field)) > 0
}

// GetErrorsForField returns errors for a field and anything nested under it.
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// ==========================
// Shared schema fragments
// ==========================

// ScheduleEntriesSchema is the JSON schema fragment for a scheduleEntries array.
const ScheduleEntriesSchema = `{
	"type": "array",
	"maxItems": 7,
	"items": {
		"type": "object",
		"required": ["dayOfWeek", "startTime", "endTime"],
		"properties": {
			"dayOfWeek": {"type": "string", "enum": ["MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"]},
			"startTime": {"type": "string", "pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$"},
			"endTime":   {"type": "string", "pattern": "^(([01][0-9]|2[0-3]):[0-5][0-9]|24:00)$"}
		}
	}
}`

// LaborProfileSchema is the JSON schema fragment for a laborProfile object.
const LaborProfileSchema = `{
	"type": "object",
	"required": ["weeklyHours"],
	"properties": {
		"weeklyHours":        {"type": "number", "minimum": 0, "maximum": 168},
		"industryCode":       {"type": "string", "maxLength": 8},
		"isWeekendOnly":      {"type": "boolean"},
		"isDepopulationArea": {"type": "boolean"}
	}
}`

// JobConditionsSchema accepts either a laborProfile or scheduleEntries plus
// the location and industry fields used to derive one.
const JobConditionsSchema = `{
	"type": "object",
	"properties": {
		"jobId":              {"type": "string"},
		"laborProfile":       ` + LaborProfileSchema + `,
		"scheduleEntries":    ` + ScheduleEntriesSchema + `,
		"industryCode":       {"type": "string", "maxLength": 8},
		"isDepopulationArea": {"type": "boolean"}
	},
	"anyOf": [
		{"required": ["laborProfile"]},
		{"required": ["scheduleEntries"]}
	]
}`
