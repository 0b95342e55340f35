// internal/workers/visa/evaluate-visa-compatibility/models.go
package evaluatevisa

import (
	"time"

	"visa-workers/internal/common/validation"
	"visa-workers/internal/models"
)

type Input struct {
	models.JobConditions
}

type Output struct {
	EvaluationID   string                  `json:"evaluationId"`
	JobID          string                  `json:"jobId,omitempty"`
	CatalogVersion string                  `json:"catalogVersion"`
	Cached         bool                    `json:"cached"`
	LaborProfile   models.JobLaborProfile  `json:"laborProfile"`
	Eligible       []models.VisaEvalResult `json:"eligible"`
	Conditional    []models.VisaEvalResult `json:"conditional"`
	Blocked        []models.VisaEvalResult `json:"blocked"`
	Summary        models.VisaSummary      `json:"summary"`
	EvaluatedAt    time.Time               `json:"evaluatedAt"`
}

var InputSchema = validation.JobConditionsSchema
