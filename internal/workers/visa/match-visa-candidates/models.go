// internal/workers/visa/match-visa-candidates/models.go
package matchcandidates

import (
	"visa-workers/internal/common/validation"
	"visa-workers/internal/models"
)

type Input struct {
	models.JobConditions
	Candidates []models.Candidate `json:"candidates"`
}

type Summary struct {
	TotalEligible    int `json:"totalEligible"`
	TotalConditional int `json:"totalConditional"`
	TotalExcluded    int `json:"totalExcluded"`
}

type Output struct {
	JobID                 string                  `json:"jobId,omitempty"`
	CatalogVersion        string                  `json:"catalogVersion"`
	EligibleCandidates    []models.CandidateMatch `json:"eligibleCandidates"`
	ConditionalCandidates []models.CandidateMatch `json:"conditionalCandidates"`
	ExcludedCandidates    []models.CandidateMatch `json:"excludedCandidates"`
	Summary               Summary                 `json:"summary"`
}

const candidatesSchema = `{
	"type": "object",
	"required": ["candidates"],
	"properties": {
		"candidates": {
			"type": "array",
			"maxItems": 500,
			"items": {
				"type": "object",
				"required": ["workerId", "visaCode"],
				"properties": {
					"workerId": {"type": "string", "minLength": 1},
					"visaCode": {"type": "string"}
				}
			}
		}
	}
}`

var InputSchema = `{"allOf": [` + validation.JobConditionsSchema + `, ` + candidatesSchema + `]}`
