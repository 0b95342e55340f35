// internal/visa/match.go
package visa

import (
	"fmt"
	"strings"

	"visa-workers/internal/common/errors"
	"visa-workers/internal/models"
)

const ReasonUnknownVisa = "unknown visa code"

// MatchResult splits candidates by how their visa fares against one job.
type MatchResult struct {
	Eligible    []models.CandidateMatch `json:"eligibleCandidates"`
	Conditional []models.CandidateMatch `json:"conditionalCandidates"`
	Excluded    []models.CandidateMatch `json:"excludedCandidates"`
}

// MatchCandidates places each candidate using compat. Candidate order is kept
// within each list. Unknown visa codes are excluded.
func MatchCandidates(compat *models.VisaCompatibility, candidates []models.Candidate) *MatchResult {
	out := &MatchResult{
		Eligible:    []models.CandidateMatch{},
		Conditional: []models.CandidateMatch{},
		Excluded:    []models.CandidateMatch{},
	}

	for _, c := range candidates {
		res, ok := compat.Find(c.VisaCode)
		if !ok {
			out.Excluded = append(out.Excluded, models.CandidateMatch{
				WorkerID: c.WorkerID,
				VisaCode: c.VisaCode,
				Status:   models.VisaStatusBlocked,
				Reasons:  []string{ReasonUnknownVisa},
			})
			continue
		}

		m := models.CandidateMatch{
			WorkerID: c.WorkerID,
			VisaCode: c.VisaCode,
			Status:   res.Status,
		}
		switch res.Status {
		case models.VisaStatusEligible:
			out.Eligible = append(out.Eligible, m)
		case models.VisaStatusConditional:
			m.Conditions = append([]string{}, res.Conditions...)
			out.Conditional = append(out.Conditional, m)
		default:
			m.Reasons = append([]string{}, res.BlockReasons...)
			out.Excluded = append(out.Excluded, m)
		}
	}
	return out
}

// ValidateCandidates rejects blank or repeated worker ids.
func ValidateCandidates(candidates []models.Candidate) error {
	seen := make(map[string]bool, len(candidates))
	for i, c := range candidates {
		id := strings.TrimSpace(c.WorkerID)
		if id == "" {
			return errors.NewInvalidCandidatesError(fmt.Sprintf("candidate %d: blank workerId", i))
		}
		if seen[id] {
			return errors.NewInvalidCandidatesError(fmt.Sprintf("candidate %d: duplicate workerId %s", i, id))
		}
		seen[id] = true
	}
	return nil
}
