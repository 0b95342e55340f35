// internal/models/candidate.go
package models

// Candidate is a job seeker considered for a posting, identified by visa class.
type Candidate struct {
	WorkerID string `json:"workerId"`
	VisaCode string `json:"visaCode"`
}

// CandidateMatch is a candidate annotated with the visa result that placed it.
type CandidateMatch struct {
	WorkerID   string     `json:"workerId"`
	VisaCode   string     `json:"visaCode"`
	Status     VisaStatus `json:"status"`
	Conditions []string   `json:"conditions,omitempty"`
	Reasons    []string   `json:"reasons,omitempty"`
}
