// internal/models/visa.go
package models

// VisaStatus is the classification bucket of one visa against one job.
type VisaStatus string

const (
	VisaStatusEligible    VisaStatus = "eligible"
	VisaStatusConditional VisaStatus = "conditional"
	VisaStatusBlocked     VisaStatus = "blocked"
)

// VisaRule is static reference data describing what a visa class allows.
type VisaRule struct {
	VisaCode             string   `json:"visaCode" yaml:"visaCode"`
	VisaName             string   `json:"visaName" yaml:"visaName"`
	VisaNameEn           string   `json:"visaNameEn" yaml:"visaNameEn"`
	MaxWeeklyHours       *float64 `json:"maxWeeklyHours,omitempty" yaml:"maxWeeklyHours,omitempty"`
	MaxWorkplaces        *int     `json:"maxWorkplaces,omitempty" yaml:"maxWorkplaces,omitempty"`
	RequiredPermit       *string  `json:"requiredPermit,omitempty" yaml:"requiredPermit,omitempty"`
	ExcludedIndustries   []string `json:"excludedIndustries" yaml:"excludedIndustries"`
	WeekendOnlyExemption bool     `json:"weekendOnlyExemption" yaml:"weekendOnlyExemption"`
	NoWorkAuthorization  bool     `json:"noWorkAuthorization" yaml:"noWorkAuthorization"`
}

// JobLaborProfile is the minimal set of job attributes needed to evaluate a visa.
type JobLaborProfile struct {
	WeeklyHours        float64 `json:"weeklyHours"`
	IndustryCode       string  `json:"industryCode"`
	IsWeekendOnly      bool    `json:"isWeekendOnly"`
	IsDepopulationArea bool    `json:"isDepopulationArea"`
}

// VisaEvalResult is the outcome for a single (profile, rule) pair.
type VisaEvalResult struct {
	VisaCode       string     `json:"visaCode"`
	VisaName       string     `json:"visaName"`
	VisaNameEn     string     `json:"visaNameEn"`
	Status         VisaStatus `json:"status"`
	Conditions     []string   `json:"conditions"`
	BlockReasons   []string   `json:"blockReasons"`
	RequiredPermit *string    `json:"requiredPermit,omitempty"`
	MaxWeeklyHours *float64   `json:"maxWeeklyHours,omitempty"`
	MaxWorkplaces  *int       `json:"maxWorkplaces,omitempty"`
}

type VisaSummary struct {
	TotalEligible    int `json:"totalEligible"`
	TotalConditional int `json:"totalConditional"`
	TotalBlocked     int `json:"totalBlocked"`
}

// VisaCompatibility partitions a whole catalog into three buckets.
type VisaCompatibility struct {
	Eligible    []VisaEvalResult `json:"eligible"`
	Conditional []VisaEvalResult `json:"conditional"`
	Blocked     []VisaEvalResult `json:"blocked"`
	Summary     VisaSummary      `json:"summary"`
}

// Total returns the number of classified visas across all buckets.
func (c *VisaCompatibility) Total() int {
	return len(c.Eligible) + len(c.Conditional) + len(c.Blocked)
}

// Find returns the result for visaCode, searching every bucket.
func (c *VisaCompatibility) Find(visaCode string) (VisaEvalResult, bool) {
	for _, bucket := range [][]VisaEvalResult{c.Eligible, c.Conditional, c.Blocked} {
		for _, r := range bucket {
			if r.VisaCode == visaCode {
				return r, true
			}
		}
	}
	return VisaEvalResult{}, false
}
