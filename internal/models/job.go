// internal/models/job.go
package models

// JobConditions is what a posting supplies to be evaluated: either a ready
// labor profile, or schedule entries plus the fields a profile is built from.
// LaborProfile wins when both are present.
type JobConditions struct {
	JobID              string           `json:"jobId,omitempty"`
	LaborProfile       *JobLaborProfile `json:"laborProfile,omitempty"`
	ScheduleEntries    []ScheduleEntry  `json:"scheduleEntries,omitempty"`
	IndustryCode       string           `json:"industryCode,omitempty"`
	IsDepopulationArea bool             `json:"isDepopulationArea,omitempty"`
}
