// internal/visa/conditions.go
package visa

import (
	"visa-workers/internal/common/errors"
	"visa-workers/internal/models"
	"visa-workers/internal/schedule"
)

// ProfileFor resolves the labor profile a job should be evaluated with.
func ProfileFor(cond models.JobConditions) (models.JobLaborProfile, error) {
	if cond.LaborProfile != nil {
		p := *cond.LaborProfile
		if err := ValidateProfile(p); err != nil {
			return models.JobLaborProfile{}, err
		}
		return p, nil
	}

	if cond.ScheduleEntries == nil {
		return models.JobLaborProfile{}, errors.NewInvalidLaborProfileError("either laborProfile or scheduleEntries is required")
	}
	if err := schedule.Validate(cond.ScheduleEntries); err != nil {
		return models.JobLaborProfile{}, err
	}
	return schedule.Profile(cond.ScheduleEntries, cond.IndustryCode, cond.IsDepopulationArea), nil
}
