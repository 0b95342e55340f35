// internal/schedule/reducer.go
package schedule

import (
	"fmt"
	"strconv"

	"visa-workers/internal/common/errors"
	"visa-workers/internal/models"
)

const (
	minutesPerHour = 60
	endOfDay       = 24 * minutesPerHour
)

// ParseClock converts "HH:MM" into minutes since midnight.
// "24:00" is accepted as the end-of-day sentinel (1440).
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("clock %q: want HH:MM", s)
	}
	hh, err := strconv.Atoi(s[:2])
	if err != nil || !isDigits(s[:2]) {
		return 0, fmt.Errorf("clock %q: bad hour", s)
	}
	mm, err := strconv.Atoi(s[3:])
	if err != nil || !isDigits(s[3:]) {
		return 0, fmt.Errorf("clock %q: bad minute", s)
	}
	if mm > 59 || hh > 24 || (hh == 24 && mm != 0) {
		return 0, fmt.Errorf("clock %q: out of range", s)
	}
	return hh*minutesPerHour + mm, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Reduce sums the working time of entries and flags weekend-only schedules.
// An entry whose end is not after its start, or whose clock cannot be parsed,
// contributes nothing.
func Reduce(entries []models.ScheduleEntry) models.WeeklySchedule {
	if len(entries) == 0 {
		return models.WeeklySchedule{}
	}

	total := 0
	weekendOnly := true
	for _, e := range entries {
		if !e.DayOfWeek.IsWeekend() {
			weekendOnly = false
		}
		total += entryMinutes(e)
	}

	return models.WeeklySchedule{
		TotalHours:    roundTenths(total),
		IsWeekendOnly: weekendOnly,
	}
}

func entryMinutes(e models.ScheduleEntry) int {
	start, err := ParseClock(e.StartTime)
	if err != nil {
		return 0
	}
	end, err := ParseClock(e.EndTime)
	if err != nil {
		return 0
	}
	if end <= start {
		return 0
	}
	return end - start
}

// roundTenths turns minutes into hours rounded half-up at the tenths digit.
// One tenth of an hour is 6 minutes, so 3 minutes is the half point.
func roundTenths(minutes int) float64 {
	tenths := (minutes + 3) / 6
	return float64(tenths) / 10
}

// Validate rejects entry sets that must not reach Reduce: unknown day codes,
// malformed clocks and repeated days.
func Validate(entries []models.ScheduleEntry) error {
	seen := make(map[models.DayOfWeek]bool, len(entries))
	for i, e := range entries {
		if !e.DayOfWeek.Valid() {
			return errors.NewInvalidScheduleError(fmt.Sprintf("entry %d: unknown day %q", i, e.DayOfWeek))
		}
		if seen[e.DayOfWeek] {
			return errors.NewInvalidScheduleError(fmt.Sprintf("entry %d: duplicate day %s", i, e.DayOfWeek))
		}
		seen[e.DayOfWeek] = true

		start, err := ParseClock(e.StartTime)
		if err != nil {
			return errors.NewInvalidScheduleError(fmt.Sprintf("entry %d: start: %v", i, err))
		}
		if start == endOfDay {
			return errors.NewInvalidScheduleError(fmt.Sprintf("entry %d: start cannot be 24:00", i))
		}
		if _, err := ParseClock(e.EndTime); err != nil {
			return errors.NewInvalidScheduleError(fmt.Sprintf("entry %d: end: %v", i, err))
		}
	}
	return nil
}

// Profile builds the labor profile for a job from its schedule.
// Weekly hours and the weekend flag always come from a single Reduce call.
func Profile(entries []models.ScheduleEntry, industryCode string, isDepopulationArea bool) models.JobLaborProfile {
	ws := Reduce(entries)
	return models.JobLaborProfile{
		WeeklyHours:        ws.TotalHours,
		IndustryCode:       industryCode,
		IsWeekendOnly:      ws.IsWeekendOnly,
		IsDepopulationArea: isDepopulationArea,
	}
}
