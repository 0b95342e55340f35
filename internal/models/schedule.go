// internal/models/schedule.go
package models

// DayOfWeek is the three-letter day code used by job postings.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MON"
	Tuesday   DayOfWeek = "TUE"
	Wednesday DayOfWeek = "WED"
	Thursday  DayOfWeek = "THU"
	Friday    DayOfWeek = "FRI"
	Saturday  DayOfWeek = "SAT"
	Sunday    DayOfWeek = "SUN"
)

// Days lists every valid day code in calendar order starting Monday.
var Days = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether d is one of the seven known day codes.
func (d DayOfWeek) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// IsWeekend reports whether d is SAT or SUN.
func (d DayOfWeek) IsWeekend() bool {
	return d == Saturday || d == Sunday
}

// ScheduleEntry is one working day of a job posting.
// StartTime and EndTime are "HH:MM" on a 24h clock; "24:00" marks end of day.
type ScheduleEntry struct {
	DayOfWeek DayOfWeek `json:"dayOfWeek" yaml:"dayOfWeek"`
	StartTime string    `json:"startTime" yaml:"startTime"`
	EndTime   string    `json:"endTime" yaml:"endTime"`
}

// WeeklySchedule is derived from a set of entries and never stored on its own.
type WeeklySchedule struct {
	TotalHours    float64 `json:"totalHours"`
	IsWeekendOnly bool    `json:"isWeekendOnly"`
}
