// internal/workers/schedule/reduce-schedule/models.go
package reduceschedule

import (
	"visa-workers/internal/common/validation"
	"visa-workers/internal/models"
)

type Input struct {
	ScheduleEntries []models.ScheduleEntry `json:"scheduleEntries"`
}

type Output struct {
	TotalHours    float64 `json:"totalHours"`
	IsWeekendOnly bool    `json:"isWeekendOnly"`
}

// InputSchema requires scheduleEntries; an empty array is allowed.
var InputSchema = `{
	"type": "object",
	"required": ["scheduleEntries"],
	"properties": {
		"scheduleEntries": ` + validation.ScheduleEntriesSchema + `
	}
}`
