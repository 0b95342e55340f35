// internal/workers/visa/match-visa-candidates/handler_test.go
package matchcandidates

import (
	"context"
	"testing"

	"visa-workers/internal/common/errors"
	"visa-workers/internal/common/logger"
	"visa-workers/internal/common/testutil"
	"visa-workers/internal/models"
	"visa-workers/internal/visa"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	store := visa.NewCatalogStore(visa.NewStaticSource(nil), logger.NewNoOpLogger())
	require.NoError(t, store.Load(context.Background()))

	h, err := NewHandler(HandlerOptions{Logger: logger.NewTestLogger(t), Store: store})
	require.NoError(t, err)
	return h
}

func workerIDs(ms []models.CandidateMatch) []string {
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.WorkerID
	}
	return ids
}

func TestHandle_Match(t *testing.T) {
	client := testutil.NewJobClient()

	newTestHandler(t).Handle(client, testutil.NewJob(TaskType, `{
		"jobId": "job-7",
		"laborProfile": {"weeklyHours": 30, "industryCode": "I"},
		"candidates": [
			{"workerId": "w-1", "visaCode": "F-4"},
			{"workerId": "w-2", "visaCode": "D-2"},
			{"workerId": "w-3", "visaCode": "E-9"},
			{"workerId": "w-4", "visaCode": "X-1"},
			{"workerId": "w-5", "visaCode": "H-2"}
		]
	}`, 3))

	var out Output
	testutil.CompletedVariables(t, client, &out)

	assert.Equal(t, "job-7", out.JobID)
	assert.Equal(t, []string{"w-1", "w-5"}, workerIDs(out.EligibleCandidates))
	assert.Equal(t, []string{"w-2"}, workerIDs(out.ConditionalCandidates))
	assert.Equal(t, []string{"w-3", "w-4"}, workerIDs(out.ExcludedCandidates))
	assert.Equal(t, Summary{TotalEligible: 2, TotalConditional: 1, TotalExcluded: 2}, out.Summary)

	assert.Contains(t, out.ConditionalCandidates[0].Conditions, visa.HoursCapCondition(25, 30))
	assert.Equal(t, []string{visa.ReasonUnknownVisa}, out.ExcludedCandidates[1].Reasons)
}

func TestHandle_RejectsInput(t *testing.T) {
	tests := []struct {
		name string
		vars string
		code string
	}{
		{"missing candidates", `{"laborProfile": {"weeklyHours": 10}}`, "INVALID_INPUT"},
		{"missing job", `{"candidates": []}`, "INVALID_INPUT"},
		{"blank worker", `{"laborProfile": {"weeklyHours": 10}, "candidates": [{"workerId": "", "visaCode": "F-4"}]}`, "INVALID_INPUT"},
		{"duplicate worker", `{"laborProfile": {"weeklyHours": 10}, "candidates": [{"workerId": "w", "visaCode": "F-4"}, {"workerId": "w", "visaCode": "H-2"}]}`, "INVALID_CANDIDATES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testutil.NewJobClient()
			newTestHandler(t).Handle(client, testutil.NewJob(TaskType, tt.vars, 3))
			assert.Equal(t, tt.code, testutil.ThrownCode(t, client))
		})
	}
}

func TestExecute_NoCandidates(t *testing.T) {
	out, err := newTestHandler(t).Execute(context.Background(), &Input{
		JobConditions: models.JobConditions{ScheduleEntries: []models.ScheduleEntry{}},
	})
	require.NoError(t, err)
	assert.Empty(t, out.EligibleCandidates)
	assert.NotNil(t, out.ExcludedCandidates)
	assert.Equal(t, Summary{}, out.Summary)
}

func TestExecute_InvalidProfile(t *testing.T) {
	_, err := newTestHandler(t).Execute(context.Background(), &Input{
		JobConditions: models.JobConditions{LaborProfile: &models.JobLaborProfile{WeeklyHours: -1}},
	})
	assert.Equal(t, errors.ErrCodeInvalidLaborProfile, errors.Normalize(err).Code)
}
