// internal/workers/visa/list-visa-catalog/handler_test.go
package listcatalog

import (
	"context"
	"testing"

	"visa-workers/internal/common/logger"
	"visa-workers/internal/common/testutil"
	"visa-workers/internal/visa"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, load bool) *Handler {
	t.Helper()
	store := visa.NewCatalogStore(visa.NewStaticSource(nil), logger.NewNoOpLogger())
	if load {
		require.NoError(t, store.Load(context.Background()))
	}
	h, err := NewHandler(HandlerOptions{Logger: logger.NewTestLogger(t), Store: store})
	require.NoError(t, err)
	return h
}

func TestHandle_ListsCatalog(t *testing.T) {
	client := testutil.NewJobClient()
	newTestHandler(t, true).Handle(client, testutil.NewJob(TaskType, `{}`, 3))

	var out Output
	testutil.CompletedVariables(t, client, &out)

	defaults := visa.DefaultRules()
	assert.Equal(t, visa.Version(defaults), out.CatalogVersion)
	assert.Equal(t, "static", out.CatalogSource)
	require.Len(t, out.Rules, len(defaults))
	assert.Equal(t, "D-2", out.Rules[0].VisaCode)
	assert.Equal(t, 25.0, *out.Rules[0].MaxWeeklyHours)
}

func TestHandle_FiltersCodes(t *testing.T) {
	client := testutil.NewJobClient()
	newTestHandler(t, true).Handle(client, testutil.NewJob(TaskType, `{"visaCodes": ["F-5", "D-4", "Z-9"]}`, 3))

	var out Output
	testutil.CompletedVariables(t, client, &out)
	require.Len(t, out.Rules, 2)
	assert.Equal(t, "D-4", out.Rules[0].VisaCode, "catalog order is kept")
	assert.Equal(t, "F-5", out.Rules[1].VisaCode)
}

func TestHandle_NotLoaded(t *testing.T) {
	client := testutil.NewJobClient()
	newTestHandler(t, false).Handle(client, testutil.NewJob(TaskType, `{}`, 3))

	require.Len(t, client.Gateway.Failed, 1)
	assert.Empty(t, client.Gateway.Completed)
}

func TestExecute_ReturnsCopy(t *testing.T) {
	h := newTestHandler(t, true)

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	out.Rules[0].ExcludedIndustries[0] = "Z"

	again, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Equal(t, "C", again.Rules[0].ExcludedIndustries[0])
}
