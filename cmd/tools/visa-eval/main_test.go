// cmd/tools/visa-eval/main_test.go
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"visa-workers/internal/models"
	"visa-workers/internal/visa"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	catalogPath = ""
	defer func() { catalogPath = "" }()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReduceCmd(t *testing.T) {
	out, err := run(t, `[{"dayOfWeek": "SAT", "startTime": "09:00", "endTime": "15:30"}]`, "reduce", "-")
	require.NoError(t, err)

	var ws models.WeeklySchedule
	require.NoError(t, json.Unmarshal([]byte(out), &ws))
	assert.Equal(t, models.WeeklySchedule{TotalHours: 6.5, IsWeekendOnly: true}, ws)

	_, err = run(t, `[{"dayOfWeek": "SAT", "startTime": "24:00", "endTime": "24:00"}]`, "reduce", "-")
	assert.Error(t, err)
}

func TestEvaluateCmd(t *testing.T) {
	out, err := run(t, `{"laborProfile": {"weeklyHours": 15, "industryCode": "C"}}`, "evaluate", "-")
	require.NoError(t, err)

	var compat models.VisaCompatibility
	require.NoError(t, json.Unmarshal([]byte(out), &compat))
	r, ok := compat.Find("D-2")
	require.True(t, ok)
	assert.Equal(t, models.VisaStatusBlocked, r.Status)
	assert.Equal(t, len(visa.DefaultRules()), compat.Total())

	_, err = run(t, `{"industryCode": "C"}`, "evaluate", "-")
	assert.ErrorContains(t, err, "invalid input")
}

func TestCatalogCmd(t *testing.T) {
	out, err := run(t, "", "catalog", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, visa.Version(visa.DefaultRules()))

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - visaCode: F-5\n    visaName: 영주\n"), 0o600))

	out, err = run(t, "", "--catalog", path, "catalog", "dump")
	require.NoError(t, err)
	rules, err := visa.ParseYAML([]byte(out))
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "F-5", rules[0].VisaCode)

	require.NoError(t, os.WriteFile(path, []byte("rules: []\n"), 0o600))
	_, err = run(t, "", "--catalog", path, "catalog", "validate")
	assert.Error(t, err)
}
