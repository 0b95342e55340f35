// cmd/tools/registry-updater/main_test.go
package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"visa-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildRegistry(t *testing.T) {
	reg, err := buildRegistry()
	require.NoError(t, err)
	require.Len(t, reg.Activities, 4)

	ev, ok := reg.Find("evaluate-visa-compatibility")
	require.True(t, ok)
	assert.Contains(t, ev.ErrorCodes, "INVALID_INPUT")
	assert.Contains(t, ev.ErrorCodes, "CATALOG_UNAVAILABLE")
	assert.Equal(t, 3, ev.Retries)
	assert.Equal(t, "15s", ev.Timeout)
	assert.Contains(t, ev.InputSchema, "anyOf")

	mc, _ := reg.Find("match-visa-candidates")
	assert.Contains(t, mc.ErrorCodes, "INVALID_CANDIDATES")
}

func TestGenerateThenCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity-registry.json")

	_, err := execute(t, "generate", "--out", path)
	require.NoError(t, err)

	out, err := execute(t, "check", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 4 activities")

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	reg.Activities[0].Timeout = "1h"
	require.NoError(t, registry.Save(reg, path))

	_, err = execute(t, "check", "--path", path)
	assert.ErrorContains(t, err, "reduce-schedule")
}
