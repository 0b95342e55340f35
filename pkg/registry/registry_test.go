// pkg/registry/registry_test.go
package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			{ID: "reduce-schedule", DisplayName: "Reduce Schedule", Category: "schedule", TaskType: "reduce-schedule"},
			{ID: "list-visa-catalog", DisplayName: "List Visa Catalog", Category: "visa", TaskType: "list-visa-catalog"},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity-registry.json")
	require.NoError(t, Save(sample(), path))

	got, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
	assert.Empty(t, sample().Diff(got))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, sample().Validate())

	tests := []struct {
		name   string
		mutate func(r *ActivityRegistry)
		msg    string
	}{
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }, "no activities"},
		{"duplicate id", func(r *ActivityRegistry) { r.Activities[1].ID = "reduce-schedule" }, "duplicate activity ID"},
		{"duplicate task type", func(r *ActivityRegistry) { r.Activities[1].TaskType = "reduce-schedule" }, "duplicate task type"},
		{"missing category", func(r *ActivityRegistry) { r.Activities[0].Category = "" }, "Category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sample()
			tt.mutate(r)
			assert.ErrorContains(t, r.Validate(), tt.msg)
		})
	}
}

func TestDiff(t *testing.T) {
	a, b := sample(), sample()
	b.Activities[0].Timeout = "5s"
	b.Activities = append(b.Activities, Activity{ID: "x", TaskType: "x"})

	assert.Equal(t, []string{"reduce-schedule", "x"}, a.Diff(b))
}
