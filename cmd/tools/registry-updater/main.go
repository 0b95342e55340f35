// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"visa-workers/internal/common/errors"
	rs "visa-workers/internal/workers/schedule/reduce-schedule"
	ev "visa-workers/internal/workers/visa/evaluate-visa-compatibility"
	lc "visa-workers/internal/workers/visa/list-visa-catalog"
	mc "visa-workers/internal/workers/visa/match-visa-candidates"
	"visa-workers/pkg/registry"
)

const defaultPath = "configs/activity-registry.json"

// workerDef is what the registry needs to know about one worker package.
type workerDef struct {
	taskType    string
	displayName string
	description string
	category    string
	inputSchema string
	outputs     []string
	timeout     time.Duration
	errors      []errors.ErrorCode
}

var jobErrors = []errors.ErrorCode{
	errors.ErrCodeInputSchemaViolation,
	errors.ErrCodeInvalidSchedule,
	errors.ErrCodeInvalidLaborProfile,
	errors.ErrCodeCatalogUnavailable,
	errors.ErrCodeCatalogLoadFailed,
	errors.ErrCodeEngineUnavailable,
	errors.ErrCodeInternal,
}

var workers = []workerDef{
	{
		taskType:    rs.TaskType,
		displayName: "Reduce Schedule",
		description: "Sums weekly working hours from schedule entries and flags weekend-only schedules",
		category:    "schedule",
		inputSchema: rs.InputSchema,
		outputs:     []string{"totalHours", "isWeekendOnly"},
		timeout:     rs.DefaultConfig().Timeout,
		errors: []errors.ErrorCode{
			errors.ErrCodeInputSchemaViolation,
			errors.ErrCodeInvalidSchedule,
			errors.ErrCodeEngineUnavailable,
			errors.ErrCodeInternal,
		},
	},
	{
		taskType:    ev.TaskType,
		displayName: "Evaluate Visa Compatibility",
		description: "Classifies every visa in the catalog as eligible, conditional or blocked for a job",
		category:    "visa",
		inputSchema: ev.InputSchema,
		outputs:     []string{"evaluationId", "jobId", "catalogVersion", "cached", "laborProfile", "eligible", "conditional", "blocked", "summary", "evaluatedAt"},
		timeout:     ev.DefaultConfig().Timeout,
		errors:      jobErrors,
	},
	{
		taskType:    mc.TaskType,
		displayName: "Match Visa Candidates",
		description: "Splits candidate workers into eligible, conditional and excluded by their visa",
		category:    "visa",
		inputSchema: mc.InputSchema,
		outputs:     []string{"jobId", "catalogVersion", "eligibleCandidates", "conditionalCandidates", "excludedCandidates", "summary"},
		timeout:     mc.DefaultConfig().Timeout,
		errors:      append([]errors.ErrorCode{errors.ErrCodeInvalidCandidates}, jobErrors...),
	},
	{
		taskType:    lc.TaskType,
		displayName: "List Visa Catalog",
		description: "Returns the active visa rule catalog and its version",
		category:    "visa",
		inputSchema: lc.InputSchema,
		outputs:     []string{"catalogVersion", "catalogSource", "loadedAt", "rules"},
		timeout:     lc.DefaultConfig().Timeout,
		errors: []errors.ErrorCode{
			errors.ErrCodeInputSchemaViolation,
			errors.ErrCodeCatalogUnavailable,
			errors.ErrCodeEngineUnavailable,
			errors.ErrCodeInternal,
		},
	},
}

// buildRegistry describes the compiled-in workers.
func buildRegistry() (*registry.ActivityRegistry, error) {
	reg := &registry.ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}

	for _, w := range workers {
		var schema map[string]interface{}
		if err := json.Unmarshal([]byte(w.inputSchema), &schema); err != nil {
			return nil, fmt.Errorf("%s: input schema: %w", w.taskType, err)
		}

		codes, retries := bpmnCodes(w.errors)
		reg.Activities = append(reg.Activities, registry.Activity{
			ID:          w.taskType,
			DisplayName: w.displayName,
			Description: w.description,
			Category:    w.category,
			TaskType:    w.taskType,
			InputSchema: schema,
			Outputs:     w.outputs,
			ErrorCodes:  codes,
			Timeout:     w.timeout.String(),
			Retries:     retries,
		})
	}
	return reg, reg.Validate()
}

// bpmnCodes maps internal codes to the BPMN codes a diagram can catch, plus
// the largest retry budget among them.
func bpmnCodes(codes []errors.ErrorCode) ([]string, int) {
	seen := map[string]bool{}
	var out []string
	retries := 0
	for _, c := range codes {
		bpmn := errors.ConvertToBPMNError(&errors.StandardError{Code: c, Retryable: errors.IsRetryableErrorCode(c)})
		if !seen[bpmn.Code] {
			seen[bpmn.Code] = true
			out = append(out, bpmn.Code)
		}
		if bpmn.Retries > retries {
			retries = bpmn.Retries
		}
	}
	sort.Strings(out)
	return out, retries
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "registry-updater",
		Short:         "Maintain the activity registry for process modellers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var out string
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write the registry for the compiled-in workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := buildRegistry()
			if err != nil {
				return err
			}
			if err := registry.Save(reg, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d activities to %s\n", len(reg.Activities), out)
			return nil
		},
	}
	generate.Flags().StringVar(&out, "out", defaultPath, "Path to registry file")

	var path string
	check := &cobra.Command{
		Use:   "check",
		Short: "Fail if the registry file is invalid or out of date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			onDisk, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := onDisk.Validate(); err != nil {
				return err
			}
			want, err := buildRegistry()
			if err != nil {
				return err
			}
			if diff := want.Diff(onDisk); len(diff) > 0 {
				return fmt.Errorf("registry out of date for %v; run registry-updater generate", diff)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(onDisk.Activities))
			return nil
		},
	}
	check.Flags().StringVar(&path, "path", defaultPath, "Path to registry file")

	root.AddCommand(generate, check)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
