// cmd/tools/visa-eval/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"visa-workers/internal/common/validation"
	"visa-workers/internal/models"
	"visa-workers/internal/schedule"
	"visa-workers/internal/visa"
)

var catalogPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "visa-eval",
		Short:         "Evaluate schedules and visa compatibility offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&catalogPath, "catalog", "", "YAML visa catalog (default: built-in catalog)")

	root.AddCommand(newReduceCmd(), newEvaluateCmd(), newCatalogCmd())
	return root
}

func newReduceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reduce [file|-]",
		Short: "Reduce a JSON array of schedule entries to weekly hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []models.ScheduleEntry
			if err := readJSON(cmd, args[0], &entries); err != nil {
				return err
			}
			if err := schedule.Validate(entries); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), schedule.Reduce(entries))
		},
	}
}

var jobSchema = validation.MustCompile("visa-eval", validation.JobConditionsSchema)

func newEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate [file|-]",
		Short: "Classify every visa in the catalog against a job's conditions",
		Long: `Reads a JSON object with either "laborProfile" or "scheduleEntries"
(plus "industryCode" and "isDepopulationArea") and prints the eligible,
conditional and blocked buckets.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if res := jobSchema.ValidateJSON(string(raw)); !res.Valid {
				return fmt.Errorf("invalid input: %v", res.GetErrorMessages())
			}

			var cond models.JobConditions
			if err := json.Unmarshal(raw, &cond); err != nil {
				return fmt.Errorf("decode input: %w", err)
			}
			profile, err := visa.ProfileFor(cond)
			if err != nil {
				return err
			}

			rules, err := loadCatalog()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), visa.Evaluate(profile, rules))
		},
	}
}

func newCatalogCmd() *cobra.Command {
	catalog := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect a visa catalog",
	}

	catalog.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the catalog and print its version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := loadCatalog()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d rules, version %s\n", len(rules), visa.Version(rules))
			return nil
		},
	})

	catalog.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Print the catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := loadCatalog()
			if err != nil {
				return err
			}
			data, err := visa.MarshalYAML(rules)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	return catalog
}

func loadCatalog() ([]models.VisaRule, error) {
	rules := visa.DefaultRules()
	if catalogPath != "" {
		data, err := os.ReadFile(catalogPath)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		if rules, err = visa.ParseYAML(data); err != nil {
			return nil, err
		}
	}
	if err := visa.Validate(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func readJSON(cmd *cobra.Command, path string, v interface{}) error {
	raw, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
