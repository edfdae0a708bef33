package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lq/internal/pipeline"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Name     string   `json:"name"`
	Stages   []string `json:"stages"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <pipeline>",
		Short: "Check a pipeline without running it",
		Long: `Load, compile and lint a YAML or CUE pipeline.

Compile errors (unknown operators, missing fields, stages setting several
keys) exit with code 2. Lint warnings are printed but do not fail.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	def, err := pipeline.LoadFile(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to load pipeline", err)
	}
	formatter.VerboseLog("Loaded pipeline %q with %d stage(s)", def.Name, len(def.Stages))

	stages, err := pipeline.Compile(def)
	if err != nil {
		return formatter.Fail(ExitCommandError, "invalid pipeline", err)
	}

	result := ValidationResult{
		Valid:    true,
		Name:     def.Name,
		Stages:   make([]string, len(stages)),
		Warnings: pipeline.Lint(stages),
	}
	for i, s := range stages {
		result.Stages[i] = s.Kind()
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ %s: %d stage(s) valid\n", result.Name, len(result.Stages))
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	return nil
}
