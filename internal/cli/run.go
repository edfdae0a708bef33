package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/lq/internal/markdown"
	"github.com/roach88/lq/internal/pipeline"
	"github.com/roach88/lq/internal/query"
	"github.com/roach88/lq/internal/row"
	"github.com/roach88/lq/internal/source"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Data   string // dataset file (.json, .yaml, .yml, .cue)
	SQLite string // SQLite database path
	Table  string // table or view to read from SQLite
	SQL    string // ad hoc query to read from SQLite
	Strict bool   // fail on fields no input row carries
}

// RunOutput is the JSON payload of a run.
type RunOutput struct {
	Pipeline string                    `json:"pipeline"`
	Columns  []string                  `json:"columns"`
	Rows     *query.Queryable[row.Row] `json:"rows"`
	Count    int                       `json:"count"`
	Warnings []string                  `json:"warnings,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <pipeline>",
		Short: "Run a pipeline over a dataset",
		Long: `Run a YAML or CUE pipeline over a dataset and print the result.

The dataset is a JSON, YAML or CUE file (--data) or a SQLite database
(--sqlite) read through --table or --sql. SQLite is opened read-only.

Output formats:
  text      Markdown table followed by a row count
  markdown  Markdown table only
  json      {status, data: {pipeline, columns, rows, count}, trace_id}

Examples:
  lq run top.yaml --data orders.json
  lq run top.cue --sqlite shop.db --table orders --format json
  lq run top.yaml --sqlite shop.db --sql "SELECT * FROM orders WHERE paid"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Data, "data", "", "dataset file (.json, .yaml, .yml, .cue)")
	cmd.Flags().StringVar(&opts.SQLite, "sqlite", "", "SQLite database to read from")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table or view to read (with --sqlite)")
	cmd.Flags().StringVar(&opts.SQL, "sql", "", "query to read (with --sqlite)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when a stage references a field no row carries")
	cmd.MarkFlagsMutuallyExclusive("data", "sqlite")
	cmd.MarkFlagsOneRequired("data", "sqlite")
	cmd.MarkFlagsMutuallyExclusive("table", "sql")

	return cmd
}

func runPipeline(opts *RunOptions, pipelinePath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	def, err := pipeline.LoadFile(pipelinePath)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to load pipeline", err)
	}
	stages, err := pipeline.Compile(def)
	if err != nil {
		return formatter.Fail(ExitCommandError, "invalid pipeline", err)
	}
	warnings := pipeline.Lint(stages)
	for _, w := range warnings {
		formatter.VerboseLog("warning: %s", w)
	}

	rows, err := loadDataset(cmd.Context(), opts, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to load dataset", err)
	}
	formatter.VerboseLog("Loaded %d row(s)", rows.Len())

	execOpts := []pipeline.Option{pipeline.WithLogger(logger)}
	if opts.Strict {
		execOpts = append(execOpts, pipeline.WithStrictFields())
	}
	res, err := pipeline.NewExecutor(execOpts...).Execute(stages, rows)
	if err != nil {
		return formatter.Fail(ExitCommandError, "pipeline failed", err)
	}

	if formatter.IsJSON() {
		return formatter.Success(RunOutput{
			Pipeline: def.Name,
			Columns:  res.Columns,
			Rows:     res.Rows,
			Count:    res.Rows.Len(),
			Warnings: warnings,
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprint(w, markdown.FromRows(res.Columns, res.Rows).Markdown())
	if opts.Format == "text" {
		fmt.Fprintf(w, "\n%d row(s)\n", res.Rows.Len())
	}
	return nil
}

// loadDataset reads the rows selected by the data flags.
func loadDataset(ctx context.Context, opts *RunOptions, logger *slog.Logger) (*query.Queryable[row.Row], error) {
	if opts.Data != "" {
		return source.LoadFile(opts.Data)
	}

	if opts.Table == "" && opts.SQL == "" {
		return nil, fmt.Errorf("--sqlite needs --table or --sql")
	}

	db, err := source.OpenSQLite(opts.SQLite, source.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if opts.Table != "" {
		return db.Table(ctx, opts.Table)
	}
	return db.Query(ctx, opts.SQL)
}
