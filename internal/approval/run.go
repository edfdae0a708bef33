package approval

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/lq/internal/markdown"
	"github.com/roach88/lq/internal/pipeline"
	"github.com/roach88/lq/internal/query"
	"github.com/roach88/lq/internal/row"
	"github.com/roach88/lq/internal/source"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass indicates overall success: the rows matched expect, or the run
	// failed with the expected error code.
	Pass bool `json:"pass"`

	// Rows are the pipeline output. Nil when the pipeline failed.
	Rows *query.Queryable[row.Row] `json:"rows,omitempty"`

	// Columns are the output columns in display order.
	Columns []string `json:"columns,omitempty"`

	// Errors contains mismatch messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a mismatch message and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Table renders the result rows as a Markdown table.
func (r *Result) Table() *markdown.Table {
	return markdown.FromRows(r.Columns, r.Rows)
}

// Run executes a scenario and checks its output.
//
// A failing pipeline is a scenario failure recorded in Result.Errors, unless
// ExpectError names its code. Only a dataset that cannot be loaded returns
// an error.
func Run(scenario *Scenario) (*Result, error) {
	rows, err := loadData(scenario)
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{pipeline.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}
	if scenario.Strict {
		opts = append(opts, pipeline.WithStrictFields())
	}

	result := NewResult()
	out, err := pipeline.NewExecutor(opts...).Run(&scenario.Pipeline, rows)
	if err != nil {
		var se *pipeline.StageError
		switch {
		case scenario.ExpectError == "":
			result.AddError(fmt.Sprintf("pipeline failed: %v", err))
		case !errors.As(err, &se):
			result.AddError(fmt.Sprintf("expected %s, got %v", scenario.ExpectError, err))
		case string(se.Code) != scenario.ExpectError:
			result.AddError(fmt.Sprintf("expected %s, got %s", scenario.ExpectError, se.Code))
		}
		return result, nil
	}

	result.Rows = out.Rows
	result.Columns = out.Columns

	if scenario.ExpectError != "" {
		result.AddError(fmt.Sprintf("expected %s, pipeline succeeded with %d rows", scenario.ExpectError, out.Rows.Len()))
		return result, nil
	}
	if scenario.Expect != nil {
		for _, msg := range Check(out.Rows, scenario.Expect) {
			result.AddError(msg)
		}
	}
	return result, nil
}

func loadData(scenario *Scenario) (*query.Queryable[row.Row], error) {
	if scenario.DataFile != "" {
		rows, err := source.LoadFile(scenario.DataFile)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		return rows, nil
	}
	rows, err := source.FromRecords(scenario.Data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: data: %w", scenario.Name, err)
	}
	return rows, nil
}

// Check compares rows with expect, position by position, and returns one
// message per mismatch. Values compare with row.Equal, so 3 matches 3.0.
func Check(rows *query.Queryable[row.Row], expect []map[string]any) []string {
	want, err := source.FromRecords(expect)
	if err != nil {
		return []string{fmt.Sprintf("invalid expect: %v", err)}
	}

	var msgs []string
	if rows.Len() != want.Len() {
		msgs = append(msgs, fmt.Sprintf("got %d rows, want %d", rows.Len(), want.Len()))
	}
	for i := range min(rows.Len(), want.Len()) {
		got, exp := rows.At(i), want.At(i)
		if !row.RowsEqual(got, exp) {
			msgs = append(msgs, fmt.Sprintf("row %d: got %s, want %s", i, canonical(got), canonical(exp)))
		}
	}
	return msgs
}

func canonical(r row.Row) string {
	data, err := row.MarshalCanonical(r)
	if err != nil {
		return fmt.Sprintf("%v", map[string]row.Value(r))
	}
	return string(data)
}

// RunWithGolden runs a scenario, fails t on any mismatch and snapshots the
// result table as testdata/approved/<name>.approved.md.
//
// To regenerate snapshots, run:
//
//	go test ./internal/approval -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, msg)
	}
	if result.Rows != nil {
		VerifyTable(t, scenario.Name, result.Table())
	}
	return nil
}
