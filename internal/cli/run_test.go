package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommand_TextOutput(t *testing.T) {
	dir := t.TempDir()
	pipelinePath := writeFile(t, dir, "top.yaml", topCustomersYAML)
	dataPath := writeFile(t, dir, "orders.json", ordersJSON)

	out, _, err := execute("run", pipelinePath, "--data", dataPath)
	require.NoError(t, err)
	assert.Equal(t, topCustomersTable+"\n2 row(s)\n", out)
}

func TestRunCommand_MarkdownOutput(t *testing.T) {
	dir := t.TempDir()
	pipelinePath := writeFile(t, dir, "top.yaml", topCustomersYAML)
	dataPath := writeFile(t, dir, "orders.json", ordersJSON)

	out, _, err := execute("run", pipelinePath, "--data", dataPath, "--format", "markdown")
	require.NoError(t, err)
	assert.Equal(t, topCustomersTable, out)
}

func TestRunCommand_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	pipelinePath := writeFile(t, dir, "top.yaml", topCustomersYAML)
	dataPath := writeFile(t, dir, "orders.json", ordersJSON)

	out, _, err := execute("run", pipelinePath, "--data", dataPath, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Pipeline string           `json:"pipeline"`
			Columns  []string         `json:"columns"`
			Rows     []map[string]any `json:"rows"`
			Count    int              `json:"count"`
		} `json:"data"`
		TraceID string `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "top-customers", resp.Data.Pipeline)
	assert.Equal(t, []string{"customer", "spent", "orders"}, resp.Data.Columns)
	assert.Equal(t, 2, resp.Data.Count)
	require.Len(t, resp.Data.Rows, 2)
	assert.Equal(t, map[string]any{"customer": "cid", "spent": 99.0, "orders": 1.0}, resp.Data.Rows[0])
	assert.Equal(t, map[string]any{"customer": "ann", "spent": 40.5, "orders": 2.0}, resp.Data.Rows[1])

	id, err := uuid.Parse(resp.TraceID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
}

func TestRunCommand_EmptyResultJSON(t *testing.T) {
	dir := t.TempDir()
	pipelinePath := writeFile(t, dir, "none.yaml", `name: none
stages:
  - where: {field: status, op: eq, value: refunded}
`)
	dataPath := writeFile(t, dir, "orders.json", ordersJSON)

	out, _, err := execute("run", pipelinePath, "--data", dataPath, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Rows  []any `json:"rows"`
			Count int   `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.NotNil(t, resp.Data.Rows, "empty result encodes as [] not null")
	assert.Empty(t, resp.Data.Rows)
	assert.Equal(t, 0, resp.Data.Count)
}

func TestRunCommand_CUEPipeline(t *testing.T) {
	dir := t.TempDir()
	pipelinePath := writeFile(t, dir, "names.cue", `name: "names"
stages: [
	{select: [{field: "customer", as: "who"}]},
	{distinct: {fields: ["who"]}},
	{order_by: {field: "who"}},
]
`)
	dataPath := writeFile(t, dir, "orders.json", ordersJSON)

	out, _, err := execute("run", pipelinePath, "--data", dataPath, "--format", "markdown")
	require.NoError(t, err)
	assert.Equal(t, "| who |\n| --- |\n| ann |\n| bob |\n| cid |\n", out)
}

func TestRunCommand_SQLiteTable(t *testing.T) {
	dir := t.TempDir()
	pipelinePath := writeFile(t, dir, "top.yaml", topCustomersYAML)
	dbPath := createShopDB(t, dir)

	out, _, err := execute("run", pipelinePath, "--sqlite", dbPath, "--table", "orders")
	require.NoError(t, err)
	assert.Equal(t, topCustomersTable+"\n2 row(s)\n", out)
}

func TestRunCommand_SQLiteQuery(t *testing.T) {
	dir := t.TempDir()
	pipelinePath := writeFile(t, dir, "top.yaml", topCustomersYAML)
	dbPath := createShopDB(t, dir)

	out, _, err := execute("run", pipelinePath,
		"--sqlite", dbPath,
		"--sql", "SELECT * FROM orders WHERE total > 20",
		"--format", "markdown")
	require.NoError(t, err)
	assert.Equal(t, "| customer | spent | orders |\n"+
		"| --- | --- | --- |\n"+
		"| cid | 99 | 1 |\n"+
		"| ann | 30.5 | 1 |\n", out)
}

func TestRunCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	pipelinePath := writeFile(t, dir, "top.yaml", topCustomersYAML)
	dataPath := writeFile(t, dir, "orders.json", ordersJSON)
	dbPath := createShopDB(t, dir)
	textPath := writeFile(t, dir, "orders.txt", ordersJSON)
	badPath := writeFile(t, dir, "bad.yaml", `name: bad
stages:
  - where: {field: status, op: like, value: paid}
`)
	strictPath := writeFile(t, dir, "strict.yaml", `name: strict
stages:
  - where: {field: colour, op: eq, value: red}
`)

	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"invalid_stage", []string{"run", badPath, "--data", dataPath}, "INVALID_STAGE"},
		{"missing_pipeline", []string{"run", filepath.Join(dir, "none.yaml"), "--data", dataPath}, "LQ_ERROR"},
		{"missing_dataset", []string{"run", pipelinePath, "--data", filepath.Join(dir, "none.json")}, "NOT_FOUND"},
		{"unsupported_dataset", []string{"run", pipelinePath, "--data", textPath}, "UNSUPPORTED_FORMAT"},
		{"unknown_table", []string{"run", pipelinePath, "--sqlite", dbPath, "--table", "customers"}, "UNKNOWN_TABLE"},
		{"sqlite_without_table", []string{"run", pipelinePath, "--sqlite", dbPath}, "LQ_ERROR"},
		{"strict_unknown_field", []string{"run", strictPath, "--data", dataPath, "--strict"}, "UNKNOWN_FIELD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(append(tt.args, "--format", "json")...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestRunCommand_NonStrictUnknownField(t *testing.T) {
	dir := t.TempDir()
	pipelinePath := writeFile(t, dir, "colour.yaml", `name: colour
stages:
  - where: {field: colour, op: eq, value: red}
`)
	dataPath := writeFile(t, dir, "orders.json", ordersJSON)

	out, _, err := execute("run", pipelinePath, "--data", dataPath)
	require.NoError(t, err)
	assert.Contains(t, out, "0 row(s)")
}

func TestRunCommand_FlagGroups(t *testing.T) {
	dir := t.TempDir()
	pipelinePath := writeFile(t, dir, "top.yaml", topCustomersYAML)
	dataPath := writeFile(t, dir, "orders.json", ordersJSON)
	dbPath := createShopDB(t, dir)

	tests := []struct {
		name string
		args []string
	}{
		{"no_dataset", []string{"run", pipelinePath}},
		{"data_and_sqlite", []string{"run", pipelinePath, "--data", dataPath, "--sqlite", dbPath}},
		{"table_and_sql", []string{"run", pipelinePath, "--sqlite", dbPath, "--table", "orders", "--sql", "SELECT 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestRunCommand_VerboseGoesToStderr(t *testing.T) {
	dir := t.TempDir()
	pipelinePath := writeFile(t, dir, "top.yaml", topCustomersYAML)
	dataPath := writeFile(t, dir, "orders.json", ordersJSON)

	out, errOut, err := execute("run", pipelinePath, "--data", dataPath, "--format", "json", "-v")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Loaded 4 row(s)")
	assert.True(t, json.Valid([]byte(out)), "stdout stays valid JSON: %s", out)
}
