package cli

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

const ordersJSON = `[
  {"id": 1, "customer": "ann", "status": "paid", "total": 30.5},
  {"id": 2, "customer": "bob", "status": "open", "total": 12},
  {"id": 3, "customer": "ann", "status": "paid", "total": 10},
  {"id": 4, "customer": "cid", "status": "paid", "total": 99}
]`

const topCustomersYAML = `name: top-customers
stages:
  - where: {field: status, op: eq, value: paid}
  - group_by:
      key: customer
      aggregates:
        - {func: sum, field: total, as: spent}
        - {func: count, as: orders}
  - order_by: {field: spent, order: desc}
  - take: 2
`

const topCustomersTable = "| customer | spent | orders |\n" +
	"| --- | --- | --- |\n" +
	"| cid | 99 | 1 |\n" +
	"| ann | 40.5 | 2 |\n"

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// createShopDB builds a SQLite database holding the orders fixture.
func createShopDB(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "shop.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE orders (id INTEGER PRIMARY KEY, customer TEXT, status TEXT, total REAL);
		INSERT INTO orders VALUES (1, 'ann', 'paid', 30.5);
		INSERT INTO orders VALUES (2, 'bob', 'open', 12);
		INSERT INTO orders VALUES (3, 'ann', 'paid', 10);
		INSERT INTO orders VALUES (4, 'cid', 'paid', 99);
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	return path
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
