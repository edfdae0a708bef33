package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/lq/internal/query"
	"github.com/roach88/lq/internal/row"
)

// SQLite reads datasets from a SQLite database opened read-only.
//
// Column values map onto row values by their storage class:
//
//	INTEGER → row.Int    REAL → row.Float
//	TEXT    → row.String BLOB → row.String
//	NULL    → row.Null
//
// Columns declared BOOLEAN or as a date/time type come back as row.Bool
// and RFC 3339 strings, following the driver's conversions.
type SQLite struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// SQLiteOption configures a SQLite source.
type SQLiteOption func(*SQLite)

// WithLogger sets the logger for query tracing. Default: slog.Default().
func WithLogger(logger *slog.Logger) SQLiteOption {
	return func(s *SQLite) {
		s.logger = logger
	}
}

// OpenSQLite opens the database at path read-only. The file must exist.
func OpenSQLite(path string, opts ...SQLiteOption) (*SQLite, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "database not found", Err: err}
		}
		return nil, fmt.Errorf("stat database %s: %w", path, err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Reads only, one connection is enough.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLite{db: db, path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Tables lists user tables and views in name order.
func (s *SQLite) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name COLLATE BINARY`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return names, nil
}

// Table reads every row of the named table or view, in rowid order for
// tables. The name must appear in Tables; it is then quoted as an
// identifier, never interpolated raw.
func (s *SQLite) Table(ctx context.Context, name string) (*query.Queryable[row.Row], error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(tables, name) {
		return nil, &LoadError{
			Code:    ErrCodeUnknownTable,
			Path:    s.path,
			Message: fmt.Sprintf("no table or view named %q", name),
		}
	}
	return s.Query(ctx, "SELECT * FROM "+quoteIdent(name))
}

// Query runs a read-only SQL query and returns its rows. Placeholders are
// bound from args.
func (s *SQLite) Query(ctx context.Context, sqlText string, args ...any) (*query.Queryable[row.Row], error) {
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.path, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := query.New[row.Row]()
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", out.Len(), err)
		}

		r := make(row.Row, len(cols))
		for i, col := range cols {
			v, err := row.FromAny(vals[i])
			if err != nil {
				return nil, decodeFailed(s.path, fmt.Sprintf("column %q", col), err)
			}
			r[col] = v
		}
		out.Add(r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	s.logger.Debug("sqlite query", "path", s.path, "columns", len(cols), "rows", out.Len())
	return out, nil
}

// quoteIdent quotes name as a SQLite identifier.
func quoteIdent(name string) string {
	var b []byte
	b = append(b, '"')
	for i := 0; i < len(name); i++ {
		if name[i] == '"' {
			b = append(b, '"')
		}
		b = append(b, name[i])
	}
	b = append(b, '"')
	return string(b)
}
