package approval

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/lq/internal/markdown"
	"github.com/roach88/lq/internal/query"
	"github.com/roach88/lq/internal/row"
)

// FixtureDir is where approved snapshots live, relative to the package
// under test.
const FixtureDir = "testdata/approved"

// Verifiable is content that can be snapshotted.
type Verifiable interface {
	// Approval returns the snapshot bytes.
	Approval() ([]byte, error)

	// Extension returns the file extension, including the dot.
	Extension() string
}

// Verify compares v with testdata/approved/<name>.approved<ext>.
//
// To accept new output, run:
//
//	go test ./... -update
func Verify(t testing.TB, name string, v Verifiable) {
	t.Helper()

	data, err := v.Approval()
	if err != nil {
		t.Fatalf("render %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(FixtureDir),
		goldie.WithNameSuffix(".approved"+v.Extension()),
	)
	g.Assert(t, name, data)
}

// VerifyTable snapshots a Markdown table.
func VerifyTable(t testing.TB, name string, table *markdown.Table) {
	t.Helper()
	Verify(t, name, table)
}

// VerifyJSON snapshots v as canonical JSON followed by a newline.
func VerifyJSON(t testing.TB, name string, v any) {
	t.Helper()
	Verify(t, name, canonicalJSON{v: v})
}

// VerifyAll snapshots one line per item under a header line.
func VerifyAll[T any](t testing.TB, name, header string, items []T, format func(T) string) {
	t.Helper()
	lines := query.Select(query.From(items), format)
	Verify(t, name, text{header: header, lines: lines.Slice()})
}

type canonicalJSON struct {
	v any
}

func (c canonicalJSON) Approval() ([]byte, error) {
	data, err := row.MarshalCanonical(c.v)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (canonicalJSON) Extension() string { return ".json" }

type text struct {
	header string
	lines  []string
}

func (x text) Approval() ([]byte, error) {
	var out []byte
	if x.header != "" {
		out = append(out, x.header...)
		out = append(out, "\n\n"...)
	}
	for _, l := range x.lines {
		out = append(out, l...)
		out = append(out, '\n')
	}
	return out, nil
}

func (text) Extension() string { return ".txt" }
