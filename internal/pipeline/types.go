package pipeline

import (
	"fmt"

	"github.com/roach88/lq/internal/query"
	"github.com/roach88/lq/internal/row"
)

// Stage is one compiled pipeline step.
//
// This is a sealed interface - only types in this package implement it.
// The executor switches exhaustively over the stage types:
//   - Where: keep rows matching a comparison
//   - Select: project and rename fields
//   - OrderBy: stable sort on one field
//   - Distinct: drop duplicate rows (whole row or listed fields)
//   - Skip, Take: saturating pagination
//   - GroupBy: one summary row per key
//   - Aggregate: one summary row for the whole input
//   - Split: one row per part of a delimited string field
type Stage interface {
	stageNode() // Marker method - seals interface to this package

	// Kind returns the definition key of the stage ("where", "order_by", ...).
	Kind() string
}

// Op is a Where comparison operator.
type Op string

const (
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpLt       Op = "lt"
	OpLe       Op = "le"
	OpGt       Op = "gt"
	OpGe       Op = "ge"
	OpContains Op = "contains"
)

// Where keeps rows whose Field compares to Value under Op.
//
// eq and ne use row.Equal, so Int(3) equals Float(3). The ordering
// operators only match values of the same kind: "age lt 30" never matches
// a row where age is missing or a string. contains is a substring test on
// the formatted field value.
type Where struct {
	Field string
	Op    Op
	Value row.Value
}

func (Where) stageNode() {}
func (Where) Kind() string { return "where" }

// Projection selects one field, optionally renamed to As.
type Projection struct {
	Field string
	As    string
}

// Name returns the output column name.
func (p Projection) Name() string {
	if p.As != "" {
		return p.As
	}
	return p.Field
}

// Select projects every row onto Fields. Missing fields become Null.
type Select struct {
	Fields []Projection
}

func (Select) stageNode() {}
func (Select) Kind() string { return "select" }

// OrderBy stably sorts rows on Field using row.Compare.
//
// A pipeline sorts on several keys by chaining OrderBy stages from the
// least to the most significant key.
type OrderBy struct {
	Field string
	Order query.Order
}

func (OrderBy) stageNode() {}
func (OrderBy) Kind() string { return "order_by" }

// Distinct keeps the first of each set of equal rows. With Fields set,
// rows are compared on those fields only.
type Distinct struct {
	Fields []string
}

func (Distinct) stageNode() {}
func (Distinct) Kind() string { return "distinct" }

// Skip drops the first N rows.
type Skip struct {
	N int
}

func (Skip) stageNode() {}
func (Skip) Kind() string { return "skip" }

// Take keeps the first N rows.
type Take struct {
	N int
}

func (Take) stageNode() {}
func (Take) Kind() string { return "take" }

// AggFunc names an aggregate function.
type AggFunc string

const (
	AggCount AggFunc = "count"
	AggSum   AggFunc = "sum"
	AggAvg   AggFunc = "avg"
	AggMin   AggFunc = "min"
	AggMax   AggFunc = "max"
	AggFirst AggFunc = "first"
	AggLast  AggFunc = "last"
)

// AggregateField computes Func over Field into the column As.
type AggregateField struct {
	Func  AggFunc
	Field string
	As    string
}

// Name returns the output column name: As when set, otherwise
// "func_field" ("count" for a bare count).
func (a AggregateField) Name() string {
	switch {
	case a.As != "":
		return a.As
	case a.Field == "":
		return string(a.Func)
	default:
		return fmt.Sprintf("%s_%s", a.Func, a.Field)
	}
}

// GroupBy produces one row per distinct Key value, in first-seen order,
// holding the key column and one column per aggregate.
type GroupBy struct {
	Key        string
	Aggregates []AggregateField
}

func (GroupBy) stageNode() {}
func (GroupBy) Kind() string { return "group_by" }

// Aggregate reduces the whole input to a single row.
type Aggregate struct {
	Aggregates []AggregateField
}

func (Aggregate) stageNode() {}
func (Aggregate) Kind() string { return "aggregate" }

// Split replaces each row with one row per Separator-delimited part of its
// Field. Rows whose Field is not a string pass through unchanged.
type Split struct {
	Field     string
	Separator string
}

func (Split) stageNode() {}
func (Split) Kind() string { return "split" }
