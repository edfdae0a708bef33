package pipeline

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/lq/internal/query"
	"github.com/roach88/lq/internal/row"
)

// Result is the output of a pipeline run.
type Result struct {
	// Rows holds the result rows in pipeline order.
	Rows *query.Queryable[row.Row]

	// Columns lists the output columns. After select, group_by or
	// aggregate it is the order that stage declared; otherwise it is the
	// first-seen field order across rows, each row's fields in canonical
	// key order.
	Columns []string
}

// Executor runs compiled stages over an in-memory dataset.
//
// An Executor holds no per-run state and may be reused and shared between
// goroutines.
type Executor struct {
	logger *slog.Logger
	strict bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for stage tracing. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithStrictFields makes a stage that references a field no input row
// carries fail with ErrCodeUnknownField instead of reading null.
// Empty inputs are never rejected.
func WithStrictFields() Option {
	return func(e *Executor) {
		e.strict = true
	}
}

// NewExecutor creates an Executor.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run compiles def and executes it over rows. rows is not modified.
func (e *Executor) Run(def *Definition, rows *query.Queryable[row.Row]) (*Result, error) {
	stages, err := Compile(def)
	if err != nil {
		return nil, err
	}
	for _, w := range Lint(stages) {
		e.logger.Debug("pipeline lint", "pipeline", def.Name, "warning", w)
	}

	res, err := e.Execute(stages, rows)
	if err != nil {
		e.logger.Error("pipeline failed", "pipeline", def.Name, "error", err)
		return nil, err
	}
	e.logger.Info("pipeline executed",
		"pipeline", def.Name,
		"stages", len(stages),
		"rows_in", rows.Len(),
		"rows_out", res.Rows.Len(),
	)
	return res, nil
}

// Execute runs already compiled stages over rows.
func (e *Executor) Execute(stages []Stage, rows *query.Queryable[row.Row]) (*Result, error) {
	current := rows
	if current == nil {
		current = query.New[row.Row]()
	}
	var columns []string

	for i, stage := range stages {
		if e.strict {
			if err := checkFields(i, stage, current); err != nil {
				return nil, err
			}
		}

		in := current.Len()
		next, cols, err := e.apply(i, stage, current)
		if err != nil {
			return nil, err
		}
		current = next
		if cols != nil {
			columns = cols
		}

		e.logger.Debug("stage executed",
			"index", i,
			"stage", stage.Kind(),
			"rows_in", in,
			"rows_out", current.Len(),
		)
	}

	if columns == nil {
		columns = inferColumns(current)
	}
	return &Result{Rows: current, Columns: columns}, nil
}

// apply runs one stage. cols is non-nil when the stage fixes the output
// columns.
func (e *Executor) apply(i int, stage Stage, rows *query.Queryable[row.Row]) (out *query.Queryable[row.Row], cols []string, err error) {
	switch s := stage.(type) {
	case Where:
		return query.Where(rows, s.match), nil, nil

	case Select:
		cols = make([]string, len(s.Fields))
		for j, p := range s.Fields {
			cols[j] = p.Name()
		}
		return query.Select(rows, s.project), cols, nil

	case OrderBy:
		return query.OrderByFunc(rows, s.Order, field(s.Field), row.Compare), nil, nil

	case Distinct:
		if len(s.Fields) == 0 {
			return query.DistinctFunc(rows, row.RowsEqual), nil, nil
		}
		return query.DistinctFunc(rows, func(a, b row.Row) bool {
			for _, f := range s.Fields {
				if !row.Equal(a.Get(f), b.Get(f)) {
					return false
				}
			}
			return true
		}), nil, nil

	case Skip:
		return query.Skip(rows, s.N), nil, nil

	case Take:
		return query.Take(rows, s.N), nil, nil

	case GroupBy:
		groups := query.GroupBy(rows, func(r row.Row) row.Value {
			return row.Normalize(r.Get(s.Key))
		})
		out, err := query.TrySelect(groups, func(g query.Entry[row.Value, *query.Queryable[row.Row]]) (row.Row, error) {
			r, err := aggregate(i, s.Kind(), s.Aggregates, g.Value)
			if err != nil {
				return nil, err
			}
			r[s.Key] = g.Key
			return r, nil
		})
		if err != nil {
			return nil, nil, err
		}
		cols = append([]string{s.Key}, aggregateNames(s.Aggregates)...)
		return out, cols, nil

	case Aggregate:
		r, err := aggregate(i, s.Kind(), s.Aggregates, rows)
		if err != nil {
			return nil, nil, err
		}
		return query.Of(r), aggregateNames(s.Aggregates), nil

	case Split:
		return query.SelectMany(rows, s.split), nil, nil

	default:
		return nil, nil, invalidStage(i, "", "unsupported stage type %T", stage)
	}
}

func field(name string) func(row.Row) row.Value {
	return func(r row.Row) row.Value {
		return r.Get(name)
	}
}

func (w Where) match(r row.Row) bool {
	v := r.Get(w.Field)
	switch w.Op {
	case OpEq:
		return row.Equal(v, w.Value)
	case OpNe:
		return !row.Equal(v, w.Value)
	case OpContains:
		if _, isNull := v.(row.Null); isNull {
			return false
		}
		return strings.Contains(row.Format(v), row.Format(w.Value))
	}

	if !row.Comparable(v, w.Value) {
		return false
	}
	c := row.Compare(v, w.Value)
	switch w.Op {
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	default:
		return false
	}
}

func (s Select) project(r row.Row) row.Row {
	out := make(row.Row, len(s.Fields))
	for _, p := range s.Fields {
		out[p.Name()] = r.Get(p.Field)
	}
	return out
}

func (s Split) split(r row.Row) []row.Row {
	str, ok := r.Get(s.Field).(row.String)
	if !ok {
		return []row.Row{r}
	}
	parts := strings.Split(string(str), s.Separator)
	out := make([]row.Row, len(parts))
	for j, part := range parts {
		c := r.Clone()
		c[s.Field] = row.String(strings.TrimSpace(part))
		out[j] = c
	}
	return out
}

func aggregateNames(aggs []AggregateField) []string {
	names := make([]string, len(aggs))
	for j, a := range aggs {
		names[j] = a.Name()
	}
	return names
}

// aggregate reduces rows to one row with a column per aggregate.
//
// Null values are ignored by count(field), sum, avg, min and max; first and
// last return the raw field value of the first and last row.
func aggregate(i int, stage string, aggs []AggregateField, rows *query.Queryable[row.Row]) (row.Row, error) {
	out := make(row.Row, len(aggs)+1)
	for _, a := range aggs {
		v, err := aggregateOne(a, rows)
		if err != nil {
			return nil, &StageError{
				Code:    ErrCodeTypeMismatch,
				Stage:   stage,
				Index:   i,
				Message: fmt.Sprintf("%s(%s)", a.Func, a.Field),
				Err:     err,
			}
		}
		out[a.Name()] = v
	}
	return out, nil
}

func aggregateOne(a AggregateField, rows *query.Queryable[row.Row]) (row.Value, error) {
	get := field(a.Field)
	present := query.Where(rows, func(r row.Row) bool {
		_, isNull := get(r).(row.Null)
		return !isNull
	})

	switch a.Func {
	case AggCount:
		if a.Field == "" {
			return row.Int(rows.Len()), nil
		}
		return row.Int(present.Len()), nil

	case AggSum:
		sum, err := query.TrySum(present, numeric(a.Field))
		if err != nil {
			return nil, err
		}
		return row.Normalize(row.Float(sum)), nil

	case AggAvg:
		avg, err := query.TryAverage(present, numeric(a.Field))
		if err != nil {
			return nil, err
		}
		return row.Float(avg), nil

	case AggMin:
		return valueOf(query.MinFunc(present, get, row.Compare), a.Field), nil

	case AggMax:
		return valueOf(query.MaxFunc(present, get, row.Compare), a.Field), nil

	case AggFirst:
		return valueOf(rows.First(func(row.Row) bool { return true }), a.Field), nil

	case AggLast:
		return valueOf(rows.Last(), a.Field), nil

	default:
		return nil, fmt.Errorf("unsupported aggregate %q", a.Func)
	}
}

func numeric(name string) func(row.Row) (float64, error) {
	return func(r row.Row) (float64, error) {
		v := r.Get(name)
		f, ok := row.AsFloat(v)
		if !ok {
			return 0, fmt.Errorf("%s value %q is not numeric", row.TypeName(v), row.Format(v))
		}
		return f, nil
	}
}

func valueOf(o query.Optional[row.Row], name string) row.Value {
	r, ok := o.Get()
	if !ok {
		return row.Null{}
	}
	return r.Get(name)
}

// inferColumns returns the first-seen field order across rows.
func inferColumns(rows *query.Queryable[row.Row]) []string {
	cols := []string{}
	seen := make(map[string]bool)
	for r := range rows.Values() {
		for _, k := range r.SortedKeys() {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

// checkFields fails when stage references a field that no row in a
// non-empty input carries.
func checkFields(i int, stage Stage, rows *query.Queryable[row.Row]) error {
	if rows.IsEmpty() {
		return nil
	}
	for _, f := range referencedFields(stage) {
		if !rows.Any(func(r row.Row) bool { return r.Has(f) }) {
			return &StageError{
				Code:    ErrCodeUnknownField,
				Stage:   stage.Kind(),
				Index:   i,
				Message: fmt.Sprintf("field %q not found in any input row", f),
			}
		}
	}
	return nil
}

func referencedFields(stage Stage) []string {
	var fields []string
	addAggs := func(aggs []AggregateField) {
		for _, a := range aggs {
			if a.Field != "" {
				fields = append(fields, a.Field)
			}
		}
	}

	switch s := stage.(type) {
	case Where:
		fields = append(fields, s.Field)
	case Select:
		for _, p := range s.Fields {
			fields = append(fields, p.Field)
		}
	case OrderBy:
		fields = append(fields, s.Field)
	case Distinct:
		fields = append(fields, s.Fields...)
	case GroupBy:
		fields = append(fields, s.Key)
		addAggs(s.Aggregates)
	case Aggregate:
		addAggs(s.Aggregates)
	case Split:
		fields = append(fields, s.Field)
	}
	return fields
}
