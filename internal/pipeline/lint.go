package pipeline

import "fmt"

// Lint reports pipeline shapes that run but probably do not do what the
// author meant. Warnings never block execution.
//
// Rules:
//  1. skip/take before any order_by depends on input order
//  2. a field referenced after select, group_by or aggregate must be one
//     of the columns that stage produced
//  3. two consecutive order_by stages on the same field: the first has
//     no effect
//
// Lint is a pure function with no side effects.
func Lint(stages []Stage) []string {
	l := &linter{warnings: []string{}}
	for i, s := range stages {
		l.check(i, s)
	}
	return l.warnings
}

// linter accumulates warnings during traversal.
type linter struct {
	warnings []string

	ordered bool

	// columns is the known output shape, nil while it still depends on
	// the input rows.
	columns map[string]bool

	lastOrderField string
}

func (l *linter) addWarning(i int, s Stage, format string, args ...any) {
	prefix := fmt.Sprintf("stage %d (%s): ", i, s.Kind())
	l.warnings = append(l.warnings, prefix+fmt.Sprintf(format, args...))
}

func (l *linter) requireField(i int, s Stage, field string) {
	if l.columns != nil && !l.columns[field] {
		l.addWarning(i, s, "field %q is not produced by an earlier stage and will read as null", field)
	}
}

func (l *linter) check(i int, s Stage) {
	switch st := s.(type) {
	case Where:
		l.requireField(i, s, st.Field)

	case Select:
		next := make(map[string]bool, len(st.Fields))
		for _, p := range st.Fields {
			l.requireField(i, s, p.Field)
			next[p.Name()] = true
		}
		l.columns = next

	case OrderBy:
		l.requireField(i, s, st.Field)
		if l.lastOrderField == st.Field {
			l.addWarning(i, s, "re-sorts on %q, the earlier order_by on the same field has no effect", st.Field)
		}
		l.ordered = true
		l.lastOrderField = st.Field
		return

	case Distinct:
		for _, f := range st.Fields {
			l.requireField(i, s, f)
		}

	case Skip, Take:
		if !l.ordered {
			l.addWarning(i, s, "pagination before any order_by depends on input order")
		}

	case GroupBy:
		l.requireField(i, s, st.Key)
		next := map[string]bool{st.Key: true}
		for _, a := range st.Aggregates {
			if a.Field != "" {
				l.requireField(i, s, a.Field)
			}
			next[a.Name()] = true
		}
		l.columns = next

	case Aggregate:
		next := make(map[string]bool, len(st.Aggregates))
		for _, a := range st.Aggregates {
			if a.Field != "" {
				l.requireField(i, s, a.Field)
			}
			next[a.Name()] = true
		}
		l.columns = next
		// A single row has a fixed order.
		l.ordered = true

	case Split:
		l.requireField(i, s, st.Field)
	}
	l.lastOrderField = ""
}
