package pipeline

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/lq/internal/query"
	"github.com/roach88/lq/internal/row"
)

// DefaultSeparator is the Split separator when none is given.
const DefaultSeparator = ","

var validate = newValidator()

// newValidator reports fields by their document names ("order_by.field")
// rather than Go names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var stageIndexPattern = regexp.MustCompile(`stages\[(\d+)\]\.?([a-z_]*)`)

// Compile validates def and converts it into executable stages.
//
// Structural problems (missing fields, unknown operators, negative counts,
// stages with zero or several keys set) are reported as a StageError with
// ErrCodeInvalidStage, pointing at the first offending stage.
func Compile(def *Definition) ([]Stage, error) {
	if def == nil {
		return nil, invalidStage(-1, "", "nil definition")
	}

	if err := validate.Struct(def); err != nil {
		return nil, validationError(err)
	}

	stages := make([]Stage, 0, len(def.Stages))
	for i, spec := range def.Stages {
		stage, err := compileStage(i, spec)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

func compileStage(i int, spec StageSpec) (Stage, error) {
	keys := spec.setKeys()
	if len(keys) != 1 {
		return nil, invalidStage(i, "", "stage must set exactly one of where, select, order_by, distinct, skip, take, group_by, aggregate, split (got %d: %s)",
			len(keys), strings.Join(keys, ", "))
	}

	switch {
	case spec.Where != nil:
		v, err := row.FromAny(spec.Where.Value)
		if err != nil {
			return nil, &StageError{Code: ErrCodeInvalidStage, Stage: "where", Index: i, Message: "invalid comparison value", Err: err}
		}
		if _, null := v.(row.Null); null && Op(spec.Where.Op) == OpContains {
			return nil, invalidStage(i, "where", "contains needs a non-null value")
		}
		return Where{Field: spec.Where.Field, Op: Op(spec.Where.Op), Value: v}, nil

	case spec.Select != nil:
		if len(spec.Select) == 0 {
			return nil, invalidStage(i, "select", "at least one field is required")
		}
		fields := make([]Projection, len(spec.Select))
		seen := make(map[string]bool, len(spec.Select))
		for j, f := range spec.Select {
			fields[j] = Projection{Field: f.Field, As: f.As}
			name := fields[j].Name()
			if seen[name] {
				return nil, invalidStage(i, "select", "duplicate output column %q", name)
			}
			seen[name] = true
		}
		return Select{Fields: fields}, nil

	case spec.OrderBy != nil:
		order, err := query.ParseOrder(spec.OrderBy.Order)
		if err != nil {
			return nil, &StageError{Code: ErrCodeInvalidStage, Stage: "order_by", Index: i, Message: "invalid order", Err: err}
		}
		return OrderBy{Field: spec.OrderBy.Field, Order: order}, nil

	case spec.Distinct != nil:
		return Distinct{Fields: append([]string(nil), spec.Distinct.Fields...)}, nil

	case spec.Skip != nil:
		return Skip{N: *spec.Skip}, nil

	case spec.Take != nil:
		return Take{N: *spec.Take}, nil

	case spec.GroupBy != nil:
		aggs, err := compileAggregates(i, "group_by", spec.GroupBy.Aggregates)
		if err != nil {
			return nil, err
		}
		for _, a := range aggs {
			if a.Name() == spec.GroupBy.Key {
				return nil, invalidStage(i, "group_by", "aggregate column %q collides with the group key", a.Name())
			}
		}
		return GroupBy{Key: spec.GroupBy.Key, Aggregates: aggs}, nil

	case spec.Aggregate != nil:
		aggs, err := compileAggregates(i, "aggregate", spec.Aggregate)
		if err != nil {
			return nil, err
		}
		if len(aggs) == 0 {
			return nil, invalidStage(i, "aggregate", "at least one aggregate is required")
		}
		return Aggregate{Aggregates: aggs}, nil

	default:
		sep := spec.Split.Separator
		if sep == "" {
			sep = DefaultSeparator
		}
		return Split{Field: spec.Split.Field, Separator: sep}, nil
	}
}

func compileAggregates(i int, stage string, specs []AggregateSpec) ([]AggregateField, error) {
	aggs := make([]AggregateField, len(specs))
	seen := make(map[string]bool, len(specs))
	for j, s := range specs {
		aggs[j] = AggregateField{Func: AggFunc(s.Func), Field: s.Field, As: s.As}
		name := aggs[j].Name()
		if seen[name] {
			return nil, invalidStage(i, stage, "duplicate aggregate column %q", name)
		}
		seen[name] = true
	}
	return aggs, nil
}

// setKeys returns the document keys set on spec, in declaration order.
func (s StageSpec) setKeys() []string {
	var keys []string
	add := func(set bool, key string) {
		if set {
			keys = append(keys, key)
		}
	}
	add(s.Where != nil, "where")
	add(s.Select != nil, "select")
	add(s.OrderBy != nil, "order_by")
	add(s.Distinct != nil, "distinct")
	add(s.Skip != nil, "skip")
	add(s.Take != nil, "take")
	add(s.GroupBy != nil, "group_by")
	add(s.Aggregate != nil, "aggregate")
	add(s.Split != nil, "split")
	return keys
}

// validationError converts validator output into a StageError located at
// the first failing stage.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &StageError{Code: ErrCodeInvalidStage, Index: -1, Message: "invalid definition", Err: err}
	}

	first := verrs[0]
	se := &StageError{Code: ErrCodeInvalidStage, Index: -1}
	if m := stageIndexPattern.FindStringSubmatch(first.Namespace()); m != nil {
		se.Index, _ = strconv.Atoi(m[1])
		se.Stage = m[2]
	}

	msgs := make([]string, len(verrs))
	for j, fe := range verrs {
		msgs[j] = describeFieldError(fe)
	}
	se.Message = strings.Join(msgs, "; ")
	return se
}

func describeFieldError(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	switch fe.Tag() {
	case "required", "required_unless":
		return fmt.Sprintf("%s is required", ns)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", ns, fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s", ns, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", ns, fe.Tag())
	}
}
