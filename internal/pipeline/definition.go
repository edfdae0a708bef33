package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// Definition is a named, ordered list of stages as written in a pipeline
// file.
//
// YAML form:
//
//	name: top-customers
//	stages:
//	  - where: {field: status, op: eq, value: paid}
//	  - group_by:
//	      key: customer
//	      aggregates:
//	        - {func: sum, field: total, as: spent}
//	  - order_by: {field: spent, order: desc}
//	  - take: 3
//
// The CUE form uses the same field names.
type Definition struct {
	// Name identifies the pipeline in logs and CLI output.
	Name string `yaml:"name" json:"name" validate:"required"`

	// Description is free text.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Stages run in order. At least one is required.
	Stages []StageSpec `yaml:"stages" json:"stages" validate:"required,min=1,dive"`
}

// StageSpec is the document form of one stage. Exactly one field must be
// set; Compile enforces this.
type StageSpec struct {
	Where     *WhereSpec      `yaml:"where,omitempty" json:"where,omitempty"`
	Select    []FieldSpec     `yaml:"select,omitempty" json:"select,omitempty" validate:"omitempty,dive"`
	OrderBy   *OrderBySpec    `yaml:"order_by,omitempty" json:"order_by,omitempty"`
	Distinct  *DistinctSpec   `yaml:"distinct,omitempty" json:"distinct,omitempty"`
	Skip      *int            `yaml:"skip,omitempty" json:"skip,omitempty" validate:"omitempty,min=0"`
	Take      *int            `yaml:"take,omitempty" json:"take,omitempty" validate:"omitempty,min=0"`
	GroupBy   *GroupBySpec    `yaml:"group_by,omitempty" json:"group_by,omitempty"`
	Aggregate []AggregateSpec `yaml:"aggregate,omitempty" json:"aggregate,omitempty" validate:"omitempty,dive"`
	Split     *SplitSpec      `yaml:"split,omitempty" json:"split,omitempty"`
}

// WhereSpec is the document form of Where.
type WhereSpec struct {
	Field string `yaml:"field" json:"field" validate:"required"`
	Op    string `yaml:"op" json:"op" validate:"required,oneof=eq ne lt le gt ge contains"`
	Value any    `yaml:"value" json:"value"`
}

// FieldSpec is one select projection.
type FieldSpec struct {
	Field string `yaml:"field" json:"field" validate:"required"`
	As    string `yaml:"as,omitempty" json:"as,omitempty"`
}

// OrderBySpec is the document form of OrderBy. Order defaults to ascending.
type OrderBySpec struct {
	Field string `yaml:"field" json:"field" validate:"required"`
	Order string `yaml:"order,omitempty" json:"order,omitempty"` // asc, ascending, desc or descending, any case
}

// DistinctSpec is the document form of Distinct. No fields means whole-row
// comparison; write it as `distinct: {}`.
type DistinctSpec struct {
	Fields []string `yaml:"fields,omitempty" json:"fields,omitempty" validate:"omitempty,dive,required"`
}

// GroupBySpec is the document form of GroupBy.
type GroupBySpec struct {
	Key        string          `yaml:"key" json:"key" validate:"required"`
	Aggregates []AggregateSpec `yaml:"aggregates,omitempty" json:"aggregates,omitempty" validate:"omitempty,dive"`
}

// AggregateSpec is one aggregate column. Field may be omitted for count.
type AggregateSpec struct {
	Func  string `yaml:"func" json:"func" validate:"required,oneof=count sum avg min max first last"`
	Field string `yaml:"field,omitempty" json:"field,omitempty" validate:"required_unless=Func count"`
	As    string `yaml:"as,omitempty" json:"as,omitempty"`
}

// SplitSpec is the document form of Split. Separator defaults to ",".
type SplitSpec struct {
	Field     string `yaml:"field" json:"field" validate:"required"`
	Separator string `yaml:"separator,omitempty" json:"separator,omitempty"`
}

// LoadYAML decodes a definition from YAML. Unknown keys are rejected.
func LoadYAML(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode pipeline: empty document")
		}
		return nil, fmt.Errorf("decode pipeline: %w", err)
	}
	return &def, nil
}

// LoadCUE decodes a definition from CUE source. The value must be concrete;
// filename is used in error positions only.
func LoadCUE(data []byte, filename string) (*Definition, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile pipeline %s: %w", filename, err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate pipeline %s: %w", filename, err)
	}

	var def Definition
	if err := v.Decode(&def); err != nil {
		return nil, fmt.Errorf("decode pipeline %s: %w", filename, err)
	}
	return &def, nil
}

// LoadFile reads a definition, choosing the decoder by extension:
// .yaml/.yml or .cue.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		def, err := LoadYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return def, nil
	case ".cue":
		return LoadCUE(data, path)
	default:
		return nil, fmt.Errorf("%s: unsupported pipeline format %q (want .yaml, .yml or .cue)", path, ext)
	}
}
