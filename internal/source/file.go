package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/lq/internal/query"
	"github.com/roach88/lq/internal/row"
)

// RowsField is the field a CUE dataset may nest its list under when the
// file is a struct rather than a bare list.
const RowsField = "rows"

// LoadFile reads a dataset file, choosing the decoder by extension:
// .json, .yaml/.yml or .cue. Every format holds a list of objects.
func LoadFile(path string) (*query.Queryable[row.Row], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "dataset not found", Err: err}
		}
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return decodeJSON(path, data)
	case ".yaml", ".yml":
		return decodeYAML(path, data)
	case ".cue":
		return decodeCUE(path, data)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupportedFormat,
			Path:    path,
			Message: fmt.Sprintf("unsupported dataset format %q (want .json, .yaml, .yml or .cue)", ext),
		}
	}
}

// LoadJSON decodes a JSON array of objects. Numbers keep their integer or
// fractional form.
func LoadJSON(r io.Reader) (*query.Queryable[row.Row], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return decodeJSON("<input>", data)
}

// FromRecords converts decoded objects into rows, flattening nested
// objects into dotted field names.
func FromRecords(records []map[string]any) (*query.Queryable[row.Row], error) {
	out := query.New[row.Row]()
	for i, rec := range records {
		r, err := row.FromMap(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out.Add(r)
	}
	return out, nil
}

func decodeJSON(path string, data []byte) (*query.Queryable[row.Row], error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, decodeFailed(path, "want a JSON array of objects", err)
	}
	return fromRecords(path, records)
}

func decodeYAML(path string, data []byte) (*query.Queryable[row.Row], error) {
	var records []map[string]any
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, decodeFailed(path, "want a YAML sequence of mappings", err)
	}
	return fromRecords(path, records)
}

func decodeCUE(path string, data []byte) (*query.Queryable[row.Row], error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, decodeFailed(path, "invalid CUE", err)
	}
	if v.IncompleteKind() == cue.StructKind {
		v = v.LookupPath(cue.ParsePath(RowsField))
		if !v.Exists() {
			return nil, decodeFailed(path, fmt.Sprintf("struct dataset must hold a %q list", RowsField), nil)
		}
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, decodeFailed(path, "dataset must be concrete", err)
	}

	var records []map[string]any
	if err := v.Decode(&records); err != nil {
		return nil, decodeFailed(path, "want a CUE list of structs", err)
	}
	return fromRecords(path, records)
}

func fromRecords(path string, records []map[string]any) (*query.Queryable[row.Row], error) {
	rows, err := FromRecords(records)
	if err != nil {
		return nil, decodeFailed(path, "unsupported value", err)
	}
	return rows, nil
}
