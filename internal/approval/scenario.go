package approval

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/lq/internal/pipeline"
)

// Scenario is one approval case: a dataset, a pipeline and what the
// pipeline must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its snapshot.
	Name string `yaml:"name" validate:"required"`

	// Description explains what this scenario checks.
	Description string `yaml:"description" validate:"required"`

	// Data holds the input rows inline. Exactly one of Data and DataFile
	// must be set.
	Data []map[string]any `yaml:"data,omitempty" validate:"required_without=DataFile,excluded_with=DataFile"`

	// DataFile is a JSON, YAML or CUE dataset, relative to the scenario
	// file.
	DataFile string `yaml:"data_file,omitempty"`

	// Pipeline is the pipeline under test.
	Pipeline pipeline.Definition `yaml:"pipeline"`

	// Expect lists the result rows in order. Nil skips the row check.
	Expect []map[string]any `yaml:"expect,omitempty"`

	// ExpectError is the StageError code the run must fail with, such as
	// TYPE_MISMATCH. Mutually exclusive with Expect.
	ExpectError string `yaml:"expect_error,omitempty" validate:"omitempty,excluded_with=Expect,oneof=INVALID_STAGE TYPE_MISMATCH UNKNOWN_FIELD"`

	// Strict runs the pipeline with unknown-field checking.
	Strict bool `yaml:"strict,omitempty"`
}

var validate = validator.New()

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative DataFile is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validate.Struct(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if scenario.DataFile != "" && !filepath.IsAbs(scenario.DataFile) {
		scenario.DataFile = filepath.Join(filepath.Dir(path), scenario.DataFile)
	}
	return &scenario, nil
}
