package scenario

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sift/internal/ir"
)

// Scenario is one conformance run.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Values are created before the steps run. Seeding must succeed.
	Values []string `yaml:"values,omitempty"`

	// Steps run in order after seeding.
	Steps []Step `yaml:"steps"`

	// Final, if set, is checked against the unfiltered listing after all steps.
	Final *Expect `yaml:"final,omitempty"`
}

// Step is a single service operation. Exactly one of the operation fields is set.
type Step struct {
	Create *string     `yaml:"create,omitempty"`
	Get    *string     `yaml:"get,omitempty"`
	Delete *string     `yaml:"delete,omitempty"`
	List   *FilterSpec `yaml:"list,omitempty"`
	Query  *string     `yaml:"query,omitempty"`

	// Expect, if nil, only requires that the step did not fail.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Step kinds, as reported by Step.Kind and recorded in the trace.
const (
	KindCreate = "create"
	KindGet    = "get"
	KindDelete = "delete"
	KindList   = "list"
	KindQuery  = "query"
)

// Step outcomes, as recorded in the trace and matched by Expect.Error.
const (
	OutcomeOK            = "ok"
	OutcomeNotFound      = "not_found"
	OutcomeInvalidInput  = "invalid_input"
	OutcomeAlreadyExists = "already_exists"
)

// Kind returns the operation the step performs, or "" when none or several
// are set.
func (s Step) Kind() string {
	var kinds []string
	if s.Create != nil {
		kinds = append(kinds, KindCreate)
	}
	if s.Get != nil {
		kinds = append(kinds, KindGet)
	}
	if s.Delete != nil {
		kinds = append(kinds, KindDelete)
	}
	if s.List != nil {
		kinds = append(kinds, KindList)
	}
	if s.Query != nil {
		kinds = append(kinds, KindQuery)
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// Expect describes the expected outcome of a step.
// Unset fields are not checked.
type Expect struct {
	// Error is an error outcome name (invalid_input, already_exists).
	// Empty means the step must not fail.
	Error string `yaml:"error,omitempty"`

	// Found is checked for get and delete.
	Found *bool `yaml:"found,omitempty"`

	// Count and Values are checked for list, query and final.
	// Values must match in order.
	Count  *int     `yaml:"count,omitempty"`
	Values []string `yaml:"values,omitempty"`

	// Filters is checked against the parsed predicate set of a query.
	Filters *FilterSpec `yaml:"filters,omitempty"`
}

// FilterSpec is the YAML form of ir.Filters.
type FilterSpec struct {
	IsPalindrome      *bool   `yaml:"is_palindrome,omitempty"`
	MinLength         *int    `yaml:"min_length,omitempty"`
	MaxLength         *int    `yaml:"max_length,omitempty"`
	WordCount         *int    `yaml:"word_count,omitempty"`
	ContainsCharacter *string `yaml:"contains_character,omitempty"`
}

// Filters converts f to a predicate set. A nil f selects everything.
func (f *FilterSpec) Filters() ir.Filters {
	if f == nil {
		return ir.Filters{}
	}
	return ir.Filters{
		IsPalindrome:      f.IsPalindrome,
		MinLength:         f.MinLength,
		MaxLength:         f.MaxLength,
		WordCount:         f.WordCount,
		ContainsCharacter: f.ContainsCharacter,
	}
}

// Load reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as errors.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario file")
	}
	return Parse(data)
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, errors.Wrap(err, "parse YAML")
	}
	if err := validate(&sc); err != nil {
		return nil, errors.Wrap(err, "invalid scenario")
	}
	return &sc, nil
}

func validate(sc *Scenario) error {
	if sc.Name == "" {
		return errors.New("name is required")
	}
	if sc.Description == "" {
		return errors.New("description is required")
	}
	if len(sc.Steps) == 0 {
		return errors.New("steps list is required and must be non-empty")
	}

	for i, step := range sc.Steps {
		kind := step.Kind()
		if kind == "" {
			return errors.Newf("steps[%d]: exactly one of create, get, delete, list, query is required", i)
		}
		if err := validateExpect(kind, step.Expect); err != nil {
			return errors.Wrapf(err, "steps[%d].expect", i)
		}
	}

	if sc.Final != nil {
		if sc.Final.Error != "" || sc.Final.Found != nil || sc.Final.Filters != nil {
			return errors.New("final: only count and values are allowed")
		}
	}
	return nil
}

func validateExpect(kind string, e *Expect) error {
	if e == nil {
		return nil
	}

	switch e.Error {
	case "", OutcomeInvalidInput, OutcomeAlreadyExists:
	default:
		return errors.Newf("unknown error outcome %q", e.Error)
	}

	listing := kind == KindList || kind == KindQuery
	if e.Found != nil && kind != KindGet && kind != KindDelete {
		return errors.Newf("found is only valid for get and delete, not %s", kind)
	}
	if (e.Count != nil || e.Values != nil) && !listing {
		return errors.Newf("count and values are only valid for list and query, not %s", kind)
	}
	if e.Count != nil && *e.Count < 0 {
		return errors.New("count must be non-negative")
	}
	if e.Filters != nil && kind != KindQuery {
		return errors.Newf("filters is only valid for query, not %s", kind)
	}
	return nil
}
