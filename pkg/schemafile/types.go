package schemafile

import (
	"sort"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// Form is one loaded form definition.
type Form struct {
	ID          string
	Title       string
	Description string
	Source      string
	// Mode is the controller validation mode hint ("onSubmit" or "onChange").
	Mode       string
	Schema     schema.Record
	Defaults   schema.Values
	PostSubmit schema.Values
}

// Compile compiles the form schema.
func (f Form) Compile() (*validation.Validator, error) {
	return validation.Compile(f.Schema)
}

// Store holds the forms loaded from one or more documents.
type Store struct {
	forms map[string]Form
}

// Form returns the form with the given id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[id]
	return form, ok
}

// IDs returns the loaded form ids, sorted.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Mode        string         `json:"mode" yaml:"mode"`
	Fields      []fieldFile    `json:"fields" yaml:"fields"`
	Rules       []ruleFile     `json:"rules" yaml:"rules"`
	Defaults    map[string]any `json:"defaults" yaml:"defaults"`
	PostSubmit  map[string]any `json:"postSubmit" yaml:"postSubmit"`
}

type recordFile struct {
	Fields []fieldFile `json:"fields" yaml:"fields"`
	Rules  []ruleFile  `json:"rules" yaml:"rules"`
}

type fieldFile struct {
	Name        string           `json:"name" yaml:"name"`
	Kind        string           `json:"kind" yaml:"kind"`
	Label       string           `json:"label" yaml:"label"`
	Description string           `json:"description" yaml:"description"`
	Options     []string         `json:"options" yaml:"options"`
	Nested      *recordFile      `json:"nested" yaml:"nested"`
	Item        *recordFile      `json:"item" yaml:"item"`
	Constraints []constraintFile `json:"constraints" yaml:"constraints"`
	When        string           `json:"when" yaml:"when"`
	Default     any              `json:"default" yaml:"default"`
	Sanitize    bool             `json:"sanitize" yaml:"sanitize"`
	Secret      bool             `json:"secret" yaml:"secret"`
}

type constraintFile struct {
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
	Limit   int    `json:"limit" yaml:"limit"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Format  string `json:"format" yaml:"format"`
	Value   any    `json:"value" yaml:"value"`
}

type ruleFile struct {
	Kind    string `json:"kind" yaml:"kind"`
	Name    string `json:"name" yaml:"name"`
	Target  string `json:"target" yaml:"target"`
	Message string `json:"message" yaml:"message"`
	Field   string `json:"field" yaml:"field"`
	Confirm string `json:"confirm" yaml:"confirm"`
	Expr    string `json:"expr" yaml:"expr"`
}
