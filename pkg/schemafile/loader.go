package schemafile

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/visibility"
	"github.com/goliatone/go-formkit/pkg/visibility/expr"
)

// LoadFS walks the filesystem and parses every JSON/YAML form document.
// A nil filesystem yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schemafile: read %s: %w", path, err)
		}
		return store.add(data, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Load parses a single document.
func Load(data []byte, source string) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if err := store.add(data, source); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) add(data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}
	if len(doc.Forms) == 0 {
		return fmt.Errorf("schemafile: file %s declares no forms", source)
	}

	for rawID, raw := range doc.Forms {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("schemafile: file %s defines an empty form id", source)
		}
		if _, exists := s.forms[id]; exists {
			return fmt.Errorf("schemafile: duplicate form %q (file %s)", id, source)
		}
		form, err := normaliseForm(raw, id, source)
		if err != nil {
			return err
		}
		s.forms[id] = form
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("schemafile: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("schemafile: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}

func normaliseForm(raw formFile, id, source string) (Form, error) {
	where := fmt.Sprintf("form %q (file %s)", id, source)
	rec, err := normaliseRecord(recordFile{Fields: raw.Fields, Rules: raw.Rules}, where, "")
	if err != nil {
		return Form{}, err
	}
	return Form{
		ID:          id,
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Source:      source,
		Mode:        strings.TrimSpace(raw.Mode),
		Schema:      rec,
		Defaults:    schema.CloneValues(raw.Defaults),
		PostSubmit:  schema.CloneValues(raw.PostSubmit),
	}, nil
}

func normaliseRecord(raw recordFile, where, prefix string) (schema.Record, error) {
	fields := make([]schema.Field, 0, len(raw.Fields))
	for idx, rawField := range raw.Fields {
		field, err := normaliseField(rawField, where, prefix, idx)
		if err != nil {
			return schema.Record{}, err
		}
		fields = append(fields, field)
	}
	rec := schema.NewRecord(fields...)

	rules := make([]schema.Rule, 0, len(raw.Rules))
	for idx, rawRule := range raw.Rules {
		rule, err := normaliseRule(rawRule, where, prefix, idx)
		if err != nil {
			return schema.Record{}, err
		}
		rules = append(rules, rule)
	}
	return rec.WithRules(rules...), nil
}

func normaliseField(raw fieldFile, where, prefix string, idx int) (schema.Field, error) {
	name := strings.TrimSpace(raw.Name)
	path := schema.JoinPath(prefix, name)
	if name == "" {
		return schema.Field{}, fmt.Errorf("schemafile: %s field #%d has no name", where, idx)
	}

	field := schema.Field{
		Name:        name,
		Kind:        schema.Kind(strings.TrimSpace(raw.Kind)),
		Label:       raw.Label,
		Description: raw.Description,
		Options:     append([]string(nil), raw.Options...),
		When:        strings.TrimSpace(raw.When),
		Default:     raw.Default,
		Sanitize:    raw.Sanitize,
		Secret:      raw.Secret,
	}
	if field.Kind == "" {
		field.Kind = schema.KindText
	}

	if raw.Nested != nil {
		nested, err := normaliseRecord(*raw.Nested, where, path)
		if err != nil {
			return schema.Field{}, err
		}
		field.Nested = &nested
	}
	if raw.Item != nil {
		item, err := normaliseRecord(*raw.Item, where, path+".*")
		if err != nil {
			return schema.Field{}, err
		}
		field.Item = &item
	}

	for cIdx, rawConstraint := range raw.Constraints {
		constraint, err := normaliseConstraint(rawConstraint)
		if err != nil {
			return schema.Field{}, fmt.Errorf("schemafile: %s field %q constraint #%d: %w", where, path, cIdx, err)
		}
		field.Constraints = append(field.Constraints, constraint)
	}
	return field, nil
}

func normaliseConstraint(raw constraintFile) (schema.Constraint, error) {
	kind := schema.ConstraintKind(strings.TrimSpace(raw.Kind))
	constraint := schema.Constraint{Kind: kind, Message: raw.Message}
	switch kind {
	case schema.ConstraintRequired:
	case schema.ConstraintMinLength, schema.ConstraintMaxLength, schema.ConstraintMinItems, schema.ConstraintMaxItems:
		constraint.Limit = raw.Limit
	case schema.ConstraintPattern:
		constraint.Pattern = raw.Pattern
	case schema.ConstraintFormat:
		constraint.Format = strings.TrimSpace(raw.Format)
	case schema.ConstraintEquals, schema.ConstraintNotEquals:
		if raw.Value == nil {
			return schema.Constraint{}, fmt.Errorf("%s requires a value", kind)
		}
		constraint.Literal = raw.Value
	case schema.ConstraintCustom:
		return schema.Constraint{}, fmt.Errorf("custom constraints cannot be declared in documents")
	default:
		return schema.Constraint{}, fmt.Errorf("unknown constraint kind %q", raw.Kind)
	}
	return constraint, nil
}

func normaliseRule(raw ruleFile, where, prefix string, idx int) (schema.Rule, error) {
	switch strings.TrimSpace(raw.Kind) {
	case "match":
		if raw.Field == "" || raw.Confirm == "" {
			return schema.Rule{}, fmt.Errorf("schemafile: %s rule #%d: match requires field and confirm", where, idx)
		}
		rule := schema.FieldsMatch(raw.Field, raw.Confirm, raw.Message)
		if raw.Name != "" {
			rule.Name = raw.Name
		}
		if raw.Target != "" {
			rule.Target = raw.Target
		}
		return rule, nil
	case "expr":
		program, err := expr.Parse(raw.Expr)
		if err != nil {
			return schema.Rule{}, fmt.Errorf("schemafile: %s rule #%d: %w", where, idx, err)
		}
		name := raw.Name
		if name == "" {
			name = program.String()
		}
		check := func(values schema.Values) bool {
			ok, err := program.Eval(visibility.Scope{Values: values, Root: values})
			return err == nil && ok
		}
		return schema.Refine(name, raw.Target, raw.Message, check), nil
	default:
		return schema.Rule{}, fmt.Errorf("schemafile: %s rule #%d: unknown kind %q", where, idx, raw.Kind)
	}
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
