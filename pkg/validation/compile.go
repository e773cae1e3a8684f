package validation

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/visibility/expr"
)

// Validator is a compiled schema. It is immutable and safe for concurrent
// use.
type Validator struct {
	schema schema.Record
	root   *compiledRecord
}

type compiledRecord struct {
	fields []*compiledField
	rules  []schema.Rule
}

type compiledField struct {
	field  schema.Field
	when   *expr.Program
	checks []check
	nested *compiledRecord
	item   *compiledRecord
}

type check struct {
	constraint schema.Constraint
	pattern    *regexp.Regexp
	message    string
}

// Compile checks the schema and prepares it for validation. Every problem
// found is reported as a *schema.SchemaError; several are joined with
// errors.Join.
func Compile(rec schema.Record) (*Validator, error) {
	var problems []error
	root := compileRecord(rec, "", &problems)
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return &Validator{schema: rec, root: root}, nil
}

// MustCompile panics when the schema is malformed. Intended for package level
// form declarations and tests.
func MustCompile(rec schema.Record) *Validator {
	v, err := Compile(rec)
	if err != nil {
		panic(err)
	}
	return v
}

// Schema returns the record the validator was compiled from.
func (v *Validator) Schema() schema.Record {
	return v.schema
}

func compileRecord(rec schema.Record, prefix string, problems *[]error) *compiledRecord {
	out := &compiledRecord{}
	if len(rec.Fields) == 0 {
		*problems = append(*problems, schema.Errorf(prefix, "record declares no fields"))
	}

	seen := make(map[string]struct{}, len(rec.Fields))
	for _, field := range rec.Fields {
		path := schema.JoinPath(prefix, field.Name)
		if field.Name == "" {
			*problems = append(*problems, schema.Errorf(prefix, "field name is empty"))
			continue
		}
		if schema.IsIndex(field.Name) {
			*problems = append(*problems, schema.Errorf(path, "field name cannot be numeric"))
			continue
		}
		if _, dup := seen[field.Name]; dup {
			*problems = append(*problems, schema.Errorf(path, "duplicate field"))
			continue
		}
		seen[field.Name] = struct{}{}

		if compiled := compileField(field, path, problems); compiled != nil {
			out.fields = append(out.fields, compiled)
		}
	}

	for idx, rule := range rec.Rules {
		name := rule.Name
		if name == "" {
			name = "#" + strconv.Itoa(idx)
		}
		if rule.Check == nil {
			*problems = append(*problems, schema.Errorf(prefix, "rule %s has no check", name))
			continue
		}
		if _, ok := rec.Resolve(rule.Target); !ok {
			*problems = append(*problems, schema.Errorf(prefix, "rule %s targets unknown path %q", name, rule.Target))
			continue
		}
		if crossesList(rec, rule.Target) {
			*problems = append(*problems, schema.Errorf(prefix, "rule %s targets %q inside a list entry; declare it on the item record", name, rule.Target))
			continue
		}
		rule.Name = name
		out.rules = append(out.rules, rule)
	}
	return out
}

// crossesList reports whether target selects a list element on the way to
// its field. Such targets have no fixed address: rules on list entries belong
// to the item record, where targets are relative to the entry.
func crossesList(rec schema.Record, target string) bool {
	segments := schema.SplitPath(target)
	current := rec
	for i := 0; i < len(segments)-1; i++ {
		field, ok := current.Field(segments[i])
		if !ok {
			return false
		}
		switch {
		case field.Kind == schema.KindList:
			return true
		case field.Kind == schema.KindObject && field.Nested != nil:
			current = *field.Nested
		default:
			return false
		}
	}
	return false
}

func compileField(field schema.Field, path string, problems *[]error) *compiledField {
	if !field.Kind.Valid() {
		*problems = append(*problems, schema.Errorf(path, "unknown kind %q", field.Kind))
		return nil
	}

	out := &compiledField{field: field}

	if field.When != "" {
		program, err := expr.Parse(field.When)
		if err != nil {
			*problems = append(*problems, schema.Errorf(path, "invalid when expression: %v", err))
		} else {
			out.when = program
		}
	}

	switch field.Kind {
	case schema.KindChoice:
		if len(field.Options) == 0 {
			*problems = append(*problems, schema.Errorf(path, "choice declares no options"))
		}
		for _, option := range field.Options {
			if option == "" {
				*problems = append(*problems, schema.Errorf(path, "choice option cannot be empty"))
				break
			}
		}
	case schema.KindObject:
		if field.Nested == nil {
			*problems = append(*problems, schema.Errorf(path, "object declares no nested record"))
		} else {
			out.nested = compileRecord(*field.Nested, path, problems)
		}
	case schema.KindList:
		if field.Item == nil {
			*problems = append(*problems, schema.Errorf(path, "list declares no item record"))
		} else {
			out.item = compileRecord(*field.Item, schema.JoinPath(path, "*"), problems)
		}
	}

	minLen, maxLen := -1, -1
	minItems, maxItems := -1, -1
	for _, c := range field.Constraints {
		if !applicable(field.Kind, c.Kind) {
			*problems = append(*problems, schema.Errorf(path, "constraint %q does not apply to %s fields", c.Kind, field.Kind))
			continue
		}
		chk := check{constraint: c, message: c.Message}
		if chk.message == "" {
			chk.message = defaultMessage(field, c)
		}
		switch c.Kind {
		case schema.ConstraintMinLength, schema.ConstraintMaxLength, schema.ConstraintMinItems, schema.ConstraintMaxItems:
			if c.Limit < 0 {
				*problems = append(*problems, schema.Errorf(path, "constraint %q has negative limit %d", c.Kind, c.Limit))
				continue
			}
			switch c.Kind {
			case schema.ConstraintMinLength:
				minLen = c.Limit
			case schema.ConstraintMaxLength:
				maxLen = c.Limit
			case schema.ConstraintMinItems:
				minItems = c.Limit
			case schema.ConstraintMaxItems:
				maxItems = c.Limit
			}
		case schema.ConstraintPattern:
			re, err := regexp.Compile(c.Pattern)
			if err != nil || c.Pattern == "" {
				*problems = append(*problems, schema.Errorf(path, "invalid pattern %q", c.Pattern))
				continue
			}
			chk.pattern = re
		case schema.ConstraintFormat:
			if _, ok := formatCheckers[c.Format]; !ok {
				*problems = append(*problems, schema.Errorf(path, "unknown format %q", c.Format))
				continue
			}
		case schema.ConstraintCustom:
			if c.Predicate == nil {
				*problems = append(*problems, schema.Errorf(path, "custom constraint has no predicate"))
				continue
			}
		}
		out.checks = append(out.checks, chk)
	}
	if minLen >= 0 && maxLen >= 0 && minLen > maxLen {
		*problems = append(*problems, schema.Errorf(path, "minLength %d exceeds maxLength %d", minLen, maxLen))
	}
	if minItems >= 0 && maxItems >= 0 && minItems > maxItems {
		*problems = append(*problems, schema.Errorf(path, "minItems %d exceeds maxItems %d", minItems, maxItems))
	}

	return out
}

func applicable(kind schema.Kind, constraint schema.ConstraintKind) bool {
	switch constraint {
	case schema.ConstraintRequired, schema.ConstraintCustom:
		return true
	case schema.ConstraintMinLength, schema.ConstraintMaxLength, schema.ConstraintPattern, schema.ConstraintFormat:
		return kind == schema.KindText
	case schema.ConstraintEquals, schema.ConstraintNotEquals:
		return kind == schema.KindText || kind == schema.KindChoice || kind == schema.KindBoolean
	case schema.ConstraintMinItems, schema.ConstraintMaxItems:
		return kind == schema.KindList
	default:
		return false
	}
}
