package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Validate checks values against the compiled schema. Absent fields are
// treated as the empty value of their kind. The input is never modified.
func (v *Validator) Validate(values schema.Values) Result {
	_, result := v.Parse(values)
	return result
}

// Parse validates values and also returns the cleaned record: only declared,
// active fields are kept and sanitized text replaces the raw input. The
// cleaned record is produced even when the result is invalid.
func (v *Validator) Parse(values schema.Values) (schema.Values, Result) {
	if values == nil {
		values = schema.Values{}
	}
	run := &pass{root: values}
	out := run.record(v.root, values, "")
	return out, newResult(run.issues)
}

type pass struct {
	root   schema.Values
	issues []Issue
}

func (p *pass) add(path, message, code string) {
	p.issues = append(p.issues, Issue{Path: path, Message: message, Code: code})
}

func (p *pass) record(rec *compiledRecord, values schema.Values, prefix string) schema.Values {
	out := make(schema.Values, len(rec.fields))
	for _, field := range rec.fields {
		if !field.active(values, p.root) {
			continue
		}
		name := field.field.Name
		path := schema.JoinPath(prefix, name)
		raw, ok := values[name]
		if !ok || raw == nil {
			raw = schema.EmptyValue(field.field)
		}
		out[name] = p.field(field, raw, path)
	}

	for _, rule := range rec.rules {
		if rule.Check(values) {
			continue
		}
		message := rule.Message
		if message == "" {
			message = "Invalid value"
		}
		p.add(schema.JoinPath(prefix, rule.Target), message, "rule:"+rule.Name)
	}
	return out
}

func (f *compiledField) active(values, root schema.Values) bool {
	if f.when == nil {
		return true
	}
	ok, err := f.when.Eval(visibility.Scope{Values: values, Root: root})
	if err != nil {
		// an undecidable rule keeps the field visible
		return true
	}
	return ok
}

func (p *pass) field(f *compiledField, raw any, path string) any {
	switch f.field.Kind {
	case schema.KindText:
		text, ok := asText(raw)
		if !ok {
			p.add(path, typeMessage(f.field.Kind, raw), codeType)
			return raw
		}
		if f.field.Sanitize {
			text = SanitizeText(text)
		}
		p.checks(f, subject{text: text, raw: text}, path)
		return text

	case schema.KindChoice:
		text, ok := asText(raw)
		if !ok {
			p.add(path, typeMessage(f.field.Kind, raw), codeType)
			return raw
		}
		if text != "" && !contains(f.field.Options, text) {
			p.add(path, choiceMessage(f.field.Options), codeChoice)
			return text
		}
		p.checks(f, subject{text: text, raw: text}, path)
		return text

	case schema.KindBoolean:
		flag, ok := asBool(raw)
		if !ok {
			p.add(path, typeMessage(f.field.Kind, raw), codeType)
			return raw
		}
		p.checks(f, subject{flag: flag, raw: flag}, path)
		return flag

	case schema.KindObject:
		nested, ok := asRecord(raw)
		if !ok {
			p.add(path, typeMessage(f.field.Kind, raw), codeType)
			return raw
		}
		p.checks(f, subject{size: len(nested), raw: nested}, path)
		return p.record(f.nested, nested, path)

	case schema.KindList:
		items, ok := asList(raw)
		if !ok {
			p.add(path, typeMessage(f.field.Kind, raw), codeType)
			return raw
		}
		p.checks(f, subject{size: len(items), raw: items}, path)
		out := make([]any, 0, len(items))
		for idx, item := range items {
			itemPath := schema.JoinPath(path, strconv.Itoa(idx))
			entry, ok := asRecord(item)
			if !ok {
				p.add(itemPath, typeMessage(schema.KindObject, item), codeType)
				out = append(out, item)
				continue
			}
			out = append(out, p.record(f.item, entry, itemPath))
		}
		return out
	}
	return raw
}

// subject carries the kind-specific view of a value so one loop can run the
// constraints of every kind.
type subject struct {
	text string
	flag bool
	size int
	raw  any
}

func (p *pass) checks(f *compiledField, s subject, path string) {
	for _, chk := range f.checks {
		if chk.passes(f.field.Kind, s) {
			continue
		}
		p.add(path, chk.message, string(chk.constraint.Kind))
		return
	}
}

func (c check) passes(kind schema.Kind, s subject) bool {
	switch c.constraint.Kind {
	case schema.ConstraintRequired:
		switch kind {
		case schema.KindBoolean:
			return s.flag
		case schema.KindObject, schema.KindList:
			return s.size > 0
		default:
			return strings.TrimSpace(s.text) != ""
		}
	case schema.ConstraintMinLength:
		return utf8.RuneCountInString(s.text) >= c.constraint.Limit
	case schema.ConstraintMaxLength:
		return utf8.RuneCountInString(s.text) <= c.constraint.Limit
	case schema.ConstraintPattern:
		return s.text == "" || c.pattern.MatchString(s.text)
	case schema.ConstraintFormat:
		return s.text == "" || formatCheckers[c.constraint.Format](s.text)
	case schema.ConstraintEquals:
		return literalEqual(s.raw, c.constraint.Literal)
	case schema.ConstraintNotEquals:
		return !literalEqual(s.raw, c.constraint.Literal)
	case schema.ConstraintMinItems:
		return s.size >= c.constraint.Limit
	case schema.ConstraintMaxItems:
		return s.size <= c.constraint.Limit
	case schema.ConstraintCustom:
		return c.constraint.Predicate(s.raw)
	default:
		return true
	}
}

func asText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}

// asBool accepts booleans and the string forms HTML checkboxes submit.
func asBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "false", "off", "0":
			return false, true
		case "true", "on", "1":
			return true, true
		}
	}
	return false, false
}

func asRecord(value any) (schema.Values, bool) {
	v, ok := value.(map[string]any)
	return v, ok
}

func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}

func literalEqual(value, literal any) bool {
	if reflect.DeepEqual(value, literal) {
		return true
	}
	if value == nil || literal == nil {
		return false
	}
	return fmt.Sprint(value) == fmt.Sprint(literal)
}
