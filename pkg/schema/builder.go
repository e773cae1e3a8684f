package schema

// FieldOption configures a Field during construction.
type FieldOption func(*Field)

// NewRecord assembles a record from fields in declaration order.
func NewRecord(fields ...Field) Record {
	return Record{Fields: append([]Field(nil), fields...)}
}

// WithRules returns a copy of the record with the rules appended.
func (r Record) WithRules(rules ...Rule) Record {
	out := Record{
		Fields: append([]Field(nil), r.Fields...),
		Rules:  make([]Rule, 0, len(r.Rules)+len(rules)),
	}
	out.Rules = append(out.Rules, r.Rules...)
	out.Rules = append(out.Rules, rules...)
	return out
}

func newField(name string, kind Kind, options []FieldOption) Field {
	field := Field{Name: name, Kind: kind}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&field)
	}
	return field
}

// Text declares a free-form text field.
func Text(name string, options ...FieldOption) Field {
	return newField(name, KindText, options)
}

// Boolean declares a checkbox-style field.
func Boolean(name string, options ...FieldOption) Field {
	return newField(name, KindBoolean, options)
}

// Choice declares an enumerated field. The empty string is the "no
// selection" sentinel and is never a valid option.
func Choice(name string, choices []string, options ...FieldOption) Field {
	field := newField(name, KindChoice, options)
	field.Options = append([]string(nil), choices...)
	return field
}

// Object declares a nested record.
func Object(name string, nested Record, options ...FieldOption) Field {
	field := newField(name, KindObject, options)
	field.Nested = &nested
	return field
}

// List declares an ordered, repeatable group of records.
func List(name string, item Record, options ...FieldOption) Field {
	field := newField(name, KindList, options)
	field.Item = &item
	return field
}

// Label sets the human readable label.
func Label(label string) FieldOption {
	return func(f *Field) { f.Label = label }
}

// Description sets the help text.
func Description(text string) FieldOption {
	return func(f *Field) { f.Description = text }
}

// Default sets the value used when a form is created or reset.
func Default(value any) FieldOption {
	return func(f *Field) { f.Default = value }
}

// When makes the field conditional on a visibility expression such as
// `sendToEMail == true`.
func When(expr string) FieldOption {
	return func(f *Field) { f.When = expr }
}

// Sanitize strips markup from text values before they are checked and
// submitted.
func Sanitize() FieldOption {
	return func(f *Field) { f.Sanitize = true }
}

// Secret marks the field as sensitive input (passwords).
func Secret() FieldOption {
	return func(f *Field) { f.Secret = true }
}

// Check attaches an arbitrary constraint.
func Check(c Constraint) FieldOption {
	return func(f *Field) { f.Constraints = append(f.Constraints, c) }
}

// Required fails on empty text, unchecked booleans, no selection, empty
// lists and empty objects.
func Required(message string) FieldOption {
	return Check(Constraint{Kind: ConstraintRequired, Message: message})
}

// MinLength requires at least n characters.
func MinLength(n int, message string) FieldOption {
	return Check(Constraint{Kind: ConstraintMinLength, Limit: n, Message: message})
}

// MaxLength allows at most n characters.
func MaxLength(n int, message string) FieldOption {
	return Check(Constraint{Kind: ConstraintMaxLength, Limit: n, Message: message})
}

// Pattern requires non-empty text to match the regular expression.
func Pattern(expr, message string) FieldOption {
	return Check(Constraint{Kind: ConstraintPattern, Pattern: expr, Message: message})
}

// Format requires non-empty text to match one of the known formats.
func Format(format, message string) FieldOption {
	return Check(Constraint{Kind: ConstraintFormat, Format: format, Message: message})
}

// Equals requires the value to equal a literal (for example accept == true).
func Equals(literal any, message string) FieldOption {
	return Check(Constraint{Kind: ConstraintEquals, Literal: literal, Message: message})
}

// NotEquals rejects one literal value.
func NotEquals(literal any, message string) FieldOption {
	return Check(Constraint{Kind: ConstraintNotEquals, Literal: literal, Message: message})
}

// MinItems requires a list to hold at least n entries.
func MinItems(n int, message string) FieldOption {
	return Check(Constraint{Kind: ConstraintMinItems, Limit: n, Message: message})
}

// MaxItems allows a list to hold at most n entries.
func MaxItems(n int, message string) FieldOption {
	return Check(Constraint{Kind: ConstraintMaxItems, Limit: n, Message: message})
}

// Custom attaches a predicate over the field value.
func Custom(message string, predicate func(value any) bool) FieldOption {
	return Check(Constraint{Kind: ConstraintCustom, Predicate: predicate, Message: message})
}

// Refine builds a cross-field rule attached to target.
func Refine(name, target, message string, check func(values Values) bool) Rule {
	return Rule{Name: name, Target: target, Message: message, Check: check}
}

// FieldsMatch builds a rule requiring two fields to hold equal values; the
// error is attached to the second field (password / confirmation).
func FieldsMatch(field, confirm, message string) Rule {
	return Rule{
		Name:    "match:" + field + ":" + confirm,
		Target:  confirm,
		Message: message,
		Check: func(values Values) bool {
			return lookupString(values, field) == lookupString(values, confirm)
		},
	}
}
