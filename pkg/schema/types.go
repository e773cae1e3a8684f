package schema

// Kind is the closed set of field kinds a record can hold.
type Kind string

const (
	KindText    Kind = "text"
	KindBoolean Kind = "boolean"
	KindChoice  Kind = "choice"
	KindObject  Kind = "object"
	KindList    Kind = "list"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindBoolean, KindChoice, KindObject, KindList:
		return true
	default:
		return false
	}
}

// ConstraintKind identifies a single constraint. The string values double as
// the keys used by schema documents.
type ConstraintKind string

const (
	ConstraintRequired  ConstraintKind = "required"
	ConstraintMinLength ConstraintKind = "minLength"
	ConstraintMaxLength ConstraintKind = "maxLength"
	ConstraintPattern   ConstraintKind = "pattern"
	ConstraintFormat    ConstraintKind = "format"
	ConstraintEquals    ConstraintKind = "equals"
	ConstraintNotEquals ConstraintKind = "notEquals"
	ConstraintMinItems  ConstraintKind = "minItems"
	ConstraintMaxItems  ConstraintKind = "maxItems"
	ConstraintCustom    ConstraintKind = "custom"
)

// Supported text formats.
const (
	FormatEmail = "email"
	FormatURL   = "url"
	FormatUUID  = "uuid"
)

// Values is the plain record shape handed to validators and rules. List
// fields hold []any (or []map[string]any) of nested Values.
type Values = map[string]any

// Constraint is one declarative check attached to a field. Only the parameter
// matching Kind is read: Limit for length/item bounds, Pattern, Format,
// Literal for equals/notEquals and Predicate for custom checks.
type Constraint struct {
	Kind      ConstraintKind
	Message   string
	Limit     int
	Pattern   string
	Format    string
	Literal   any
	Predicate func(value any) bool
}

// Field describes one input of a record.
type Field struct {
	Name        string
	Kind        Kind
	Label       string
	Description string
	Options     []string
	Nested      *Record
	Item        *Record
	Constraints []Constraint
	// When holds a visibility expression evaluated against the enclosing
	// record. Inactive fields are neither validated nor submitted.
	When     string
	Default  any
	Sanitize bool
	Secret   bool
}

// Required reports whether the field declares a required constraint.
func (f Field) Required() bool {
	for _, c := range f.Constraints {
		if c.Kind == ConstraintRequired {
			return true
		}
	}
	return false
}

// Constraint returns the first constraint of the given kind.
func (f Field) Constraint(kind ConstraintKind) (Constraint, bool) {
	for _, c := range f.Constraints {
		if c.Kind == kind {
			return c, true
		}
	}
	return Constraint{}, false
}

// DisplayLabel returns Label, falling back to a label derived from Name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return DefaultLabeler(f.Name)
}

// Rule is a cross-field check. Check receives the full record the rule is
// declared on; a false result attaches Message at Target.
type Rule struct {
	Name    string
	Target  string
	Message string
	Check   func(values Values) bool
}

// Record is an ordered set of fields plus the cross-field rules evaluated
// after every field has been checked.
type Record struct {
	Fields []Field
	Rules  []Rule
}

// Field looks up a direct child field by name.
func (r Record) Field(name string) (Field, bool) {
	for _, field := range r.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns field names in declaration order.
func (r Record) Names() []string {
	names := make([]string, 0, len(r.Fields))
	for _, field := range r.Fields {
		names = append(names, field.Name)
	}
	return names
}

// EmptyValue returns the zero value used for an absent field of this kind.
func EmptyValue(field Field) any {
	switch field.Kind {
	case KindBoolean:
		return false
	case KindList:
		return []any{}
	case KindObject:
		if field.Nested != nil {
			return field.Nested.EmptyValues()
		}
		return Values{}
	default:
		return ""
	}
}

// EmptyValues builds a record where every field holds its default, or the
// empty value of its kind when no default is declared.
func (r Record) EmptyValues() Values {
	out := make(Values, len(r.Fields))
	for _, field := range r.Fields {
		if field.Default != nil {
			out[field.Name] = cloneValue(field.Default)
			continue
		}
		out[field.Name] = EmptyValue(field)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = cloneValue(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = cloneValue(v)
		}
		return clone
	case []map[string]any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = cloneValue(v)
		}
		return clone
	default:
		return typed
	}
}

// CloneValues deep-copies maps and slices so callers can hand records across
// ownership boundaries.
func CloneValues(values Values) Values {
	if values == nil {
		return nil
	}
	return cloneValue(values).(map[string]any)
}
