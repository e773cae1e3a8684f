package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// JoinPath joins dotted path segments, skipping empty parts.
func JoinPath(parts ...string) string {
	var out []string
	for _, part := range parts {
		part = strings.Trim(strings.TrimSpace(part), ".")
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return strings.Join(out, ".")
}

// IndexPath addresses a field inside a list element: "exp.1.position".
func IndexPath(list string, index int, field string) string {
	return JoinPath(list, strconv.Itoa(index), field)
}

// SplitPath splits a dotted path into its segments.
func SplitPath(path string) []string {
	trimmed := strings.Trim(strings.TrimSpace(path), ".")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, ".")
}

// IsIndex reports whether the segment is a non-negative list index.
func IsIndex(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Resolve walks a dotted path through the record and returns the field it
// addresses. The segment following a list field selects an element (by index
// or by identity key) and is not itself a field, so "exp.0.position"
// resolves while "exp.0" does not.
func (r Record) Resolve(path string) (Field, bool) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return Field{}, false
	}

	current := r
	for i := 0; i < len(segments); i++ {
		field, ok := current.Field(segments[i])
		if !ok {
			return Field{}, false
		}
		if i == len(segments)-1 {
			return field, true
		}
		switch field.Kind {
		case KindObject:
			if field.Nested == nil {
				return Field{}, false
			}
			current = *field.Nested
		case KindList:
			if field.Item == nil {
				return Field{}, false
			}
			// skip the element selector
			i++
			if i == len(segments)-1 {
				return Field{}, false
			}
			current = *field.Item
		default:
			return Field{}, false
		}
	}
	return Field{}, false
}

// Lookup resolves a dotted path inside a plain record. Numeric segments index
// into lists.
func Lookup(values Values, path string) (any, bool) {
	if values == nil {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}
	var current any = values
	for _, segment := range SplitPath(path) {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		case []map[string]any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func lookupString(values Values, path string) string {
	value, ok := Lookup(values, path)
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
