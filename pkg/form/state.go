package form

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// entry is one element of a list field. values uses the same layout as the
// record root: list fields nested inside hold []*entry.
type entry struct {
	key    string
	values map[string]any
}

// build converts a plain record into the controller layout, tagging every
// list element with a fresh identity key. Undeclared keys are kept verbatim.
func (c *Controller) build(rec schema.Record, plain map[string]any) map[string]any {
	out := make(map[string]any, len(plain)+len(rec.Fields))
	for k, v := range plain {
		out[k] = deepCopy(v)
	}
	for _, field := range rec.Fields {
		raw := plain[field.Name]
		switch field.Kind {
		case schema.KindObject:
			if nested, ok := raw.(map[string]any); ok && field.Nested != nil {
				out[field.Name] = c.build(*field.Nested, nested)
			}
		case schema.KindList:
			if field.Item != nil {
				out[field.Name] = c.buildEntries(*field.Item, raw)
			}
		}
	}
	return out
}

func (c *Controller) buildEntries(item schema.Record, raw any) []*entry {
	var elements []any
	switch typed := raw.(type) {
	case []any:
		elements = typed
	case []map[string]any:
		for _, element := range typed {
			elements = append(elements, element)
		}
	}
	entries := make([]*entry, 0, len(elements))
	for _, element := range elements {
		entries = append(entries, c.newEntry(item, element))
	}
	return entries
}

func (c *Controller) newEntry(item schema.Record, raw any) *entry {
	values := item.EmptyValues()
	if m, ok := raw.(map[string]any); ok {
		for k, v := range m {
			values[k] = v
		}
	}
	return &entry{key: c.newKey(), values: c.build(item, values)}
}

// export converts the controller layout back into a plain record.
func export(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = exportValue(v)
	}
	return out
}

func exportValue(value any) any {
	switch typed := value.(type) {
	case []*entry:
		list := make([]any, len(typed))
		for i, e := range typed {
			list[i] = export(e.values)
		}
		return list
	case map[string]any:
		return export(typed)
	default:
		return deepCopy(typed)
	}
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}

// findEntry locates an entry by identity key, falling back to an index.
func findEntry(entries []*entry, selector string) int {
	for i, e := range entries {
		if e.key == selector {
			return i
		}
	}
	if schema.IsIndex(selector) {
		idx, err := strconv.Atoi(selector)
		if err == nil && idx < len(entries) {
			return idx
		}
	}
	return -1
}

// translate rewrites the list selectors of path into identity keys (stable)
// or indexes. Selectors in the input may be either. It fails when the path
// leaves the schema or names an entry that does not exist.
func (c *Controller) translate(path string, stable bool) (string, bool) {
	segments := schema.SplitPath(path)
	if len(segments) == 0 {
		return "", false
	}
	rec := c.schema
	node := c.values
	out := make([]string, 0, len(segments))
	for i := 0; i < len(segments); i++ {
		field, ok := rec.Field(segments[i])
		if !ok {
			return "", false
		}
		out = append(out, segments[i])
		if i == len(segments)-1 {
			break
		}
		switch field.Kind {
		case schema.KindObject:
			if field.Nested == nil {
				return "", false
			}
			nested, _ := node[field.Name].(map[string]any)
			node = nested
			rec = *field.Nested
		case schema.KindList:
			if field.Item == nil {
				return "", false
			}
			i++
			entries, _ := node[field.Name].([]*entry)
			idx := findEntry(entries, segments[i])
			if idx < 0 {
				return "", false
			}
			if stable {
				out = append(out, entries[idx].key)
			} else {
				out = append(out, strconv.Itoa(idx))
			}
			node = entries[idx].values
			rec = *field.Item
		default:
			return "", false
		}
	}
	return strings.Join(out, "."), true
}

// container walks a stable path to the map holding its last segment,
// creating object maps on the way when they are missing.
func (c *Controller) container(stable string) (map[string]any, string, bool) {
	segments := schema.SplitPath(stable)
	if len(segments) == 0 {
		return nil, "", false
	}
	rec := c.schema
	node := c.values
	for i := 0; i < len(segments)-1; i++ {
		field, ok := rec.Field(segments[i])
		if !ok {
			return nil, "", false
		}
		switch field.Kind {
		case schema.KindObject:
			nested, ok := node[field.Name].(map[string]any)
			if !ok {
				nested = make(map[string]any)
				node[field.Name] = nested
			}
			node = nested
			rec = *field.Nested
		case schema.KindList:
			i++
			entries, _ := node[field.Name].([]*entry)
			idx := findEntry(entries, segments[i])
			if idx < 0 || i == len(segments)-1 {
				return nil, "", false
			}
			node = entries[idx].values
			rec = *field.Item
		default:
			return nil, "", false
		}
	}
	return node, segments[len(segments)-1], true
}

// hasPrefix reports whether path equals prefix or lies beneath it.
func hasPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+".")
}
