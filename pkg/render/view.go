package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/visibility"
	"github.com/goliatone/go-formkit/pkg/visibility/expr"
)

const (
	SummaryTemplate = "summary"
	ReceiptTemplate = "receipt"

	secretMask = "********"
	emptyValue = "(empty)"
)

// Row is one printed line: a field, a list entry heading or a group heading.
type Row struct {
	Path   string
	Label  string
	Value  string
	Indent string
	Depth  int
	Dirty  bool
	Errors []string
}

// Rows flattens values into rows following the schema declaration order.
// Inactive conditional fields are omitted and secret values are masked.
// Errors and dirty flags are read from snap when it is non-nil.
func Rows(rec schema.Record, values schema.Values, snap *form.Snapshot) []Row {
	b := rowBuilder{snap: snap, root: values, eval: expr.New()}
	b.record(rec, values, "", 0)
	return b.rows
}

type rowBuilder struct {
	snap *form.Snapshot
	root schema.Values
	eval visibility.Evaluator
	rows []Row
}

func (b *rowBuilder) record(rec schema.Record, values schema.Values, prefix string, depth int) {
	for _, field := range rec.Fields {
		if field.When != "" {
			active, err := b.eval.Eval(field.When, visibility.Scope{Values: values, Root: b.root})
			if err == nil && !active {
				continue
			}
		}
		path := schema.JoinPath(prefix, field.Name)
		value := values[field.Name]

		switch field.Kind {
		case schema.KindList:
			items, _ := value.([]any)
			b.add(path, field.DisplayLabel(), fmt.Sprintf("%d entries", len(items)), depth)
			for idx, item := range items {
				entryPath := schema.JoinPath(path, fmt.Sprint(idx))
				b.add(entryPath, fmt.Sprintf("#%d", idx+1), "", depth+1)
				nested, _ := item.(map[string]any)
				if field.Item != nil {
					b.record(*field.Item, nested, entryPath, depth+2)
				}
			}
		case schema.KindObject:
			b.add(path, field.DisplayLabel(), "", depth)
			nested, _ := value.(map[string]any)
			if field.Nested != nil {
				b.record(*field.Nested, nested, path, depth+1)
			}
		default:
			b.add(path, field.DisplayLabel(), formatValue(field, value), depth)
		}
	}
}

func (b *rowBuilder) add(path, label, value string, depth int) {
	row := Row{
		Path:   path,
		Label:  label,
		Value:  value,
		Depth:  depth,
		Indent: strings.Repeat("  ", depth),
	}
	if b.snap != nil {
		row.Dirty = b.snap.Dirty[path]
		row.Errors = b.snap.Errors[path]
	}
	b.rows = append(b.rows, row)
}

func formatValue(field schema.Field, value any) string {
	switch field.Kind {
	case schema.KindBoolean:
		if flag, ok := value.(bool); ok && flag {
			return "yes"
		}
		return "no"
	default:
		text := ""
		if value != nil {
			text = fmt.Sprint(value)
		}
		if text == "" {
			return emptyValue
		}
		if field.Secret {
			return secretMask
		}
		return text
	}
}

// Summary renders the snapshot of a form.
func (e *Engine) Summary(title string, rec schema.Record, snap form.Snapshot, out ...io.Writer) (string, error) {
	return e.Render(SummaryTemplate, map[string]any{
		"title":        title,
		"status":       snap.Status.String(),
		"rows":         Rows(rec, snap.Values, &snap),
		"form_errors":  snap.FormErrors,
		"submit_count": snap.SubmitCount,
		"valid":        snap.IsValid,
	}, out...)
}

// Receipt renders a submitted record.
func (e *Engine) Receipt(title string, rec schema.Record, values schema.Values, out ...io.Writer) (string, error) {
	return e.Render(ReceiptTemplate, map[string]any{
		"title": title,
		"rows":  Rows(rec, values, nil),
	}, out...)
}
