package openapi

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/schema"
)

const (
	integerPattern = `^-?[0-9]+$`
	numberPattern  = `^-?[0-9]+(\.[0-9]+)?$`
)

// formats maps OpenAPI string formats onto the formats the engine checks.
var formats = map[string]string{
	"email": schema.FormatEmail,
	"uri":   schema.FormatURL,
	"url":   schema.FormatURL,
	"uuid":  schema.FormatUUID,
}

func convertRecord(ref *openapi3.SchemaRef, path string) (schema.Record, error) {
	if ref == nil || ref.Value == nil {
		return schema.Record{}, fmt.Errorf("openapi: %s: unresolved schema reference", describePath(path))
	}
	src := ref.Value
	if typ := schemaType(src.Type); typ != "" && typ != "object" {
		return schema.Record{}, fmt.Errorf("openapi: %s: expected an object schema, got %s", describePath(path), typ)
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]bool, len(src.Required))
	for _, name := range src.Required {
		required[name] = true
	}

	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		field, err := convertField(name, src.Properties[name], required[name], schema.JoinPath(path, name))
		if err != nil {
			return schema.Record{}, err
		}
		fields = append(fields, field)
	}
	return schema.NewRecord(fields...), nil
}

func convertField(name string, ref *openapi3.SchemaRef, required bool, path string) (schema.Field, error) {
	if ref == nil || ref.Value == nil {
		return schema.Field{}, fmt.Errorf("openapi: %s: unresolved schema reference", path)
	}
	src := ref.Value

	opts := []schema.FieldOption{}
	if src.Title != "" {
		opts = append(opts, schema.Label(src.Title))
	}
	if src.Description != "" {
		opts = append(opts, schema.Description(src.Description))
	}
	if src.Default != nil {
		opts = append(opts, schema.Default(src.Default))
	}

	switch typ := schemaType(src.Type); typ {
	case "boolean":
		return schema.Boolean(name, opts...), nil

	case "string", "integer", "number":
		if len(src.Enum) > 0 {
			choices := make([]string, 0, len(src.Enum))
			for _, value := range src.Enum {
				choices = append(choices, fmt.Sprint(value))
			}
			if required {
				opts = append(opts, schema.Required(""))
			}
			return schema.Choice(name, choices, opts...), nil
		}
		return schema.Text(name, append(opts, textConstraints(src, typ, required)...)...), nil

	case "array":
		if src.Items == nil || src.Items.Value == nil || schemaType(src.Items.Value.Type) != "object" {
			return schema.Field{}, fmt.Errorf("openapi: %s: only arrays of objects are supported", path)
		}
		item, err := convertRecord(src.Items, path+".*")
		if err != nil {
			return schema.Field{}, err
		}
		if required && src.MinItems == 0 {
			opts = append(opts, schema.Required(""))
		}
		if src.MinItems > 0 {
			opts = append(opts, schema.MinItems(int(src.MinItems), ""))
		}
		if src.MaxItems != nil {
			opts = append(opts, schema.MaxItems(int(*src.MaxItems), ""))
		}
		return schema.List(name, item, opts...), nil

	case "object", "":
		if len(src.Properties) == 0 && typ == "" {
			return schema.Field{}, fmt.Errorf("openapi: %s: schema has no type", path)
		}
		nested, err := convertRecord(ref, path)
		if err != nil {
			return schema.Field{}, err
		}
		return schema.Object(name, nested, opts...), nil

	default:
		return schema.Field{}, fmt.Errorf("openapi: %s: unsupported type %q", path, typ)
	}
}

func textConstraints(src *openapi3.Schema, typ string, required bool) []schema.FieldOption {
	var opts []schema.FieldOption
	if required {
		opts = append(opts, schema.Required(""))
	}
	if src.MinLength > 0 {
		opts = append(opts, schema.MinLength(int(src.MinLength), ""))
	}
	if src.MaxLength != nil {
		opts = append(opts, schema.MaxLength(int(*src.MaxLength), ""))
	}
	switch typ {
	case "integer":
		opts = append(opts, schema.Pattern(integerPattern, "Must be a whole number"))
	case "number":
		opts = append(opts, schema.Pattern(numberPattern, "Must be a number"))
	}
	if src.Pattern != "" {
		opts = append(opts, schema.Pattern(src.Pattern, ""))
	}
	if format, ok := formats[src.Format]; ok {
		opts = append(opts, schema.Format(format, ""))
	}
	if src.Format == "password" || src.WriteOnly {
		opts = append(opts, schema.Secret())
	}
	return opts
}

// schemaType returns the first non-null type of a schema.
func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, typ := range types.Slice() {
		if typ != "null" {
			return typ
		}
	}
	return ""
}

func describePath(path string) string {
	if path == "" {
		return "request body"
	}
	return path
}
