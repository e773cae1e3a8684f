package validation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

const (
	codeType   = "type"
	codeChoice = "choice"
)

func defaultMessage(field schema.Field, c schema.Constraint) string {
	switch c.Kind {
	case schema.ConstraintRequired:
		switch field.Kind {
		case schema.KindChoice:
			return "Please select an option"
		case schema.KindBoolean:
			return "This box must be checked"
		case schema.KindList:
			return "At least one entry is required"
		default:
			return "This field is required"
		}
	case schema.ConstraintMinLength:
		return fmt.Sprintf("Must be at least %d character(s)", c.Limit)
	case schema.ConstraintMaxLength:
		return fmt.Sprintf("Must be at most %d character(s)", c.Limit)
	case schema.ConstraintPattern:
		return "Invalid format"
	case schema.ConstraintFormat:
		switch c.Format {
		case schema.FormatEmail:
			return "Invalid email address"
		case schema.FormatURL:
			return "Invalid URL"
		case schema.FormatUUID:
			return "Invalid UUID"
		}
		return "Invalid format"
	case schema.ConstraintEquals:
		return fmt.Sprintf("Must be %v", c.Literal)
	case schema.ConstraintNotEquals:
		return fmt.Sprintf("Must not be %v", c.Literal)
	case schema.ConstraintMinItems:
		return fmt.Sprintf("Must contain at least %d item(s)", c.Limit)
	case schema.ConstraintMaxItems:
		return fmt.Sprintf("Must contain at most %d item(s)", c.Limit)
	default:
		return "Invalid value"
	}
}

func typeMessage(kind schema.Kind, value any) string {
	return fmt.Sprintf("Expected %s, received %s", kind, describe(value))
}

func choiceMessage(options []string) string {
	return "Invalid option: expected one of " + strings.Join(options, ", ")
}

func describe(value any) string {
	switch value.(type) {
	case nil:
		return "nothing"
	case string:
		return "text"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any, []map[string]any:
		return "list"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", value)
	}
}
