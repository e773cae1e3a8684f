// Package formkit wires the schema engine and the form controller together.
//
// Most callers only need NewForm:
//
//	rec := schema.NewRecord(
//		schema.Text("name", schema.Required("Name is required")),
//		schema.Boolean("sendToEMail"),
//		schema.Text("email", schema.When("sendToEMail == true"), schema.Format(schema.FormatEmail, "")),
//	)
//	ctrl, err := formkit.NewForm(rec, form.WithMode(form.ValidateOnChange))
//
// Forms can also come from declarative documents (pkg/schemafile), from an
// OpenAPI request body (pkg/openapi) or from the bundled examples.
package formkit

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formkit/internal/catalog"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/schemafile"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// Values aliases schema.Values so callers can build records without an extra
// import.
type Values = schema.Values

// Result aliases validation.Result.
type Result = validation.Result

// NewForm compiles rec and binds a controller to it.
func NewForm(rec schema.Record, options ...form.Option) (*form.Controller, error) {
	validator, err := validation.Compile(rec)
	if err != nil {
		return nil, err
	}
	return form.New(validator, options...), nil
}

// NewFormFromDefinition builds a controller for a loaded schema document.
// The document's mode, defaults and post-submit record apply first, so
// options passed here win.
func NewFormFromDefinition(def schemafile.Form, options ...form.Option) (*form.Controller, error) {
	mode, ok := form.ParseMode(def.Mode)
	if !ok {
		return nil, fmt.Errorf("formkit: form %q: unknown mode %q", def.ID, def.Mode)
	}
	validator, err := def.Compile()
	if err != nil {
		return nil, fmt.Errorf("formkit: form %q: %w", def.ID, err)
	}
	base := []form.Option{form.WithMode(mode), form.WithDefaults(def.Defaults)}
	if def.PostSubmit != nil {
		base = append(base, form.WithPostSubmitValues(def.PostSubmit))
	}
	return form.New(validator, append(base, options...)...), nil
}

// NewFormFromOpenAPI imports the request body of operationID and binds a
// controller to it.
func NewFormFromOpenAPI(ctx context.Context, document []byte, operationID string, options ...form.Option) (*form.Controller, error) {
	rec, err := openapi.Import(ctx, document, operationID)
	if err != nil {
		return nil, err
	}
	return NewForm(rec, options...)
}

// ExampleForms lists the ids of the bundled example forms.
func ExampleForms() ([]string, error) {
	store, err := catalog.Load()
	if err != nil {
		return nil, err
	}
	return store.IDs(), nil
}

// ExampleForm returns one bundled example form.
func ExampleForm(id string) (schemafile.Form, error) {
	store, err := catalog.Load()
	if err != nil {
		return schemafile.Form{}, err
	}
	def, ok := store.Form(id)
	if !ok {
		return schemafile.Form{}, fmt.Errorf("formkit: unknown example form %q", id)
	}
	return def, nil
}
