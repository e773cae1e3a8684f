package catalog_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/internal/catalog"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

func compileForm(t *testing.T, id string) (*validation.Validator, schema.Values) {
	t.Helper()
	store, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	def, ok := store.Form(id)
	if !ok {
		t.Fatalf("form %q missing, have %v", id, store.IDs())
	}
	v, err := def.Compile()
	if err != nil {
		t.Fatalf("compile %s: %v", id, err)
	}
	return v, def.Defaults
}

func TestCatalogForms(t *testing.T) {
	store, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if diff := cmp.Diff([]string{"application", "order", "signup"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	for _, id := range store.IDs() {
		def, _ := store.Form(id)
		if _, err := def.Compile(); err != nil {
			t.Fatalf("compile %s: %v", id, err)
		}
	}
}

func TestOrderFormDiscriminatesOnSendToEmail(t *testing.T) {
	v, _ := compileForm(t, "order")

	parsed, result := v.Parse(schema.Values{"name": "Ada", "sendToEMail": false, "email": "junk"})
	if !result.Valid() {
		t.Fatalf("expected valid order without email, got %v", result.Errors)
	}
	if _, ok := parsed["email"]; ok {
		t.Fatalf("inactive email must be stripped, got %v", parsed)
	}

	result = v.Validate(schema.Values{"name": "Ada", "sendToEMail": true})
	if got := result.Errors.First("email"); got != "Email is required" {
		t.Fatalf("expected required email message, got %q", got)
	}
	result = v.Validate(schema.Values{"name": "Ada", "sendToEMail": true, "email": "nope"})
	if got := result.Errors.First("email"); got != "Invalid email" {
		t.Fatalf("expected invalid email message, got %q", got)
	}
}

func TestSignupForm(t *testing.T) {
	v, _ := compileForm(t, "signup")

	result := v.Validate(schema.Values{
		"email":           "abcd@fg.com",
		"password":        "abcdefgh",
		"confirmPassword": "abcdefgx",
		"remember":        false,
	})
	want := validation.ErrorTree{
		"email":           {"This email is already taken"},
		"confirmPassword": {"Passwords do not match"},
		"accountType":     {"You must select an Account Type."},
		"accept":          {"You must accept Terms and Conditions."},
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestApplicationFormDefaults(t *testing.T) {
	v, defaults := compileForm(t, "application")
	c := form.New(v, form.WithDefaults(defaults), form.WithMode(form.ValidateOnChange))

	if err := c.SetValue("name", "Ada"); err != nil {
		t.Fatalf("set: %v", err)
	}
	snap := c.Snapshot()
	if !snap.Errors.Has("exp.0.position") {
		t.Fatalf("expected blank default entry to be invalid, got %v", snap.Errors)
	}

	c.SetValue("exp.0.position", "Engineer")
	c.SetValue("exp.0.responsibility", "Compilers")
	result, err := c.Submit(context.Background(), nil)
	if err != nil || !result.Valid() {
		t.Fatalf("expected valid submit, got %v, %v", result.Errors, err)
	}
	if got := c.Snapshot().Values["name"]; got != "" {
		t.Fatalf("expected reset to defaults, got %v", got)
	}
}
