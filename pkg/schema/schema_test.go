package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/schema"
)

func applicationRecord() schema.Record {
	return schema.NewRecord(
		schema.Text("name"),
		schema.Object("owner", schema.NewRecord(schema.Text("email"))),
		schema.List("exp", schema.NewRecord(schema.Text("position"))),
	)
}

func TestRecordResolve(t *testing.T) {
	rec := applicationRecord()

	cases := map[string]bool{
		"name":               true,
		"owner":              true,
		"owner.email":        true,
		"exp":                true,
		"exp.0.position":     true,
		"exp.k-123.position": true,
		"exp.0":              false,
		"exp.position":       false,
		"name.first":         false,
		"missing":            false,
		"":                   false,
	}
	for path, want := range cases {
		if _, got := rec.Resolve(path); got != want {
			t.Fatalf("Resolve(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestEmptyValues(t *testing.T) {
	rec := schema.NewRecord(
		schema.Text("name"),
		schema.Boolean("accept"),
		schema.Choice("tier", []string{"a"}),
		schema.List("exp", schema.NewRecord(schema.Text("position"))),
		schema.Object("owner", schema.NewRecord(schema.Text("email", schema.Default("x@y.z")))),
	)

	want := schema.Values{
		"name":   "",
		"accept": false,
		"tier":   "",
		"exp":    []any{},
		"owner":  schema.Values{"email": "x@y.z"},
	}
	if diff := cmp.Diff(want, rec.EmptyValues()); diff != "" {
		t.Fatalf("empty values mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	values := schema.Values{
		"owner": map[string]any{"email": "a@b.co"},
		"exp":   []any{map[string]any{"position": "dev"}},
	}
	if got, ok := schema.Lookup(values, "exp.0.position"); !ok || got != "dev" {
		t.Fatalf("Lookup exp.0.position = %v, %v", got, ok)
	}
	if got, ok := schema.Lookup(values, "owner.email"); !ok || got != "a@b.co" {
		t.Fatalf("Lookup owner.email = %v, %v", got, ok)
	}
	if _, ok := schema.Lookup(values, "exp.3.position"); ok {
		t.Fatalf("expected out of range lookup to fail")
	}
}

func TestWithRulesDoesNotMutate(t *testing.T) {
	base := schema.NewRecord(schema.Text("a"), schema.Text("b"))
	withRule := base.WithRules(schema.FieldsMatch("a", "b", ""))
	if len(base.Rules) != 0 {
		t.Fatalf("base record mutated")
	}
	if len(withRule.Rules) != 1 || withRule.Rules[0].Target != "b" {
		t.Fatalf("unexpected rules %+v", withRule.Rules)
	}
	if !withRule.Rules[0].Check(schema.Values{"a": "x", "b": "x"}) {
		t.Fatalf("expected matching values to pass")
	}
	if withRule.Rules[0].Check(schema.Values{"a": "x"}) {
		t.Fatalf("expected missing confirmation to fail")
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"confirmPassword": "Confirm password",
		"account_type":    "Account Type",
		"sendToEMail":     "Send to email",
	}
	for in, want := range cases {
		if got := schema.DefaultLabeler(in); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", in, got, want)
		}
	}
}
