package render_test

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

func applicationForm(t *testing.T) (*form.Controller, schema.Record) {
	t.Helper()
	experience := schema.NewRecord(
		schema.Text("position", schema.MinLength(1, "Position is required")),
	)
	rec := schema.NewRecord(
		schema.Text("name", schema.MinLength(1, "Name is required")),
		schema.Text("token", schema.Secret()),
		schema.Boolean("notify"),
		schema.Text("email", schema.When("notify == true")),
		schema.List("exp", experience),
	)
	v, err := validation.Compile(rec)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	c := form.New(v, form.WithDefaults(schema.Values{
		"exp": []any{map[string]any{"position": ""}},
	}))
	return c, rec
}

func TestSummary(t *testing.T) {
	c, rec := applicationForm(t)
	if err := c.SetValue("name", "Ada's"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.SetValue("token", "hunter2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	c.Trigger()

	engine, err := render.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	var buf bytes.Buffer
	out, err := engine.Summary("Job Application", rec, c.Snapshot(), &buf)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if buf.String() != out {
		t.Fatalf("writer output differs from returned output")
	}

	for _, want := range []string{
		"== Job Application [invalid] ==",
		"Name: Ada's *",
		"Token: ********",
		"Notify: no",
		"Exp: 1 entries",
		"  #1",
		"    Position: (empty)",
		"      ! Position is required",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hunter2") {
		t.Fatalf("secret leaked into summary:\n%s", out)
	}
	if strings.Contains(out, "Email") {
		t.Fatalf("inactive field rendered:\n%s", out)
	}
}

func TestRows(t *testing.T) {
	rec := schema.NewRecord(
		schema.Text("name"),
		schema.Object("owner", schema.NewRecord(schema.Text("email"))),
	)
	rows := render.Rows(rec, schema.Values{
		"name":  "Ada",
		"owner": map[string]any{"email": "ada@example.com"},
	}, nil)

	got := make([]string, 0, len(rows))
	for _, row := range rows {
		got = append(got, row.Indent+row.Path+"="+row.Value)
	}
	want := []string{"name=Ada", "owner=", "  owner.email=ada@example.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReceipt(t *testing.T) {
	_, rec := applicationForm(t)
	engine, err := render.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	out, err := engine.Receipt("Job Application", rec, schema.Values{
		"name":   "Ada",
		"notify": true,
		"email":  "ada@example.com",
		"exp":    []any{map[string]any{"position": "Engineer"}},
	})
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	for _, want := range []string{"Submitted Job Application", "Email: ada@example.com", "    Position: Engineer"} {
		if !strings.Contains(out, want) {
			t.Fatalf("receipt missing %q:\n%s", want, out)
		}
	}
}

func TestTemplateOverride(t *testing.T) {
	engine, err := render.New(render.WithFS(fstest.MapFS{
		"summary.tpl": {Data: []byte("custom {{ title }} {{ brand }}")},
	}), render.WithGlobalData(map[string]any{"brand": "formkit"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	c, rec := applicationForm(t)
	out, err := engine.Summary("Job", rec, c.Snapshot())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if out != "custom Job formkit" {
		t.Fatalf("unexpected override output %q", out)
	}

	out, err = engine.RenderString("Hello {{ name }}", map[string]any{"name": "Ada"})
	if err != nil || out != "Hello Ada" {
		t.Fatalf("render string = %q, %v", out, err)
	}
	if _, err := engine.Render("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
