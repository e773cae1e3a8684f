package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	inputPos     int
	passPos      int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newController(t *testing.T, rec schema.Record, opts ...form.Option) *form.Controller {
	t.Helper()
	v, err := validation.Compile(rec)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return form.New(v, opts...)
}

func capture(dst *schema.Values) form.SubmitFunc {
	return func(_ context.Context, values schema.Values) error {
		*dst = values
		return nil
	}
}

func TestRunSkipsInactiveFields(t *testing.T) {
	rec := schema.NewRecord(
		schema.Text("name"),
		schema.Boolean("sendToEMail"),
		schema.Text("email", schema.When("sendToEMail == true"), schema.Required("Email is required")),
	)

	cases := map[string]struct {
		driver *stubDriver
		want   schema.Values
	}{
		"with email": {
			driver: &stubDriver{inputs: []string{"Ada", "ada@example.com"}, confirm: []bool{true}},
			want:   schema.Values{"name": "Ada", "sendToEMail": true, "email": "ada@example.com"},
		},
		"without email": {
			driver: &stubDriver{inputs: []string{"Ada"}, confirm: []bool{false}},
			want:   schema.Values{"name": "Ada", "sendToEMail": false},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c := newController(t, rec)
			var submitted schema.Values
			result, err := New(WithPromptDriver(tc.driver)).Run(context.Background(), c, capture(&submitted))
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if !result.Valid() {
				t.Fatalf("expected valid result, got %v", result.Errors)
			}
			if diff := cmp.Diff(tc.want, submitted); diff != "" {
				t.Fatalf("submitted mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunRepromptsInvalidFields(t *testing.T) {
	rec := schema.NewRecord(
		schema.Text("email", schema.Required(""), schema.Format(schema.FormatEmail, "")),
		schema.Text("password", schema.Secret(), schema.MinLength(8, "")),
		schema.Choice("accountType", []string{"personal", "commercial"}, schema.Required("You must select an Account Type.")),
	)
	driver := &stubDriver{
		inputs:    []string{"nope", "ada@example.com"},
		passwords: []string{"abcdefgh"},
		selectIdx: []int{7, 1},
	}
	c := newController(t, rec)

	calls := 0
	var submitted schema.Values
	result, err := New(WithPromptDriver(driver)).Run(context.Background(), c, func(ctx context.Context, values schema.Values) error {
		calls++
		return capture(&submitted)(ctx, values)
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Valid() || calls != 1 {
		t.Fatalf("expected one valid submit, got %v after %d calls", result.Errors, calls)
	}
	want := schema.Values{"email": "ada@example.com", "password": "abcdefgh", "accountType": "commercial"}
	if diff := cmp.Diff(want, submitted); diff != "" {
		t.Fatalf("submitted mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{"! Invalid accountType selection", "! email: Invalid email address"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAddsListEntries(t *testing.T) {
	item := schema.NewRecord(schema.Text("position", schema.MinLength(1, "Position is required")))
	rec := schema.NewRecord(
		schema.Text("name"),
		schema.List("exp", item, schema.MinItems(1, "At least 1 work experience is required")),
	)
	driver := &stubDriver{
		inputs:  []string{"Ada", "Engineer"},
		confirm: []bool{false, true, false},
	}
	c := newController(t, rec)

	var submitted schema.Values
	result, err := New(WithPromptDriver(driver)).Run(context.Background(), c, capture(&submitted))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Valid() {
		t.Fatalf("expected valid result, got %v", result.Errors)
	}
	want := schema.Values{"name": "Ada", "exp": []any{map[string]any{"position": "Engineer"}}}
	if diff := cmp.Diff(want, submitted); diff != "" {
		t.Fatalf("submitted mismatch (-want +got):\n%s", diff)
	}
	wantInfo := []string{"! exp: At least 1 work experience is required", "Exp #1"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRunRevisitsExistingEntries(t *testing.T) {
	item := schema.NewRecord(schema.Text("position"))
	rec := schema.NewRecord(schema.List("exp", item))
	driver := &stubDriver{
		inputs:  []string{"Engineer"},
		confirm: []bool{false},
	}
	c := newController(t, rec, form.WithDefaults(schema.Values{
		"exp": []any{map[string]any{"position": "draft"}},
	}))

	if err := New(WithPromptDriver(driver)).Fill(context.Background(), c); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got, _ := c.Value("exp.0.position"); got != "Engineer" {
		t.Fatalf("expected entry to be updated, got %v", got)
	}
}

func TestRunGivesUp(t *testing.T) {
	rec := schema.NewRecord(schema.Text("name", schema.MinLength(1, "Name is required")))
	driver := &stubDriver{inputs: []string{"", ""}}
	c := newController(t, rec)

	result, err := New(WithPromptDriver(driver), WithMaxAttempts(1)).Run(context.Background(), c, func(context.Context, schema.Values) error {
		t.Fatalf("callback must not run")
		return nil
	})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if result.Errors.First("name") != "Name is required" {
		t.Fatalf("expected name error, got %v", result.Errors)
	}
	if driver.inputPos != 2 {
		t.Fatalf("expected two prompts, got %d", driver.inputPos)
	}
}

func TestRunPropagatesDriverErrors(t *testing.T) {
	rec := schema.NewRecord(schema.Text("name"))
	c := newController(t, rec)

	_, err := New(WithPromptDriver(&stubDriver{})).Run(context.Background(), c, nil)
	if err == nil || !strings.Contains(err.Error(), "no input scripted") {
		t.Fatalf("expected driver error, got %v", err)
	}
}
