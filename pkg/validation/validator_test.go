package validation_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

func signupSchema() schema.Record {
	return schema.NewRecord(
		schema.Text("email",
			schema.Required("Email is required"),
			schema.Format(schema.FormatEmail, "This is not a valid email."),
			schema.NotEquals("abcd@fg.com", "This email is already taken"),
		),
		schema.Text("password",
			schema.Secret(),
			schema.MinLength(8, "Password must be at least 8 character(s)"),
			schema.MaxLength(24, "Password must be at less than 24 character(s)"),
		),
		schema.Text("confirmPassword",
			schema.Secret(),
			schema.MinLength(8, "Password must be at least 8 character(s)"),
			schema.MaxLength(24, "Password must be at less than 24 character(s)"),
		),
		schema.Choice("accountType", []string{"personal", "commercial"},
			schema.Required("You must select an Account Type."),
		),
		schema.Boolean("remember"),
		schema.Boolean("accept", schema.Equals(true, "You must accept Terms and Conditions.")),
	).WithRules(schema.FieldsMatch("password", "confirmPassword", "Passwords do not match"))
}

func applicationSchema() schema.Record {
	experience := schema.NewRecord(
		schema.Text("position", schema.MinLength(1, "Position is required"), schema.MaxLength(100, "")),
		schema.Text("responsibility", schema.MinLength(1, "Responsibility is required"), schema.MaxLength(100, "")),
	)
	return schema.NewRecord(
		schema.Text("name", schema.MinLength(1, "Name is required"), schema.MaxLength(100, "")),
		schema.Text("bio"),
		schema.List("exp", experience, schema.MinItems(1, "At least 1 work experience is required")),
	)
}

func validSignup() schema.Values {
	return schema.Values{
		"email":           "ada@example.com",
		"password":        "abcdefgh",
		"confirmPassword": "abcdefgh",
		"accountType":     "personal",
		"accept":          true,
	}
}

func TestValidateConformingRecordIsValid(t *testing.T) {
	v := validation.MustCompile(signupSchema())

	result := v.Validate(validSignup())
	if !result.Valid() {
		t.Fatalf("expected valid result, got %v", result.Errors)
	}
	if result.Err() != nil {
		t.Fatalf("expected nil error for valid result")
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	v := validation.MustCompile(signupSchema())

	for _, name := range []string{"email", "accountType", "accept"} {
		values := validSignup()
		delete(values, name)

		result := v.Validate(values)
		if result.Valid() {
			t.Fatalf("expected invalid result without %s", name)
		}
		if !result.Errors.Has(name) {
			t.Fatalf("expected error at %s, got %v", name, result.Errors)
		}
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	v := validation.MustCompile(signupSchema())
	values := validSignup()
	values["confirmPassword"] = "different"
	values["email"] = "nope"

	snapshot := schema.CloneValues(values)

	first := v.Validate(values)
	second := v.Validate(values)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("results differ between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(snapshot, values); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
}

func TestValidatePasswordMismatchTargetsConfirmation(t *testing.T) {
	v := validation.MustCompile(signupSchema())
	values := validSignup()
	values["password"] = "abcdefgh"
	values["confirmPassword"] = "different"

	result := v.Validate(values)
	want := validation.ErrorTree{"confirmPassword": {"Passwords do not match"}}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("error tree mismatch (-want +got):\n%s", diff)
	}
	if got := result.Issues[0].Code; got != "rule:match:password:confirmPassword" {
		t.Fatalf("unexpected issue code %q", got)
	}
}

func TestValidateCrossFieldErrorsAreAdditive(t *testing.T) {
	v := validation.MustCompile(signupSchema())
	values := validSignup()
	values["password"] = "abcdefgh"
	values["confirmPassword"] = "short"

	result := v.Validate(values)
	want := []string{"Password must be at least 8 character(s)", "Passwords do not match"}
	if diff := cmp.Diff(want, result.Errors["confirmPassword"]); diff != "" {
		t.Fatalf("confirmPassword messages mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateShortCircuitsPerField(t *testing.T) {
	v := validation.MustCompile(signupSchema())
	values := validSignup()
	values["email"] = ""

	result := v.Validate(values)
	want := []string{"Email is required"}
	if diff := cmp.Diff(want, result.Errors["email"]); diff != "" {
		t.Fatalf("email messages mismatch (-want +got):\n%s", diff)
	}

	values["email"] = "abcd@fg.com"
	result = v.Validate(values)
	if got := result.Errors.First("email"); got != "This email is already taken" {
		t.Fatalf("unexpected email message %q", got)
	}
}

func TestValidateChoiceMessages(t *testing.T) {
	v := validation.MustCompile(schema.NewRecord(
		schema.Choice("accountType", []string{"personal", "commercial"}, schema.Required("")),
		schema.Text("name", schema.Required("")),
	))

	result := v.Validate(schema.Values{"accountType": ""})
	if got := result.Errors.First("accountType"); got != "Please select an option" {
		t.Fatalf("unexpected choice message %q", got)
	}
	if got := result.Errors.First("name"); got != "This field is required" {
		t.Fatalf("unexpected text message %q", got)
	}

	result = v.Validate(schema.Values{"accountType": "enterprise", "name": "Ada"})
	if got := result.Errors.First("accountType"); got != "Invalid option: expected one of personal, commercial" {
		t.Fatalf("unexpected invalid choice message %q", got)
	}
}

func TestValidateTypeMismatch(t *testing.T) {
	v := validation.MustCompile(schema.NewRecord(
		schema.Text("name"),
		schema.Boolean("accept"),
	))

	result := v.Validate(schema.Values{"name": 42, "accept": "on"})
	want := validation.ErrorTree{"name": {"Expected text, received number"}}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("error tree mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateListMinimumLength(t *testing.T) {
	v := validation.MustCompile(applicationSchema())

	result := v.Validate(schema.Values{"name": "Ada", "exp": []any{}})
	want := validation.ErrorTree{"exp": {"At least 1 work experience is required"}}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("error tree mismatch (-want +got):\n%s", diff)
	}

	result = v.Validate(schema.Values{
		"name": "Ada",
		"exp":  []any{map[string]any{"position": "Engineer", "responsibility": "Compilers"}},
	})
	if !result.Valid() {
		t.Fatalf("expected valid result, got %v", result.Errors)
	}
}

func TestValidateListElementPaths(t *testing.T) {
	v := validation.MustCompile(applicationSchema())

	result := v.Validate(schema.Values{
		"name": "Ada",
		"exp": []map[string]any{
			{"position": "Engineer", "responsibility": "Compilers"},
			{"position": "", "responsibility": ""},
		},
	})
	want := validation.ErrorTree{
		"exp.1.position":       {"Position is required"},
		"exp.1.responsibility": {"Responsibility is required"},
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("error tree mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateConditionalField(t *testing.T) {
	v := validation.MustCompile(schema.NewRecord(
		schema.Text("name"),
		schema.Boolean("sendToEMail"),
		schema.Text("email",
			schema.When("sendToEMail == true"),
			schema.Required("Email is required"),
			schema.Format(schema.FormatEmail, ""),
		),
	))

	out, result := v.Parse(schema.Values{"name": "Ada", "sendToEMail": false, "email": "stale"})
	if !result.Valid() {
		t.Fatalf("inactive field should not be validated, got %v", result.Errors)
	}
	if _, ok := out["email"]; ok {
		t.Fatalf("inactive field should be stripped from output: %v", out)
	}

	result = v.Validate(schema.Values{"name": "Ada", "sendToEMail": true})
	if got := result.Errors.First("email"); got != "Email is required" {
		t.Fatalf("unexpected email message %q", got)
	}
}

func TestParseSanitizesAndStripsUnknownKeys(t *testing.T) {
	v := validation.MustCompile(schema.NewRecord(
		schema.Text("bio", schema.Sanitize()),
	))

	out, result := v.Parse(schema.Values{"bio": `<script>x()</script>Hello <b>there</b> & co`, "extra": 1})
	if !result.Valid() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	want := schema.Values{"bio": "Hello there & co"}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("parsed output mismatch (-want +got):\n%s", diff)
	}
}

func TestResultErrListsIssues(t *testing.T) {
	v := validation.MustCompile(applicationSchema())

	err := v.Validate(schema.Values{}).Err()
	var failure validation.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("expected validation.Failure, got %T", err)
	}
	if len(failure.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %v", failure.Issues)
	}
}
