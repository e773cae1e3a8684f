package expr

import (
	"testing"

	"github.com/goliatone/go-formkit/pkg/visibility"
)

func TestEvaluatorRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		rule   string
		values map[string]any
		want   bool
	}{
		{name: "empty rule", rule: "  ", want: true},
		{name: "bool literal", rule: "sendToEMail == true", values: map[string]any{"sendToEMail": true}, want: true},
		{name: "bool literal from string", rule: "sendToEMail == true", values: map[string]any{"sendToEMail": "true"}, want: true},
		{name: "bool literal mismatch", rule: "sendToEMail == true", values: map[string]any{"sendToEMail": false}, want: false},
		{name: "missing bool", rule: "sendToEMail == true", values: map[string]any{}, want: false},
		{name: "truthy", rule: "sendToEMail", values: map[string]any{"sendToEMail": true}, want: true},
		{name: "negation", rule: "!remember", values: map[string]any{"remember": false}, want: true},
		{name: "string literal", rule: `accountType == "commercial"`, values: map[string]any{"accountType": "commercial"}, want: true},
		{name: "single quoted", rule: `accountType != 'personal'`, values: map[string]any{"accountType": "personal"}, want: false},
		{name: "bare word", rule: `accountType == personal`, values: map[string]any{"accountType": "personal"}, want: true},
		{name: "number", rule: "count == 3", values: map[string]any{"count": 3}, want: true},
		{name: "null missing", rule: "missing == null", values: map[string]any{}, want: true},
		{name: "not null", rule: "enabled != null", values: map[string]any{"enabled": false}, want: true},
		{name: "nested path", rule: `owner.email != ""`, values: map[string]any{"owner": map[string]any{"email": "a@b.co"}}, want: true},
		{name: "list index", rule: `exp.0.position == "dev"`, values: map[string]any{"exp": []any{map[string]any{"position": "dev"}}}, want: true},
		{name: "field reference", rule: "password == $confirmPassword", values: map[string]any{"password": "abcdefgh", "confirmPassword": "abcdefgh"}, want: true},
		{name: "field reference mismatch", rule: "password == $confirmPassword", values: map[string]any{"password": "abcdefgh", "confirmPassword": "different"}, want: false},
		{name: "and", rule: `enabled == true && role == "admin"`, values: map[string]any{"enabled": true, "role": "user"}, want: false},
		{name: "or", rule: `enabled == true || role == "admin"`, values: map[string]any{"enabled": false, "role": "admin"}, want: true},
		{name: "parens", rule: `!(a || b) && c`, values: map[string]any{"a": false, "b": false, "c": true}, want: true},
	}

	eval := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := eval.Eval(tc.rule, visibility.Scope{Values: tc.values})
			if err != nil {
				t.Fatalf("Eval returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Eval(%q) = %v, want %v", tc.rule, got, tc.want)
			}
		})
	}
}

func TestEvaluatorRootPrefix(t *testing.T) {
	t.Parallel()

	program, err := Parse(`root.sendToEMail == true`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ok, err := program.Eval(visibility.Scope{
		Values: map[string]any{"position": "dev"},
		Root:   map[string]any{"sendToEMail": true},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected root lookup to succeed")
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	for _, rule := range []string{
		"a = b",
		"a & b",
		`a == "unterminated`,
		"(a",
		"a ==",
		"== b",
		"a b",
	} {
		if _, err := Parse(rule); err == nil {
			t.Fatalf("expected parse error for %q", rule)
		}
	}
}
