// Package expr implements the small expression language used by conditional
// fields and declarative cross-field rules.
//
// Supported forms:
//   - truthiness: `sendToEMail`, `!remember`
//   - comparison against a literal: `accountType == "commercial"`, `count != 3`
//   - comparison between fields: `password == $confirmPassword`
//   - composition with `&&`, `||` and parentheses
//
// Identifiers are dotted paths into the declaring record; the `root.` prefix
// reads from the top-level form record instead.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Program is a parsed expression ready for repeated evaluation.
type Program struct {
	source string
	root   node
}

// Parse compiles a rule. An empty rule parses to a program that is always
// true.
func Parse(rule string) (*Program, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return &Program{}, nil
	}
	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("expr: unexpected token %q", p.tokens[p.pos].raw)
	}
	return &Program{source: trimmed, root: root}, nil
}

// String returns the source the program was parsed from.
func (p *Program) String() string {
	if p == nil {
		return ""
	}
	return p.source
}

// Eval runs the program against scope.
func (p *Program) Eval(scope visibility.Scope) (bool, error) {
	if p == nil || p.root == nil {
		return true, nil
	}
	return p.root.eval(scope)
}

// Evaluator parses and evaluates rules on demand, satisfying
// visibility.Evaluator.
type Evaluator struct{}

// New returns an Evaluator.
func New() *Evaluator { return &Evaluator{} }

// Eval parses rule and evaluates it within scope.
func (e *Evaluator) Eval(rule string, scope visibility.Scope) (bool, error) {
	program, err := Parse(rule)
	if err != nil {
		return false, err
	}
	return program.Eval(scope)
}

var _ visibility.Evaluator = (*Evaluator)(nil)

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenReference
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
		case strings.HasPrefix(input[i:], "=="):
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
			i += 2
		case strings.HasPrefix(input[i:], "!="):
			tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
			i += 2
		case strings.HasPrefix(input[i:], "&&"):
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
			i += 2
		case strings.HasPrefix(input[i:], "||"):
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
			i += 2
		case ch == '!':
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			i++
		case ch == '=' || ch == '&' || ch == '|':
			return nil, fmt.Errorf("expr: unexpected %q at offset %d", ch, i)
		case ch == '"' || ch == '\'':
			end := closingQuote(input, i)
			if end < 0 {
				return nil, errors.New("expr: unterminated string literal")
			}
			literal := input[i : end+1]
			if ch == '\'' {
				literal = `"` + strings.ReplaceAll(literal[1:len(literal)-1], `"`, `\"`) + `"`
			}
			value, err := strconv.Unquote(literal)
			if err != nil {
				return nil, fmt.Errorf("expr: invalid string literal: %w", err)
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i = end + 1
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			tokens = append(tokens, classifyWord(input[start:i]))
		}
	}
	return tokens, nil
}

func closingQuote(input string, start int) int {
	quote := input[start]
	escaped := false
	for i := start + 1; i < len(input); i++ {
		switch {
		case escaped:
			escaped = false
		case input[i] == '\\':
			escaped = true
		case input[i] == quote:
			return i
		}
	}
	return -1
}

func isDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '(', ')', '!', '=', '&', '|', '"', '\'':
		return true
	default:
		return false
	}
}

func classifyWord(raw string) token {
	switch strings.ToLower(raw) {
	case "true", "false":
		return token{kind: tokenBool, raw: strings.ToLower(raw)}
	case "null", "nil":
		return token{kind: tokenNull, raw: "null"}
	}
	if strings.HasPrefix(raw, "$") && len(raw) > 1 {
		return token{kind: tokenReference, raw: raw[1:]}
	}
	if looksLikeNumber(raw) {
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return token{kind: tokenNumber, raw: raw}
		}
	}
	return token{kind: tokenIdentifier, raw: raw}
}

func looksLikeNumber(raw string) bool {
	ch := raw[0]
	return (ch >= '0' && ch <= '9') || ch == '-' || ch == '+' || ch == '.'
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) match(kind tokenKind) bool {
	if p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(tokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match(tokenAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.match(tokenNot) {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.match(tokenLParen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.match(tokenRParen) {
			return nil, errors.New("expr: missing closing ')'")
		}
		return inner, nil
	}
	if p.pos >= len(p.tokens) {
		return nil, errors.New("expr: empty expression")
	}
	ident := p.tokens[p.pos]
	if ident.kind != tokenIdentifier {
		return nil, fmt.Errorf("expr: expected identifier, got %q", ident.raw)
	}
	p.pos++

	for _, op := range []tokenKind{tokenEq, tokenNeq} {
		if !p.match(op) {
			continue
		}
		if p.pos >= len(p.tokens) {
			return nil, errors.New("expr: missing operand")
		}
		operand := p.tokens[p.pos]
		p.pos++
		switch operand.kind {
		case tokenString, tokenNumber, tokenBool, tokenNull, tokenReference:
		case tokenIdentifier:
			// bare words compare as strings
			operand.kind = tokenString
		default:
			return nil, fmt.Errorf("expr: expected operand, got %q", operand.raw)
		}
		return compareNode{path: ident.raw, negate: op == tokenNeq, operand: operand}, nil
	}
	return truthyNode{path: ident.raw}, nil
}

type node interface {
	eval(scope visibility.Scope) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(scope visibility.Scope) (bool, error) {
	ok, err := n.left.eval(scope)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(scope)
}

type andNode struct{ left, right node }

func (n andNode) eval(scope visibility.Scope) (bool, error) {
	ok, err := n.left.eval(scope)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(scope)
}

type notNode struct{ inner node }

func (n notNode) eval(scope visibility.Scope) (bool, error) {
	ok, err := n.inner.eval(scope)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type truthyNode struct{ path string }

func (n truthyNode) eval(scope visibility.Scope) (bool, error) {
	value, _ := lookup(scope, n.path)
	return truthy(value), nil
}

type compareNode struct {
	path    string
	negate  bool
	operand token
}

func (n compareNode) eval(scope visibility.Scope) (bool, error) {
	value, _ := lookup(scope, n.path)
	equal, err := n.equal(scope, value)
	if err != nil {
		return false, err
	}
	if n.negate {
		return !equal, nil
	}
	return equal, nil
}

func (n compareNode) equal(scope visibility.Scope, value any) (bool, error) {
	switch n.operand.kind {
	case tokenNull:
		return value == nil, nil
	case tokenBool:
		got, _ := coerceBool(value)
		return got == (n.operand.raw == "true"), nil
	case tokenNumber:
		want, err := strconv.ParseFloat(n.operand.raw, 64)
		if err != nil {
			return false, fmt.Errorf("expr: invalid number literal %q", n.operand.raw)
		}
		got, _ := coerceNumber(value)
		return got == want, nil
	case tokenReference:
		other, _ := lookup(scope, n.operand.raw)
		return coerceString(value) == coerceString(other), nil
	default:
		return coerceString(value) == n.operand.raw, nil
	}
}

func lookup(scope visibility.Scope, path string) (any, bool) {
	if rest, ok := strings.CutPrefix(path, "root."); ok {
		return schema.Lookup(scope.Root, rest)
	}
	return schema.Lookup(scope.Values, path)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		if f, ok := coerceNumber(value); ok {
			return f != 0
		}
		return true
	}
}

func coerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	default:
		return truthy(value), true
	}
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
