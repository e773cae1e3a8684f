// Package visibility decides whether a conditional field is active for the
// current record. A field is active when its rule is empty or evaluates true.
package visibility

// Scope is the data a rule is evaluated against. Values is the record that
// declares the field; Root is the top-level form record, reachable from rules
// through the `root.` prefix.
type Scope struct {
	Values map[string]any
	Root   map[string]any
}

// Evaluator evaluates a rule string within a scope.
type Evaluator interface {
	Eval(rule string, scope Scope) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule string, scope Scope) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(rule string, scope Scope) (bool, error) {
	return fn(rule, scope)
}

// Always treats every rule as satisfied.
var Always Evaluator = EvaluatorFunc(func(string, Scope) (bool, error) { return true, nil })
