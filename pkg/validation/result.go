package validation

import (
	"sort"
	"strings"
)

// Issue is one violation found during validation. Code names the constraint
// kind that failed ("required", "minLength", "type", "choice") or
// "rule:<name>" for cross-field rules.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorTree maps a dotted field path to its ordered violation messages.
type ErrorTree map[string][]string

// Has reports whether any message is attached to path.
func (t ErrorTree) Has(path string) bool {
	return len(t[path]) > 0
}

// First returns the first message attached to path.
func (t ErrorTree) First(path string) string {
	if msgs := t[path]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Paths returns the paths that carry messages, sorted.
func (t ErrorTree) Paths() []string {
	paths := make([]string, 0, len(t))
	for path := range t {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Under returns the subset of the tree at or below prefix.
func (t ErrorTree) Under(prefix string) ErrorTree {
	out := make(ErrorTree)
	for path, msgs := range t {
		if path == prefix || strings.HasPrefix(path, prefix+".") {
			out[path] = append([]string(nil), msgs...)
		}
	}
	return out
}

// Clone deep-copies the tree.
func (t ErrorTree) Clone() ErrorTree {
	if t == nil {
		return nil
	}
	out := make(ErrorTree, len(t))
	for path, msgs := range t {
		out[path] = append([]string(nil), msgs...)
	}
	return out
}

// Result is the outcome of one validation pass. It is either valid (no
// issues) or invalid with a populated error tree.
type Result struct {
	Issues []Issue
	Errors ErrorTree
}

// Valid reports whether validation found no violations.
func (r Result) Valid() bool {
	return len(r.Issues) == 0
}

// Err exposes an invalid result as an error for callers that want one.
// Valid results return nil.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return Failure{Issues: append([]Issue(nil), r.Issues...)}
}

func newResult(issues []Issue) Result {
	if len(issues) == 0 {
		return Result{}
	}
	tree := make(ErrorTree)
	for _, issue := range issues {
		tree[issue.Path] = append(tree[issue.Path], issue.Message)
	}
	return Result{Issues: issues, Errors: tree}
}

// Failure wraps the issues of an invalid Result.
type Failure struct {
	Issues []Issue
}

func (f Failure) Error() string {
	if len(f.Issues) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(f.Issues))
	for _, issue := range f.Issues {
		parts = append(parts, issue.Path+": "+issue.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
