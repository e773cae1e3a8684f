package validation

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// SanitizeText strips all markup from value. Entities produced by the policy
// are unescaped again so the result is plain text.
func SanitizeText(value string) string {
	if !strings.ContainsAny(value, "<>&") {
		return value
	}
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(strictPolicy.Sanitize(value))
}
