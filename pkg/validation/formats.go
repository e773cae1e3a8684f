package validation

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formkit/pkg/schema"
)

var formatCheckers = map[string]func(string) bool{
	schema.FormatEmail: validEmail,
	schema.FormatURL:   validURL,
	schema.FormatUUID:  validUUID,
}

// validEmail accepts bare addresses (no display name) whose domain holds at
// least one dot.
func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}
	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" {
		return false
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return true
}

func validURL(value string) bool {
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func validUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}
