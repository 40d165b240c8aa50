package pipeline

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/stake-plus/truthlens/src/faults"
)

const (
	MinTextChars = 10
	MaxTextChars = 10000
)

// ValidateText enforces the caller-side length bounds on plain text.
func ValidateText(s string) error {
	n := utf8.RuneCountInString(s)
	switch {
	case n < MinTextChars:
		return faults.Validation("text must be at least 10 characters")
	case n > MaxTextChars:
		return faults.Validation("text too long")
	}
	return nil
}

// ValidateURL accepts absolute http(s) URLs with a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return faults.Validation("invalid url")
	}
	switch u.Scheme {
	case "http", "https":
		return nil
	}
	return faults.Validation("invalid url")
}
