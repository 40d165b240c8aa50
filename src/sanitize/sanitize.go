// Package sanitize strips markup from oracle-authored text before it leaves
// the process.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/stake-plus/truthlens/src/verdict"
)

var strict = bluemonday.StrictPolicy()

// Text removes every HTML element and returns plain text.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Verdict returns v with a markup-free rationale. Label, IsFake and
// Confidence are untouched.
func Verdict(v verdict.Verdict) verdict.Verdict {
	return verdict.New(v.Label, v.IsFake, v.Confidence, Text(v.Rationale))
}
