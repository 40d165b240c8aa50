package verdict

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
)

// Record is a decoded oracle object. Field types are whatever the oracle sent.
type Record map[string]any

var (
	leadingFence  = regexp.MustCompile("^```[A-Za-z0-9_+-]*")
	trailingFence = regexp.MustCompile("```$")
)

// StripFences removes one leading fence marker (with optional language tag)
// and one trailing fence marker, then trims surrounding whitespace.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Parse decodes raw oracle text into a Record. ok is false on a parse fault:
// anything that is not a single JSON object once fences are stripped.
// Numbers stay json.Number so out-of-range literals reach Normalize intact.
func Parse(raw string) (rec Record, ok bool) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, false
	}
	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil || out == nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return Record(out), true
}
