package verdict

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Normalize maps an arbitrary Record onto a well-formed Verdict. It is total:
// every missing or mistyped field has a fixed default.
//
//	verdict     upper-cased string, exactly FAKE or REAL, else UNCERTAIN
//	is_fake     truthiness when present, else derived from the label;
//	            never true unless the label is FAKE
//	confidence  number clamped to [0,1], else 0.5
//	rationale   non-empty string, else DefaultRationale
func Normalize(rec Record) Verdict {
	label := labelOf(rec["verdict"])

	isFake := label == LabelFake
	if raw, ok := rec["is_fake"]; ok {
		isFake = truthy(raw) && label == LabelFake
	}

	confidence := DefaultConfidence
	if n, ok := number(rec["confidence"]); ok {
		confidence = clamp(n, 0, 1)
	}

	rationale := DefaultRationale
	if s, ok := rec["rationale"].(string); ok && s != "" {
		rationale = s
	}

	return Verdict{Label: label, IsFake: isFake, Confidence: confidence, Rationale: rationale}
}

// Conflicts reports whether the oracle's own is_fake flag disagrees with the
// label it returned. Normalize resolves the disagreement in favour of the
// label; callers may want to log it as a data-quality signal.
func Conflicts(rec Record) bool {
	raw, ok := rec["is_fake"]
	if !ok {
		return false
	}
	return truthy(raw) != (labelOf(rec["verdict"]) == LabelFake)
}

func labelOf(v any) Label {
	s, ok := v.(string)
	if !ok {
		return LabelUncertain
	}
	switch Label(strings.ToUpper(s)) {
	case LabelFake:
		return LabelFake
	case LabelReal:
		return LabelReal
	}
	return LabelUncertain
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case float32:
		return number(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return number(f)
	}
	return 0, false
}

// truthy follows loose JSON truthiness: false, 0, "", null are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		return (err == nil || errors.Is(err, strconv.ErrRange)) && f != 0
	case int:
		return t != 0
	}
	return true
}
