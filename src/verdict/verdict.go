// Package verdict holds the canonical verdict schema and the deterministic
// steps that turn raw oracle text into it: parsing, normalization and
// calibration.
package verdict

import "math"

// Label is the classification outcome.
type Label string

const (
	LabelFake      Label = "FAKE"
	LabelReal      Label = "REAL"
	LabelUncertain Label = "UNCERTAIN"
)

const (
	// DefaultRationale is used when the oracle gives no usable rationale.
	DefaultRationale = "No rationale provided."
	// DefaultConfidence is used when the oracle confidence is not a number.
	DefaultConfidence = 0.5

	fallbackConfidence = 0.3
	fallbackRationale  = "Could not parse model output reliably."
)

// Verdict is the canonical pipeline output. Treat it as a value: every
// transformation in this package returns a new Verdict.
type Verdict struct {
	Label      Label   `json:"verdict"`
	IsFake     bool    `json:"is_fake"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// New builds a Verdict that satisfies the schema: confidence is clamped,
// an empty rationale is replaced, and IsFake is only kept for FAKE labels.
func New(label Label, isFake bool, confidence float64, rationale string) Verdict {
	switch label {
	case LabelFake, LabelReal, LabelUncertain:
	default:
		label = LabelUncertain
	}
	if rationale == "" {
		rationale = DefaultRationale
	}
	return Verdict{
		Label:      label,
		IsFake:     isFake && label == LabelFake,
		Confidence: clamp(confidence, 0, 1),
		Rationale:  rationale,
	}
}

// Fallback is substituted when the oracle output cannot be parsed.
func Fallback() Verdict {
	return Verdict{
		Label:      LabelUncertain,
		IsFake:     false,
		Confidence: fallbackConfidence,
		Rationale:  fallbackRationale,
	}
}

// Valid reports whether v satisfies the schema invariants.
func (v Verdict) Valid() bool {
	if v.IsFake && v.Label != LabelFake {
		return false
	}
	if v.Confidence < 0 || v.Confidence > 1 || math.IsNaN(v.Confidence) {
		return false
	}
	return v.Rationale != ""
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	return math.Max(lo, math.Min(hi, x))
}
