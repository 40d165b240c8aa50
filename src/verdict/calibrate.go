package verdict

import (
	"fmt"

	"github.com/stake-plus/truthlens/src/modality"
)

const (
	imageDampening  = 0.75
	imageCeiling    = 0.85
	imageRealAccept = 0.8
)

// Calibrate applies the post-hoc adjustment for the payload's modality.
// It must be applied exactly once per oracle response: it is not idempotent.
func Calibrate(kind modality.Kind, v Verdict) Verdict {
	switch kind {
	case modality.KindImage:
		return dampen(v)
	case modality.KindText, modality.KindDocument, modality.KindAudio, modality.KindVideo:
		return v
	}
	panic(fmt.Sprintf("verdict: no calibration policy for %s", kind))
}

// Calibrates reports whether kind has a non-identity calibration step.
func Calibrates(kind modality.Kind) bool {
	return kind == modality.KindImage
}

// dampen scales confidence down with an absolute ceiling, then refuses to
// report REAL below the acceptance threshold.
func dampen(v Verdict) Verdict {
	out := v
	out.Confidence = clamp(v.Confidence*imageDampening, 0, imageCeiling)
	if out.Label == LabelReal && out.Confidence < imageRealAccept {
		out.Label = LabelUncertain
	}
	out.IsFake = out.IsFake && out.Label == LabelFake
	return out
}
