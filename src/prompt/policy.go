// Package prompt builds the oracle instruction for each modality. Every
// template biases the oracle toward "not authentic"; calibration downstream
// assumes that bias is present.
package prompt

import (
	"fmt"

	"github.com/stake-plus/truthlens/src/ai/core"
	"github.com/stake-plus/truthlens/src/modality"
)

// Template is the instruction text and output contract for one modality.
type Template struct {
	Instruction string
	// Keys lists the JSON fields the oracle is asked to return.
	Keys []string
	// Threshold is the confidence above which the oracle may only go with
	// overwhelming evidence of authenticity.
	Threshold float64
	// TextPrefix labels text payloads inside the user turn.
	TextPrefix string
}

var (
	textKeys   = []string{"verdict", "is_fake", "confidence", "rationale"}
	visualKeys = []string{"verdict", "confidence", "rationale"}
)

// For returns the template for kind.
func For(kind modality.Kind) Template {
	switch kind {
	case modality.KindText:
		return Template{Instruction: textTemplate, Keys: textKeys, Threshold: 0.8, TextPrefix: "NEWS:\n"}
	case modality.KindDocument:
		return Template{Instruction: documentTemplate, Keys: textKeys, Threshold: 0.8, TextPrefix: "PAGE:\n"}
	case modality.KindImage:
		return Template{Instruction: imageTemplate, Keys: visualKeys, Threshold: 0.8}
	case modality.KindAudio:
		return Template{Instruction: audioTemplate, Keys: textKeys, Threshold: 0.8}
	case modality.KindVideo:
		return Template{Instruction: videoTemplate, Keys: visualKeys, Threshold: 0.7}
	}
	panic(fmt.Sprintf("prompt: no template for %s", kind))
}

// Build pairs the payload with its modality's instruction. Binary blobs keep
// their order so that frame N of the clip is part N+1 of the request.
func Build(p modality.Payload) core.Request {
	tpl := For(p.Kind)
	req := core.Request{Prompt: tpl.Instruction}
	if p.Text != "" {
		req.Parts = append(req.Parts, core.TextPart(tpl.TextPrefix+p.Text))
	}
	for _, b := range p.Blobs {
		req.Parts = append(req.Parts, core.BlobPart(b.Data, b.MIMEType))
	}
	return req
}
