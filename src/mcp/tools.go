package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/stake-plus/truthlens/src/faults"
	"github.com/stake-plus/truthlens/src/modality"
	"github.com/stake-plus/truthlens/src/pipeline"
	"github.com/stake-plus/truthlens/src/sanitize"
	"github.com/stake-plus/truthlens/src/verdict"
)

// MetadataVerifyText describes the verify_text tool.
var MetadataVerifyText = &sdk.Tool{
	Name: "verify_text",
	Description: "Assess whether a news claim or article text is likely fake, real or uncertain. " +
		"Returns a verdict label, an is_fake flag, a confidence in [0,1] and a short rationale. " +
		"The classifier is deliberately skeptical; UNCERTAIN is common for unverifiable claims.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"text"},
		"properties": map[string]interface{}{
			"text": map[string]interface{}{
				"type":        "string",
				"description": "The text to assess, between 10 and 10000 characters.",
				"minLength":   pipeline.MinTextChars,
				"maxLength":   pipeline.MaxTextChars,
			},
		},
	},
}

// MetadataVerifyURL describes the verify_url tool.
var MetadataVerifyURL = &sdk.Tool{
	Name: "verify_url",
	Description: "Fetch a web page, extract its title, description and body text, and assess " +
		"whether the content is likely fake, real or uncertain.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"url"},
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Absolute http or https URL of the page to assess.",
			},
		},
	},
}

// InputVerifyText is the input for the verify_text tool.
type InputVerifyText struct {
	Text string `json:"text"`
}

// InputVerifyURL is the input for the verify_url tool.
type InputVerifyURL struct {
	URL string `json:"url"`
}

// OutputVerify is returned by both tools.
type OutputVerify struct {
	Verdict    verdict.Label `json:"verdict"`
	IsFake     bool          `json:"is_fake"`
	Confidence float64       `json:"confidence"`
	Rationale  string        `json:"rationale"`
	// ParseFault is set when the classifier reply was unusable and the
	// fallback verdict was substituted.
	ParseFault      bool   `json:"parse_fault"`
	Source          string `json:"source,omitempty"`
	InputLength     int    `json:"input_length,omitempty"`
	ExtractedLength int    `json:"extracted_length,omitempty"`
}

// VerifyText runs the pipeline over plain text.
func (s *Server) VerifyText(ctx context.Context, _ *sdk.CallToolRequest, input InputVerifyText) (*sdk.CallToolResult, OutputVerify, error) {
	if err := pipeline.ValidateText(input.Text); err != nil {
		return nil, OutputVerify{}, err
	}
	return s.verify(ctx, modality.Text{Body: input.Text})
}

// VerifyURL runs the pipeline over a fetched document.
func (s *Server) VerifyURL(ctx context.Context, _ *sdk.CallToolRequest, input InputVerifyURL) (*sdk.CallToolResult, OutputVerify, error) {
	if err := pipeline.ValidateURL(input.URL); err != nil {
		return nil, OutputVerify{}, err
	}
	return s.verify(ctx, modality.Document{URL: input.URL})
}

func (s *Server) verify(ctx context.Context, in modality.Input) (*sdk.CallToolResult, OutputVerify, error) {
	res, err := s.runner.Run(ctx, in)
	if err != nil {
		s.cfg.Logger.Info("mcp verify failed", zap.Stringer("kind", in.Kind()), zap.Error(err))
		if fe, ok := faults.As(err); ok {
			return nil, OutputVerify{}, fe
		}
		return nil, OutputVerify{}, err
	}
	v := sanitize.Verdict(res.Verdict)
	return nil, OutputVerify{
		Verdict:         v.Label,
		IsFake:          v.IsFake,
		Confidence:      v.Confidence,
		Rationale:       v.Rationale,
		ParseFault:      res.ParseFault,
		Source:          res.Meta.Source,
		InputLength:     res.Meta.InputLength,
		ExtractedLength: res.Meta.ExtractedLength,
	}, nil
}
