package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/stake-plus/truthlens/src/ai/core"
)

func init() {
	core.RegisterProvider("gemini", newClient)
}

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type client struct {
	models   generator
	defaults core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("gemini: %w", core.ErrMissingCredential)
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(cfg.Extra["base_url"]); base != "" {
		cc.HTTPOptions.BaseURL = base
	}
	gc, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}

	return &client{
		models: gc.Models,
		defaults: core.Options{
			Model:               core.ResolveModelName("gemini", cfg.Model),
			Temperature:         cfg.Temperature,
			MaxCompletionTokens: core.OrInt(cfg.MaxCompletionTokens, 2048),
		},
	}, nil
}

func (c *client) Classify(ctx context.Context, req core.Request) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.defaults.Temperature)),
		MaxOutputTokens: int32(c.defaults.MaxCompletionTokens),
	}
	resp, err := c.models.GenerateContent(ctx, c.defaults.Model, buildContents(req), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	return resp.Text(), nil
}

// buildContents emits one user turn: prompt text, then each part in order.
func buildContents(req core.Request) []*genai.Content {
	parts := make([]*genai.Part, 0, len(req.Parts)+1)
	if strings.TrimSpace(req.Prompt) != "" {
		parts = append(parts, genai.NewPartFromText(req.Prompt))
	}
	for _, p := range req.Parts {
		if p.IsBlob() {
			parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}
