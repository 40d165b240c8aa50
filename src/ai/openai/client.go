package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stake-plus/truthlens/src/ai/core"
	"github.com/stake-plus/truthlens/src/webclient"
)

const defaultBaseURL = "https://api.openai.com/v1"

func init() {
	core.RegisterProvider("openai", newClient, "gpt4o")
}

type client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	defaults   core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai: %w", core.ErrMissingCredential)
	}
	baseURL := strings.TrimRight(cfg.Extra["base_url"], "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &client{
		apiKey:     cfg.OpenAIKey,
		baseURL:    baseURL,
		httpClient: webclient.NewDefault(240 * time.Second),
		defaults: core.Options{
			Model:               core.ResolveModelName("openai", cfg.Model),
			Temperature:         cfg.Temperature,
			MaxCompletionTokens: core.OrInt(cfg.MaxCompletionTokens, 1024),
			Attempts:            core.OrInt(cfg.Attempts, 1),
		},
	}, nil
}

func (c *client) Classify(ctx context.Context, req core.Request) (string, error) {
	content, err := buildContent(req)
	if err != nil {
		return "", err
	}
	reqBody := map[string]interface{}{
		"model":                 c.defaults.Model,
		"messages":              []map[string]any{{"role": "user", "content": content}},
		"temperature":           c.defaults.Temperature,
		"max_completion_tokens": c.defaults.MaxCompletionTokens,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	_, body, err := webclient.DoWithRetry(ctx, c.defaults.Attempts, 2*time.Second, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, b, fmt.Errorf("status %d", resp.StatusCode)
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}

// buildContent maps parts onto chat content blocks. Images travel as data
// URLs; wav/mp3 audio as input_audio. Other binary types are rejected.
func buildContent(req core.Request) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(req.Parts)+1)
	if strings.TrimSpace(req.Prompt) != "" {
		out = append(out, map[string]any{"type": "text", "text": req.Prompt})
	}
	for _, p := range req.Parts {
		if !p.IsBlob() {
			out = append(out, map[string]any{"type": "text", "text": p.Text})
			continue
		}
		encoded := base64.StdEncoding.EncodeToString(p.Data)
		switch {
		case strings.HasPrefix(p.MIMEType, "image/"):
			out = append(out, map[string]any{
				"type":      "image_url",
				"image_url": map[string]string{"url": "data:" + p.MIMEType + ";base64," + encoded},
			})
		case audioFormat(p.MIMEType) != "":
			out = append(out, map[string]any{
				"type":        "input_audio",
				"input_audio": map[string]string{"data": encoded, "format": audioFormat(p.MIMEType)},
			})
		default:
			return nil, fmt.Errorf("openai: unsupported content type %q", p.MIMEType)
		}
	}
	return out, nil
}

func audioFormat(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "wav"
	case "audio/mpeg", "audio/mp3":
		return "mp3"
	}
	return ""
}
