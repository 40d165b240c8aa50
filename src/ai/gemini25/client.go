package gemini25

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

const (
	defaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	defaultModelName = "gemini-2.5-flash"
	defaultMaxTokens = 2048
)

func init() {
	core.RegisterProvider("gemini25", newClient, "gemini-rest")
}

type client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	defaults   core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("gemini25: %w", core.ErrMissingCredential)
	}

	baseURL := strings.TrimRight(cfg.Extra["base_url"], "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &client{
		apiKey:     cfg.GeminiKey,
		baseURL:    baseURL,
		httpClient: webclient.NewDefault(120 * time.Second),
		defaults: core.Options{
			Model:               core.ResolveModelName("gemini25", cfg.Model),
			Temperature:         cfg.Temperature,
			MaxCompletionTokens: core.OrInt(cfg.MaxCompletionTokens, defaultMaxTokens),
			Attempts:            core.OrInt(cfg.Attempts, 1),
		},
	}, nil
}

func (c *client) Classify(ctx context.Context, req core.Request) (string, error) {
	body := c.buildRequestBody(req)
	return c.send(ctx, c.defaults.Model, body)
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

// buildRequestBody puts the prompt first and every payload part after it,
// in order, within a single user turn.
func (c *client) buildRequestBody(req core.Request) generateContentRequest {
	parts := make([]part, 0, len(req.Parts)+1)
	if strings.TrimSpace(req.Prompt) != "" {
		parts = append(parts, part{Text: req.Prompt})
	}
	for _, p := range req.Parts {
		if p.IsBlob() {
			parts = append(parts, part{InlineData: &inlineData{
				MIMEType: p.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(p.Data),
			}})
			continue
		}
		parts = append(parts, part{Text: p.Text})
	}

	return generateContentRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:     c.defaults.Temperature,
			MaxOutputTokens: c.defaults.MaxCompletionTokens,
		},
	}
}

func (c *client) send(ctx context.Context, model string, payload generateContentRequest) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, normalizeModel(model))
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	_, body, err := webclient.DoWithRetry(ctx, c.defaults.Attempts, 2*time.Second, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)
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
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	var result generateContentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	return result.Text(), nil
}

func normalizeModel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return "models/" + defaultModelName
	}
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Text concatenates the text parts of the first candidate that has any.
func (r generateContentResponse) Text() string {
	for _, candidate := range r.Candidates {
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		if strings.TrimSpace(sb.String()) != "" {
			return sb.String()
		}
	}
	return ""
}
