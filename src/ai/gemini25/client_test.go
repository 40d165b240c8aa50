package gemini25

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/truthlens/src/ai/core"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := core.NewClient(core.FactoryConfig{Provider: "gemini25"})
	assert.True(t, errors.Is(err, core.ErrMissingCredential))
}

func TestClassifySendsOrderedInlineParts(t *testing.T) {
	var got generateContentRequest
	var path, key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"verdict\":"},{"text":"\"FAKE\"}"}]}}]}`))
	}))
	defer srv.Close()

	c, err := core.NewClient(core.FactoryConfig{
		Provider:  "gemini-rest",
		GeminiKey: "secret",
		Model:     "gemini-2.0-flash",
		Extra:     map[string]string{"base_url": srv.URL},
	})
	require.NoError(t, err)

	out, err := c.Classify(context.Background(), core.Request{
		Prompt: "be skeptical",
		Parts: []core.Part{
			core.BlobPart([]byte("frame-1"), "image/jpeg"),
			core.BlobPart([]byte("frame-2"), "image/jpeg"),
			core.TextPart("tail"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"verdict":"FAKE"}`, out)
	assert.Equal(t, "/models/gemini-2.0-flash:generateContent", path)
	assert.Equal(t, "secret", key)

	require.Len(t, got.Contents, 1)
	parts := got.Contents[0].Parts
	require.Len(t, parts, 4)
	assert.Equal(t, "be skeptical", parts[0].Text)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("frame-1")), parts[1].InlineData.Data)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("frame-2")), parts[2].InlineData.Data)
	assert.Equal(t, "image/jpeg", parts[2].InlineData.MIMEType)
	assert.Equal(t, "tail", parts[3].Text)
}

func TestZeroTemperatureIsSent(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{}"}]}}]}`))
	}))
	defer srv.Close()

	c, err := core.NewClient(core.FactoryConfig{Provider: "gemini25", GeminiKey: "k", Temperature: 0, Extra: map[string]string{"base_url": srv.URL}})
	require.NoError(t, err)
	_, err = c.Classify(context.Background(), core.Request{Prompt: "p"})
	require.NoError(t, err)

	gen, ok := got["generationConfig"].(map[string]any)
	require.True(t, ok, "generationConfig missing: %v", got)
	assert.Equal(t, 0.0, gen["temperature"])
}

func TestClassifyDoesNotRetryByDefault(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := core.NewClient(core.FactoryConfig{Provider: "gemini25", GeminiKey: "k", Extra: map[string]string{"base_url": srv.URL}})
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), core.Request{Prompt: "p"})
	assert.ErrorContains(t, err, "status 503")
	assert.Equal(t, 1, calls)
}

func TestClassifyBlankReplies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates":[]}`},
		{"whitespace text", `{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := core.NewClient(core.FactoryConfig{Provider: "gemini25", GeminiKey: "k", Extra: map[string]string{"base_url": srv.URL}})
			require.NoError(t, err)
			out, err := c.Classify(context.Background(), core.Request{Prompt: "p"})
			require.NoError(t, err)
			assert.Empty(t, strings.TrimSpace(out))
		})
	}
}
