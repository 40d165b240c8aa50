package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/truthlens/src/ai/core"
)

func TestBuildContent(t *testing.T) {
	content, err := buildContent(core.Request{
		Prompt: "prompt",
		Parts: []core.Part{
			core.BlobPart([]byte{0xff, 0xd8}, "image/jpeg"),
			core.BlobPart([]byte("RIFF"), "audio/wav"),
		},
	})
	require.NoError(t, err)
	require.Len(t, content, 3)
	assert.Equal(t, "text", content[0]["type"])
	assert.Equal(t, "image_url", content[1]["type"])
	assert.Equal(t, map[string]string{"url": "data:image/jpeg;base64,/9g="}, content[1]["image_url"])
	assert.Equal(t, "input_audio", content[2]["type"])

	_, err = buildContent(core.Request{Parts: []core.Part{core.BlobPart([]byte{1}, "video/mp4")}})
	assert.ErrorContains(t, err, "unsupported content type")
}

func TestClassify(t *testing.T) {
	var auth string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"verdict\":\"REAL\"}"}}]}`))
	}))
	defer srv.Close()

	c, err := core.NewClient(core.FactoryConfig{Provider: "openai", OpenAIKey: "sk", Extra: map[string]string{"base_url": srv.URL}})
	require.NoError(t, err)

	out, err := c.Classify(context.Background(), core.Request{Prompt: "p", Parts: []core.Part{core.TextPart("NEWS:\nx")}})
	require.NoError(t, err)
	assert.Equal(t, `{"verdict":"REAL"}`, out)
	assert.Equal(t, "Bearer sk", auth)
	assert.Equal(t, "gpt-4o", body["model"])
}

func TestClassifyNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c, err := core.NewClient(core.FactoryConfig{Provider: "openai", OpenAIKey: "sk", Extra: map[string]string{"base_url": srv.URL}})
	require.NoError(t, err)
	out, err := c.Classify(context.Background(), core.Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Empty(t, out)
}
