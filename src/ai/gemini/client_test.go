package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/stake-plus/truthlens/src/ai/core"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	resp     *genai.GenerateContentResponse
	err      error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	return f.resp, f.err
}

func textResponse(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: s}}},
		}},
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := core.NewClient(core.FactoryConfig{Provider: "gemini"})
	assert.True(t, errors.Is(err, core.ErrMissingCredential))
}

func TestBuildContentsPreservesOrder(t *testing.T) {
	contents := buildContents(core.Request{
		Prompt: "prompt",
		Parts: []core.Part{
			core.BlobPart([]byte{1}, "image/jpeg"),
			core.BlobPart([]byte{2}, "image/jpeg"),
			core.BlobPart([]byte{3}, "image/jpeg"),
		},
	})
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
	parts := contents[0].Parts
	require.Len(t, parts, 4)
	assert.Equal(t, "prompt", parts[0].Text)
	for i := 1; i <= 3; i++ {
		require.NotNil(t, parts[i].InlineData)
		assert.Equal(t, []byte{byte(i)}, parts[i].InlineData.Data)
		assert.Equal(t, "image/jpeg", parts[i].InlineData.MIMEType)
	}
}

func TestClassify(t *testing.T) {
	fm := &fakeModels{resp: textResponse("```json\n{}\n```")}
	c := &client{models: fm, defaults: core.Options{Model: "gemini-2.5-flash", Temperature: 0.2, MaxCompletionTokens: 64}}

	out, err := c.Classify(context.Background(), core.Request{Prompt: "p", Parts: []core.Part{core.TextPart("NEWS:\nhello")}})
	require.NoError(t, err)
	assert.Equal(t, "```json\n{}\n```", out)
	assert.Equal(t, "gemini-2.5-flash", fm.model)
	require.Len(t, fm.contents[0].Parts, 2)
}

func TestClassifyErrors(t *testing.T) {
	c := &client{models: &fakeModels{err: errors.New("rpc error: 429")}, defaults: core.Options{Model: "m"}}
	_, err := c.Classify(context.Background(), core.Request{Prompt: "p"})
	assert.ErrorContains(t, err, "429")

}

func TestClassifyBlankReplyIsReturned(t *testing.T) {
	c := &client{models: &fakeModels{resp: textResponse("  ")}, defaults: core.Options{Model: "m"}}
	out, err := c.Classify(context.Background(), core.Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "  ", out)
}
