package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/truthlens/src/ai/core"
)

func TestMockResponses(t *testing.T) {
	c, err := core.NewClient(core.FactoryConfig{Provider: "mock"})
	require.NoError(t, err)
	out, err := c.Classify(context.Background(), core.Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, defaultResponse, out)

	c, err = core.NewClient(core.FactoryConfig{Provider: "mock", Extra: map[string]string{"response": "not json"}})
	require.NoError(t, err)
	out, err = c.Classify(context.Background(), core.Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "not json", out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Classify(ctx, core.Request{Prompt: "p"})
	assert.ErrorIs(t, err, context.Canceled)
}
