package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	aicore "github.com/stake-plus/truthlens/src/ai/core"
)

func TestResolveProviders(t *testing.T) {
	assert.Nil(t, resolveProviders("  "))
	assert.Equal(t, []string{"gemini", "mock"}, resolveProviders("Gemini, mock;gemini"))
	assert.Equal(t, aicore.Providers(), resolveProviders("all"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate(" abc ", 0))
	assert.Equal(t, "ab...(truncated)", truncate("abcdef", 2))
}
