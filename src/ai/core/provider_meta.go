package core

import (
	"strings"
)

var providerDefaultModels = map[string]string{
	"gemini":   "gemini-2.5-flash",
	"gemini25": "gemini-2.5-flash",
	"openai":   "gpt-4o",
	"mock":     "mock",
}

// DefaultModelForProvider returns the baked-in default model for a provider key.
func DefaultModelForProvider(provider string) string {
	key := strings.ToLower(strings.TrimSpace(provider))
	if val, ok := providerDefaultModels[key]; ok {
		return val
	}
	return ""
}

// ResolveModelName picks the configured model if provided, otherwise the provider's default.
func ResolveModelName(provider, configuredModel string) string {
	model := strings.TrimSpace(configuredModel)
	if model != "" {
		return model
	}
	if def := DefaultModelForProvider(provider); def != "" {
		return def
	}
	return "unknown"
}

// OrInt returns v when positive, otherwise def.
func OrInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
