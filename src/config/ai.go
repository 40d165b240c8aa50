package config

import (
	"fmt"
	"strings"

	"github.com/stake-plus/truthlens/src/faults"
)

// AI holds oracle settings.
type AI struct {
	Provider  string
	Model     string
	GoogleKey string
	OpenAIKey string
	BaseURL   string
	// MockResponse is the canned reply of the mock provider.
	MockResponse string
	Temperature  float64
	MaxTokens    int
	Attempts     int
}

// LoadAI resolves oracle settings. Credential presence is checked by Validate.
func LoadAI() (AI, error) {
	temp, err := floatSetting("AI_TEMPERATURE", 0.2)
	if err != nil {
		return AI{}, err
	}
	attempts, err := intSetting("AI_ATTEMPTS", 1)
	if err != nil {
		return AI{}, err
	}
	maxTokens, err := intSetting("AI_MAX_TOKENS", 1024)
	if err != nil {
		return AI{}, err
	}
	if temp < 0 || temp > 2 {
		return AI{}, faults.Config(fmt.Sprintf("AI_TEMPERATURE out of range: %v", temp))
	}
	return AI{
		Provider:     strings.ToLower(Setting("AI_PROVIDER", "gemini")),
		Model:        Setting("AI_MODEL", ""),
		GoogleKey:    Setting("GOOGLE_API_KEY", ""),
		OpenAIKey:    Setting("OPENAI_API_KEY", ""),
		BaseURL:      Setting("AI_BASE_URL", ""),
		MockResponse: Setting("AI_MOCK_RESPONSE", ""),
		Temperature:  temp,
		MaxTokens:    maxTokens,
		Attempts:     attempts,
	}, nil
}

// Validate reports a missing credential for the selected provider.
func (a AI) Validate() error {
	switch a.Provider {
	case "gemini", "gemini25", "gemini-rest":
		if a.GoogleKey == "" {
			return faults.Config("GOOGLE_API_KEY is not set")
		}
	case "openai", "gpt4o":
		if a.OpenAIKey == "" {
			return faults.Config("OPENAI_API_KEY is not set")
		}
	}
	return nil
}
