package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/truthlens/src/data"
	"github.com/stake-plus/truthlens/src/faults"
	"github.com/stake-plus/truthlens/src/modality"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "truthlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

var envKeys = []string{
	"AI_PROVIDER", "AI_MODEL", "AI_TEMPERATURE", "AI_ATTEMPTS", "AI_MAX_TOKENS", "GOOGLE_API_KEY",
	"PORT", "RATE_LIMIT_PER_MINUTE", "CORS_ORIGINS", "MAX_UPLOAD_BYTES", "REQUEST_TIMEOUT_SECONDS",
	"VIDEO_FRAME_COUNT", "VIDEO_STRATEGY", "FETCH_TIMEOUT_SECONDS", "FETCH_ALLOW_PRIVATE", "CACHE_TTL_SECONDS",
}

func resetLayers(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Cleanup(func() {
		setFileValues(nil)
		data.ReplaceSettings(nil)
	})
}

func TestLoadDefaults(t *testing.T) {
	resetLayers(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 1, cfg.AI.Attempts)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 60, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, int64(25<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 20, cfg.Media.FrameCount)
	assert.Equal(t, modality.StrategyFrames, cfg.Media.VideoStrategy)
	assert.False(t, cfg.Media.AllowPrivate)
	assert.Equal(t, time.Hour, cfg.Storage.CacheTTL)
}

func TestLookupOrder(t *testing.T) {
	resetLayers(t)
	require.NoError(t, LoadFile(writeFile(t, "ai_provider: mock\nPORT: 9000\nvideo_frame_count: 8\ncors_origins:\n  - https://a.example\n  - https://b.example\n")))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.AI.Provider)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 8, cfg.Media.FrameCount)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)

	t.Setenv("PORT", "7000")
	assert.Equal(t, "7000", Setting("PORT", "8080"))

	data.ReplaceSettings(map[string]string{"port": "6000"})
	assert.Equal(t, "6000", Setting("PORT", "8080"))
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric frames", map[string]string{"VIDEO_FRAME_COUNT": "many"}},
		{"frames out of range", map[string]string{"VIDEO_FRAME_COUNT": "0"}},
		{"unknown strategy", map[string]string{"VIDEO_STRATEGY": "subtitles"}},
		{"temperature", map[string]string{"AI_TEMPERATURE": "5"}},
		{"upload limit", map[string]string{"MAX_UPLOAD_BYTES": "-1"}},
		{"private fetch flag", map[string]string{"FETCH_ALLOW_PRIVATE": "sometimes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLayers(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.True(t, faults.Is(err, faults.CategoryConfig))
		})
	}
}

func TestZeroTemperatureIsKept(t *testing.T) {
	resetLayers(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.AI.Temperature)

	t.Setenv("AI_TEMPERATURE", "0")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.AI.Temperature)
}

func TestAIValidate(t *testing.T) {
	assert.Error(t, AI{Provider: "gemini"}.Validate())
	assert.NoError(t, AI{Provider: "gemini", GoogleKey: "k"}.Validate())
	assert.Error(t, AI{Provider: "openai"}.Validate())
	assert.NoError(t, AI{Provider: "mock"}.Validate())
}

func TestLoadFileErrors(t *testing.T) {
	resetLayers(t)
	assert.Error(t, LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, LoadFile(writeFile(t, "port: [unclosed")))
	assert.NoError(t, LoadFile(""))
}
