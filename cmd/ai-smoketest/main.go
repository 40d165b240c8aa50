package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	aicore "github.com/stake-plus/truthlens/src/ai/core"
	_ "github.com/stake-plus/truthlens/src/ai/providers"
	"github.com/stake-plus/truthlens/src/config"
	"github.com/stake-plus/truthlens/src/modality"
	"github.com/stake-plus/truthlens/src/prompt"
	"github.com/stake-plus/truthlens/src/verdict"
)

var (
	providersFlag = flag.String("providers", "gemini", "Comma-separated provider list or 'all'")
	modelFlag     = flag.String("model", "", "Override model name")
	textFlag      = flag.String("text", defaultText, "Claim to classify")
	timeoutFlag   = flag.Duration("timeout", 45*time.Second, "Per-provider timeout")
	tempFlag      = flag.Float64("temp", 0.2, "Completion temperature")
	maxLenFlag    = flag.Int("max-bytes", 1200, "Maximum bytes of raw output to print per response (0=unlimited)")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	providers := resolveProviders(*providersFlag)
	if len(providers) == 0 {
		log.Fatal("no providers specified")
	}

	ai, err := config.LoadAI()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	for _, provider := range providers {
		if err := runProvider(provider, ai); err != nil {
			log.Printf("[%s] ERROR: %v", provider, err)
		}
	}
}

func runProvider(provider string, ai config.AI) error {
	client, err := aicore.NewClient(aicore.FactoryConfig{
		Provider:    provider,
		Model:       aicore.ResolveModelName(provider, pickFirst(*modelFlag, ai.Model)),
		Temperature: *tempFlag,
		GeminiKey:   ai.GoogleKey,
		OpenAIKey:   ai.OpenAIKey,
		Extra:       map[string]string{"response": ai.MockResponse},
	})
	if err != nil {
		return fmt.Errorf("client init: %w", err)
	}

	fmt.Printf("=== %s ===\n", provider)
	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	start := time.Now()
	req := prompt.Build(modality.TextPayload(modality.KindText, *textFlag, modality.Meta{}))
	raw, err := client.Classify(ctx, req)
	if err != nil {
		fmt.Printf("classify ❌ %v\n", err)
		return nil
	}

	rec, ok := verdict.Parse(raw)
	v := verdict.Fallback()
	if ok {
		v = verdict.Normalize(rec)
	}
	fmt.Printf("classify ✅ (%.1fs) parsed=%v verdict=%s confidence=%.2f\n%s\n",
		time.Since(start).Seconds(), ok, v.Label, v.Confidence, truncate(raw, *maxLenFlag))
	return nil
}

func resolveProviders(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.EqualFold(raw, "all") {
		return aicore.Providers()
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	var out []string
	seen := map[string]struct{}{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func pickFirst(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[:limit]) + "...(truncated)"
}

const defaultText = "Breaking: scientists confirm that drinking seawater cures dehydration, according to a leaked memo."
