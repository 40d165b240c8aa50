// Minimal end-to-end smoke test for a running TruthLens API.
//
// Run from repo root:
//
//	go run ./scripts/api
//
// Environment:
//
//	API_URL     – base URL (default http://localhost:8080)
//	APP_API_KEY – sent as X-App-Key when the server requires one
//	USE_TOKEN   – exchange the key for a bearer token first
//	REDIS_URL   – when set, assert the verdict was cached
//
// Flow:
//
//  1. GET  /health
//  2. POST /api/auth/token   → JWT (optional)
//  3. POST /api/verify       → verdict
//  4. EXISTS truthlens:verdict:<fingerprint>, then repeat and expect X-Cache: hit
//  5. POST /api/verify       → 400 for short text
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/truthlens/src/modality"
)

var (
	baseURL  = getenv("API_URL", "http://localhost:8080")
	redisURL = getenv("REDIS_URL", "")
	appKey   = getenv("APP_API_KEY", "")
	useToken = getenv("USE_TOKEN", "") != ""
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

type verdictResponse struct {
	InputLength int `json:"input_length"`
	Result      struct {
		Verdict    string  `json:"verdict"`
		IsFake     bool    `json:"is_fake"`
		Confidence float64 `json:"confidence"`
		Rationale  string  `json:"rationale"`
	} `json:"result"`
}

func main() {
	health()

	token := ""
	if useToken {
		token = exchangeToken()
	}

	text := "Smoke test claim " + uuid.NewString() + ": the moon is made of cheese."
	first, cache := verifyText(token, text)
	log.Printf("verdict=%s fake=%v confidence=%.3f cache=%q", first.Result.Verdict, first.Result.IsFake, first.Result.Confidence, cache)
	if first.InputLength != len([]rune(text)) {
		log.Fatalf("verify: input_length %d, want %d", first.InputLength, len([]rune(text)))
	}

	if redisURL != "" {
		checkCached(context.Background(), text)
		if _, cache := verifyText(token, text); cache != "hit" {
			log.Fatal("verify: second request was not served from cache")
		}
	}

	verifyRejectsShort(token)
	fmt.Println("✓ all endpoints passed")
}

// ----------------------------- endpoints

func health() {
	var resp struct{ Status string }
	doReq("GET", "/health", "", nil, &resp, http.StatusOK)
	if resp.Status != "ok" {
		log.Fatalf("health: status %q", resp.Status)
	}
}

func exchangeToken() string {
	var resp struct{ Token string }
	doReq("POST", "/api/auth/token", "", nil, &resp, http.StatusOK)
	if resp.Token == "" {
		log.Fatal("token: empty token")
	}
	return resp.Token
}

func verifyText(token, text string) (verdictResponse, string) {
	var resp verdictResponse
	h := doReq("POST", "/api/verify", token, map[string]any{"text": text}, &resp, http.StatusOK)
	if resp.Result.Verdict == "" {
		log.Fatal("verify: empty verdict")
	}
	return resp, h.Get("X-Cache")
}

func verifyRejectsShort(token string) {
	var resp struct{ Err string }
	doReq("POST", "/api/verify", token, map[string]any{"text": "short"}, &resp, http.StatusBadRequest)
	if resp.Err == "" {
		log.Fatal("verify: missing error message for short text")
	}
}

// ----------------------------- helpers

func checkCached(ctx context.Context, text string) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("redis url: %v", err)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	key := "truthlens:verdict:" + modality.Fingerprint(modality.Text{Body: text})
	n, err := rdb.Exists(ctx, key).Result()
	if err != nil {
		log.Fatalf("redis exists: %v", err)
	}
	if n == 0 {
		log.Fatalf("redis: %s not cached", key)
	}
}

func doReq(method, path, token string, body, out any, want int) http.Header {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s encode: %v", method, path, err)
		}
	}
	req, _ := http.NewRequest(method, baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if appKey != "" {
		req.Header.Set("X-App-Key", appKey)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		log.Fatalf("%s %s: want %d got %d", method, path, want, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
	return res.Header
}
