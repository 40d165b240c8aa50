// Package config resolves runtime settings from the settings table, the
// environment and an optional YAML file, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/stake-plus/truthlens/src/data"
	"github.com/stake-plus/truthlens/src/faults"
)

var (
	fileValues map[string]string
	fileMu     sync.RWMutex
)

// LoadFile reads a flat YAML mapping. Keys may be written as the setting name
// (ai_provider) or the env name (AI_PROVIDER). An empty path clears the layer.
func LoadFile(path string) error {
	if path == "" {
		setFileValues(nil)
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	values, err := parseFile(raw)
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	setFileValues(values)
	return nil
}

func parseFile(raw []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(doc))
	for k, v := range doc {
		key := strings.ToLower(strings.TrimSpace(k))
		switch t := v.(type) {
		case nil:
			continue
		case []any:
			parts := make([]string, 0, len(t))
			for _, p := range t {
				parts = append(parts, fmt.Sprint(p))
			}
			out[key] = strings.Join(parts, ",")
		default:
			out[key] = fmt.Sprint(t)
		}
	}
	return out, nil
}

func setFileValues(m map[string]string) {
	fileMu.Lock()
	defer fileMu.Unlock()
	fileValues = m
}

func fileValue(name string) string {
	fileMu.RLock()
	defer fileMu.RUnlock()
	return fileValues[name]
}

// GetSetting retrieves a setting: settings table, then env, then the config
// file, then defaultValue.
func GetSetting(name, envKey, defaultValue string) string {
	val := data.GetSetting(name)
	if val == "" {
		val = os.Getenv(envKey)
	}
	if val == "" {
		val = fileValue(name)
	}
	if val == "" {
		val = defaultValue
	}
	return strings.TrimSpace(val)
}

// Setting is GetSetting keyed only by env name; the setting name is its lower-case form.
func Setting(envKey, defaultValue string) string {
	return GetSetting(strings.ToLower(envKey), envKey, defaultValue)
}

func intSetting(envKey string, def int) (int, error) {
	raw := Setting(envKey, strconv.Itoa(def))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, faults.Config(fmt.Sprintf("%s must be an integer, got %q", envKey, raw))
	}
	return n, nil
}

func floatSetting(envKey string, def float64) (float64, error) {
	raw := Setting(envKey, strconv.FormatFloat(def, 'f', -1, 64))
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, faults.Config(fmt.Sprintf("%s must be a number, got %q", envKey, raw))
	}
	return f, nil
}

func secondsSetting(envKey string, def int) (time.Duration, error) {
	n, err := intSetting(envKey, def)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}

func boolSetting(envKey string, def bool) (bool, error) {
	raw := Setting(envKey, strconv.FormatBool(def))
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, faults.Config(fmt.Sprintf("%s must be a boolean, got %q", envKey, raw))
	}
	return b, nil
}

func listSetting(envKey, def string) []string {
	var out []string
	for _, p := range strings.Split(Setting(envKey, def), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
