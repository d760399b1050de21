package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "ORACLE"

// ComponentConfig holds the settings shared by every command that runs a component.
type ComponentConfig struct {
	Component         string
	Kind              string
	OllamaURL         string
	OllamaModel       string
	SystemPrompt      string
	MaxTokens         int
	Seed              int64
	HTTPTimeout       time.Duration
	HTTPRetries       int
	HTTPRetryBackoff  time.Duration
	PriceURL          string
	PriceAssetID      uint64
	PriceThreshold    float64
	OracleSchema      string
	MarketMaker       string
	ConditionalTokens string
}

// load merges config file, environment variables, and flags into a viper instance.
func load(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func componentDefaults() map[string]interface{} {
	return map[string]interface{}{
		"kind":               "evm_contract_event",
		"ollama-url":         "http://localhost:11434",
		"ollama-model":       "llama3.1",
		"max-tokens":         25,
		"seed":               int64(42),
		"http-timeout":       30 * time.Second,
		"http-retries":       2,
		"http-retry-backoff": 500 * time.Millisecond,
		"price-asset-id":     uint64(1),
		"price-threshold":    1.0,
		"oracle-schema":      "payload",
	}
}

func readComponent(v *viper.Viper) ComponentConfig {
	return ComponentConfig{
		Component:         v.GetString("component"),
		Kind:              v.GetString("kind"),
		OllamaURL:         v.GetString("ollama-url"),
		OllamaModel:       v.GetString("ollama-model"),
		SystemPrompt:      v.GetString("system-prompt"),
		MaxTokens:         v.GetInt("max-tokens"),
		Seed:              v.GetInt64("seed"),
		HTTPTimeout:       v.GetDuration("http-timeout"),
		HTTPRetries:       v.GetInt("http-retries"),
		HTTPRetryBackoff:  v.GetDuration("http-retry-backoff"),
		PriceURL:          v.GetString("price-url"),
		PriceAssetID:      v.GetUint64("price-asset-id"),
		PriceThreshold:    v.GetFloat64("price-threshold"),
		OracleSchema:      v.GetString("oracle-schema"),
		MarketMaker:       v.GetString("market-maker"),
		ConditionalTokens: v.GetString("conditional-tokens"),
	}
}

func merge(base, extra map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
