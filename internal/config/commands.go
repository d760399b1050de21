package config

import (
	"time"

	"github.com/spf13/pflag"
)

// RunConfig holds configuration for the one-shot run command.
type RunConfig struct {
	Component ComponentConfig
	In        string
	Out       string
	LogLevel  string
}

// LoadRun merges config file, environment variables, and flags into RunConfig.
func LoadRun(cfgFile string, flags *pflag.FlagSet) (RunConfig, error) {
	v, err := load(cfgFile, flags, merge(componentDefaults(), map[string]interface{}{
		"in": "-",
	}))
	if err != nil {
		return RunConfig{}, err
	}

	return RunConfig{
		Component: readComponent(v),
		In:        v.GetString("in"),
		Out:       v.GetString("out"),
		LogLevel:  v.GetString("log-level"),
	}, nil
}

// WatchConfig holds configuration for the chain watcher.
type WatchConfig struct {
	Component         ComponentConfig
	RPCURL            string
	FromBlock         uint64
	ToBlock           uint64
	Addresses         []string
	BatchSize         uint64
	Concurrency       int
	Out               string
	PGDSN             string
	Checkpoint        string
	CheckpointEnabled bool
	StateName         string
	MaxRetries        int
	RetryBackoff      time.Duration
	PollInterval      time.Duration
	MetricsListen     string
	LogLevel          string
}

// LoadWatch merges config file, environment variables, and flags into WatchConfig.
func LoadWatch(cfgFile string, flags *pflag.FlagSet) (WatchConfig, error) {
	v, err := load(cfgFile, flags, merge(componentDefaults(), map[string]interface{}{
		"batch-size":         uint64(2000),
		"concurrency":        4,
		"out":                "./data/invocations.jsonl",
		"checkpoint":         "./data/checkpoint.json",
		"checkpoint-enabled": true,
		"max-retries":        5,
		"retry-backoff":      500 * time.Millisecond,
	}))
	if err != nil {
		return WatchConfig{}, err
	}

	return WatchConfig{
		Component:         readComponent(v),
		RPCURL:            v.GetString("rpc"),
		FromBlock:         v.GetUint64("from"),
		ToBlock:           v.GetUint64("to"),
		Addresses:         getStringSlice(v, "address"),
		BatchSize:         v.GetUint64("batch-size"),
		Concurrency:       v.GetInt("concurrency"),
		Out:               v.GetString("out"),
		PGDSN:             v.GetString("pg-dsn"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		StateName:         v.GetString("state-name"),
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		PollInterval:      v.GetDuration("poll-interval"),
		MetricsListen:     v.GetString("metrics-listen"),
		LogLevel:          v.GetString("log-level"),
	}, nil
}

// ServeConfig holds configuration for the HTTP server.
type ServeConfig struct {
	Component ComponentConfig
	Listen    string
	Out       string
	PGDSN     string
	LogLevel  string
}

// LoadServe merges config file, environment variables, and flags into ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := load(cfgFile, flags, merge(componentDefaults(), map[string]interface{}{
		"listen": ":8080",
	}))
	if err != nil {
		return ServeConfig{}, err
	}

	return ServeConfig{
		Component: readComponent(v),
		Listen:    v.GetString("listen"),
		Out:       v.GetString("out"),
		PGDSN:     v.GetString("pg-dsn"),
		LogLevel:  v.GetString("log-level"),
	}, nil
}

// CodecConfig holds configuration for the encode and decode commands.
type CodecConfig struct {
	Variant           string
	Kind              string
	Address           string
	TriggerID         uint64
	Prompt            string
	MarketMaker       string
	ConditionalTokens string
	Input             string
	LogLevel          string
}

// LoadCodec merges config file, environment variables, and flags into CodecConfig.
func LoadCodec(cfgFile string, flags *pflag.FlagSet) (CodecConfig, error) {
	v, err := load(cfgFile, flags, map[string]interface{}{
		"variant": "artist",
		"kind":    "evm_contract_event",
	})
	if err != nil {
		return CodecConfig{}, err
	}

	return CodecConfig{
		Variant:           v.GetString("variant"),
		Kind:              v.GetString("kind"),
		Address:           v.GetString("address"),
		TriggerID:         v.GetUint64("trigger-id"),
		Prompt:            v.GetString("prompt"),
		MarketMaker:       v.GetString("market-maker"),
		ConditionalTokens: v.GetString("conditional-tokens"),
		Input:             v.GetString("input"),
		LogLevel:          v.GetString("log-level"),
	}, nil
}
