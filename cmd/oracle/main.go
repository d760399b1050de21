package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "oracle",
		Short:        "Event-triggered oracle components",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a component on trigger events read from a file or stdin",
		RunE:  runOnce,
	}
	addComponentFlags(runCmd.Flags())
	runCmd.Flags().String("in", "-", "input trigger events JSONL, - for stdin")
	runCmd.Flags().String("out", "", "output invocation records JSONL, empty for stdout")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(runCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch NewTrigger logs on chain and run a component for each",
		RunE:  runWatch,
	}
	addComponentFlags(watchCmd.Flags())
	watchCmd.Flags().String("rpc", "", "RPC URL")
	watchCmd.Flags().Uint64("from", 0, "start block (inclusive)")
	watchCmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means latest")
	watchCmd.Flags().StringSlice("address", nil, "trigger contract addresses (comma-separated)")
	watchCmd.Flags().Uint64("batch-size", 2000, "blocks per batch")
	watchCmd.Flags().Int("concurrency", 4, "concurrent invocations per batch")
	watchCmd.Flags().String("out", "./data/invocations.jsonl", "output JSONL path (ignored with --pg-dsn)")
	watchCmd.Flags().String("pg-dsn", "", "Postgres DSN for invocations and watcher state")
	watchCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	watchCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	watchCmd.Flags().String("state-name", "", "watcher state row name, defaults to <component>:<kind>")
	watchCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	watchCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	watchCmd.Flags().Duration("poll-interval", 0, "keep following the chain head at this interval (0 exits when caught up)")
	watchCmd.Flags().String("metrics-listen", "", "serve /metrics on this address")
	watchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(watchCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve components over HTTP",
		RunE:  runServe,
	}
	addComponentFlags(serveCmd.Flags())
	serveCmd.Flags().String("listen", ":8080", "listen address")
	serveCmd.Flags().String("out", "", "optional invocation records JSONL path")
	serveCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for invocation records")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(serveCmd)

	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Build a NewTrigger event for a component",
		RunE:  runEncode,
	}
	encodeCmd.Flags().String("variant", "artist", "payload variant (artist, oracle)")
	encodeCmd.Flags().String("kind", "evm_contract_event", "trigger kind (contract_event, evm_contract_event)")
	encodeCmd.Flags().String("address", "0x0000000000000000000000000000000000000000", "trigger contract address")
	encodeCmd.Flags().Uint64("trigger-id", 0, "trigger id")
	encodeCmd.Flags().String("prompt", "", "artist prompt")
	encodeCmd.Flags().String("market-maker", "", "oracle LMSR market maker address")
	encodeCmd.Flags().String("conditional-tokens", "", "oracle conditional tokens address")
	encodeCmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.AddCommand(encodeCmd)

	decodeCmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a DataWithId output envelope",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDecode,
	}
	decodeCmd.Flags().String("variant", "artist", "payload variant (artist, oracle)")
	decodeCmd.Flags().String("input", "", "hex envelope, read from stdin when empty")
	decodeCmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.AddCommand(decodeCmd)

	return root
}

func addComponentFlags(flags *pflag.FlagSet) {
	flags.String("component", "", "component name (autonomous-artist, prediction-market-oracle)")
	flags.String("kind", "evm_contract_event", "trigger kind (contract_event, evm_contract_event)")
	flags.String("ollama-url", "http://localhost:11434", "Ollama base URL")
	flags.String("ollama-model", "llama3.1", "Ollama model")
	flags.String("system-prompt", "", "artist system prompt")
	flags.Int("max-tokens", 25, "maximum generated tokens")
	flags.Int64("seed", 42, "sampling seed")
	flags.Duration("http-timeout", 30*time.Second, "outbound HTTP timeout")
	flags.Int("http-retries", 2, "retries for outbound HTTP transport errors")
	flags.Duration("http-retry-backoff", 500*time.Millisecond, "initial outbound HTTP retry backoff")
	flags.String("price-url", "", "price feed detail endpoint")
	flags.Uint64("price-asset-id", 1, "price feed asset id")
	flags.Float64("price-threshold", 1.0, "resolve YES when price is above this value")
	flags.String("oracle-schema", "payload", "oracle address source (payload, config)")
	flags.String("market-maker", "", "LMSR market maker address (config schema)")
	flags.String("conditional-tokens", "", "conditional tokens address (config schema)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
