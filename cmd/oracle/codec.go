package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"triggerOracle/internal/codec"
	"triggerOracle/internal/config"
	"triggerOracle/internal/model"
	"triggerOracle/internal/trigger"
)

const (
	variantArtist = "artist"
	variantOracle = "oracle"
)

// decodedOutput is the inspection view of an output envelope.
type decodedOutput struct {
	TriggerID uint64              `json:"trigger_id"`
	Data      string              `json:"data"`
	URI       string              `json:"uri,omitempty"`
	Metadata  *model.NFTMetadata  `json:"metadata,omitempty"`
	Oracle    *model.OracleOutput `json:"oracle,omitempty"`
}

func runEncode(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadCodec(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	kind, err := trigger.ParseKind(cfg.Kind)
	if err != nil {
		return err
	}
	if !common.IsHexAddress(cfg.Address) {
		return fmt.Errorf("invalid trigger contract address: %q", cfg.Address)
	}

	var data []byte
	switch cfg.Variant {
	case variantArtist:
		data = codec.EncodePrompt(cfg.Prompt)
	case variantOracle:
		market, err := parseMarket(cfg.MarketMaker, cfg.ConditionalTokens)
		if err != nil {
			return err
		}
		data = codec.EncodeOracleInput(market)
	default:
		return fmt.Errorf("unknown variant %q", cfg.Variant)
	}

	triggerInfo := codec.EncodeTrigger(model.TriggerInfo{TriggerID: cfg.TriggerID, Data: data})
	logRecord, err := trigger.BuildLog(kind, common.HexToAddress(cfg.Address), triggerInfo)
	if err != nil {
		return err
	}

	logger.Debug("trigger encoded",
		zap.String("variant", cfg.Variant),
		zap.Uint64("trigger_id", cfg.TriggerID),
		zap.String("trigger_info", hexutil.Encode(triggerInfo)),
	)

	out, err := newJSONLWriter("", false)
	if err != nil {
		return err
	}
	defer out.Close()
	return out.Write(trigger.Event{Kind: kind, Log: logRecord})
}

func runDecode(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadCodec(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	input := cfg.Input
	if len(args) == 1 {
		input = args[0]
	}
	if input == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		input = string(raw)
	}

	decoded, err := decodeEnvelope(cfg.Variant, strings.TrimSpace(input))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(decoded)
}

func decodeEnvelope(variant, input string) (decodedOutput, error) {
	raw, err := hexutil.Decode(input)
	if err != nil {
		return decodedOutput{}, fmt.Errorf("decode hex: %w", err)
	}
	envelope, err := codec.DecodeOutput(raw)
	if err != nil {
		return decodedOutput{}, err
	}

	out := decodedOutput{TriggerID: envelope.TriggerID, Data: hexutil.Encode(envelope.Data)}
	switch variant {
	case variantArtist:
		uri, err := codec.DecodeArtistResult(envelope.Data)
		if err != nil {
			return decodedOutput{}, err
		}
		meta, err := codec.DecodeMetadataURI(uri)
		if err != nil {
			return decodedOutput{}, err
		}
		out.URI = uri
		out.Metadata = &meta
	case variantOracle:
		result, err := codec.DecodeOracleOutput(envelope.Data)
		if err != nil {
			return decodedOutput{}, err
		}
		out.Oracle = &result
	default:
		return decodedOutput{}, fmt.Errorf("unknown variant %q", variant)
	}
	return out, nil
}
