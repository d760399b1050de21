package component

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"triggerOracle/internal/codec"
	"triggerOracle/internal/compute"
	"triggerOracle/internal/model"
	"triggerOracle/internal/trigger"
)

const OracleName = "prediction-market-oracle"

// OracleSchema selects where the oracle reads its market addresses from.
type OracleSchema string

const (
	// SchemaPayload decodes the addresses from TriggerInfo.data.
	SchemaPayload OracleSchema = "payload"
	// SchemaConfig uses configured addresses and ignores TriggerInfo.data.
	SchemaConfig OracleSchema = "config"
)

func ParseOracleSchema(input string) (OracleSchema, error) {
	switch OracleSchema(strings.ToLower(strings.TrimSpace(input))) {
	case "", SchemaPayload:
		return SchemaPayload, nil
	case SchemaConfig:
		return SchemaConfig, nil
	default:
		return "", fmt.Errorf("unknown oracle schema %q", input)
	}
}

// OracleConfig configures an Oracle.
type OracleConfig struct {
	Schema OracleSchema
	// Market is used when Schema is SchemaConfig.
	Market model.OracleInput
}

// Oracle resolves a prediction market and answers with an AvsOutputData record.
type Oracle struct {
	cfg      OracleConfig
	resolver compute.Resolver
	logger   *zap.Logger
}

func NewOracle(cfg OracleConfig, resolver compute.Resolver, logger *zap.Logger) (*Oracle, error) {
	if cfg.Schema == "" {
		cfg.Schema = SchemaPayload
	}
	if cfg.Schema != SchemaPayload && cfg.Schema != SchemaConfig {
		return nil, fmt.Errorf("unknown oracle schema %q", cfg.Schema)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oracle{cfg: cfg, resolver: resolver, logger: logger}, nil
}

func (o *Oracle) Name() string { return OracleName }

func (o *Oracle) Run(ctx context.Context, ev trigger.Event) ([]byte, error) {
	info, err := decodeEvent(ev)
	if err != nil {
		return nil, err
	}

	input := o.cfg.Market
	if o.cfg.Schema == SchemaPayload {
		input, err = codec.DecodeOracleInput(info.Data)
		if err != nil {
			return nil, err
		}
	}
	if o.resolver == nil {
		return nil, model.NewComputationError("resolver is nil")
	}

	result, err := o.resolver.Resolve(ctx, input)
	if err != nil {
		return nil, model.AsComputationError(err)
	}

	o.logger.Debug("oracle invocation complete",
		zap.Uint64("trigger_id", info.TriggerID),
		zap.String("schema", string(o.cfg.Schema)),
		zap.String("lmsr_market_maker", input.LmsrMarketMaker.Hex()),
		zap.Bool("result", result),
	)
	return codec.EncodeOutput(info.TriggerID, codec.EncodeOracleOutput(model.OracleOutput{
		LmsrMarketMaker:   input.LmsrMarketMaker,
		ConditionalTokens: input.ConditionalTokens,
		Result:            result,
	})), nil
}
