package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"triggerOracle/internal/component"
	"triggerOracle/internal/compute"
	"triggerOracle/internal/config"
	"triggerOracle/internal/model"
)

// buildRegistry wires both components with their external collaborators.
func buildRegistry(cfg config.ComponentConfig, logger *zap.Logger) (*component.Registry, error) {
	httpClient := compute.NewHTTPClient(compute.HTTPConfig{
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.HTTPRetries,
		RetryBackoff: cfg.HTTPRetryBackoff,
	}, logger)

	artist := component.NewArtist(compute.NewOllamaClient(compute.OllamaConfig{
		BaseURL:      cfg.OllamaURL,
		Model:        cfg.OllamaModel,
		SystemPrompt: cfg.SystemPrompt,
		MaxTokens:    cfg.MaxTokens,
		Seed:         cfg.Seed,
	}, httpClient, logger), logger)

	schema, err := component.ParseOracleSchema(cfg.OracleSchema)
	if err != nil {
		return nil, err
	}
	oracleCfg := component.OracleConfig{Schema: schema}
	if schema == component.SchemaConfig {
		market, err := parseMarket(cfg.MarketMaker, cfg.ConditionalTokens)
		if err != nil {
			return nil, err
		}
		oracleCfg.Market = market
	}

	resolver := &compute.ThresholdResolver{
		Feed:      compute.NewCoinMarketCapFeed(cfg.PriceURL, httpClient),
		AssetID:   cfg.PriceAssetID,
		Threshold: cfg.PriceThreshold,
		Logger:    logger,
	}
	oracle, err := component.NewOracle(oracleCfg, resolver, logger)
	if err != nil {
		return nil, err
	}

	return component.NewRegistry(artist, oracle), nil
}

func selectComponent(registry *component.Registry, name string) (component.Component, error) {
	if name == "" {
		return nil, fmt.Errorf("component is required (one of %v)", registry.Names())
	}
	comp, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown component %q (one of %v)", name, registry.Names())
	}
	return comp, nil
}

func parseMarket(marketMaker, conditionalTokens string) (model.OracleInput, error) {
	if !common.IsHexAddress(marketMaker) {
		return model.OracleInput{}, fmt.Errorf("invalid market maker address: %q", marketMaker)
	}
	if !common.IsHexAddress(conditionalTokens) {
		return model.OracleInput{}, fmt.Errorf("invalid conditional tokens address: %q", conditionalTokens)
	}
	return model.OracleInput{
		LmsrMarketMaker:   common.HexToAddress(marketMaker),
		ConditionalTokens: common.HexToAddress(conditionalTokens),
	}, nil
}
