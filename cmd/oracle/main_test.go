package main

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"triggerOracle/internal/codec"
	"triggerOracle/internal/component"
	"triggerOracle/internal/config"
	"triggerOracle/internal/model"
)

func TestDecodeEnvelopeArtist(t *testing.T) {
	uri, err := codec.MetadataURI(model.NFTMetadata{Name: "AI Generated NFT", Description: "world"})
	if err != nil {
		t.Fatalf("metadata uri: %v", err)
	}
	envelope := hexutil.Encode(codec.EncodeOutput(42, codec.EncodeArtistResult(uri)))

	got, err := decodeEnvelope(variantArtist, envelope)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TriggerID != 42 || got.URI != uri || got.Metadata == nil || got.Metadata.Description != "world" {
		t.Fatalf("unexpected output: %+v", got)
	}
}

func TestDecodeEnvelopeOracle(t *testing.T) {
	want := model.OracleOutput{
		LmsrMarketMaker:   common.HexToAddress("0x01"),
		ConditionalTokens: common.HexToAddress("0x02"),
		Result:            true,
	}
	envelope := hexutil.Encode(codec.EncodeOutput(7, codec.EncodeOracleOutput(want)))

	got, err := decodeEnvelope(variantOracle, envelope)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TriggerID != 7 || got.Oracle == nil || *got.Oracle != want {
		t.Fatalf("unexpected output: %+v", got)
	}

	if _, err := decodeEnvelope(variantArtist, envelope); !errors.Is(err, model.ErrMalformedPayload) {
		t.Fatalf("expected malformed payload for wrong variant, got %v", err)
	}
	if _, err := decodeEnvelope(variantOracle, "0x1234"); !errors.Is(err, model.ErrMalformedTriggerEnvelope) {
		t.Fatalf("expected malformed envelope, got %v", err)
	}
	if _, err := decodeEnvelope("other", envelope); err == nil {
		t.Fatalf("expected unknown variant error")
	}
}

func TestBuildRegistry(t *testing.T) {
	cfg := config.ComponentConfig{OracleSchema: "payload", PriceThreshold: 1.0}
	registry, err := buildRegistry(cfg, nil)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	if _, err := selectComponent(registry, component.ArtistName); err != nil {
		t.Fatalf("select artist: %v", err)
	}
	if _, err := selectComponent(registry, ""); err == nil {
		t.Fatalf("expected error for empty component")
	}
	if _, err := selectComponent(registry, "nope"); err == nil {
		t.Fatalf("expected error for unknown component")
	}

	cfg.OracleSchema = "config"
	if _, err := buildRegistry(cfg, nil); err == nil {
		t.Fatalf("expected error for config schema without addresses")
	}
	cfg.MarketMaker = "0x0000000000000000000000000000000000000001"
	cfg.ConditionalTokens = "0x0000000000000000000000000000000000000002"
	if _, err := buildRegistry(cfg, nil); err != nil {
		t.Fatalf("build registry with config schema: %v", err)
	}

	cfg.OracleSchema = "auto"
	if _, err := buildRegistry(cfg, nil); err == nil {
		t.Fatalf("expected error for unknown schema")
	}
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"run": false, "watch": false, "serve": false, "encode": false, "decode": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("missing command %s", name)
		}
	}
}
