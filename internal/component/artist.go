package component

import (
	"context"

	"go.uber.org/zap"

	"triggerOracle/internal/codec"
	"triggerOracle/internal/compute"
	"triggerOracle/internal/model"
	"triggerOracle/internal/trigger"
)

const (
	ArtistName = "autonomous-artist"

	nftName  = "AI Generated NFT"
	nftImage = "ipfs://placeholder"
)

// Artist describes a prompt with an LLM and answers with an NFT metadata URI.
type Artist struct {
	describer compute.Describer
	logger    *zap.Logger
}

func NewArtist(describer compute.Describer, logger *zap.Logger) *Artist {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Artist{describer: describer, logger: logger}
}

func (a *Artist) Name() string { return ArtistName }

func (a *Artist) Run(ctx context.Context, ev trigger.Event) ([]byte, error) {
	info, err := decodeEvent(ev)
	if err != nil {
		return nil, err
	}
	prompt, err := codec.DecodePrompt(info.Data)
	if err != nil {
		return nil, err
	}
	if a.describer == nil {
		return nil, model.NewComputationError("describer is nil")
	}

	description, err := a.describer.Describe(ctx, prompt)
	if err != nil {
		return nil, model.AsComputationError(err)
	}

	uri, err := codec.MetadataURI(model.NFTMetadata{
		Name:        nftName,
		Description: description,
		Image:       nftImage,
		Attributes:  []model.Attribute{{TraitType: "Prompt", Value: prompt}},
	})
	if err != nil {
		return nil, err
	}

	a.logger.Debug("artist invocation complete",
		zap.Uint64("trigger_id", info.TriggerID),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("uri_len", len(uri)),
	)
	return codec.EncodeOutput(info.TriggerID, codec.EncodeArtistResult(uri)), nil
}
