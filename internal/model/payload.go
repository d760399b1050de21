package model

import "github.com/ethereum/go-ethereum/common"

// OracleInput names the market a prediction-market oracle resolves.
type OracleInput struct {
	LmsrMarketMaker   common.Address `json:"lmsr_market_maker"`
	ConditionalTokens common.Address `json:"conditional_tokens"`
}

// OracleOutput is the resolution reported back for a market.
type OracleOutput struct {
	LmsrMarketMaker   common.Address `json:"lmsr_market_maker"`
	ConditionalTokens common.Address `json:"conditional_tokens"`
	Result            bool           `json:"result"`
}

// NFTMetadata is the token metadata document produced by the artist component.
type NFTMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// Attribute is a single NFT trait.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}
