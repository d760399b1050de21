package compute

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"triggerOracle/internal/model"
)

const (
	DefaultPriceFeedURL = "https://api.coinmarketcap.com/data-api/v3/cryptocurrency/detail"
	// DefaultAssetID is Bitcoin on CoinMarketCap.
	DefaultAssetID   = 1
	DefaultThreshold = 1.0
	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36"
)

// PriceFeed returns the current USD price of an asset.
type PriceFeed interface {
	Price(ctx context.Context, assetID uint64) (float64, error)
}

// CoinMarketCapFeed reads prices from the CoinMarketCap detail endpoint.
type CoinMarketCapFeed struct {
	baseURL string
	http    HTTPClient
	now     func() time.Time
}

type cmcDetailResponse struct {
	Data struct {
		ID         float64 `json:"id"`
		Name       string  `json:"name"`
		Symbol     string  `json:"symbol"`
		Statistics *struct {
			Price       float64 `json:"price"`
			TotalSupply float64 `json:"totalSupply"`
		} `json:"statistics"`
	} `json:"data"`
	Status struct {
		ErrorCode    string `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}

func NewCoinMarketCapFeed(baseURL string, httpClient HTTPClient) *CoinMarketCapFeed {
	if baseURL == "" {
		baseURL = DefaultPriceFeedURL
	}
	return &CoinMarketCapFeed{baseURL: baseURL, http: httpClient, now: time.Now}
}

// Price fetches the asset detail and returns data.statistics.price.
func (f *CoinMarketCapFeed) Price(ctx context.Context, assetID uint64) (float64, error) {
	url := fmt.Sprintf("%s?id=%d&range=1h", strings.TrimRight(f.baseURL, "/"), assetID)
	resp, err := f.http.Do(ctx, Request{
		Method: http.MethodGet,
		URL:    url,
		Header: http.Header{
			"Accept":       []string{"application/json"},
			"Content-Type": []string{"application/json"},
			"User-Agent":   []string{browserUserAgent},
			"Cookie":       []string{fmt.Sprintf("myrandom_cookie=%d", f.now().Unix())},
		},
	})
	if err != nil {
		return 0, model.NewComputationError("price feed request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, model.NewComputationError("price feed error: status %d", resp.StatusCode)
	}

	var parsed cmcDetailResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return 0, model.NewComputationError("parse price feed response: %v", err)
	}
	if parsed.Data.Statistics == nil {
		if parsed.Status.ErrorMessage != "" {
			return 0, model.NewComputationError("price feed error: %s", parsed.Status.ErrorMessage)
		}
		return 0, model.NewComputationError("price feed response has no statistics")
	}
	return parsed.Data.Statistics.Price, nil
}

// ThresholdResolver resolves a market YES when the asset price is above Threshold.
type ThresholdResolver struct {
	Feed      PriceFeed
	AssetID   uint64
	Threshold float64
	Logger    *zap.Logger
}

func (r *ThresholdResolver) Resolve(ctx context.Context, input model.OracleInput) (bool, error) {
	if r.Feed == nil {
		return false, model.NewComputationError("price feed is nil")
	}
	price, err := r.Feed.Price(ctx, r.AssetID)
	if err != nil {
		return false, model.AsComputationError(err)
	}

	result := price > r.Threshold
	if r.Logger != nil {
		r.Logger.Info("market resolved",
			zap.String("lmsr_market_maker", input.LmsrMarketMaker.Hex()),
			zap.Uint64("asset_id", r.AssetID),
			zap.Float64("price", price),
			zap.Float64("threshold", r.Threshold),
			zap.Bool("result", result),
		)
	}
	return result, nil
}
