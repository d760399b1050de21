package compute

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triggerOracle/internal/model"
)

const cmcDetailBody = `{
  "data": {
    "id": 1,
    "name": "Bitcoin",
    "symbol": "BTC",
    "statistics": {"price": 97123.45, "totalSupply": 19800000},
    "description": "",
    "category": "coin",
    "slug": "bitcoin"
  },
  "status": {"timestamp": "2025-01-01T00:00:00Z", "error_code": "0", "error_message": "SUCCESS", "elapsed": "3", "credit_count": 0}
}`

func TestCoinMarketCapFeed_PriceShouldWork(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("id"))
		assert.Equal(t, "1h", r.URL.Query().Get("range"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Contains(t, r.Header.Get("Cookie"), "myrandom_cookie=")
		_, _ = w.Write([]byte(cmcDetailBody))
	}))
	defer server.Close()

	feed := NewCoinMarketCapFeed(server.URL, newTestHTTPClient())
	price, err := feed.Price(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 97123.45, price)
}

func TestCoinMarketCapFeed_NonOKStatusShouldErr(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	feed := NewCoinMarketCapFeed(server.URL, newTestHTTPClient())
	_, err := feed.Price(context.Background(), 1)
	require.True(t, errors.Is(err, model.ErrComputationFailed))
	require.Contains(t, err.Error(), "429")
}

func TestCoinMarketCapFeed_MissingStatisticsShouldErr(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{},"status":{"error_code":"500","error_message":"Invalid value for id"}}`))
	}))
	defer server.Close()

	feed := NewCoinMarketCapFeed(server.URL, newTestHTTPClient())
	_, err := feed.Price(context.Background(), 999999)
	require.True(t, errors.Is(err, model.ErrComputationFailed))
	require.Contains(t, err.Error(), "Invalid value for id")
}

type staticFeed struct {
	price float64
	err   error
}

func (f staticFeed) Price(context.Context, uint64) (float64, error) {
	return f.price, f.err
}

func TestThresholdResolver(t *testing.T) {
	t.Parallel()

	cases := []struct {
		price float64
		want  bool
	}{
		{2.5, true},
		{1.0, false},
		{0.5, false},
	}
	for _, tc := range cases {
		resolver := &ThresholdResolver{Feed: staticFeed{price: tc.price}, AssetID: 1, Threshold: 1.0}
		got, err := resolver.Resolve(context.Background(), model.OracleInput{})
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "price %v", tc.price)
	}
}

func TestThresholdResolver_FeedErrorShouldErr(t *testing.T) {
	t.Parallel()

	resolver := &ThresholdResolver{Feed: staticFeed{err: errors.New("timeout")}, Threshold: 1.0}
	_, err := resolver.Resolve(context.Background(), model.OracleInput{})
	require.True(t, errors.Is(err, model.ErrComputationFailed))

	_, err = (&ThresholdResolver{}).Resolve(context.Background(), model.OracleInput{})
	require.True(t, errors.Is(err, model.ErrComputationFailed))
}
