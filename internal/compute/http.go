package compute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"triggerOracle/internal/retry"
)

const maxResponseBytes = 8 << 20

// Request is a single outbound HTTP call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the status and body of a completed call.
type Response struct {
	StatusCode int
	Body       []byte
}

// HTTPClient performs one request/response exchange.
// A non-nil error means the exchange did not complete; any status is returned as-is.
type HTTPClient interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// HTTPConfig configures the default HTTP collaborator.
type HTTPConfig struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

type netHTTPClient struct {
	client *http.Client
	policy retry.Policy
	logger *zap.Logger
}

// NewHTTPClient builds an HTTPClient on net/http. Only transport failures are retried.
func NewHTTPClient(cfg HTTPConfig, logger *zap.Logger) HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &netHTTPClient{
		client: &http.Client{Timeout: timeout},
		policy: retry.Policy{MaxRetries: cfg.MaxRetries, Backoff: cfg.RetryBackoff},
		logger: logger,
	}
}

func (c *netHTTPClient) Do(ctx context.Context, req Request) (Response, error) {
	var resp Response
	err := retry.Do(ctx, c.policy, func(ctx context.Context) error {
		var err error
		resp, err = c.do(ctx, req)
		if err != nil {
			c.logger.Warn("http request failed", zap.String("method", req.Method), zap.String("url", req.URL), zap.Error(err))
		}
		return err
	})
	return resp, err
}

func (c *netHTTPClient) do(ctx context.Context, req Request) (Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return Response{}, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes+1))
	if err != nil {
		return Response{}, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxResponseBytes {
		return Response{}, errors.New("response body too large")
	}
	return Response{StatusCode: httpResp.StatusCode, Body: data}, nil
}
