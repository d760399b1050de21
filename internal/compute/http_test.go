package compute

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPClient_ReturnsStatusAndBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Echo", r.Header.Get("X-Test"))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write(body)
	}))
	defer server.Close()

	client := NewHTTPClient(HTTPConfig{}, nil)
	resp, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		URL:    server.URL,
		Header: http.Header{"X-Test": []string{"1"}},
		Body:   []byte("ping"),
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, "ping", string(resp.Body))
}

func TestHTTPClient_DoesNotRetryStatusErrors(t *testing.T) {
	t.Parallel()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(HTTPConfig{MaxRetries: 3, RetryBackoff: time.Millisecond}, nil)
	resp, err := client.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL})
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHTTPClient_RetriesTransportErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewHTTPClient(HTTPConfig{MaxRetries: 2, RetryBackoff: time.Millisecond}, nil)
	_, err := client.Do(context.Background(), Request{Method: http.MethodGet, URL: url})
	require.Error(t, err)
}
