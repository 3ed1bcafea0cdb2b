package weibo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weiboscraper/pkg/logger"
)

func newTestClient(cookie string, maxRetries int) *Client {
	return NewClient(5*time.Second, "test-agent", cookie, maxRetries, logger.NewNopLogger())
}

func TestNewClientHeaders(t *testing.T) {
	client := newTestClient("SUB=abc", 3)

	assert.Equal(t, "test-agent", client.headers["User-Agent"])
	assert.Equal(t, "XMLHttpRequest", client.headers["X-Requested-With"])
	assert.Equal(t, "SUB=abc", client.headers["Cookie"])
}

func TestNewClientWithoutCookie(t *testing.T) {
	client := newTestClient("", 3)

	_, ok := client.headers["Cookie"]
	assert.False(t, ok)
}

func TestGetJSONSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		w.Write([]byte(`{"ok": 1, "data": {"cards": []}}`))
	}))
	defer server.Close()

	client := newTestClient("", 0)

	var resp SearchResponse
	err := client.GetJSON(context.Background(), server.URL, &resp)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Ok)
	require.NotNil(t, resp.Data)
}

func TestGetJSONRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok": 1, "data": {"cards": []}}`))
	}))
	defer server.Close()

	client := newTestClient("", 2)

	var resp SearchResponse
	err := client.GetJSON(context.Background(), server.URL, &resp)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetJSONExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient("", 1)

	var resp SearchResponse
	err := client.GetJSON(context.Background(), server.URL, &resp)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, ErrorTypeServerError, apiErr.Type)
	assert.Equal(t, http.StatusBadGateway, apiErr.Code)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetJSONAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient("", 0)

	var resp SearchResponse
	err := client.GetJSON(context.Background(), server.URL, &resp)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, ErrorTypeAuth, apiErr.Type)
}

func TestGetJSONParsingError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := newTestClient("", 0)

	var resp SearchResponse
	err := client.GetJSON(context.Background(), server.URL, &resp)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, ErrorTypeParsing, apiErr.Type)
}

func TestGetJSONContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient("", 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var resp SearchResponse
	err := client.GetJSON(ctx, server.URL, &resp)
	require.Error(t, err)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrorTypeNetwork))
	assert.True(t, IsRetryable(ErrorTypeRateLimit))
	assert.True(t, IsRetryable(ErrorTypeServerError))
	assert.False(t, IsRetryable(ErrorTypeAuth))
	assert.False(t, IsRetryable(ErrorTypeNotFound))
	assert.False(t, IsRetryable(ErrorTypeParsing))
}
