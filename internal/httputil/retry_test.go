// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	RetryBaseDelay = time.Millisecond
}

// script serves the given statuses in order, repeating the last one, and
// records every request body it sees.
type script struct {
	mu         sync.Mutex
	statuses   []int
	retryAfter string
	bodies     []string
}

func (s *script) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	n := len(s.bodies)
	s.bodies = append(s.bodies, string(b))
	status := s.statuses[min(n, len(s.statuses)-1)]
	s.mu.Unlock()

	if s.retryAfter != "" && status != http.StatusOK {
		w.Header().Set("Retry-After", s.retryAfter)
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, http.StatusText(status))
}

func (s *script) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bodies)
}

func serve(t *testing.T, s *script) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

func TestRetryable(t *testing.T) {
	for status, want := range map[int]bool{
		http.StatusOK:                  false,
		http.StatusNotFound:            false,
		http.StatusBadRequest:          false,
		http.StatusNotImplemented:      false,
		http.StatusTooManyRequests:     true,
		http.StatusInternalServerError: true,
		http.StatusBadGateway:          true,
		http.StatusServiceUnavailable:  true,
		http.StatusGatewayTimeout:      true,
	} {
		assert.Equal(t, want, Retryable(status), "status %d", status)
	}
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		maxRetries int
		wantStatus int
		wantCalls  int
	}{
		{"first try", []int{200}, 2, 200, 1},
		{"rate limited then ok", []int{429, 429, 200}, 5, 200, 3},
		{"server errors then ok", []int{503, 502, 200}, 2, 200, 3},
		{"gives up with last response", []int{503}, 2, 503, 3},
		{"zero means default", []int{500}, 0, 500, DefaultMaxRetries + 1},
		{"not found is final", []int{404, 200}, 3, 404, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &script{statuses: tt.statuses}
			ts := serve(t, s)

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)
			resp, err := DoWithRetry(context.Background(), ts.Client(), req, tt.maxRetries)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, s.calls())
			b, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, http.StatusText(tt.wantStatus), string(b), "final body is readable")
		})
	}
}

func TestDoWithRetry_ReplaysBody(t *testing.T) {
	s := &script{statuses: []int{500, 200}}
	ts := serve(t, s)

	req, err := http.NewRequest(http.MethodPost, ts.URL, strings.NewReader(`{"model":"llama3.1"}`))
	require.NoError(t, err)
	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{`{"model":"llama3.1"}`, `{"model":"llama3.1"}`}, s.bodies)
}

func TestDoWithRetry_RetryAfter(t *testing.T) {
	old := MaxRetryAfter
	MaxRetryAfter = 20 * time.Millisecond
	t.Cleanup(func() { MaxRetryAfter = old })

	s := &script{statuses: []int{429, 200}, retryAfter: "120"}
	ts := serve(t, s)

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	start := time.Now()
	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 1)
	require.NoError(t, err)
	resp.Body.Close()

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond, "server delay honoured")
	assert.Less(t, elapsed, 5*time.Second, "server delay capped")
}

func TestRetryAfterParsing(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", 0},
		{"2", 2 * time.Second},
		{"-1", 0},
		{"soon", 0},
		{"Wed, 21 Oct 2026 07:28:00 GMT", 0},
		{"3600", MaxRetryAfter},
	}
	for _, tt := range tests {
		resp := &http.Response{Header: http.Header{}}
		if tt.header != "" {
			resp.Header.Set("Retry-After", tt.header)
		}
		assert.Equal(t, tt.want, retryAfter(resp), "header %q", tt.header)
	}
}

func TestDoWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	old := RetryBaseDelay
	RetryBaseDelay = time.Minute
	t.Cleanup(func() { RetryBaseDelay = old })

	s := &script{statuses: []int{503}}
	ts := serve(t, s)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, s.calls())
}

func TestDoWithRetry_TransportErrorIsImmediate(t *testing.T) {
	calls := 0
	failing := func(*http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("connection refused")
	}
	req, err := http.NewRequest(http.MethodGet, "http://127.0.0.1:1", nil)
	require.NoError(t, err)

	_, err = doWithRetry(context.Background(), failing, req, 3)
	assert.EqualError(t, err, "connection refused")
	assert.Equal(t, 1, calls)
}

func TestRetries(t *testing.T) {
	assert.Equal(t, DefaultMaxRetries, Retries(0))
	assert.Equal(t, DefaultMaxRetries, Retries(-2))
	assert.Equal(t, 1, Retries(1))
	assert.Equal(t, 7, Retries(7))
}

func TestNewClient_RetriesThroughTransport(t *testing.T) {
	s := &script{statuses: []int{502, 502, 200}}
	ts := serve(t, s)

	client := NewClient(5*time.Second, 2)
	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, s.calls())
}

func TestRetryTransport_WrapsBase(t *testing.T) {
	s := &script{statuses: []int{429, 200}}
	ts := serve(t, s)

	client := &http.Client{Transport: &RetryTransport{Base: ts.Client().Transport, MaxRetries: 1}}
	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, s.calls())
}
