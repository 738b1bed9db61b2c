// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by ingestion and the
// backend adapters that speak plain HTTP.
package httputil

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// retryable responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = time.Second

// MaxRetryAfter caps how long a server-supplied Retry-After may delay a
// retry.
var MaxRetryAfter = 30 * time.Second

// DefaultMaxRetries is the retry count used when a caller passes zero or a
// negative value.
const DefaultMaxRetries = 3

// Retries returns the effective retry count for a configured value. Every
// backend adapter resolves max_retries through it, including those whose
// SDK runs its own retry loop.
func Retries(n int) int {
	if n <= 0 {
		return DefaultMaxRetries
	}
	return n
}

// Retryable reports whether a response status is worth retrying: 429 and
// the transient 5xx family.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// DoWithRetry executes an HTTP request and retries on 429 and transient 5xx
// responses with exponential backoff. The delay starts at RetryBaseDelay and
// doubles each attempt; a Retry-After header in seconds raises the delay to
// the server's value, up to MaxRetryAfter.
//
// When maxRetries is 0 the default (3) is used. On each retryable response
// the body is drained and closed before sleeping. If the context is cancelled
// during a backoff wait the function returns ctx.Err(). After exhausting
// retries the last response is returned so the caller can inspect it.
// Transport errors are returned immediately.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	return doWithRetry(ctx, client.Do, req, maxRetries)
}

// RetryTransport is an http.RoundTripper applying the DoWithRetry policy.
// It serves clients built by SDKs that accept an *http.Client but have no
// retry setting of their own.
type RetryTransport struct {
	Base       http.RoundTripper
	MaxRetries int
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return doWithRetry(req.Context(), base.RoundTrip, req, t.MaxRetries)
}

// NewClient returns an *http.Client with the given timeout whose transport
// retries per DoWithRetry.
func NewClient(timeout time.Duration, maxRetries int) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &RetryTransport{MaxRetries: maxRetries},
	}
}

func doWithRetry(ctx context.Context, send func(*http.Request) (*http.Response, error), req *http.Request, maxRetries int) (*http.Response, error) {
	maxRetries = Retries(maxRetries)

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := send(attemptReq)
		if err != nil {
			return nil, err
		}

		if !Retryable(resp.StatusCode) {
			return resp, nil
		}

		// Exhausted retries, return the last response as-is.
		if attempt >= maxRetries {
			return resp, nil
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if ra := retryAfter(resp); ra > backoff {
			backoff = ra
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		slog.Debug("http.retry", "url", req.URL.Redacted(), "status", resp.StatusCode,
			"backoff", backoff, "attempt", attempt+1, "max_retries", maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > MaxRetryAfter {
		d = MaxRetryAfter
	}
	return d
}
