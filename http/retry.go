package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/jobsift"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Ensure RetryFetcher implements jobsift.Fetcher at compile time.
var _ jobsift.Fetcher = (*RetryFetcher)(nil)

// RetryFetcher retries transport failures and transient statuses
// (429 and 5xx) with backoff. Other statuses are returned as they are.
type RetryFetcher struct {
	next   jobsift.Fetcher
	delays []time.Duration
	logger *slog.Logger
}

// NewRetryFetcher wraps next. A nil delays slice uses DefaultRetryDelays;
// an empty one disables retries. A nil logger discards retry messages.
func NewRetryFetcher(next jobsift.Fetcher, delays []time.Duration, logger *slog.Logger) *RetryFetcher {
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RetryFetcher{next: next, delays: delays, logger: logger}
}

// Fetch attempts the request up to len(delays)+1 times.
// The last response or error is returned when attempts run out.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (*jobsift.Response, error) {
	maxAttempts := len(f.delays) + 1

	var resp *jobsift.Response
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err = f.next.Fetch(ctx, url)
		if err == nil && !transient(resp.StatusCode) {
			return resp, nil
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		f.logger.Debug("retry fetch", "url", url, "attempt", attempt+2, "status", status, "err", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delays[attempt]):
		}
	}

	return resp, err
}

// Close delegates to the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.next.Close()
}

func transient(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
