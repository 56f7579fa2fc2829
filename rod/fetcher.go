// Package rod provides a jobsift.Fetcher that renders pages in headless Chrome.
package rod

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/jobsift"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements jobsift.Fetcher at compile time.
var _ jobsift.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager   *BrowserManager
	timeout   time.Duration
	userAgent string
	headers   map[string]string
	managed   []ManagerOption
	closed    atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page load timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRecycleAfter sets how many pages are loaded before the browser is restarted.
func WithRecycleAfter(pages int64) Option {
	return func(f *Fetcher) {
		f.managed = append(f.managed, WithMaxPages(pages))
	}
}

// WithRestartOn sets the document statuses that restart the browser before the
// next page. Defaults to DefaultBlockStatuses.
func WithRestartOn(statuses ...int) Option {
	return func(f *Fetcher) {
		f.managed = append(f.managed, WithBlockStatuses(statuses...))
	}
}

// WithLogger sets the logger that reports browser restarts.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.managed = append(f.managed, WithManagerLogger(logger))
	}
}

// WithUserAgent overrides the browser's User-Agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithHeaders adds headers sent with every page request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managed...)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL and returns the status of the main document
// response together with the rendered HTML. A block status is returned like
// any other status and restarts the browser before the next page.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*jobsift.Response, error) {
	if f.closed.Load() {
		return nil, jobsift.Errorf(jobsift.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()

	status := 0
	defer func() { f.manager.PageDone(status) }()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return nil, err
		}
	}
	if len(f.headers) > 0 {
		kv := make([]string, 0, len(f.headers)*2)
		for k, v := range f.headers {
			kv = append(kv, k, v)
		}
		cleanup, err := page.SetExtraHeaders(kv)
		if err != nil {
			return nil, err
		}
		defer cleanup()
	}

	waitDocument := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = int(e.Response.Status)
		return true
	})

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	waitDocument()

	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	return &jobsift.Response{StatusCode: status, Body: html}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the current browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Restarts returns how many times the browser has been replaced.
func (f *Fetcher) Restarts() int {
	return f.manager.Recycles()
}
