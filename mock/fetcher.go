package mock

import (
	"context"

	"github.com/fwojciec/jobsift"
)

var _ jobsift.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of jobsift.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*jobsift.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*jobsift.Response, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
