package mock

import (
	"context"

	"github.com/fwojciec/jobsift"
)

var _ jobsift.AttributeExtractor = (*AttributeExtractor)(nil)

// AttributeExtractor is a mock implementation of jobsift.AttributeExtractor.
type AttributeExtractor struct {
	ExtractFn func(ctx context.Context, rec *jobsift.JobRecord) (*jobsift.Attributes, error)
}

func (e *AttributeExtractor) Extract(ctx context.Context, rec *jobsift.JobRecord) (*jobsift.Attributes, error) {
	return e.ExtractFn(ctx, rec)
}
