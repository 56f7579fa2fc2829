package mock

import (
	"context"

	"github.com/fwojciec/jobsift"
)

var _ jobsift.BatchService = (*BatchService)(nil)

// BatchService is a mock implementation of jobsift.BatchService.
type BatchService struct {
	CreateBatchFn    func(ctx context.Context, batch *jobsift.Batch) error
	FindBatchByIDFn  func(ctx context.Context, id string) (*jobsift.Batch, error)
	FindBatchesFn    func(ctx context.Context, filter jobsift.BatchFilter) ([]*jobsift.Batch, error)
	SaveRecordFn     func(ctx context.Context, batchID string, position int, rec *jobsift.JobRecord) error
	FindRecordsFn    func(ctx context.Context, batchID string) ([]*jobsift.JobRecord, error)
	SaveAttributesFn func(ctx context.Context, batchID string, attrs *jobsift.Attributes) error
	FindAttributesFn func(ctx context.Context, batchID string) ([]*jobsift.Attributes, error)
}

func (s *BatchService) CreateBatch(ctx context.Context, batch *jobsift.Batch) error {
	return s.CreateBatchFn(ctx, batch)
}

func (s *BatchService) FindBatchByID(ctx context.Context, id string) (*jobsift.Batch, error) {
	return s.FindBatchByIDFn(ctx, id)
}

func (s *BatchService) FindBatches(ctx context.Context, filter jobsift.BatchFilter) ([]*jobsift.Batch, error) {
	return s.FindBatchesFn(ctx, filter)
}

func (s *BatchService) SaveRecord(ctx context.Context, batchID string, position int, rec *jobsift.JobRecord) error {
	return s.SaveRecordFn(ctx, batchID, position, rec)
}

func (s *BatchService) FindRecords(ctx context.Context, batchID string) ([]*jobsift.JobRecord, error) {
	return s.FindRecordsFn(ctx, batchID)
}

func (s *BatchService) SaveAttributes(ctx context.Context, batchID string, attrs *jobsift.Attributes) error {
	return s.SaveAttributesFn(ctx, batchID, attrs)
}

func (s *BatchService) FindAttributes(ctx context.Context, batchID string) ([]*jobsift.Attributes, error) {
	return s.FindAttributesFn(ctx, batchID)
}
