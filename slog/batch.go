package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobsift"
)

// Ensure LoggingBatchService implements jobsift.BatchService.
var _ jobsift.BatchService = (*LoggingBatchService)(nil)

// LoggingBatchService wraps a BatchService with debug logging for writes.
type LoggingBatchService struct {
	jobsift.BatchService
	logger *slog.Logger
}

// NewLoggingBatchService creates a new LoggingBatchService.
func NewLoggingBatchService(next jobsift.BatchService, logger *slog.Logger) *LoggingBatchService {
	return &LoggingBatchService{BatchService: next, logger: logger}
}

// CreateBatch delegates to the wrapped service and logs the new batch.
func (s *LoggingBatchService) CreateBatch(ctx context.Context, batch *jobsift.Batch) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create batch",
			"id", batch.ID,
			"source", batch.Source,
			"total", batch.Total,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.BatchService.CreateBatch(ctx, batch)
}

// SaveRecord delegates to the wrapped service and logs the write.
func (s *LoggingBatchService) SaveRecord(ctx context.Context, batchID string, position int, rec *jobsift.JobRecord) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("save record",
			"batch", batchID,
			"position", position,
			"url", rec.URL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.BatchService.SaveRecord(ctx, batchID, position, rec)
}

// SaveAttributes delegates to the wrapped service and logs the write.
func (s *LoggingBatchService) SaveAttributes(ctx context.Context, batchID string, attrs *jobsift.Attributes) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("save attributes",
			"batch", batchID,
			"url", attrs.URL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.BatchService.SaveAttributes(ctx, batchID, attrs)
}
