package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobsift"
)

// Ensure LoggingExtractor implements jobsift.AttributeExtractor.
var _ jobsift.AttributeExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an AttributeExtractor with debug logging.
type LoggingExtractor struct {
	next   jobsift.AttributeExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next jobsift.AttributeExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(ctx context.Context, rec *jobsift.JobRecord) (attrs *jobsift.Attributes, err error) {
	defer func(begin time.Time) {
		chars := 0
		if rec.Description != nil {
			chars = len(*rec.Description)
		}
		args := []any{
			"url", rec.URL,
			"chars", chars,
			"skipped", attrs == nil && err == nil,
			"duration", time.Since(begin),
			"err", err,
		}
		if stage := jobsift.StageOf(err); stage != "" {
			args = append(args, "stage", string(stage))
		}
		e.logger.Debug("extract", args...)
	}(time.Now())
	return e.next.Extract(ctx, rec)
}
