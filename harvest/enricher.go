package harvest

import (
	"context"
	"log/slog"

	"github.com/fwojciec/jobsift"
)

// Enricher runs attribute extraction over scraped records, one request at a time.
type Enricher struct {
	Extractor jobsift.AttributeExtractor

	// Logger receives per-record failures. Nil discards them.
	Logger *slog.Logger

	// OnAttributes, if set, is called for every successful extraction.
	OnAttributes func(position int, attrs *jobsift.Attributes)
}

// Run extracts attributes for each record in order and returns the
// successful extractions. Failed and skipped records are absent from the
// result. Extraction errors are logged with the record's position and never
// stop the batch; only context cancellation does.
func (e *Enricher) Run(ctx context.Context, records []*jobsift.JobRecord) ([]*jobsift.Attributes, error) {
	return e.RunIndexed(ctx, records, nil)
}

// RunIndexed is Run for a subset of a batch. positions[i] is the batch
// position of records[i] and is what logs and OnAttributes report. A nil
// positions reports each record's index in records.
func (e *Enricher) RunIndexed(ctx context.Context, records []*jobsift.JobRecord, positions []int) ([]*jobsift.Attributes, error) {
	if positions != nil && len(positions) != len(records) {
		return nil, jobsift.Errorf(jobsift.EINVALID, "got %d positions for %d records", len(positions), len(records))
	}
	logger := e.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var out []*jobsift.Attributes
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		pos := i
		if positions != nil {
			pos = positions[i]
		}

		attrs, err := e.Extractor.Extract(ctx, rec)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			args := []any{"index", pos, "url", rec.URL, "err", err}
			if stage := jobsift.StageOf(err); stage != "" {
				args = append(args, "stage", string(stage))
			}
			logger.Error("extraction failed", args...)
			continue
		}
		if attrs == nil {
			logger.Debug("extraction skipped", "index", pos, "url", rec.URL)
			continue
		}

		out = append(out, attrs)
		if e.OnAttributes != nil {
			e.OnAttributes(pos, attrs)
		}
	}
	return out, nil
}
