package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/jobsift"
)

// Run executes the enrich command.
func (c *EnrichCmd) Run(deps *Dependencies) error {
	return enrichBatch(deps, c.Batch)
}

// enrichBatch extracts attributes for the batch's records that have none
// stored yet. Each URL is sent at most once.
func enrichBatch(deps *Dependencies, batchID string) error {
	batch, err := deps.Batches.FindBatchByID(deps.Ctx, batchID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobsift.ErrorMessage(err))
		return err
	}

	records, err := deps.Batches.FindRecords(deps.Ctx, batch.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobsift.ErrorMessage(err))
		return err
	}
	existing, err := deps.Batches.FindAttributes(deps.Ctx, batch.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobsift.ErrorMessage(err))
		return err
	}

	done := make(map[string]bool, len(existing))
	for _, a := range existing {
		done[a.URL] = true
	}
	var (
		pending   []*jobsift.JobRecord
		positions []int
	)
	for i, rec := range records {
		if done[rec.URL] {
			continue
		}
		done[rec.URL] = true
		pending = append(pending, rec)
		positions = append(positions, i)
	}

	if len(pending) == 0 {
		fmt.Fprintf(deps.Stdout, "Batch %s is already enriched (%d attributes)\n", batch.ID, len(existing))
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Extracting attributes for %d postings in batch %s\n", len(pending), batch.ID)

	saveCtx := context.WithoutCancel(deps.Ctx)
	deps.Enricher.OnAttributes = func(position int, attrs *jobsift.Attributes) {
		if err := deps.Batches.SaveAttributes(saveCtx, batch.ID, attrs); err != nil {
			deps.Logger.Error("save attributes failed", "batch", batch.ID, "index", position, "url", attrs.URL, "err", err)
		}
	}
	defer func() { deps.Enricher.OnAttributes = nil }()

	extracted, err := deps.Enricher.RunIndexed(deps.Ctx, pending, positions)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "interrupted: batch %s keeps %d new extractions\n", batch.ID, len(extracted))
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Extracted %d of %d\n", len(extracted), len(pending))
	return nil
}
