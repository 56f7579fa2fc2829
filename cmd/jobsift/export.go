package main

import (
	"fmt"

	"github.com/fwojciec/jobsift"
	"github.com/fwojciec/jobsift/fs"
	"github.com/fwojciec/jobsift/harvest"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	rows, err := mergedRows(deps, c.Batch)
	if err != nil {
		return err
	}

	if c.Output == "" || c.Output == "-" {
		return fs.WriteCSV(deps.Stdout, rows)
	}
	if err := fs.SaveDataset(rows, c.Output); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %d rows to %s\n", len(rows), c.Output)
	return nil
}

// mergedRows joins a batch's records with its attributes.
func mergedRows(deps *Dependencies, batchID string) ([]*jobsift.Row, error) {
	records, err := deps.Batches.FindRecords(deps.Ctx, batchID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobsift.ErrorMessage(err))
		return nil, err
	}
	if len(records) == 0 {
		if _, err := deps.Batches.FindBatchByID(deps.Ctx, batchID); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", jobsift.ErrorMessage(err))
			return nil, err
		}
	}

	attrs, err := deps.Batches.FindAttributes(deps.Ctx, batchID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobsift.ErrorMessage(err))
		return nil, err
	}
	return harvest.Merge(records, attrs, deps.Logger), nil
}
