package main

import (
	"fmt"

	"github.com/fwojciec/jobsift"
)

// Run executes the batches command.
func (c *BatchesCmd) Run(deps *Dependencies) error {
	batches, err := deps.Batches.FindBatches(deps.Ctx, jobsift.BatchFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobsift.ErrorMessage(err))
		return err
	}

	if len(batches) == 0 {
		fmt.Fprintln(deps.Stdout, "No batches found. Use 'jobsift scrape' to create one.")
		return nil
	}

	for _, b := range batches {
		fmt.Fprintf(deps.Stdout, "%s  %s  %4d  %s\n", b.ID, b.CreatedAt.Format("2006-01-02 15:04"), b.Total, b.Source)
	}
	return nil
}
