package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fwojciec/jobsift/fs"
)

// Run executes the run command: scrape every file, enrich each new batch and
// write one merged parquet dataset per batch to OutDir.
func (c *RunCmd) Run(deps *Dependencies) error {
	batches, err := scrapeFiles(deps, c.Files)
	if err != nil {
		return err
	}

	for _, batch := range batches {
		if err := enrichBatch(deps, batch.ID); err != nil {
			return err
		}

		rows, err := mergedRows(deps, batch.ID)
		if err != nil {
			return err
		}
		path := filepath.Join(c.OutDir, outputName(batch.Source, batch.ID))
		if err := fs.SaveDataset(rows, path); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %d rows to %s\n", len(rows), path)
	}
	return nil
}

// outputName names a batch's dataset after its source file and batch ID.
func outputName(source, batchID string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	id := batchID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s-%s.parquet", base, id)
}
