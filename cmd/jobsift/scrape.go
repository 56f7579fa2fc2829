package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/jobsift"
	"github.com/fwojciec/jobsift/fs"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	_, err := scrapeFiles(deps, c.Files)
	return err
}

// source is one input file and the URLs read from it.
type source struct {
	path string
	urls []string
}

// readSources reads every input file. Files without URLs are skipped with a
// warning; finding no URLs at all is an error.
func readSources(deps *Dependencies, files []string) ([]source, error) {
	var sources []source
	for _, path := range files {
		urls, err := fs.ReadURLs(path)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", jobsift.ErrorMessage(err))
			return nil, err
		}
		if len(urls) == 0 {
			deps.Logger.Warn("no URLs found in file", "file", path)
			continue
		}
		sources = append(sources, source{path: path, urls: urls})
	}

	if len(sources) == 0 {
		fmt.Fprintln(deps.Stderr, "error: no URLs found in any input file")
		return nil, jobsift.Errorf(jobsift.EINVALID, "no URLs found in any input file")
	}
	return sources, nil
}

// scrapeFiles scrapes each input file into its own batch and returns the
// batches created. Records are saved as they are produced, so an interrupted
// run keeps what it scraped.
func scrapeFiles(deps *Dependencies, files []string) ([]*jobsift.Batch, error) {
	sources, err := readSources(deps, files)
	if err != nil {
		return nil, err
	}

	// Saves must outlive cancellation of the run.
	saveCtx := context.WithoutCancel(deps.Ctx)

	var batches []*jobsift.Batch
	for _, src := range sources {
		batch := &jobsift.Batch{Source: src.path, Total: len(src.urls)}
		if err := deps.Batches.CreateBatch(deps.Ctx, batch); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", jobsift.ErrorMessage(err))
			return batches, err
		}
		batches = append(batches, batch)

		fmt.Fprintf(deps.Stdout, "Scraping %d URLs from %s (batch %s)\n", len(src.urls), src.path, batch.ID)

		found, saved := 0, 0
		deps.Scraper.OnRecord = func(position int, rec *jobsift.JobRecord) {
			if rec.Description != nil {
				found++
			}
			if err := deps.Batches.SaveRecord(saveCtx, batch.ID, position, rec); err != nil {
				deps.Logger.Error("save record failed", "batch", batch.ID, "index", position, "url", rec.URL, "err", err)
				return
			}
			saved++
		}

		_, err := deps.Scraper.Run(deps.Ctx, src.urls)
		deps.Scraper.OnRecord = nil
		if err != nil {
			fmt.Fprintf(deps.Stderr, "interrupted: batch %s keeps %d of %d records\n", batch.ID, saved, len(src.urls))
			return batches, err
		}

		fmt.Fprintf(deps.Stdout, "  Found %d of %d descriptions\n", found, len(src.urls))
	}
	return batches, nil
}
