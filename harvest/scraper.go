// Package harvest runs the scrape and extraction stages over batches of job URLs.
package harvest

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fwojciec/jobsift"
	"github.com/fwojciec/jobsift/sitekey"
	"golang.org/x/sync/errgroup"
)

// Scraper turns job URLs into JobRecords.
//
// Every input URL yields exactly one record, in input order. Failures to
// fetch, resolve or parse a page degrade that URL's record to null fields and
// never stop the batch.
type Scraper struct {
	Fetcher jobsift.Fetcher
	Rules   jobsift.RuleRegistry

	// Limiter paces requests per host. Nil disables pacing. The politeness
	// delay applies between consecutive requests to the same host: in
	// sequential mode a URL on a host not seen recently is fetched without
	// waiting, even if the previous URL was on another host.
	Limiter jobsift.HostLimiter

	// Concurrency is the number of hosts scraped in parallel. Requests to
	// one host are always sequential and in input order. Values below 2
	// process every URL sequentially in input order.
	Concurrency int

	// Logger receives per-URL warnings and errors. Nil discards them.
	Logger *slog.Logger

	// OnRecord, if set, is called once per finished record. Calls are
	// serialized, but with Concurrency above 1 they arrive out of input order.
	OnRecord func(position int, rec *jobsift.JobRecord)
}

// Run scrapes urls and returns one record per URL in input order.
// If ctx is canceled, URLs not yet scraped get all-null records and the
// context error is returned alongside the full-length result.
func (s *Scraper) Run(ctx context.Context, urls []string) ([]*jobsift.JobRecord, error) {
	records := make([]*jobsift.JobRecord, len(urls))
	var mu sync.Mutex
	emit := func(i int, rec *jobsift.JobRecord) {
		mu.Lock()
		defer mu.Unlock()
		records[i] = rec
		if s.OnRecord != nil {
			s.OnRecord(i, rec)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if s.Concurrency > 1 {
		g.SetLimit(s.Concurrency)
		for _, positions := range groupByHost(urls) {
			g.Go(func() error {
				return s.scrapeAll(gctx, urls, positions, emit)
			})
		}
	} else {
		all := make([]int, len(urls))
		for i := range all {
			all[i] = i
		}
		g.Go(func() error {
			return s.scrapeAll(gctx, urls, all, emit)
		})
	}
	err := g.Wait()

	for i, rec := range records {
		if rec == nil {
			records[i] = jobsift.NewJobRecord(urls[i], nil)
		}
	}
	return records, err
}

// scrapeAll scrapes the URLs at positions sequentially.
func (s *Scraper) scrapeAll(ctx context.Context, urls []string, positions []int, emit func(int, *jobsift.JobRecord)) error {
	for _, i := range positions {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := s.scrape(ctx, urls[i])
		if err != nil {
			return err
		}
		emit(i, rec)
	}
	return nil
}

// scrape produces the record for one URL. Only context cancellation is
// returned as an error.
func (s *Scraper) scrape(ctx context.Context, url string) (*jobsift.JobRecord, error) {
	logger := s.logger().With("url", url)
	empty := jobsift.NewJobRecord(url, nil)

	parser, ok := s.Rules.Resolve(url)
	if !ok {
		logger.Warn("no parser for site", "host", sitekey.Host(url))
		return empty, nil
	}

	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx, sitekey.Host(url)); err != nil {
			return nil, err
		}
	}

	resp, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("fetch failed", "site", parser.Site().String(), "err", err)
		return empty, nil
	}
	if !resp.OK() {
		logger.Warn("unexpected status", "site", parser.Site().String(), "status", resp.StatusCode)
		return empty, nil
	}

	posting, err := parser.Parse(resp.Body)
	if err != nil {
		logger.Error("parse failed", "site", parser.Site().String(), "err", err)
		return empty, nil
	}
	if posting.Description == nil {
		logger.Warn("description not found", "site", parser.Site().String())
	}
	return jobsift.NewJobRecord(url, posting), nil
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// groupByHost returns URL positions grouped by host, preserving input order
// within each group and ordering groups by first appearance.
func groupByHost(urls []string) [][]int {
	index := make(map[string]int)
	var groups [][]int
	for i, u := range urls {
		host := sitekey.Host(u)
		g, ok := index[host]
		if !ok {
			g = len(groups)
			index[host] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}
