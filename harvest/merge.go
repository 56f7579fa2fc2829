package harvest

import (
	"log/slog"

	"github.com/fwojciec/jobsift"
)

// Merge left-joins extracted attributes onto scraped records by URL.
//
// The result has exactly one row per scraped record, in scraped order.
// Rows without a matching extraction have nil Attributes. When several
// extractions share a URL the first wins and the rest are logged and dropped.
// Scraped records that share a URL each receive that URL's extraction.
func Merge(scraped []*jobsift.JobRecord, extracted []*jobsift.Attributes, logger *slog.Logger) []*jobsift.Row {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	byURL := make(map[string]*jobsift.Attributes, len(extracted))
	for i, a := range extracted {
		if a == nil {
			continue
		}
		if _, dup := byURL[a.URL]; dup {
			logger.Warn("duplicate extraction ignored", "url", a.URL, "index", i)
			continue
		}
		byURL[a.URL] = a
	}

	rows := make([]*jobsift.Row, len(scraped))
	for i, rec := range scraped {
		rows[i] = &jobsift.Row{JobRecord: rec, Attributes: byURL[rec.URL]}
	}
	return rows
}
