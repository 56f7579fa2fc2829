package jobsift

import "context"

// Posting holds the structural fields a site parser extracts from a job page.
// A nil field means the node was not found. An empty string means the node
// was present but carried no text.
type Posting struct {
	Company     *string
	Title       *string
	Description *string
}

// JobRecord is one scraped job posting keyed by URL.
// Records are created once per URL per run and never mutated.
type JobRecord struct {
	URL         string  `json:"url"`
	Company     *string `json:"company"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// NewJobRecord builds a record for url from a parsed posting.
// A nil posting yields an all-null record.
func NewJobRecord(url string, p *Posting) *JobRecord {
	if p == nil {
		return &JobRecord{URL: url}
	}
	return &JobRecord{
		URL:         url,
		Company:     p.Company,
		Title:       p.Title,
		Description: p.Description,
	}
}

// HasDescription reports whether the record carries a non-empty description.
func (r *JobRecord) HasDescription() bool {
	return r.Description != nil && *r.Description != ""
}

// Validate returns an error if the record contains invalid fields.
func (r *JobRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "job record URL required")
	}
	return nil
}

// Response is the outcome of fetching a page.
type Response struct {
	StatusCode int
	Body       string
}

// OK reports whether the response carries a page worth parsing.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode == 200
}

// Fetcher retrieves job pages.
type Fetcher interface {
	// Fetch requests the URL and returns its status and body.
	// Non-200 statuses are returned as a Response, not an error.
	// Transport failures, including timeouts, are returned as errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases fetcher resources.
	Close() error
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// HostLimiter paces requests per host.
type HostLimiter interface {
	// Wait blocks until a request to host may proceed.
	// Returns an error if the context is canceled before the wait completes.
	Wait(ctx context.Context, host string) error
}
