package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/jobsift"
)

// Compile-time interface verification.
var _ jobsift.AttributeExtractor = (*ExtractionCache)(nil)

// ExtractionCache wraps an AttributeExtractor and reuses stored results for
// descriptions already extracted with the same model and prompt.
// Only successful extractions are cached.
type ExtractionCache struct {
	db     *DB
	next   jobsift.AttributeExtractor
	model  string
	logger *slog.Logger
}

// NewExtractionCache creates a new ExtractionCache. A nil logger discards
// cache write failures.
func NewExtractionCache(db *DB, next jobsift.AttributeExtractor, model string, logger *slog.Logger) *ExtractionCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ExtractionCache{db: db, next: next, model: model, logger: logger}
}

// Extract returns cached attributes for the record's description, or
// delegates to the wrapped extractor and stores its result.
func (c *ExtractionCache) Extract(ctx context.Context, rec *jobsift.JobRecord) (*jobsift.Attributes, error) {
	if !rec.HasDescription() {
		return c.next.Extract(ctx, rec)
	}

	key := CacheKey(c.model, jobsift.ExtractionPrompt, *rec.Description)

	var cols attributeColumns
	err := c.db.QueryRowContext(ctx, `
		SELECT python_required, experience_required,
			other_programming_languages, required_technologies, nice_to_know
		FROM extraction_cache
		WHERE key = ?
	`, key).Scan(cols.scanDest()...)
	switch {
	case err == nil:
		return cols.decode(rec.URL)
	case err != sql.ErrNoRows:
		return nil, &jobsift.ExtractError{Stage: jobsift.StageTransport, Err: fmt.Errorf("reading extraction cache: %w", err)}
	}

	attrs, err := c.next.Extract(ctx, rec)
	if err != nil || attrs == nil {
		return attrs, err
	}

	cols = encodeAttributes(attrs)
	args := append([]any{key, c.model}, cols.args()...)
	args = append(args, time.Now().UTC().Format(time.RFC3339))
	if _, err := c.db.ExecContext(ctx, `
		INSERT INTO extraction_cache (key, model, python_required, experience_required,
			other_programming_languages, required_technologies, nice_to_know, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO NOTHING
	`, args...); err != nil {
		c.logger.Warn("extraction cache write failed", "url", rec.URL, "err", err)
	}
	return attrs, nil
}

// CacheKey identifies an extraction by model, prompt and description.
func CacheKey(model, prompt, description string) string {
	h := xxhash.New()
	for _, part := range []string{model, prompt, description} {
		_, _ = h.WriteString(part)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
