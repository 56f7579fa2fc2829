package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/jobsift"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ jobsift.BatchService = (*BatchService)(nil)

// BatchService implements jobsift.BatchService using SQLite.
type BatchService struct {
	db *DB
}

// NewBatchService creates a new BatchService.
func NewBatchService(db *DB) *BatchService {
	return &BatchService{db: db}
}

// CreateBatch creates a new batch.
func (s *BatchService) CreateBatch(ctx context.Context, batch *jobsift.Batch) error {
	if err := batch.Validate(); err != nil {
		return err
	}

	batch.ID = uuid.New().String()
	batch.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO batches (id, source, total, created_at)
		VALUES (?, ?, ?, ?)
	`, batch.ID, batch.Source, batch.Total, batch.CreatedAt.Format(time.RFC3339))

	return err
}

// FindBatchByID retrieves a batch by ID.
func (s *BatchService) FindBatchByID(ctx context.Context, id string) (*jobsift.Batch, error) {
	batches, err := s.FindBatches(ctx, jobsift.BatchFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, jobsift.Errorf(jobsift.ENOTFOUND, "batch not found")
	}
	return batches[0], nil
}

// FindBatches retrieves batches matching the filter, most recent first.
func (s *BatchService) FindBatches(ctx context.Context, filter jobsift.BatchFilter) ([]*jobsift.Batch, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source, total, created_at FROM batches WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*jobsift.Batch
	for rows.Next() {
		var batch jobsift.Batch
		var createdAt string

		if err := rows.Scan(&batch.ID, &batch.Source, &batch.Total, &createdAt); err != nil {
			return nil, err
		}

		batch.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		batches = append(batches, &batch)
	}

	return batches, rows.Err()
}

// SaveRecord stores the scraped record at position within the batch.
func (s *BatchService) SaveRecord(ctx context.Context, batchID string, position int, rec *jobsift.JobRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if position < 0 {
		return jobsift.Errorf(jobsift.EINVALID, "record position must not be negative")
	}
	if _, err := s.FindBatchByID(ctx, batchID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (batch_id, position, url, company, title, description, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (batch_id, position) DO NOTHING
	`, batchID, position, rec.URL, nullString(rec.Company), nullString(rec.Title), nullString(rec.Description),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return jobsift.Errorf(jobsift.ECONFLICT, "record at position %d already stored", position)
	}
	return nil
}

// FindRecords returns the batch's records in position order.
func (s *BatchService) FindRecords(ctx context.Context, batchID string) ([]*jobsift.JobRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, company, title, description
		FROM jobs
		WHERE batch_id = ?
		ORDER BY position
	`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*jobsift.JobRecord
	for rows.Next() {
		var rec jobsift.JobRecord
		var company, title, description sql.NullString

		if err := rows.Scan(&rec.URL, &company, &title, &description); err != nil {
			return nil, err
		}
		rec.Company = stringPtr(company)
		rec.Title = stringPtr(title)
		rec.Description = stringPtr(description)

		records = append(records, &rec)
	}

	return records, rows.Err()
}

// SaveAttributes stores extracted attributes for a URL in the batch.
func (s *BatchService) SaveAttributes(ctx context.Context, batchID string, attrs *jobsift.Attributes) error {
	if attrs.URL == "" {
		return jobsift.Errorf(jobsift.EINVALID, "attributes URL required")
	}
	if _, err := s.FindBatchByID(ctx, batchID); err != nil {
		return err
	}

	cols := encodeAttributes(attrs)
	args := append([]any{batchID, attrs.URL}, cols.args()...)
	args = append(args, time.Now().UTC().Format(time.RFC3339))

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO attributes (batch_id, url, python_required, experience_required,
			other_programming_languages, required_technologies, nice_to_know, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (batch_id, url) DO NOTHING
	`, args...)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return jobsift.Errorf(jobsift.ECONFLICT, "attributes for %s already stored", attrs.URL)
	}
	return nil
}

// FindAttributes returns the batch's attributes in insertion order.
func (s *BatchService) FindAttributes(ctx context.Context, batchID string) ([]*jobsift.Attributes, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, python_required, experience_required,
			other_programming_languages, required_technologies, nice_to_know
		FROM attributes
		WHERE batch_id = ?
		ORDER BY rowid
	`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*jobsift.Attributes
	for rows.Next() {
		var url string
		var cols attributeColumns

		if err := rows.Scan(append([]any{&url}, cols.scanDest()...)...); err != nil {
			return nil, err
		}

		attrs, err := cols.decode(url)
		if err != nil {
			return nil, err
		}
		out = append(out, attrs)
	}

	return out, rows.Err()
}
