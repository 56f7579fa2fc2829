package jobsift

import (
	"context"
	"time"
)

// Batch is one input source processed in one run.
type Batch struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the batch contains invalid fields.
func (b *Batch) Validate() error {
	if b.Source == "" {
		return Errorf(EINVALID, "batch source required")
	}
	if b.Total < 0 {
		return Errorf(EINVALID, "batch total must not be negative")
	}
	return nil
}

// BatchService persists scraped records and extracted attributes per batch.
// Records are saved one at a time so partial output survives an interrupted run.
type BatchService interface {
	// CreateBatch creates a new batch and assigns its ID.
	CreateBatch(ctx context.Context, batch *Batch) error

	// FindBatchByID retrieves a batch by ID.
	// Returns ENOTFOUND if the batch does not exist.
	FindBatchByID(ctx context.Context, id string) (*Batch, error)

	// FindBatches returns batches, most recent first.
	FindBatches(ctx context.Context, filter BatchFilter) ([]*Batch, error)

	// SaveRecord stores the scraped record at position within the batch.
	// Returns ECONFLICT if the position is already taken.
	SaveRecord(ctx context.Context, batchID string, position int, rec *JobRecord) error

	// FindRecords returns the batch's records in position order.
	FindRecords(ctx context.Context, batchID string) ([]*JobRecord, error)

	// SaveAttributes stores extracted attributes for a URL in the batch.
	// Returns ECONFLICT if attributes already exist for the URL.
	SaveAttributes(ctx context.Context, batchID string, attrs *Attributes) error

	// FindAttributes returns the batch's attributes in insertion order.
	FindAttributes(ctx context.Context, batchID string) ([]*Attributes, error)
}

// BatchFilter represents a filter for FindBatches.
type BatchFilter struct {
	ID     *string `json:"id"`
	Source *string `json:"source"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
