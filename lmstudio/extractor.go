package lmstudio

import (
	"context"

	"github.com/fwojciec/jobsift"
)

// Ensure Extractor implements jobsift.AttributeExtractor at compile time.
var _ jobsift.AttributeExtractor = (*Extractor)(nil)

// Extractor derives job attributes with a model served by LM Studio.
type Extractor struct {
	client *Client
	model  string
}

// NewExtractor creates an Extractor that sends requests for model through client.
func NewExtractor(client *Client, model string) *Extractor {
	return &Extractor{client: client, model: model}
}

// Extract sends the record's description with the extraction prompt and
// validates the reply. Records without a description are skipped.
func (e *Extractor) Extract(ctx context.Context, rec *jobsift.JobRecord) (*jobsift.Attributes, error) {
	if !rec.HasDescription() {
		return nil, nil
	}

	resp, err := e.client.Chat(ctx, &ChatRequest{
		Model:        e.model,
		SystemPrompt: jobsift.ExtractionPrompt,
		Input:        *rec.Description,
		Reasoning:    ReasoningHigh,
	})
	if err != nil {
		return nil, err
	}

	content, err := resp.Message()
	if err != nil {
		return nil, err
	}

	return jobsift.DecodeAttributes(rec.URL, content)
}
