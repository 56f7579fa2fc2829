// Package gemini implements jobsift.AttributeExtractor using Google Gemini.
package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/jobsift"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultTimeout bounds one extraction request.
const DefaultTimeout = 2 * time.Minute

// HighThinkingBudget is the thinking token budget for high-effort reasoning.
const HighThinkingBudget int32 = 8192

// Ensure Extractor implements jobsift.AttributeExtractor at compile time.
var _ jobsift.AttributeExtractor = (*Extractor)(nil)

// Generator is the part of the genai client the Extractor uses.
// *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Extractor derives job attributes with a Gemini model.
type Extractor struct {
	models  Generator
	model   string
	timeout time.Duration
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithModel sets the model name. Defaults to DefaultModel.
func WithModel(model string) Option {
	return func(e *Extractor) {
		e.model = model
	}
}

// WithTimeout sets the per-request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.timeout = d
	}
}

// NewExtractor creates a new Extractor. Pass client.Models for a real client.
func NewExtractor(models Generator, opts ...Option) *Extractor {
	e := &Extractor{
		models:  models,
		model:   DefaultModel,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract sends the record's description with the extraction prompt and
// validates the reply. Records without a description are skipped.
func (e *Extractor) Extract(ctx context.Context, rec *jobsift.JobRecord) (*jobsift.Attributes, error) {
	if !rec.HasDescription() {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	result, err := e.models.GenerateContent(ctx, e.model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: *rec.Description}},
		}},
		BuildConfig(),
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, jobsift.ExtractErrorf(jobsift.StageStatus, "HTTP %d: %s", apiErr.Code, apiErr.Message)
		}
		return nil, &jobsift.ExtractError{Stage: jobsift.StageTransport, Err: err}
	}

	content, err := MessageText(result)
	if err != nil {
		return nil, err
	}

	return jobsift.DecodeAttributes(rec.URL, content)
}

// BuildConfig returns the GenerateContentConfig for extraction requests.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	budget := HighThinkingBudget
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: jobsift.ExtractionPrompt}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: &budget,
		},
	}
}

// MessageText returns the answer text of the first candidate, skipping
// thought parts.
func MessageText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", jobsift.ExtractErrorf(jobsift.StageEnvelope, "reply has no candidates")
	}
	candidate := result.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return "", jobsift.ExtractErrorf(jobsift.StageEnvelope, "candidate has no content")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", jobsift.ExtractErrorf(jobsift.StageMessage, "candidate has no message text (finish reason %q)", candidate.FinishReason)
	}
	return sb.String(), nil
}
