// Package lmstudio talks to a local LM Studio server through its native chat API.
package lmstudio

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/jobsift"
)

// DefaultBaseURL is where LM Studio listens by default.
const DefaultBaseURL = "http://127.0.0.1:1234"

// DefaultTimeout bounds one chat request. High-effort reasoning on a local
// model can take minutes for a long description.
const DefaultTimeout = 5 * time.Minute

// DefaultModel is the model requested when none is configured.
const DefaultModel = "openai/gpt-oss-120b"

// ReasoningHigh requests the model's most thorough reasoning mode.
const ReasoningHigh = "high"

// maxErrorBody caps how much of an error response is quoted in errors.
const maxErrorBody = 512

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Model        string `json:"model"`
	SystemPrompt string `json:"system_prompt"`
	Input        string `json:"input"`
	Reasoning    string `json:"reasoning,omitempty"`
}

// ChatResponse is the reply envelope. Output holds reasoning traces, tool
// calls and the final message as separate typed entries.
type ChatResponse struct {
	Output []OutputEntry `json:"output"`
}

// OutputEntry is one typed item of a chat reply.
type OutputEntry struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// Message returns the content of the reply's single message entry.
// Entries of other types are ignored.
func (r *ChatResponse) Message() (string, error) {
	var found []OutputEntry
	for _, e := range r.Output {
		if strings.EqualFold(strings.TrimSpace(e.Type), "message") {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return "", jobsift.ExtractErrorf(jobsift.StageMessage, "no message entry among %d output entries", len(r.Output))
	case 1:
	default:
		return "", jobsift.ExtractErrorf(jobsift.StageMessage, "%d message entries, want one", len(found))
	}

	var content string
	if err := json.Unmarshal(found[0].Content, &content); err != nil {
		return "", jobsift.ExtractErrorf(jobsift.StagePayload, "message content is not a string: %v", err)
	}
	return content, nil
}

// Client issues chat requests to an LM Studio server.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the server address. Defaults to DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the per-request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithAPIToken sets a bearer token for servers that require authentication.
func WithAPIToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = &http.Client{Timeout: c.timeout}
	return c
}

// Chat sends one chat request. Failures are returned as *jobsift.ExtractError
// at the transport, status or envelope stage.
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &jobsift.ExtractError{Stage: jobsift.StageTransport, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &jobsift.ExtractError{Stage: jobsift.StageTransport, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &jobsift.ExtractError{Stage: jobsift.StageTransport, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &jobsift.ExtractError{Stage: jobsift.StageTransport, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, jobsift.ExtractErrorf(jobsift.StageStatus, "HTTP %d: %s", resp.StatusCode, truncate(raw))
	}

	var out ChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, jobsift.ExtractErrorf(jobsift.StageEnvelope, "decoding reply: %v", err)
	}
	if out.Output == nil {
		return nil, jobsift.ExtractErrorf(jobsift.StageEnvelope, "reply has no output list")
	}
	return &out, nil
}

func truncate(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
