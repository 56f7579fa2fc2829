//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/jobsift"
	"github.com/fwojciec/jobsift/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestExtractor_Integration_ExtractsAttributes(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	extractor := gemini.NewExtractor(client.Models)

	attrs, err := extractor.Extract(ctx, &jobsift.JobRecord{
		URL:         "https://example.com/job/1",
		Description: jobsift.StringPtr("We need a data engineer with 3 years of experience. Python and SQL are required. Spark is nice to have."),
	})

	require.NoError(t, err)
	require.NotNil(t, attrs)
	require.NotNil(t, attrs.PythonRequired)
	assert.True(t, *attrs.PythonRequired)
}
