package harvest_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/jobsift"
	"github.com/fwojciec/jobsift/harvest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	scraped := []*jobsift.JobRecord{
		{URL: "https://www.linkedin.com/jobs/view/123", Description: jobsift.StringPtr("a")},
		{URL: "https://www.indeed.com/viewjob?jk=abc", Description: jobsift.StringPtr("b")},
		{URL: "https://unknown.example/x"},
	}
	yes := true

	t.Run("left join keeps every scraped row", func(t *testing.T) {
		t.Parallel()

		extracted := []*jobsift.Attributes{
			{URL: "https://www.indeed.com/viewjob?jk=abc", PythonRequired: &yes},
		}

		rows := harvest.Merge(scraped, extracted, nil)

		require.Len(t, rows, 3)
		assert.Nil(t, rows[0].Attributes)
		require.NotNil(t, rows[1].Attributes)
		assert.True(t, *rows[1].Attributes.PythonRequired)
		assert.Nil(t, rows[2].Attributes)
		for i, row := range rows {
			assert.Same(t, scraped[i], row.JobRecord)
		}
	})

	t.Run("empty extraction", func(t *testing.T) {
		t.Parallel()

		rows := harvest.Merge(scraped, nil, nil)

		require.Len(t, rows, 3)
		for _, row := range rows {
			assert.Nil(t, row.Attributes)
		}
	})

	t.Run("extractions for unknown URLs are ignored", func(t *testing.T) {
		t.Parallel()

		rows := harvest.Merge(scraped, []*jobsift.Attributes{{URL: "https://elsewhere/1"}}, nil)

		assert.Len(t, rows, 3)
	})

	t.Run("duplicate extractions keep first and warn", func(t *testing.T) {
		t.Parallel()

		no := false
		var buf bytes.Buffer
		extracted := []*jobsift.Attributes{
			{URL: "https://www.linkedin.com/jobs/view/123", PythonRequired: &yes},
			{URL: "https://www.linkedin.com/jobs/view/123", PythonRequired: &no},
		}

		rows := harvest.Merge(scraped, extracted, slog.New(slog.NewTextHandler(&buf, nil)))

		require.Len(t, rows, 3)
		assert.True(t, *rows[0].Attributes.PythonRequired)
		assert.Contains(t, buf.String(), "duplicate extraction ignored")
		assert.Contains(t, buf.String(), "index=1")
	})

	t.Run("duplicate scraped URLs stay separate rows", func(t *testing.T) {
		t.Parallel()

		dup := []*jobsift.JobRecord{{URL: "https://x/1"}, {URL: "https://x/1"}}

		rows := harvest.Merge(dup, []*jobsift.Attributes{{URL: "https://x/1", PythonRequired: &yes}}, nil)

		require.Len(t, rows, 2)
		assert.NotNil(t, rows[0].Attributes)
		assert.NotNil(t, rows[1].Attributes)
	})
}

func TestMerge_LengthInvariant(t *testing.T) {
	t.Parallel()

	scraped := []*jobsift.JobRecord{{URL: "a"}, {URL: "b"}}
	extractedSets := [][]*jobsift.Attributes{
		nil,
		{},
		{{URL: "a"}},
		{{URL: "a"}, {URL: "b"}, {URL: "c"}, {URL: "a"}, nil},
	}

	for _, extracted := range extractedSets {
		assert.Len(t, harvest.Merge(scraped, extracted, nil), len(scraped))
	}
}
