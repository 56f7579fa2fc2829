package slog_test

import (
	"bytes"
	"testing"

	"github.com/fwojciec/jobsift"
	"github.com/fwojciec/jobsift/mock"
	jsslog "github.com/fwojciec/jobsift/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRegistry_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("logs resolved site and host", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		parser := &mock.Parser{SiteFn: func() jobsift.Site { return jobsift.SiteIndeed }}
		inner := &mock.RuleRegistry{
			ResolveFn: func(rawURL string) (jobsift.Parser, bool) {
				return parser, true
			},
		}

		registry := jsslog.NewLoggingRegistry(inner, newDebugLogger(&buf))
		got, ok := registry.Resolve("https://www.indeed.com/viewjob?jk=abc")

		require.True(t, ok)
		assert.Equal(t, parser, got)
		output := buf.String()
		assert.Contains(t, output, "site resolution")
		assert.Contains(t, output, "host=www.indeed.com")
		assert.Contains(t, output, "site=indeed")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs unknown site", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RuleRegistry{
			ResolveFn: func(rawURL string) (jobsift.Parser, bool) {
				return nil, false
			},
		}

		registry := jsslog.NewLoggingRegistry(inner, newDebugLogger(&buf))
		_, ok := registry.Resolve("https://unknown.example/x")

		assert.False(t, ok)
		assert.Contains(t, buf.String(), "site=(unknown)")
	})
}

func TestLoggingRegistry_Sites(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.RuleRegistry{
		SitesFn: func() []jobsift.Site {
			return []jobsift.Site{jobsift.SiteLinkedIn}
		},
	}

	registry := jsslog.NewLoggingRegistry(inner, newDebugLogger(&buf))

	assert.Equal(t, []jobsift.Site{jobsift.SiteLinkedIn}, registry.Sites())
}
