package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/jobsift"
	"github.com/fwojciec/jobsift/sitekey"
)

// Ensure LoggingRegistry implements jobsift.RuleRegistry.
var _ jobsift.RuleRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps a RuleRegistry with debug logging for site resolution.
// Only hosts and site names are logged; revealed keys never are.
type LoggingRegistry struct {
	next   jobsift.RuleRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next jobsift.RuleRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Resolve delegates to the wrapped registry and logs the resolved site.
func (r *LoggingRegistry) Resolve(rawURL string) (jobsift.Parser, bool) {
	begin := time.Now()
	parser, ok := r.next.Resolve(rawURL)
	site := jobsift.SiteUnknown
	if ok {
		site = parser.Site()
	}
	r.logger.Debug("site resolution",
		"host", sitekey.Host(rawURL),
		"site", site.String(),
		"duration", time.Since(begin),
	)
	return parser, ok
}

// Sites delegates to the wrapped registry.
func (r *LoggingRegistry) Sites() []jobsift.Site {
	return r.next.Sites()
}
