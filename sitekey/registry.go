// Package sitekey resolves job URLs to site parsers through obfuscated host keys.
//
// Host keys are stored as opaque tokens and revealed once when the Registry is
// built. After construction the Registry is read-only and safe for concurrent use.
package sitekey

import (
	"net/url"
	"strings"

	"github.com/fwojciec/jobsift"
)

var _ jobsift.RuleRegistry = (*Registry)(nil)

// Binding ties an obfuscated host key to the parser for that host's site.
type Binding struct {
	Token  []byte
	Parser jobsift.Parser
}

type entry struct {
	key    string
	parser jobsift.Parser
}

// Registry maps URL hosts to site parsers.
//
// Resolution runs two deterministic passes. The first matches keys equal to
// the host or a dot-boundary suffix of it, preferring the longest key, so
// "in.indeed.com" beats "indeed.com" for hosts under in.indeed.com. The second
// falls back to the first key, in binding order, contained anywhere in the host.
type Registry struct {
	entries []entry
}

// NewRegistry reveals every binding's token and builds a Registry.
// Any reveal failure is returned; callers should treat it as fatal because
// the registry cannot resolve anything without its key material.
func NewRegistry(revealer jobsift.Revealer, bindings []Binding) (*Registry, error) {
	r := &Registry{entries: make([]entry, 0, len(bindings))}
	for i, b := range bindings {
		if b.Parser == nil {
			return nil, jobsift.Errorf(jobsift.EINVALID, "binding %d has no parser", i)
		}
		key, err := revealer.Reveal(b.Token)
		if err != nil {
			return nil, jobsift.Errorf(jobsift.EINVALID, "revealing key for binding %d (%s): %v", i, b.Parser.Site(), err)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return nil, jobsift.Errorf(jobsift.EINVALID, "binding %d (%s) revealed an empty key", i, b.Parser.Site())
		}
		r.entries = append(r.entries, entry{key: key, parser: b.Parser})
	}
	return r, nil
}

// Resolve returns the parser for the site rawURL belongs to.
func (r *Registry) Resolve(rawURL string) (jobsift.Parser, bool) {
	host := Host(rawURL)
	if host == "" {
		return nil, false
	}

	best := -1
	for i, e := range r.entries {
		if host != e.key && !strings.HasSuffix(host, "."+e.key) {
			continue
		}
		if best < 0 || len(e.key) > len(r.entries[best].key) {
			best = i
		}
	}
	if best >= 0 {
		return r.entries[best].parser, true
	}

	for _, e := range r.entries {
		if strings.Contains(host, e.key) {
			return e.parser, true
		}
	}
	return nil, false
}

// Sites returns the registered sites in binding order.
func (r *Registry) Sites() []jobsift.Site {
	sites := make([]jobsift.Site, 0, len(r.entries))
	for _, e := range r.entries {
		sites = append(sites, e.parser.Site())
	}
	return sites
}

// Host returns the lowercased host of rawURL, or "" if it has none.
func Host(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
