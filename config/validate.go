package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/jobsift"
	"github.com/fwojciec/jobsift/pkcs1"
)

// Validation collects problems found in a Config.
type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

// OK reports whether no errors were found.
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err returns the errors as a single EINVALID error, or nil.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return jobsift.Errorf(jobsift.EINVALID, "invalid config: %s", strings.Join(v.Errors, "; "))
}

// NormalizeAndValidate returns a normalized copy of cfg and the problems
// found in it. Names are trimmed and lower-cased; header keys are kept as given.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Scrape.Fetcher = strings.ToLower(strings.TrimSpace(out.Scrape.Fetcher))
	out.LLM.Backend = strings.ToLower(strings.TrimSpace(out.LLM.Backend))
	out.LLM.Model = strings.TrimSpace(out.LLM.Model)
	out.LLM.Endpoint = strings.TrimSpace(out.LLM.Endpoint)

	out.Sites = make([]SiteKey, 0, len(cfg.Sites))
	seen := map[string]bool{}
	for i, s := range cfg.Sites {
		s.Site = strings.ToLower(strings.TrimSpace(s.Site))
		s.Token = strings.TrimSpace(s.Token)
		if s.Site == "" {
			res.addErr("sites[%d].site is required", i)
			continue
		}
		if s.Token == "" {
			res.addErr("sites[%d].token is required for %s", i, s.Site)
			continue
		}
		if _, err := pkcs1.DecodeToken(s.Token); err != nil {
			res.addErr("sites[%d].token for %s is not valid base64", i, s.Site)
			continue
		}
		if seen[s.Token] {
			res.addWarn("sites[%d] repeats a token already bound; the first binding wins", i)
		}
		seen[s.Token] = true
		out.Sites = append(out.Sites, s)
	}
	if len(cfg.Sites) == 0 {
		res.addWarn("no sites configured; every URL will produce an empty record")
	}

	switch out.Scrape.Fetcher {
	case FetcherHTTP, FetcherBrowser:
	default:
		res.addErr("scrape.fetcher must be %q or %q, got %q", FetcherHTTP, FetcherBrowser, out.Scrape.Fetcher)
	}
	if out.Scrape.MinDelay < 0 || out.Scrape.MaxDelay < 0 {
		res.addErr("scrape delays must not be negative")
	} else if out.Scrape.MaxDelay < out.Scrape.MinDelay {
		res.addErr("scrape.max_delay (%s) is below scrape.min_delay (%s)", out.Scrape.MaxDelay, out.Scrape.MinDelay)
	} else if out.Scrape.MaxDelay < time.Second {
		res.addWarn("scrape delays under 1s make blocking by job boards likely")
	}
	if out.Scrape.Concurrency < 0 {
		res.addErr("scrape.concurrency must not be negative")
	}
	if out.Scrape.Timeout <= 0 {
		res.addErr("scrape.timeout must be > 0")
	}
	for i, d := range out.Scrape.RetryDelays {
		if d < 0 {
			res.addErr("scrape.retry_delays[%d] must not be negative", i)
		}
	}

	switch out.LLM.Backend {
	case BackendLMStudio:
	case BackendGemini:
		if out.LLM.APIKey == "" {
			res.addErr("%s must be set for the %s backend", EnvGeminiKey, BackendGemini)
		}
	default:
		res.addErr("llm.backend must be %q or %q, got %q", BackendLMStudio, BackendGemini, out.LLM.Backend)
	}
	if out.LLM.Timeout < 0 {
		res.addErr("llm.timeout must not be negative")
	}

	if !out.Key.Keyring && strings.TrimSpace(out.Key.File) == "" {
		res.addErr("key.file is required unless key.keyring is set")
	}
	if strings.TrimSpace(out.Database) == "" {
		res.addErr("database path is required")
	}

	return out, res
}
