package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/jobsift"
	"github.com/fwojciec/jobsift/config"
	"github.com/fwojciec/jobsift/fs"
	"github.com/fwojciec/jobsift/gemini"
	"github.com/fwojciec/jobsift/goquery"
	jobsifthttp "github.com/fwojciec/jobsift/http"
	"github.com/fwojciec/jobsift/keyring"
	"github.com/fwojciec/jobsift/lmstudio"
	"github.com/fwojciec/jobsift/pkcs1"
	"github.com/fwojciec/jobsift/rod"
	"github.com/fwojciec/jobsift/sitekey"
	jobsiftslog "github.com/fwojciec/jobsift/slog"
	"github.com/fwojciec/jobsift/sqlite"
	"google.golang.org/genai"
)

// newKeyStore returns the configured private key location.
func newKeyStore(cfg config.Config) jobsift.KeyStore {
	if cfg.Key.Keyring {
		return keyring.NewKeyStore(cfg.Key.Account)
	}
	return &fs.KeyFile{Path: cfg.Key.File}
}

// newPublicKeyStore returns the file holding the public key written by keygen.
func newPublicKeyStore(cfg config.Config) jobsift.KeyStore {
	return &fs.KeyFile{Path: cfg.Key.PublicPath()}
}

// newRegistry reveals the configured site keys and binds them to the
// built-in parsers. Any failure is fatal for scraping.
func newRegistry(cfg config.Config, keys jobsift.KeyStore, logger *slog.Logger) (jobsift.RuleRegistry, error) {
	pem, err := keys.LoadKey()
	if err != nil {
		return nil, err
	}
	codec, err := pkcs1.NewCodecFromPEM(pem)
	if err != nil {
		return nil, err
	}

	parsers, err := goquery.NewParsers()
	if err != nil {
		return nil, err
	}
	bySite := make(map[jobsift.Site]jobsift.Parser, len(parsers))
	for _, p := range parsers {
		bySite[p.Site()] = p
	}

	bindings := make([]sitekey.Binding, 0, len(cfg.Sites))
	for _, s := range cfg.Sites {
		parser, ok := bySite[jobsift.Site(s.Site)]
		if !ok {
			return nil, jobsift.Errorf(jobsift.EINVALID, "no parser for site %q", s.Site)
		}
		token, err := pkcs1.DecodeToken(s.Token)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, sitekey.Binding{Token: token, Parser: parser})
	}

	registry, err := sitekey.NewRegistry(codec, bindings)
	if err != nil {
		return nil, err
	}
	return jobsiftslog.NewLoggingRegistry(registry, logger), nil
}

// newFetcher builds the configured fetcher with retries and logging.
func newFetcher(cfg config.Config, logger *slog.Logger) (jobsift.Fetcher, error) {
	var fetcher jobsift.Fetcher
	switch cfg.Scrape.Fetcher {
	case config.FetcherBrowser:
		opts := []rod.Option{
			rod.WithFetchTimeout(cfg.Scrape.Timeout),
			rod.WithHeaders(cfg.Scrape.Headers),
			rod.WithLogger(logger),
		}
		if cfg.Scrape.UserAgent != "" {
			opts = append(opts, rod.WithUserAgent(cfg.Scrape.UserAgent))
		}
		f, err := rod.NewFetcher(opts...)
		if err != nil {
			return nil, err
		}
		fetcher = f
	default:
		opts := []jobsifthttp.Option{
			jobsifthttp.WithTimeout(cfg.Scrape.Timeout),
			jobsifthttp.WithHeaders(cfg.Scrape.Headers),
		}
		if cfg.Scrape.UserAgent != "" {
			opts = append(opts, jobsifthttp.WithUserAgent(cfg.Scrape.UserAgent))
		}
		fetcher = jobsifthttp.NewFetcher(opts...)
	}

	fetcher = jobsifthttp.NewRetryFetcher(fetcher, cfg.Scrape.RetryDelays, logger)
	return jobsiftslog.NewLoggingFetcher(fetcher, logger), nil
}

// newExtractor builds the configured extraction backend, optionally behind
// the extraction cache, with logging.
func newExtractor(ctx context.Context, cfg config.Config, db *sqlite.DB, logger *slog.Logger) (jobsift.AttributeExtractor, error) {
	var (
		extractor jobsift.AttributeExtractor
		model     = cfg.LLM.Model
	)
	switch cfg.LLM.Backend {
	case config.BackendGemini:
		if model == "" {
			model = gemini.DefaultModel
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.LLM.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		opts := []gemini.Option{gemini.WithModel(model)}
		if cfg.LLM.Timeout > 0 {
			opts = append(opts, gemini.WithTimeout(cfg.LLM.Timeout))
		}
		extractor = gemini.NewExtractor(client.Models, opts...)
	default:
		if model == "" {
			model = lmstudio.DefaultModel
		}
		var opts []lmstudio.Option
		if cfg.LLM.Endpoint != "" {
			opts = append(opts, lmstudio.WithBaseURL(cfg.LLM.Endpoint))
		}
		if cfg.LLM.Timeout > 0 {
			opts = append(opts, lmstudio.WithTimeout(cfg.LLM.Timeout))
		}
		if cfg.LLM.APIToken != "" {
			opts = append(opts, lmstudio.WithAPIToken(cfg.LLM.APIToken))
		}
		extractor = lmstudio.NewExtractor(lmstudio.NewClient(opts...), model)
	}

	if cfg.LLM.Cache {
		extractor = sqlite.NewExtractionCache(db, extractor, cfg.LLM.Backend+"/"+model, logger)
	}
	return jobsiftslog.NewLoggingExtractor(extractor, logger), nil
}
