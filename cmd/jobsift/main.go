package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/jobsift"
	"github.com/fwojciec/jobsift/config"
	"github.com/fwojciec/jobsift/harvest"
	jobsiftslog "github.com/fwojciec/jobsift/slog"
	"github.com/fwojciec/jobsift/sqlite"
	"github.com/gofrs/flock"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overrides the configured path when set.
	DBPath string

	// Getenv reads environment variables.
	Getenv func(string) string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	lock *flock.Flock
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	if m.DB != nil {
		err = m.DB.Close()
	}
	if m.lock != nil {
		if uerr := m.lock.Unlock(); err == nil {
			err = uerr
		}
	}
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("jobsift"),
		kong.Description("Scrape job postings and extract structured attributes with a language model."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'jobsift --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	cfg, err := m.loadConfig(cli.Config, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", jobsift.ErrorMessage(err))
		return err
	}
	deps.Keys = newKeyStore(cfg)
	deps.Public = newPublicKeyStore(cfg)

	if cmd == "keygen" || cmd == "seal" {
		return kongCtx.Run(deps)
	}

	defer m.Close()
	if err := m.open(cfg.Database); err != nil {
		fmt.Fprintf(stderr, "Hint: Set %s to use a different database path\n", config.EnvDB)
		return err
	}
	deps.Batches = jobsiftslog.NewLoggingBatchService(sqlite.NewBatchService(m.DB), logger)

	if cmd == "scrape" || cmd == "run" {
		registry, err := newRegistry(cfg, deps.Keys, logger)
		if err != nil {
			fmt.Fprintf(stderr, "error: cannot build site registry: %s\n", jobsift.ErrorMessage(err))
			return err
		}

		fetcher, err := newFetcher(cfg, logger)
		if err != nil {
			if cfg.Scrape.Fetcher == config.FetcherBrowser {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			}
			return fmt.Errorf("failed to start fetcher: %w", err)
		}
		defer fetcher.Close()

		deps.Scraper = &harvest.Scraper{
			Fetcher:     fetcher,
			Rules:       registry,
			Limiter:     harvest.NewPacer(cfg.Scrape.MinDelay, cfg.Scrape.MaxDelay),
			Concurrency: cfg.Scrape.Concurrency,
			Logger:      logger,
		}
	}

	if cmd == "enrich" || cmd == "run" {
		extractor, err := newExtractor(ctx, cfg, m.DB, logger)
		if err != nil {
			if cfg.LLM.Backend == config.BackendGemini {
				fmt.Fprintf(stderr, "Hint: Check your %s is valid\n", config.EnvGeminiKey)
			}
			return fmt.Errorf("failed to create extractor: %w", err)
		}
		deps.Enricher = &harvest.Enricher{
			Extractor: extractor,
			Logger:    logger,
		}
	}

	return kongCtx.Run(deps)
}

// loadConfig reads .env, the config file and the environment, then validates
// the result. Warnings are logged; errors are returned.
func (m *Main) loadConfig(path string, logger *slog.Logger) (config.Config, error) {
	getenv := m.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if err := config.LoadDotenv(".env"); err != nil {
		logger.Warn("could not load .env", "err", err)
	}
	if path == "" {
		path = getenv(config.EnvConfig)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	config.ApplyEnv(&cfg, getenv)
	if m.DBPath != "" {
		cfg.Database = m.DBPath
	}

	cfg, res := config.NormalizeAndValidate(cfg)
	for _, w := range res.Warnings {
		logger.Warn(w)
	}
	return cfg, res.Err()
}

// open takes the database lock and opens the database.
func (m *Main) open(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock database at %q: %w", path, err)
	}
	if !locked {
		return jobsift.Errorf(jobsift.ECONFLICT, "database %q is in use by another jobsift process", path)
	}
	m.lock = lock

	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return nil
}
