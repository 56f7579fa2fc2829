// Package config loads jobsift settings from a YAML file, a .env file and
// environment variables.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/jobsift"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig     = "JOBSIFT_CONFIG"
	EnvDB         = "JOBSIFT_DB"
	EnvPrivateKey = "JOBSIFT_PRIVATE_KEY"
	EnvGeminiKey  = "GEMINI_API_KEY"
	EnvLMToken    = "LM_API_TOKEN"
)

// Extraction backends.
const (
	BackendLMStudio = "lmstudio"
	BackendGemini   = "gemini"
)

// Page fetchers.
const (
	FetcherHTTP    = "http"
	FetcherBrowser = "browser"
)

// Config holds every setting the CLI needs to wire a run.
type Config struct {
	Database string    `yaml:"database"`
	Sites    []SiteKey `yaml:"sites"`
	Scrape   Scrape    `yaml:"scrape"`
	LLM      LLM       `yaml:"llm"`
	Key      Key       `yaml:"key"`
}

// SiteKey binds a supported site to the obfuscated host key that routes
// URLs to it. Token is base64 as printed by "jobsift seal".
type SiteKey struct {
	Site  string `yaml:"site"`
	Token string `yaml:"token"`
}

// Scrape configures fetching and pacing.
type Scrape struct {
	Fetcher     string            `yaml:"fetcher"`
	MinDelay    time.Duration     `yaml:"min_delay"`
	MaxDelay    time.Duration     `yaml:"max_delay"`
	Concurrency int               `yaml:"concurrency"`
	Timeout     time.Duration     `yaml:"timeout"`
	RetryDelays []time.Duration   `yaml:"retry_delays"`
	UserAgent   string            `yaml:"user_agent"`
	Headers     map[string]string `yaml:"headers"`
}

// LLM configures attribute extraction.
type LLM struct {
	Backend  string        `yaml:"backend"`
	Model    string        `yaml:"model"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	Cache    bool          `yaml:"cache"`

	// Secrets come from the environment only.
	APIToken string `yaml:"-"`
	APIKey   string `yaml:"-"`
}

// Key locates the private key that reveals site keys.
// When Keyring is set the key is read from the OS keychain under Account;
// otherwise it is read from File. PublicFile holds the public half written by
// keygen; seal prefers it over the private key.
type Key struct {
	File       string `yaml:"file"`
	PublicFile string `yaml:"public_file"`
	Keyring    bool   `yaml:"keyring"`
	Account    string `yaml:"account"`
}

// PublicPath returns PublicFile, or a ".pub.pem" sibling of File when unset.
func (k Key) PublicPath() string {
	if k.PublicFile != "" {
		return k.PublicFile
	}
	file := k.File
	if file == "" {
		file = filepath.Join(Dir(), "jobsift.pem")
	}
	return strings.TrimSuffix(file, filepath.Ext(file)) + ".pub.pem"
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	dir := Dir()
	return Config{
		Database: filepath.Join(dir, "jobsift.db"),
		Scrape: Scrape{
			Fetcher:     FetcherHTTP,
			MinDelay:    3 * time.Second,
			MaxDelay:    20 * time.Second,
			Concurrency: 1,
			Timeout:     30 * time.Second,
		},
		LLM: LLM{
			Backend: BackendLMStudio,
		},
		Key: Key{
			File: filepath.Join(dir, "jobsift.pem"),
		},
	}
}

// Dir returns the per-user jobsift directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jobsift"
	}
	return filepath.Join(home, ".jobsift")
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the config file at path on top of Default.
// An empty path falls back to DefaultPath, which may be absent.
// Returns ENOTFOUND if an explicitly named file does not exist and
// EINVALID if the file cannot be decoded.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if explicit {
			return cfg, jobsift.Errorf(jobsift.ENOTFOUND, "config file %s not found", path)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := Decode(bytes.NewReader(data), &cfg); err != nil {
		return cfg, jobsift.Errorf(jobsift.EINVALID, "config %s: %v", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r into cfg. Fields absent from the document keep
// their current values; unknown keys are rejected.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// LoadDotenv loads variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotenv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overrides cfg with environment variables read through getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvDB); v != "" {
		cfg.Database = v
	}
	if v := getenv(EnvPrivateKey); v != "" {
		cfg.Key.File = v
		cfg.Key.Keyring = false
	}
	if v := getenv(EnvGeminiKey); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := getenv(EnvLMToken); v != "" {
		cfg.LLM.APIToken = v
	}
}
