package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/jobsift"
	"github.com/fwojciec/jobsift/harvest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Batches  jobsift.BatchService
	Keys     jobsift.KeyStore
	Public   jobsift.KeyStore
	Scraper  *harvest.Scraper
	Enricher *harvest.Enricher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"C" type:"path" help:"Config file (default ~/.jobsift/config.yaml, or $JOBSIFT_CONFIG)"`
	Verbose bool   `short:"v" help:"Log debug output"`

	Scrape  ScrapeCmd  `cmd:"" help:"Scrape job postings from URL files into new batches"`
	Enrich  EnrichCmd  `cmd:"" help:"Extract attributes for a scraped batch"`
	Run     RunCmd     `cmd:"" help:"Scrape, extract and export in one go"`
	Export  ExportCmd  `cmd:"" help:"Write a batch as parquet, or as CSV to stdout"`
	Batches BatchesCmd `cmd:"" help:"List stored batches"`
	Keygen  KeygenCmd  `cmd:"" help:"Generate the private key for site keys"`
	Seal    SealCmd    `cmd:"" help:"Print the site key token for a host"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	Files []string `arg:"" help:"Files with one job URL per line"`
}

// EnrichCmd is the "enrich" subcommand.
type EnrichCmd struct {
	Batch string `short:"b" required:"" help:"Batch ID"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Files  []string `arg:"" help:"Files with one job URL per line"`
	OutDir string   `short:"o" default:"output" type:"path" help:"Directory for the merged parquet datasets"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Batch  string `short:"b" required:"" help:"Batch ID"`
	Output string `short:"o" default:"-" help:"Output parquet path, or - for CSV on stdout"`
}

// BatchesCmd is the "batches" subcommand.
type BatchesCmd struct {
	Limit int `short:"n" default:"20" help:"Maximum number of batches to list"`
}

// KeygenCmd is the "keygen" subcommand.
type KeygenCmd struct {
	Bits  int  `default:"2048" help:"RSA modulus size"`
	Force bool `short:"f" help:"Replace an existing key"`
}

// SealCmd is the "seal" subcommand.
type SealCmd struct {
	Host string `arg:"" help:"Host key, e.g. indeed.com"`
	Site string `help:"Print a config entry for this site"`
}
