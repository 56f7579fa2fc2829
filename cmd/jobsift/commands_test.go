package main_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/jobsift"
	main "github.com/fwojciec/jobsift/cmd/jobsift"
	"github.com/fwojciec/jobsift/fs"
	"github.com/fwojciec/jobsift/harvest"
	"github.com/fwojciec/jobsift/mock"
	"github.com/fwojciec/jobsift/pkcs1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps(stdout, stderr *bytes.Buffer) *main.Dependencies {
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(stderr, nil)),
	}
}

func TestScrapeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("creates one batch per file and saves every record", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := filepath.Join(dir, "a.txt")
		b := filepath.Join(dir, "b.txt")
		empty := filepath.Join(dir, "empty.txt")
		require.NoError(t, os.WriteFile(a, []byte("https://x.example/1\nhttps://x.example/2\n"), 0o644))
		require.NoError(t, os.WriteFile(b, []byte("https://x.example/3\n"), 0o644))
		require.NoError(t, os.WriteFile(empty, []byte("\n\n"), 0o644))

		var mu sync.Mutex
		var created []*jobsift.Batch
		saved := map[string][]int{}
		batches := &mock.BatchService{
			CreateBatchFn: func(_ context.Context, batch *jobsift.Batch) error {
				mu.Lock()
				defer mu.Unlock()
				batch.ID = filepath.Base(batch.Source)
				created = append(created, batch)
				return nil
			},
			SaveRecordFn: func(_ context.Context, batchID string, position int, _ *jobsift.JobRecord) error {
				mu.Lock()
				defer mu.Unlock()
				saved[batchID] = append(saved[batchID], position)
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Batches = batches
		deps.Scraper = &harvest.Scraper{
			Fetcher: &mock.Fetcher{},
			Rules: &mock.RuleRegistry{
				ResolveFn: func(string) (jobsift.Parser, bool) { return nil, false },
			},
		}

		err := (&main.ScrapeCmd{Files: []string{a, empty, b}}).Run(deps)

		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.Equal(t, 2, created[0].Total)
		assert.Equal(t, 1, created[1].Total)
		assert.Equal(t, []int{0, 1}, saved["a.txt"])
		assert.Equal(t, []int{0}, saved["b.txt"])
		assert.Contains(t, stderr.String(), "no URLs found in file")
		assert.Nil(t, deps.Scraper.OnRecord)
	})

	t.Run("fails when no file has URLs", func(t *testing.T) {
		t.Parallel()

		empty := filepath.Join(t.TempDir(), "empty.txt")
		require.NoError(t, os.WriteFile(empty, nil, 0o644))

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Batches = &mock.BatchService{}

		err := (&main.ScrapeCmd{Files: []string{empty}}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, jobsift.EINVALID, jobsift.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no URLs found in any input file")
	})

	t.Run("fails on missing file", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := testDeps(stdout, stderr)

		err := (&main.ScrapeCmd{Files: []string{filepath.Join(t.TempDir(), "nope.txt")}}).Run(deps)

		assert.Equal(t, jobsift.ENOTFOUND, jobsift.ErrorCode(err))
	})
}

func TestEnrichCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("skips stored and repeated URLs", func(t *testing.T) {
		t.Parallel()

		desc := jobsift.StringPtr("Python")
		batches := &mock.BatchService{
			FindBatchByIDFn: func(_ context.Context, id string) (*jobsift.Batch, error) {
				return &jobsift.Batch{ID: id, Source: "urls.txt", Total: 4}, nil
			},
			FindRecordsFn: func(context.Context, string) ([]*jobsift.JobRecord, error) {
				return []*jobsift.JobRecord{
					{URL: "https://x.example/1", Description: desc},
					{URL: "https://x.example/2", Description: desc},
					{URL: "https://x.example/2", Description: desc},
					{URL: "https://x.example/3", Description: desc},
				}, nil
			},
			FindAttributesFn: func(context.Context, string) ([]*jobsift.Attributes, error) {
				return []*jobsift.Attributes{{URL: "https://x.example/1"}}, nil
			},
		}

		var requested []string
		var savedURLs []string
		batches.SaveAttributesFn = func(_ context.Context, _ string, attrs *jobsift.Attributes) error {
			savedURLs = append(savedURLs, attrs.URL)
			return nil
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Batches = batches
		deps.Enricher = &harvest.Enricher{
			Extractor: &mock.AttributeExtractor{
				ExtractFn: func(_ context.Context, rec *jobsift.JobRecord) (*jobsift.Attributes, error) {
					requested = append(requested, rec.URL)
					if rec.URL == "https://x.example/3" {
						return nil, &jobsift.ExtractError{Stage: jobsift.StageStatus, Err: errors.New("503")}
					}
					return &jobsift.Attributes{URL: rec.URL}, nil
				},
			},
			Logger: deps.Logger,
		}

		err := (&main.EnrichCmd{Batch: "b1"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://x.example/2", "https://x.example/3"}, requested)
		assert.Equal(t, []string{"https://x.example/2"}, savedURLs)
		assert.Contains(t, stdout.String(), "Extracted 1 of 2")
		assert.Contains(t, stderr.String(), "index=3", "failures report the batch position")
		assert.Nil(t, deps.Enricher.OnAttributes)
	})

	t.Run("reports fully enriched batch", func(t *testing.T) {
		t.Parallel()

		batches := &mock.BatchService{
			FindBatchByIDFn: func(_ context.Context, id string) (*jobsift.Batch, error) {
				return &jobsift.Batch{ID: id}, nil
			},
			FindRecordsFn: func(context.Context, string) ([]*jobsift.JobRecord, error) {
				return []*jobsift.JobRecord{{URL: "https://x.example/1"}}, nil
			},
			FindAttributesFn: func(context.Context, string) ([]*jobsift.Attributes, error) {
				return []*jobsift.Attributes{{URL: "https://x.example/1"}}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := testDeps(stdout, &bytes.Buffer{})
		deps.Batches = batches

		err := (&main.EnrichCmd{Batch: "b1"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "already enriched")
	})

	t.Run("unknown batch is ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		batches := &mock.BatchService{
			FindBatchByIDFn: func(_ context.Context, id string) (*jobsift.Batch, error) {
				return nil, jobsift.Errorf(jobsift.ENOTFOUND, "batch %q not found", id)
			},
		}
		stderr := &bytes.Buffer{}
		deps := testDeps(&bytes.Buffer{}, stderr)
		deps.Batches = batches

		err := (&main.EnrichCmd{Batch: "nope"}).Run(deps)

		assert.Equal(t, jobsift.ENOTFOUND, jobsift.ErrorCode(err))
		assert.Contains(t, stderr.String(), "not found")
	})
}

func TestExportCmd_Run(t *testing.T) {
	t.Parallel()

	batches := &mock.BatchService{
		FindRecordsFn: func(context.Context, string) ([]*jobsift.JobRecord, error) {
			return []*jobsift.JobRecord{
				{URL: "https://x.example/1", Title: jobsift.StringPtr("Engineer")},
			}, nil
		},
		FindAttributesFn: func(context.Context, string) ([]*jobsift.Attributes, error) {
			python := false
			return []*jobsift.Attributes{{URL: "https://x.example/1", PythonRequired: &python}}, nil
		},
	}

	t.Run("writes CSV to stdout", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := testDeps(stdout, &bytes.Buffer{})
		deps.Batches = batches

		err := (&main.ExportCmd{Batch: "b1", Output: "-"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "url,company,title,description,python_required")
		assert.Contains(t, stdout.String(), "https://x.example/1,,Engineer,,false,,,,")
	})

	t.Run("writes parquet to file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.parquet")
		stdout := &bytes.Buffer{}
		deps := testDeps(stdout, &bytes.Buffer{})
		deps.Batches = batches

		err := (&main.ExportCmd{Batch: "b1", Output: path}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Wrote 1 rows")
		rows, err := fs.LoadDataset(path)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Engineer", *rows[0].Title)
		assert.Nil(t, rows[0].Company)
		require.NotNil(t, rows[0].Attributes)
		assert.False(t, *rows[0].Attributes.PythonRequired)
	})

	t.Run("empty unknown batch is ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		deps := testDeps(&bytes.Buffer{}, &bytes.Buffer{})
		deps.Batches = &mock.BatchService{
			FindRecordsFn: func(context.Context, string) ([]*jobsift.JobRecord, error) { return nil, nil },
			FindBatchByIDFn: func(_ context.Context, id string) (*jobsift.Batch, error) {
				return nil, jobsift.Errorf(jobsift.ENOTFOUND, "batch %q not found", id)
			},
		}

		err := (&main.ExportCmd{Batch: "nope"}).Run(deps)

		assert.Equal(t, jobsift.ENOTFOUND, jobsift.ErrorCode(err))
	})
}

func TestBatchesCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists batches", func(t *testing.T) {
		t.Parallel()

		var gotFilter jobsift.BatchFilter
		stdout := &bytes.Buffer{}
		deps := testDeps(stdout, &bytes.Buffer{})
		deps.Batches = &mock.BatchService{
			FindBatchesFn: func(_ context.Context, filter jobsift.BatchFilter) ([]*jobsift.Batch, error) {
				gotFilter = filter
				return []*jobsift.Batch{{
					ID:        "batch-1",
					Source:    "urls.txt",
					Total:     12,
					CreatedAt: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
				}}, nil
			},
		}

		err := (&main.BatchesCmd{Limit: 5}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 5, gotFilter.Limit)
		assert.Contains(t, stdout.String(), "batch-1  2025-03-01 09:30    12  urls.txt")
	})

	t.Run("shows helpful message when empty", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := testDeps(stdout, &bytes.Buffer{})
		deps.Batches = &mock.BatchService{
			FindBatchesFn: func(context.Context, jobsift.BatchFilter) ([]*jobsift.Batch, error) { return nil, nil },
		}

		require.NoError(t, (&main.BatchesCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "No batches")
	})
}

func TestKeygenCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("refuses to replace a key without force", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := testDeps(&bytes.Buffer{}, stderr)
		deps.Keys = &mock.KeyStore{
			LoadKeyFn: func() ([]byte, error) { return []byte("pem"), nil },
		}

		err := (&main.KeygenCmd{Bits: 1024}).Run(deps)

		assert.Equal(t, jobsift.ECONFLICT, jobsift.ErrorCode(err))
	})

	t.Run("stores a new keypair", func(t *testing.T) {
		t.Parallel()

		var stored, public []byte
		deps := testDeps(&bytes.Buffer{}, &bytes.Buffer{})
		deps.Keys = &mock.KeyStore{
			LoadKeyFn: func() ([]byte, error) { return nil, jobsift.Errorf(jobsift.ENOTFOUND, "none") },
			StoreKeyFn: func(pem []byte) error {
				stored = pem
				return nil
			},
		}
		deps.Public = &mock.KeyStore{
			StoreKeyFn: func(pem []byte) error {
				public = pem
				return nil
			},
		}

		require.NoError(t, (&main.KeygenCmd{Bits: 1024}).Run(deps))
		assert.Contains(t, string(stored), "RSA PRIVATE KEY")
		assert.Contains(t, string(public), "RSA PUBLIC KEY")

		priv, err := pkcs1.ParsePrivateKey(stored)
		require.NoError(t, err)
		pub, err := pkcs1.ParsePublicKey(public)
		require.NoError(t, err)
		assert.True(t, priv.PublicKey.Equal(pub))
	})

	t.Run("propagates key store errors", func(t *testing.T) {
		t.Parallel()

		deps := testDeps(&bytes.Buffer{}, &bytes.Buffer{})
		deps.Keys = &mock.KeyStore{
			LoadKeyFn: func() ([]byte, error) { return nil, errors.New("keychain locked") },
		}

		err := (&main.KeygenCmd{Bits: 1024}).Run(deps)

		assert.EqualError(t, err, "keychain locked")
	})
}

func TestSealCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty host", func(t *testing.T) {
		t.Parallel()

		deps := testDeps(&bytes.Buffer{}, &bytes.Buffer{})

		err := (&main.SealCmd{Host: "  "}).Run(deps)

		assert.Equal(t, jobsift.EINVALID, jobsift.ErrorCode(err))
	})

	t.Run("requires a key", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := testDeps(&bytes.Buffer{}, stderr)
		deps.Keys = &mock.KeyStore{
			LoadKeyFn: func() ([]byte, error) { return nil, jobsift.Errorf(jobsift.ENOTFOUND, "key file not found") },
		}

		err := (&main.SealCmd{Host: "indeed.com"}).Run(deps)

		assert.Equal(t, jobsift.ENOTFOUND, jobsift.ErrorCode(err))
		assert.Contains(t, stderr.String(), "jobsift keygen")
	})

	t.Run("seals with the public key alone", func(t *testing.T) {
		t.Parallel()

		priv, err := pkcs1.GenerateKey(1024)
		require.NoError(t, err)
		stdout := &bytes.Buffer{}
		deps := testDeps(stdout, &bytes.Buffer{})
		deps.Public = &mock.KeyStore{
			LoadKeyFn: func() ([]byte, error) { return pkcs1.EncodePublicKey(&priv.PublicKey), nil },
		}
		deps.Keys = &mock.KeyStore{
			LoadKeyFn: func() ([]byte, error) {
				t.Error("private key must not be read when a public key exists")
				return nil, jobsift.Errorf(jobsift.ENOTFOUND, "none")
			},
		}

		require.NoError(t, (&main.SealCmd{Host: " WWW.Indeed.com "}).Run(deps))

		token, err := pkcs1.DecodeToken(strings.TrimSpace(stdout.String()))
		require.NoError(t, err)
		got, err := pkcs1.NewCodec(priv).Reveal(token)
		require.NoError(t, err)
		assert.Equal(t, "www.indeed.com", got)
	})

	t.Run("falls back to the private key", func(t *testing.T) {
		t.Parallel()

		priv, err := pkcs1.GenerateKey(1024)
		require.NoError(t, err)
		stdout := &bytes.Buffer{}
		deps := testDeps(stdout, &bytes.Buffer{})
		deps.Public = &mock.KeyStore{
			LoadKeyFn: func() ([]byte, error) { return nil, jobsift.Errorf(jobsift.ENOTFOUND, "none") },
		}
		deps.Keys = &mock.KeyStore{
			LoadKeyFn: func() ([]byte, error) { return pkcs1.EncodePrivateKey(priv), nil },
		}

		require.NoError(t, (&main.SealCmd{Host: "indeed.com", Site: "indeed"}).Run(deps))

		assert.Contains(t, stdout.String(), "  - site: indeed\n    token: ")
	})

	t.Run("propagates unreadable public key", func(t *testing.T) {
		t.Parallel()

		deps := testDeps(&bytes.Buffer{}, &bytes.Buffer{})
		deps.Public = &mock.KeyStore{
			LoadKeyFn: func() ([]byte, error) { return nil, errors.New("permission denied") },
		}

		err := (&main.SealCmd{Host: "indeed.com"}).Run(deps)

		assert.EqualError(t, err, "permission denied")
	})
}
