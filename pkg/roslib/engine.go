// Package roslib implements the version-discovery and parallel-download
// engine behind rosvault. It enumerates candidate RouterOS version
// identifiers, probes the MikroTik CDN for the ones that exist, and
// mirrors every published artifact of a confirmed version into a local
// archive with bounded concurrency, retry/backoff and resumable,
// skip-if-present downloads. Discovered versions and per-run counters
// are persisted as JSON inside the output directory.
package roslib

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/rosvault/rosvault/pkg/logger"
)

// Options configures a new Engine. The zero value of every field except
// OutputDir has a usable default.
type Options struct {
	// OutputDir is the archive root. Required.
	OutputDir string

	// BaseURL is the CDN root; DefaultBaseURL when empty.
	BaseURL string

	// FeedURL is the RSS document URL; DefaultFeedURL when empty.
	FeedURL string

	// ProbeWorkers bounds the existence-probe pool.
	ProbeWorkers int

	// DownloadWorkers bounds the artifact-download pool.
	DownloadWorkers int

	// MaxRetries is the retry budget per target. Negative means 0.
	MaxRetries int

	// RetryBaseDelay overrides the backoff unit (tests).
	RetryBaseDelay time.Duration

	// Fs is the filesystem the archive and state files live on.
	// Defaults to the OS filesystem; tests use afero.NewMemMapFs.
	Fs afero.Fs

	// Logger receives one line per probe find and download outcome.
	Logger logger.Logger

	// Handlers receive progress callbacks.
	Handlers *Handlers

	// ProbeTimeout and DownloadTimeout bound individual requests.
	ProbeTimeout    time.Duration
	DownloadTimeout time.Duration
}

// Engine owns all mutable discovery/download state for one archive
// directory. The found-version set and the counters are shared between
// the probe and download pools and are guarded by one mutex; everything
// else is read-only after New.
type Engine struct {
	outputDir string
	baseURL   string
	feedURL   string

	probeWorkers    int
	downloadWorkers int
	retry           RetryConfig

	fs       afero.Fs
	log      logger.Logger
	handlers Handlers

	prober     *Prober
	dlClient   *http.Client
	feedClient *http.Client

	mu    sync.Mutex
	found map[string]struct{}
	stats Stats
}

// New creates an engine and reloads the persisted found-version set.
// Failure to create the output directory is the only fatal condition.
func New(opts *Options) (*Engine, error) {
	if opts == nil || opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	e := &Engine{
		outputDir:       opts.OutputDir,
		baseURL:         opts.BaseURL,
		feedURL:         opts.FeedURL,
		probeWorkers:    opts.ProbeWorkers,
		downloadWorkers: opts.DownloadWorkers,
		retry: RetryConfig{
			MaxRetries: opts.MaxRetries,
			BaseDelay:  opts.RetryBaseDelay,
		},
		fs:    opts.Fs,
		log:   opts.Logger,
		found: make(map[string]struct{}),
	}
	if e.baseURL == "" {
		e.baseURL = DefaultBaseURL
	}
	if e.feedURL == "" {
		e.feedURL = DefaultFeedURL
	}
	if e.probeWorkers <= 0 {
		e.probeWorkers = DEF_PROBE_WORKERS
	}
	if e.downloadWorkers <= 0 {
		e.downloadWorkers = DEF_DOWNLOAD_WORKERS
	}
	if e.retry.MaxRetries < 0 {
		e.retry.MaxRetries = 0
	}
	if opts.MaxRetries == 0 {
		e.retry.MaxRetries = DEF_MAX_RETRIES
	}
	if e.fs == nil {
		e.fs = afero.NewOsFs()
	}
	if e.log == nil {
		e.log = logger.NewNopLogger()
	}
	if opts.Handlers != nil {
		e.handlers = *opts.Handlers
	}
	e.handlers.setDefault()

	probeTimeout := opts.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = DEF_PROBE_TIMEOUT
	}
	dlTimeout := opts.DownloadTimeout
	if dlTimeout <= 0 {
		dlTimeout = DEF_DOWNLOAD_TIMEOUT
	}
	e.prober = NewProber(&http.Client{
		Timeout: probeTimeout,
		// Keep 301/302 directory answers observable.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, e.baseURL)
	// No whole-request timeout here: artifact bodies can stream for
	// minutes, and a flowing transfer must not be cut off mid-body.
	// Only the connect and the wait for response headers are bounded.
	e.dlClient = &http.Client{
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: dlTimeout}).DialContext,
			ResponseHeaderTimeout: dlTimeout,
		},
	}
	e.feedClient = &http.Client{Timeout: DEF_FEED_TIMEOUT}

	if err := e.fs.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	e.loadFoundVersions()
	return e, nil
}

// OutputDir returns the archive root the engine was created with.
func (e *Engine) OutputDir() string {
	return e.outputDir
}

// FoundVersions returns a sorted copy of the found-version set.
func (e *Engine) FoundVersions() []string {
	e.mu.Lock()
	versions := make([]string, 0, len(e.found))
	for v := range e.found {
		versions = append(versions, v)
	}
	e.mu.Unlock()
	sort.Strings(versions)
	return versions
}

// HasVersion reports set membership for a single version.
func (e *Engine) HasVersion(version string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.found[version]
	return ok
}

// addFound merges versions into the found set without counter updates,
// used when reloading persisted state or recording a scan sweep.
func (e *Engine) addFound(versions ...string) {
	e.mu.Lock()
	for _, v := range versions {
		e.found[v] = struct{}{}
	}
	e.mu.Unlock()
}

// ProcessVersion probes one version and, if it exists, downloads its
// full artifact matrix with the download pool. It reports whether the
// version was found. Individual target failures never fail the batch.
func (e *Engine) ProcessVersion(ctx context.Context, version string) (bool, error) {
	if !e.prober.Exists(ctx, version) {
		return false, ctx.Err()
	}

	e.log.Info("VERSION %s - FOUND", version)
	e.markFound(version)

	targets := BuildTargets(e.baseURL, version)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.downloadWorkers)
	for _, t := range targets {
		t := t
		g.Go(func() error {
			outcome, n := e.downloadTarget(gctx, t)
			e.handlers.DownloadHandler(t, outcome, n)
			return nil
		})
	}
	_ = g.Wait()
	return true, ctx.Err()
}

// ScanRange walks the full candidate space of a version range: probe
// pool first, then sequential per-version download batches. Probe
// results arrive in completion order and are re-sorted before they are
// persisted or processed.
func (e *Engine) ScanRange(ctx context.Context, r VersionRange) error {
	candidates := r.Generate()
	e.log.Info("Generated %d candidate versions", len(candidates))

	var (
		mu       sync.Mutex
		existing []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.probeWorkers)
	for _, v := range candidates {
		v := v
		g.Go(func() error {
			exists := e.prober.Exists(gctx, v)
			e.recordTested()
			if exists {
				e.log.Info("Found version: %s", v)
				mu.Lock()
				existing = append(existing, v)
				mu.Unlock()
			}
			e.handlers.ProbeHandler(v, exists)
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(existing)
	e.log.Info("Found %d versions in scan", len(existing))
	e.addFound(existing...)
	if err := e.SaveFoundVersions(); err != nil {
		e.log.Warning("could not save versions: %v", err)
	}

	for i, v := range existing {
		if ctx.Err() != nil {
			e.log.Warning("stop requested; aborting downloads")
			break
		}
		e.log.Info("Processing [%d/%d] %s", i+1, len(existing), v)
		if _, err := e.ProcessVersion(ctx, v); err != nil {
			break
		}
	}

	if err := e.SaveStats(); err != nil {
		e.log.Warning("could not save stats: %v", err)
	}
	return ctx.Err()
}

// SaveState persists both durable records, logging (not returning)
// failures: in-memory state stays authoritative and the next successful
// persist self-heals.
func (e *Engine) SaveState() {
	if err := e.SaveFoundVersions(); err != nil {
		e.log.Warning("could not save versions: %v", err)
	}
	if err := e.SaveStats(); err != nil {
		e.log.Warning("could not save stats: %v", err)
	}
}
