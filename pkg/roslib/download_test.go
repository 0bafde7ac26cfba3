package roslib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func newTestEngine(t *testing.T, baseURL string, opts *Options) *Engine {
	t.Helper()
	if opts == nil {
		opts = &Options{}
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "/archive"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = baseURL
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewMemMapFs()
	}
	if opts.RetryBaseDelay == 0 {
		opts.RetryBaseDelay = time.Millisecond
	}
	e, err := New(opts)
	if err != nil {
		t.Fatalf("unexpected error creating engine: %v", err)
	}
	return e
}

// artifactServer serves a fixed body per path and counts requests.
type artifactServer struct {
	mu       sync.Mutex
	bodies   map[string]string
	failures map[string]int
	requests int
}

func (as *artifactServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	as.mu.Lock()
	as.requests++
	if as.failures[r.URL.Path] > 0 {
		as.failures[r.URL.Path]--
		as.mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	body, ok := as.bodies[r.URL.Path]
	as.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Write([]byte(body))
}

func (as *artifactServer) count() int {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.requests
}

func TestDownloadTargetSuccess(t *testing.T) {
	as := &artifactServer{bodies: map[string]string{
		"/6.51/routeros-x86-6.51.npk": "firmware bytes",
	}}
	srv := httptest.NewServer(as)
	defer srv.Close()

	e := newTestEngine(t, srv.URL, nil)
	target := Target{
		Version:  "6.51",
		Arch:     ArchX86,
		Filename: "routeros-x86-6.51.npk",
		URL:      srv.URL + "/6.51/routeros-x86-6.51.npk",
	}
	outcome, n := e.downloadTarget(context.Background(), target)
	if outcome != OutcomeDownloaded {
		t.Fatalf("expected downloaded, got %s", outcome)
	}
	if n != int64(len("firmware bytes")) {
		t.Fatalf("expected %d bytes, got %d", len("firmware bytes"), n)
	}

	data, err := afero.ReadFile(e.fs, "/archive/6.51/x86/routeros-x86-6.51.npk")
	if err != nil {
		t.Fatalf("expected archived file: %v", err)
	}
	if string(data) != "firmware bytes" {
		t.Fatalf("unexpected file content %q", data)
	}

	stats := e.StatsSnapshot()
	if stats.FilesDownloaded != 1 || stats.BytesDownloaded != n {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestDownloadTargetSkipsExisting(t *testing.T) {
	as := &artifactServer{bodies: map[string]string{}}
	srv := httptest.NewServer(as)
	defer srv.Close()

	e := newTestEngine(t, srv.URL, nil)
	path := "/archive/6.51/x86/routeros-x86-6.51.npk"
	if err := afero.WriteFile(e.fs, path, []byte("already here"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target := Target{
		Version:  "6.51",
		Arch:     ArchX86,
		Filename: "routeros-x86-6.51.npk",
		URL:      srv.URL + "/6.51/routeros-x86-6.51.npk",
	}
	outcome, n := e.downloadTarget(context.Background(), target)
	if outcome != OutcomeSkipped || n != 0 {
		t.Fatalf("expected skipped/0, got %s/%d", outcome, n)
	}
	if got := as.count(); got != 0 {
		t.Fatalf("skip must not touch the network, got %d requests", got)
	}
	if stats := e.StatsSnapshot(); stats.FilesSkipped != 1 {
		t.Fatalf("expected 1 skip recorded, got %+v", stats)
	}
}

func TestDownloadTargetEmptyFileRedownloaded(t *testing.T) {
	as := &artifactServer{bodies: map[string]string{
		"/6.51/routeros-x86-6.51.npk": "fresh",
	}}
	srv := httptest.NewServer(as)
	defer srv.Close()

	e := newTestEngine(t, srv.URL, nil)
	path := "/archive/6.51/x86/routeros-x86-6.51.npk"
	if err := afero.WriteFile(e.fs, path, nil, 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target := Target{
		Version:  "6.51",
		Arch:     ArchX86,
		Filename: "routeros-x86-6.51.npk",
		URL:      srv.URL + "/6.51/routeros-x86-6.51.npk",
	}
	outcome, _ := e.downloadTarget(context.Background(), target)
	if outcome != OutcomeDownloaded {
		t.Fatalf("empty file should be replaced, got %s", outcome)
	}
}

func TestDownloadTargetNotFound(t *testing.T) {
	as := &artifactServer{bodies: map[string]string{}}
	srv := httptest.NewServer(as)
	defer srv.Close()

	e := newTestEngine(t, srv.URL, &Options{MaxRetries: 3})
	target := Target{
		Version:  "6.51",
		Arch:     ArchPPC,
		Filename: "routeros-ppc-6.51.npk",
		URL:      srv.URL + "/6.51/routeros-ppc-6.51.npk",
	}
	outcome, _ := e.downloadTarget(context.Background(), target)
	if outcome != OutcomeNotFound {
		t.Fatalf("expected not found, got %s", outcome)
	}
	// 404 is definitive; no retries.
	if got := as.count(); got != 1 {
		t.Fatalf("expected a single request for 404, got %d", got)
	}
	stats := e.StatsSnapshot()
	if stats.FilesFailed != 0 {
		t.Fatalf("404 must not count as failure: %+v", stats)
	}
}

func TestDownloadTargetRetriesThenSucceeds(t *testing.T) {
	as := &artifactServer{
		bodies:   map[string]string{"/6.51/routeros-x86-6.51.npk": "eventually"},
		failures: map[string]int{"/6.51/routeros-x86-6.51.npk": 2},
	}
	srv := httptest.NewServer(as)
	defer srv.Close()

	e := newTestEngine(t, srv.URL, &Options{MaxRetries: 3})
	target := Target{
		Version:  "6.51",
		Arch:     ArchX86,
		Filename: "routeros-x86-6.51.npk",
		URL:      srv.URL + "/6.51/routeros-x86-6.51.npk",
	}
	outcome, _ := e.downloadTarget(context.Background(), target)
	if outcome != OutcomeDownloaded {
		t.Fatalf("expected downloaded after retries, got %s", outcome)
	}
	if got := as.count(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestDownloadTargetExhaustionRemovesPartial(t *testing.T) {
	as := &artifactServer{
		bodies:   map[string]string{"/6.51/routeros-x86-6.51.npk": "never served"},
		failures: map[string]int{"/6.51/routeros-x86-6.51.npk": 100},
	}
	srv := httptest.NewServer(as)
	defer srv.Close()

	e := newTestEngine(t, srv.URL, &Options{MaxRetries: 2})
	target := Target{
		Version:  "6.51",
		Arch:     ArchX86,
		Filename: "routeros-x86-6.51.npk",
		URL:      srv.URL + "/6.51/routeros-x86-6.51.npk",
	}
	outcome, _ := e.downloadTarget(context.Background(), target)
	if outcome != OutcomeFailed {
		t.Fatalf("expected failed, got %s", outcome)
	}
	// First try plus two retries.
	if got := as.count(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if ok, _ := afero.Exists(e.fs, "/archive/6.51/x86/routeros-x86-6.51.npk"); ok {
		t.Fatalf("partial file must be removed on exhaustion")
	}
	if stats := e.StatsSnapshot(); stats.FilesFailed != 1 {
		t.Fatalf("expected 1 failure recorded, got %+v", stats)
	}
}

func TestDownloadTargetZeroRetries(t *testing.T) {
	as := &artifactServer{
		bodies:   map[string]string{"/6.51/routeros-x86-6.51.npk": "never served"},
		failures: map[string]int{"/6.51/routeros-x86-6.51.npk": 100},
	}
	srv := httptest.NewServer(as)
	defer srv.Close()

	e := newTestEngine(t, srv.URL, &Options{MaxRetries: -1})
	target := Target{
		Version:  "6.51",
		Arch:     ArchX86,
		Filename: "routeros-x86-6.51.npk",
		URL:      srv.URL + "/6.51/routeros-x86-6.51.npk",
	}
	outcome, _ := e.downloadTarget(context.Background(), target)
	if outcome != OutcomeFailed {
		t.Fatalf("expected failed, got %s", outcome)
	}
	if got := as.count(); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestDownloadTargetCanceledDuringBackoff(t *testing.T) {
	as := &artifactServer{
		failures: map[string]int{"/6.51/routeros-x86-6.51.npk": 100},
	}
	srv := httptest.NewServer(as)
	defer srv.Close()

	e := newTestEngine(t, srv.URL, &Options{
		MaxRetries:     5,
		RetryBaseDelay: time.Hour,
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	target := Target{
		Version:  "6.51",
		Arch:     ArchX86,
		Filename: "routeros-x86-6.51.npk",
		URL:      srv.URL + "/6.51/routeros-x86-6.51.npk",
	}
	start := time.Now()
	outcome, _ := e.downloadTarget(ctx, target)
	if outcome != OutcomeFailed {
		t.Fatalf("expected failed on cancellation, got %s", outcome)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("cancellation took too long: %s", elapsed)
	}
}

func TestDownloadTargetSlowStreamOutlivesTimeout(t *testing.T) {
	// A body that keeps flowing must be allowed to take longer than the
	// download timeout; only connect and header waits are bounded.
	const chunks = 30
	chunk := make([]byte, 1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fl, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer is not a flusher")
			return
		}
		for i := 0; i < chunks; i++ {
			w.Write(chunk)
			fl.Flush()
			time.Sleep(20 * time.Millisecond)
		}
	}))
	defer srv.Close()

	e := newTestEngine(t, srv.URL, &Options{
		MaxRetries:      -1,
		DownloadTimeout: 300 * time.Millisecond,
	})
	target := Target{
		Version:  "6.51",
		Arch:     ArchX86,
		Filename: "routeros-x86-6.51.npk",
		URL:      srv.URL + "/6.51/routeros-x86-6.51.npk",
	}
	outcome, n := e.downloadTarget(context.Background(), target)
	if outcome != OutcomeDownloaded {
		t.Fatalf("expected downloaded, got %s", outcome)
	}
	if n != chunks*int64(len(chunk)) {
		t.Fatalf("expected %d bytes, got %d", chunks*len(chunk), n)
	}
}

func TestDownloadTargetHeaderStallFails(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Hold the response headers past the timeout.
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	e := newTestEngine(t, srv.URL, &Options{
		MaxRetries:      -1,
		DownloadTimeout: 100 * time.Millisecond,
	})
	target := Target{
		Version:  "6.51",
		Arch:     ArchX86,
		Filename: "routeros-x86-6.51.npk",
		URL:      srv.URL + "/6.51/routeros-x86-6.51.npk",
	}
	start := time.Now()
	outcome, _ := e.downloadTarget(context.Background(), target)
	if outcome != OutcomeFailed {
		t.Fatalf("expected failed on header stall, got %s", outcome)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("header stall not bounded by timeout: %s", elapsed)
	}
}

func TestOutcomeString(t *testing.T) {
	cases := map[Outcome]string{
		OutcomeDownloaded: "downloaded",
		OutcomeSkipped:    "skipped",
		OutcomeNotFound:   "not found",
		OutcomeFailed:     "failed",
		Outcome(42):       "unknown",
	}
	for o, want := range cases {
		if got := o.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}
