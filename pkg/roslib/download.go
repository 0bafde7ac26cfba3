package roslib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// Outcome is the final disposition of one download target.
type Outcome int

const (
	// OutcomeDownloaded means the artifact was fetched and written.
	OutcomeDownloaded Outcome = iota
	// OutcomeSkipped means a non-empty file was already on disk.
	OutcomeSkipped
	// OutcomeNotFound means the CDN returned 404; the target simply does
	// not exist for this version/architecture combination.
	OutcomeNotFound
	// OutcomeFailed means the retry budget was exhausted.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNotFound:
		return "not found"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// targetPath returns the archive location for a target:
// {output}/{version}/{arch}/{filename}.
func (e *Engine) targetPath(t Target) string {
	return filepath.Join(e.outputDir, t.Version, string(t.Arch), t.Filename)
}

// downloadTarget fetches one target with skip-if-present semantics and a
// bounded retry loop. Backoff waits happen inline, occupying the calling
// worker's slot for their duration; simplicity is preferred over
// pool-slot efficiency here.
func (e *Engine) downloadTarget(ctx context.Context, t Target) (Outcome, int64) {
	path := e.targetPath(t)
	if fi, err := e.fs.Stat(path); err == nil && fi.Size() > 0 {
		e.log.Info("[SKIP] %s exists", t.Filename)
		e.recordSkipped()
		return OutcomeSkipped, 0
	}

	for attempt := 0; ; attempt++ {
		n, err := e.fetchTarget(ctx, t, path)
		if err == nil {
			e.recordDownloaded(n)
			e.log.Info("[DOWNLOAD] %s (%s)", t.Filename, humanize.IBytes(uint64(n)))
			return OutcomeDownloaded, n
		}
		if errors.Is(err, ErrNotFound) {
			// Expected for most of the cross-product; not an error.
			return OutcomeNotFound, 0
		}
		if attempt >= e.retry.MaxRetries {
			e.log.Error("[FAILED] %s: %v", t.Filename, err)
			e.removePartial(path)
			e.recordFailed()
			return OutcomeFailed, 0
		}
		e.log.Warning("[RETRY %d/%d] %s: %v (backoff %s)",
			attempt+1, e.retry.MaxRetries, t.Filename, err,
			e.retry.CalculateBackoff(attempt))
		if werr := e.retry.WaitForRetry(ctx, attempt); werr != nil {
			e.removePartial(path)
			e.recordFailed()
			return OutcomeFailed, 0
		}
	}
}

// fetchTarget streams one artifact to disk. The destination is truncated
// on each attempt, so a retry never appends to a previous partial write.
func (e *Engine) fetchTarget(ctx context.Context, t Target, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", DEF_USER_AGENT)

	resp, err := e.dlClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := e.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}
	f, err := e.fs.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// removePartial deletes whatever bytes a failed download left behind so
// no orphaned partial files survive an exhausted target.
func (e *Engine) removePartial(path string) {
	if err := e.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		e.log.Warning("could not remove partial file %s: %v", path, err)
	}
}
