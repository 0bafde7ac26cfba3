package roslib

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// Prober answers "does this version exist on the CDN" with lightweight
// HEAD requests and memoizes the answer for the lifetime of the engine
// instance. Safe for concurrent use by many workers.
type Prober struct {
	client    *http.Client
	baseURL   string
	userAgent string

	mu    sync.Mutex
	cache map[string]bool
}

// NewProber creates a prober against baseURL. The client should carry a
// short timeout and must not follow redirects, so 301/302 directory
// responses stay observable.
func NewProber(client *http.Client, baseURL string) *Prober {
	return &Prober{
		client:    client,
		baseURL:   baseURL,
		userAgent: DEF_USER_AGENT,
		cache:     make(map[string]bool),
	}
}

// Exists reports whether the version's directory is present on the CDN.
// A transport failure counts as non-existence: a single flaky probe must
// not poison a scan of thousands of candidates. The first recorded
// answer for a version is never overwritten within a run.
func (p *Prober) Exists(ctx context.Context, version string) bool {
	p.mu.Lock()
	if exists, ok := p.cache[version]; ok {
		p.mu.Unlock()
		return exists
	}
	p.mu.Unlock()

	exists := p.probe(ctx, version)
	return p.remember(version, exists)
}

// remember stores the first answer for a version; if another worker got
// there first, the cached value wins.
func (p *Prober) remember(version string, exists bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cached, ok := p.cache[version]; ok {
		return cached
	}
	p.cache[version] = exists
	return exists
}

func (p *Prober) probe(ctx context.Context, version string) bool {
	status, err := p.head(ctx, fmt.Sprintf("%s/%s/", p.baseURL, version))
	if err == nil {
		switch status {
		case http.StatusOK,
			http.StatusMovedPermanently,
			http.StatusFound,
			// Directory listing denied, but the directory is there.
			http.StatusForbidden:
			return true
		}
	}

	// Inconclusive: fall back to a well-known file inside the directory.
	status, err = p.head(ctx, fmt.Sprintf("%s/%s/CHANGELOG", p.baseURL, version))
	return err == nil && status == http.StatusOK
}

func (p *Prober) head(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", p.userAgent)
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
