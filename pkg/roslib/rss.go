package roslib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
)

// versionToken matches release announcements in the download feed, e.g.
// "RouterOS 7.16.2" or "RouterOS v7.17beta2". The body is scanned as
// plain text; the feed's markup is not otherwise interpreted.
var versionToken = regexp.MustCompile(`RouterOS v?(\d+\.\d+(?:\.\d+)?(?:rc\d+)?(?:beta\d+)?)`)

// ScanFeed fetches the feed document once and returns the sorted set of
// version tokens not yet present in the found set. Versions announced in
// the feed are known-real, so no existence probing happens here. A fetch
// failure is logged and yields an empty delta.
func (e *Engine) ScanFeed(ctx context.Context) ([]string, error) {
	body, err := e.fetchFeed(ctx)
	if err != nil {
		e.log.Warning("feed check failed: %v", err)
		return nil, err
	}

	seen := make(map[string]struct{})
	var delta []string
	for _, m := range versionToken.FindAllStringSubmatch(string(body), -1) {
		v := m[1]
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if !e.HasVersion(v) {
			delta = append(delta, v)
		}
	}
	sort.Strings(delta)
	for _, v := range delta {
		e.log.Info("Feed discovered new version: %s", v)
	}
	return delta, nil
}

func (e *Engine) fetchFeed(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", DEF_USER_AGENT)
	resp, err := e.feedClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
