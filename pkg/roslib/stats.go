package roslib

// Stats holds the per-run counters. Counters only ever grow; a fresh
// process starts from zero because they describe this run's activity,
// not cumulative history. All mutation happens inside the engine under
// its single lock, so the struct itself carries no synchronization.
type Stats struct {
	VersionsTested  int64  `json:"versions_tested"`
	VersionsFound   int64  `json:"versions_found"`
	FilesDownloaded int64  `json:"files_downloaded"`
	FilesSkipped    int64  `json:"files_skipped"`
	FilesFailed     int64  `json:"files_failed"`
	BytesDownloaded int64  `json:"bytes_downloaded"`
	CurrentVersion  string `json:"current_version"`
}

func (e *Engine) recordTested() {
	e.mu.Lock()
	e.stats.VersionsTested++
	e.mu.Unlock()
}

// markFound records a confirmed version: it joins the found set and the
// per-run counters are updated. Insertion is idempotent for the set but
// the found counter follows every confirmation, mirroring a re-processed
// version being work done again this run.
func (e *Engine) markFound(version string) {
	e.mu.Lock()
	e.found[version] = struct{}{}
	e.stats.VersionsFound++
	e.stats.CurrentVersion = version
	e.mu.Unlock()
}

func (e *Engine) recordSkipped() {
	e.mu.Lock()
	e.stats.FilesSkipped++
	e.mu.Unlock()
}

func (e *Engine) recordDownloaded(n int64) {
	e.mu.Lock()
	e.stats.FilesDownloaded++
	e.stats.BytesDownloaded += n
	e.mu.Unlock()
}

func (e *Engine) recordFailed() {
	e.mu.Lock()
	e.stats.FilesFailed++
	e.mu.Unlock()
}

// StatsSnapshot returns a copy of the counters taken under the lock.
func (e *Engine) StatsSnapshot() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}
