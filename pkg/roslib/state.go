package roslib

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// versionsRecord is the durable shape of found_versions.json.
type versionsRecord struct {
	Versions []string  `json:"versions"`
	Saved    time.Time `json:"saved"`
}

// statsRecord is the durable shape of download_stats.json.
type statsRecord struct {
	Stats         Stats     `json:"stats"`
	FoundVersions []string  `json:"found_versions"`
	Saved         time.Time `json:"saved"`
}

// loadFoundVersions merges the persisted set into memory at startup.
// Stats are deliberately not reloaded; counters describe this run only.
// A missing or corrupt file starts the set empty.
func (e *Engine) loadFoundVersions() {
	data, err := afero.ReadFile(e.fs, filepath.Join(e.outputDir, VersionsFileName))
	if err != nil {
		return
	}
	var rec versionsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		e.log.Warning("could not parse %s, starting fresh: %v", VersionsFileName, err)
		return
	}
	e.addFound(rec.Versions...)
}

// SaveFoundVersions rewrites found_versions.json wholesale.
func (e *Engine) SaveFoundVersions() error {
	rec := versionsRecord{
		Versions: e.FoundVersions(),
		Saved:    time.Now().UTC(),
	}
	path := filepath.Join(e.outputDir, VersionsFileName)
	if err := writeJSONAtomic(e.fs, path, rec); err != nil {
		return fmt.Errorf("save versions: %w", err)
	}
	e.log.Info("Saved versions to %s", path)
	return nil
}

// SaveStats rewrites download_stats.json wholesale.
func (e *Engine) SaveStats() error {
	rec := statsRecord{
		Stats:         e.StatsSnapshot(),
		FoundVersions: e.FoundVersions(),
		Saved:         time.Now().UTC(),
	}
	path := filepath.Join(e.outputDir, StatsFileName)
	if err := writeJSONAtomic(e.fs, path, rec); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	e.log.Info("Saved stats to %s", path)
	return nil
}

// writeJSONAtomic writes v to a temp file in the target directory and
// renames it into place, so concurrent readers never observe a partial
// record.
func writeJSONAtomic(fs afero.Fs, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := afero.TempFile(fs, filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return err
	}
	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName)
		return err
	}
	return nil
}
