package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"

	"github.com/rosvault/rosvault/cmd/common"
	"github.com/rosvault/rosvault/pkg/roslib"
)

// persistedStats mirrors the durable download_stats.json shape.
type persistedStats struct {
	Stats         roslib.Stats `json:"stats"`
	FoundVersions []string     `json:"found_versions"`
	Saved         time.Time    `json:"saved"`
}

// persistedVersions mirrors the durable found_versions.json shape.
type persistedVersions struct {
	Versions []string  `json:"versions"`
	Saved    time.Time `json:"saved"`
}

// stats prints the persisted download statistics.
func stats(ctx *cli.Context) error {
	path := filepath.Join(outputDir, roslib.StatsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No stats file found")
			return nil
		}
		common.PrintRuntimeErr(ctx, "stats", "read", err)
		return nil
	}
	var rec persistedStats
	if err := json.Unmarshal(data, &rec); err != nil {
		common.PrintRuntimeErr(ctx, "stats", "parse", err)
		return nil
	}

	fmt.Println("=== Download Statistics ===")
	fmt.Printf("  versions tested   : %d\n", rec.Stats.VersionsTested)
	fmt.Printf("  versions found    : %d\n", rec.Stats.VersionsFound)
	fmt.Printf("  files downloaded  : %d\n", rec.Stats.FilesDownloaded)
	fmt.Printf("  files skipped     : %d\n", rec.Stats.FilesSkipped)
	fmt.Printf("  files failed      : %d\n", rec.Stats.FilesFailed)
	fmt.Printf("  data downloaded   : %s\n", humanize.IBytes(uint64(rec.Stats.BytesDownloaded)))
	if rec.Stats.CurrentVersion != "" {
		fmt.Printf("  last version      : %s\n", rec.Stats.CurrentVersion)
	}
	fmt.Printf("  known versions    : %d\n", len(rec.FoundVersions))
	fmt.Printf("  saved             : %s\n", rec.Saved.Format(time.RFC3339))
	return nil
}

// versions lists the persisted found-version set.
func versions(ctx *cli.Context) error {
	path := filepath.Join(outputDir, roslib.VersionsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No versions file found")
			return nil
		}
		common.PrintRuntimeErr(ctx, "versions", "read", err)
		return nil
	}
	var rec persistedVersions
	if err := json.Unmarshal(data, &rec); err != nil {
		common.PrintRuntimeErr(ctx, "versions", "parse", err)
		return nil
	}
	sort.Strings(rec.Versions)
	fmt.Printf("=== Found Versions (%d total) ===\n", len(rec.Versions))
	for _, v := range rec.Versions {
		fmt.Printf("  %s\n", v)
	}
	return nil
}

// list reports the artifacts already archived on disk.
func list(ctx *cli.Context) error {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Archive directory does not exist")
			return nil
		}
		common.PrintRuntimeErr(ctx, "list", "read", err)
		return nil
	}

	var grandFiles int
	var grandBytes int64
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		version := entry.Name()
		files, bytes := archivedVersionSize(filepath.Join(outputDir, version))
		if files == 0 {
			continue
		}
		fmt.Printf("%-16s %4d files  %s\n", version, files, humanize.IBytes(uint64(bytes)))
		grandFiles += files
		grandBytes += bytes
	}
	fmt.Printf("%-16s %4d files  %s\n", "total", grandFiles, humanize.IBytes(uint64(grandBytes)))
	return nil
}

func archivedVersionSize(dir string) (files int, bytes int64) {
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		files++
		bytes += info.Size()
		return nil
	})
	return files, bytes
}
