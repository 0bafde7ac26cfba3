package roslib

import "time"

// Default remote endpoints. Both can be overridden through Options,
// which the tests rely on to point the engine at local servers.
const (
	DefaultBaseURL = "https://download.mikrotik.com/routeros"
	DefaultFeedURL = "https://mikrotik.com/download.rss"
)

const (
	DEF_PROBE_WORKERS    = 12
	DEF_DOWNLOAD_WORKERS = 8
	DEF_MAX_RETRIES      = 3
	DEF_USER_AGENT       = "rosvault/1.0"

	// Probes are cheap and should fail fast. Artifact fetches can be
	// hundreds of megabytes, so their timeout bounds only the connect
	// and the response-header wait, never the body transfer.
	DEF_PROBE_TIMEOUT    = 8 * time.Second
	DEF_DOWNLOAD_TIMEOUT = 30 * time.Second
	DEF_FEED_TIMEOUT     = 10 * time.Second
)

// File names of the persisted records inside the output directory.
const (
	VersionsFileName = "found_versions.json"
	StatsFileName    = "download_stats.json"
)
