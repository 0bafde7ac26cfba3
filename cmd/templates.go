package cmd

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const DESCRIPTION = `
Rosvault mirrors published RouterOS firmware into a local archive.
It can brute-force scan the CDN for a whole version range, fetch a
single version, or run as a daemon that polls the download feed and
archives new releases as they are announced.
`

const ScanDescription = `The scan command probes the CDN for one specific version and,
if present, downloads its full artifact matrix into the archive.

Example:
        rosvault scan 6.51

`

const RangeDescription = `The range command enumerates every candidate version between the
start and end bounds, probes the CDN for the ones that exist, and
downloads all artifacts of each confirmed version.

Example:
        rosvault range --start 3.30 --end 7.50

`

const RssDescription = `The rss command fetches the download feed once, extracts versions
not yet in the archive state, and downloads them.

Example:
        rosvault rss

`

const DaemonDescription = `The daemon command controls the background feed poller. "start"
blocks until interrupted, polling the feed on the configured
interval; "stop" signals a running daemon; "status" reports whether
one is alive and reclaims stale PID markers.

Example:
        rosvault daemon start --interval 15

`

const StatsDescription = `The stats command prints the persisted download statistics of the
archive directory.

`

const VersionsDescription = `The versions command lists every version recorded in the archive
state.

`

const ListDescription = `The list command reports the artifacts already present on disk,
grouped by version and architecture.

`
