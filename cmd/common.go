package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/rosvault/rosvault/pkg/logger"
	"github.com/rosvault/rosvault/pkg/roslib"
)

// Values bound by the global engine flags.
var (
	outputDir    string
	dlWorkers    int
	probeWorkers int
	maxRetries   int
	logFile      string
)

// Flag values of individual commands.
var (
	startVersion string
	endVersion   string
	intervalMins int
)

var engineFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "output, o",
		Usage:       "output directory for the firmware archive",
		EnvVar:      "ROSVAULT_OUTPUT",
		Value:       "./routeros_archive",
		Destination: &outputDir,
	},
	cli.IntFlag{
		Name:        "workers, w",
		Usage:       "number of parallel download workers",
		EnvVar:      "ROSVAULT_WORKERS",
		Value:       roslib.DEF_DOWNLOAD_WORKERS,
		Destination: &dlWorkers,
	},
	cli.IntFlag{
		Name:        "probe-workers, p",
		Usage:       "number of parallel existence-probe workers",
		EnvVar:      "ROSVAULT_PROBE_WORKERS",
		Value:       roslib.DEF_PROBE_WORKERS,
		Destination: &probeWorkers,
	},
	cli.IntFlag{
		Name:        "retries, r",
		Usage:       "maximum retries per file",
		EnvVar:      "ROSVAULT_RETRIES",
		Value:       roslib.DEF_MAX_RETRIES,
		Destination: &maxRetries,
	},
	cli.StringFlag{
		Name:        "log-file, L",
		Usage:       "append log output to this file (defaults to rosvault.log in the output directory)",
		EnvVar:      "ROSVAULT_LOG_FILE",
		Destination: &logFile,
	},
}

// setup creates the output directory, the logger and the engine. An
// output directory that cannot be created is the only fatal condition
// in the whole tool.
func setup(h *roslib.Handlers) (logger.Logger, *roslib.Engine, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create output directory %s: %w", outputDir, err)
	}
	l := newLogger()
	e, err := newEngine(l, h)
	if err != nil {
		l.Close()
		return nil, nil, err
	}
	return l, e, nil
}

// newLogger builds the console logger, teeing into the log file unless
// file logging is unavailable.
func newLogger() logger.Logger {
	console := logger.NewStandardLogger(log.New(os.Stdout, "", log.LstdFlags))
	path := logFile
	if path == "" {
		path = filepath.Join(outputDir, "rosvault.log")
	}
	fl, err := logger.NewFileLogger(path)
	if err != nil {
		console.Warning("could not open log file %s: %v", path, err)
		return console
	}
	return logger.NewMultiLogger(console, fl)
}

// newEngine wires an engine from the global flags.
func newEngine(l logger.Logger, h *roslib.Handlers) (*roslib.Engine, error) {
	return roslib.New(&roslib.Options{
		OutputDir:       outputDir,
		ProbeWorkers:    probeWorkers,
		DownloadWorkers: dlWorkers,
		MaxRetries:      maxRetries,
		Logger:          l,
		Handlers:        h,
	})
}
