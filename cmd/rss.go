package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/urfave/cli"

	"github.com/rosvault/rosvault/cmd/common"
)

// rss checks the feed once and downloads any newly announced versions.
func rss(ctx *cli.Context) error {
	l, e, err := setup(nil)
	if err != nil {
		common.PrintRuntimeErr(ctx, "rss", "setup", err)
		return err
	}
	defer l.Close()

	sctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	l.Info("Checking feed for new versions...")
	delta, ferr := e.ScanFeed(sctx)
	if ferr != nil {
		// Warning already logged; nothing to download.
		return nil
	}
	if len(delta) == 0 {
		l.Info("No new versions found in feed")
		return nil
	}

	l.Info("Found %d new versions", len(delta))
	for _, v := range delta {
		if sctx.Err() != nil {
			break
		}
		l.Info("Downloading version %s...", v)
		if _, err := e.ProcessVersion(sctx, v); err != nil {
			break
		}
	}
	e.SaveState()
	l.Info("Feed check completed")
	return nil
}
