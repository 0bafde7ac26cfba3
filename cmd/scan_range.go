package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/rosvault/rosvault/cmd/common"
	"github.com/rosvault/rosvault/pkg/roslib"
)

var rangeFlags = append([]cli.Flag{
	cli.StringFlag{
		Name:        "start, s",
		Usage:       "first major.minor of the range",
		Value:       "3.30",
		Destination: &startVersion,
	},
	cli.StringFlag{
		Name:        "end, e",
		Usage:       "last major.minor of the range",
		Value:       "7.50",
		Destination: &endVersion,
	},
}, engineFlags...)

// scanRange probes the whole candidate space of a version range and
// downloads every confirmed version. Probe progress is rendered as a
// bar because the candidate space is large and mostly misses.
func scanRange(ctx *cli.Context) error {
	r, err := roslib.ParseVersionRange(startVersion, endVersion)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}

	p := mpb.New(mpb.WithWidth(64))
	name := "Probing"
	bar := p.New(int64(r.Count()),
		mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟"),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
		),
	)

	handlers := &roslib.Handlers{
		ProbeHandler: func(version string, exists bool) {
			bar.Increment()
		},
	}
	l, e, err := setup(handlers)
	if err != nil {
		common.PrintRuntimeErr(ctx, "range", "setup", err)
		return err
	}
	defer l.Close()

	sctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	fmt.Printf(">> Scanning %s through %s (%d candidates) <<\n",
		startVersion, endVersion, r.Count())
	err = e.ScanRange(sctx, r)
	bar.Abort(false)
	p.Wait()
	if err != nil {
		common.PrintRuntimeErr(ctx, "range", "scan", err)
		return nil
	}

	stats := e.StatsSnapshot()
	fmt.Printf("\nScan finished: %d tested, %d found, %d downloaded, %d failed\n",
		stats.VersionsTested, stats.VersionsFound,
		stats.FilesDownloaded, stats.FilesFailed)
	return nil
}
