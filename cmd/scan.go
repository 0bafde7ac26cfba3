package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/urfave/cli"

	"github.com/rosvault/rosvault/cmd/common"
)

// scan probes a single version and downloads its artifacts.
func scan(ctx *cli.Context) error {
	version := ctx.Args().First()
	if version == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no version provided"))
	}

	l, e, err := setup(nil)
	if err != nil {
		common.PrintRuntimeErr(ctx, "scan", "setup", err)
		return err
	}
	defer l.Close()

	sctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	l.Info("Scanning version %s...", version)
	found, perr := e.ProcessVersion(sctx, version)
	e.SaveState()
	if perr != nil {
		common.PrintRuntimeErr(ctx, "scan", "process", perr)
		return nil
	}
	if !found {
		l.Info("Version %s not found on CDN", version)
		return nil
	}
	l.Info("Successfully processed version %s", version)
	return nil
}
