package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/rosvault/rosvault/cmd/common"
	"github.com/rosvault/rosvault/internal/daemon"
)

// stopJoinTimeout bounds how long daemonStart waits for the polling
// loop to exit after a stop request.
const stopJoinTimeout = 10 * time.Second

var daemonFlags = append([]cli.Flag{
	cli.IntFlag{
		Name:        "interval, i",
		Usage:       "feed polling interval in minutes",
		EnvVar:      "ROSVAULT_INTERVAL",
		Value:       15,
		Destination: &intervalMins,
	},
}, engineFlags...)

// daemonStart launches the feed poller in the foreground and blocks
// until interrupted. The PID marker enforces one daemon per archive.
func daemonStart(ctx *cli.Context) error {
	if err := cleanupStalePidFile(outputDir); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "start", err)
		return nil
	}

	l, e, err := setup(nil)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "setup", err)
		return err
	}
	defer l.Close()

	if err := writePidFile(outputDir); err != nil {
		l.Error("could not write PID file: %v", err)
		return err
	}
	defer func() {
		if err := removePidFile(outputDir); err != nil {
			l.Error("could not remove PID file: %v", err)
		}
	}()

	sched := daemon.New(e, l, time.Duration(intervalMins)*time.Minute)
	if err := sched.Start(context.Background()); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case s := <-sig:
		l.Info("Received %s, shutting down", s)
	case <-sched.Done():
		// Loop exited on its own; nothing left to join.
		return nil
	}

	if err := sched.Stop(stopJoinTimeout); err != nil {
		l.Warning("daemon shutdown: %v", err)
	}
	return nil
}

// daemonStop signals a running daemon through its PID marker.
func daemonStop(ctx *cli.Context) error {
	pid, err := readPidFile(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Daemon is not running")
			return nil
		}
		common.PrintRuntimeErr(ctx, "daemon", "stop", err)
		return nil
	}
	if !isProcessRunning(pid) {
		fmt.Println("Daemon PID file exists but process not running; cleaning up")
		return removePidFile(outputDir)
	}
	if err := terminateProcess(pid); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "stop", err)
		return nil
	}
	fmt.Printf("Sent stop signal to daemon (PID %d)\n", pid)
	return nil
}

// daemonStatus reports liveness and reclaims stale markers.
func daemonStatus(ctx *cli.Context) error {
	pid, err := readPidFile(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Daemon is not running")
			return nil
		}
		common.PrintRuntimeErr(ctx, "daemon", "status", err)
		return nil
	}
	if isProcessRunning(pid) {
		fmt.Printf("Daemon is running (PID %d)\n", pid)
		return nil
	}
	fmt.Println("Daemon PID file exists but process not running; cleaning up")
	return removePidFile(outputDir)
}
