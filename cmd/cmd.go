package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/rosvault/rosvault/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

func Execute(args []string, bArgs BuildArgs) error {
	app := cli.App{
		Name:                  "rosvault",
		HelpName:              "rosvault",
		Usage:                 "A RouterOS firmware archiver.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "rosvault <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:                   "scan",
				Aliases:                []string{"s"},
				Usage:                  "probe and download one specific version",
				ArgsUsage:              "<version>",
				Action:                 scan,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            ScanDescription,
				UseShortOptionHandling: true,
				Flags:                  engineFlags,
			},
			{
				Name:                   "range",
				Aliases:                []string{"g"},
				Usage:                  "scan a whole version range against the CDN",
				Action:                 scanRange,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            RangeDescription,
				UseShortOptionHandling: true,
				Flags:                  rangeFlags,
			},
			{
				Name:                   "rss",
				Aliases:                []string{"f"},
				Usage:                  "fetch the download feed and archive new versions",
				Action:                 rss,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            RssDescription,
				UseShortOptionHandling: true,
				Flags:                  engineFlags,
			},
			{
				Name:               "daemon",
				Usage:              "control the background feed poller",
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        DaemonDescription,
				Subcommands: []cli.Command{
					{
						Name:                   "start",
						Usage:                  "run the feed poller in the foreground",
						Action:                 daemonStart,
						OnUsageError:           common.UsageErrorCallback,
						CustomHelpTemplate:     CMD_HELP_TEMPL,
						UseShortOptionHandling: true,
						Flags:                  daemonFlags,
					},
					{
						Name:         "stop",
						Usage:        "signal a running daemon to shut down",
						Action:       daemonStop,
						OnUsageError: common.UsageErrorCallback,
						Flags:        engineFlags,
					},
					{
						Name:         "status",
						Usage:        "report whether a daemon is running",
						Action:       daemonStatus,
						OnUsageError: common.UsageErrorCallback,
						Flags:        engineFlags,
					},
				},
			},
			{
				Name:               "stats",
				Usage:              "print the persisted download statistics",
				Action:             stats,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        StatsDescription,
				Flags:              engineFlags,
			},
			{
				Name:               "versions",
				Usage:              "list every version recorded in the archive state",
				Action:             versions,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        VersionsDescription,
				Flags:              engineFlags,
			},
			{
				Name:               "list",
				Aliases:            []string{"l"},
				Usage:              "report the artifacts already archived on disk",
				Action:             list,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ListDescription,
				Flags:              engineFlags,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of rosvault",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:                 rss,
		Flags:                  engineFlags,
		UseShortOptionHandling: true,
		HideHelp:               true,
		HideVersion:            true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
