package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	"winsdk/internal/config"
	"winsdk/internal/env"
	"winsdk/internal/report"
	"winsdk/internal/sdk"
	"winsdk/internal/theme"
	"winsdk/internal/updater"
)

// Version is set during build time via ldflags
var Version = "dev"

type options struct {
	Debug bool
}

// command holds what every subcommand shares
type command struct {
	logger *log.Logger
}

func main() {
	logger := log.New()
	opts := options{}
	cmd := command{logger: logger}

	c := cli.NewApp()
	c.Name = "winsdk"
	c.Usage = "Find and select installed Windows SDKs"
	c.Version = Version
	c.HideVersion = true

	c.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:        "debug",
			Aliases:     []string{"d"},
			Usage:       "Enable debug-level logging",
			Destination: &opts.Debug,
			EnvVars:     []string{"WINSDK_DEBUG"},
		},
	}

	var pendingUpdate <-chan string

	c.Before = func(c *cli.Context) error {
		logLevel := log.InfoLevel
		if opts.Debug {
			logLevel = log.DebugLevel
		}
		logger.SetLevel(logLevel)

		if wantsUpdateNotice(c.Args().Slice()) {
			pendingUpdate = cmd.checkForUpdateBackground()
		}
		return nil
	}

	c.Commands = []*cli.Command{
		cmd.listCommand(),
		cmd.anyCommand(),
		cmd.showCommand(),
		cmd.currentCommand(),
		cmd.useCommand(),
		cmd.doctorCommand(),
		cmd.addPathCommand(),
		cmd.removePathCommand(),
		cmd.listPathsCommand(),
		cmd.updateCommand(),
		cmd.versionCommand(),
	}

	c.After = func(c *cli.Context) error {
		showPendingUpdate(os.Stderr, pendingUpdate)
		return nil
	}

	if err := c.Run(os.Args); err != nil {
		logger.Debugf("%+v", err)
		fmt.Fprintln(os.Stderr, theme.ErrorMessage(err.Error()))
		os.Exit(1)
	}
}

// newLocator builds a locator that also scans the configured search paths
func (m command) newLocator(cfg *config.Config) *sdk.Locator {
	return sdk.NewLocator(
		sdk.WithSearchPaths(cfg.SearchPaths...),
		sdk.WithLookupEnv(env.LookupEnv),
		sdk.WithLogger(m.logger),
	)
}

// wantsUpdateNotice reports whether a run may end with the update hint. The
// update command has its own output and json or yaml runs must stay parseable.
func wantsUpdateNotice(args []string) bool {
	if len(args) == 0 || args[0] == "update" {
		return false
	}
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || (name != "o" && name != "output") {
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				return false
			}
			value = args[i+1]
		}
		if f, err := report.ParseFormat(value); err != nil || f != report.FormatTable {
			return false
		}
	}
	return true
}

// showPendingUpdate prints the hint only if the check already finished
func showPendingUpdate(w io.Writer, pending <-chan string) {
	select {
	case latest, ok := <-pending:
		if ok {
			updater.ShowUpdateNotification(w, Version, latest)
		}
	default:
	}
}

// checkForUpdateBackground starts the periodic release check. The channel
// yields the newer version, or is closed without a value.
func (m command) checkForUpdateBackground() <-chan string {
	found := make(chan string, 1)
	go func() {
		defer close(found)
		defer func() {
			if r := recover(); r != nil {
				m.logger.Debugf("update check panicked: %v", r)
			}
		}()

		cfg, err := config.Load()
		if err != nil {
			return
		}

		upd, err := updater.NewUpdater(cfg, Version, m.logger)
		if err != nil || !upd.ShouldCheckForUpdate() {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		release, err := upd.CheckForUpdate(ctx)
		if err != nil {
			m.logger.WithError(err).Debug("Background update check failed")
			return
		}
		if release != nil {
			found <- release.Version()
		}
	}()
	return found
}
