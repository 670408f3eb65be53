package main

import (
	"fmt"
	"os"

	cli "github.com/urfave/cli/v2"

	"winsdk/internal/config"
	"winsdk/internal/report"
	"winsdk/internal/sdk"
	"winsdk/internal/theme"
)

type listOptions struct {
	output     string
	minVersion string
}

func outputFlag(dest *string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "output",
		Aliases:     []string{"o"},
		Usage:       "Output format: table, json or yaml",
		Value:       string(report.FormatTable),
		Destination: dest,
	}
}

func (m command) listCommand() *cli.Command {
	opts := listOptions{}

	c := cli.Command{
		Name:  "list",
		Usage: "List every detected Windows SDK installation",
		Action: func(c *cli.Context) error {
			return m.list(&opts)
		},
	}
	c.Flags = []cli.Flag{
		outputFlag(&opts.output),
		&cli.StringFlag{
			Name:        "min",
			Usage:       "Only list SDKs with at least this version (defaults to min_version from the config file)",
			Destination: &opts.minVersion,
		},
	}

	return &c
}

func (m command) list(opts *listOptions) error {
	format, err := report.ParseFormat(opts.output)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	minVersion := opts.minVersion
	if minVersion == "" {
		minVersion = cfg.MinVersion
	}

	locator := m.newLocator(cfg)
	find := func() ([]sdk.Info, error) {
		if minVersion == "" {
			return locator.FindAll()
		}
		return locator.FindAtLeast(minVersion)
	}

	var infos []sdk.Info
	if format == report.FormatTable {
		infos, err = locator.FindAllWithProgress(find)
	} else {
		infos, err = find()
	}
	if err != nil {
		return fmt.Errorf("failed to find Windows SDKs: %w", err)
	}
	m.logger.Debugf("Found %d SDK installations", len(infos))

	if format != report.FormatTable {
		return report.Write(os.Stdout, infos, format, nil)
	}

	current := locator.FromEnv()

	if len(infos) == 0 {
		if minVersion != "" {
			fmt.Println(theme.WarningMessage(fmt.Sprintf("No Windows SDK installations at version %s or newer.", minVersion)))
		} else {
			fmt.Println(theme.WarningMessage("No Windows SDK installations found."))
		}
		fmt.Println(theme.Faint.Render("  Install one with the Visual Studio Installer, or run 'winsdk add-path <dir>' for a custom location."))
		return nil
	}

	fmt.Println(theme.Title.Render("Windows SDK Installations"))
	fmt.Println()
	if err := report.Write(os.Stdout, infos, format, current); err != nil {
		return err
	}
	fmt.Println()

	if current == nil {
		fmt.Println(theme.WarningMessage(" WindowsSdkDir and WindowsSdkVersion are not set"))
		fmt.Println(theme.Faint.Render("  Run 'winsdk use' to select an SDK"))
	}

	return nil
}

func (m command) anyCommand() *cli.Command {
	var output string

	return &cli.Command{
		Name:  "any",
		Usage: "Print the first SDK found, checking the environment, then Windows 10, then Windows 8.1",
		Flags: []cli.Flag{outputFlag(&output)},
		Action: func(c *cli.Context) error {
			format, err := report.ParseFormat(output)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			info, err := m.newLocator(cfg).Any()
			if err != nil {
				return err
			}
			return m.printOne(info, format, "No Windows SDK found")
		},
	}
}

func (m command) showCommand() *cli.Command {
	var output string

	return &cli.Command{
		Name:      "show",
		Usage:     "Show the registered SDK for a Windows release",
		ArgsUsage: "<10|8.1>",
		Flags:     []cli.Flag{outputFlag(&output)},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: winsdk show <10|8.1>")
			}

			format, err := report.ParseFormat(output)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			locator := m.newLocator(cfg)

			var info *sdk.Info
			switch c.Args().First() {
			case "10", "10.0", "v10.0":
				info, err = locator.Win10()
			case "8.1", "v8.1":
				info, err = locator.Win81()
			default:
				return fmt.Errorf("unknown Windows release %q (want 10 or 8.1)", c.Args().First())
			}
			if err != nil {
				return err
			}

			return m.printOne(info, format, fmt.Sprintf("No Windows %s SDK is registered", c.Args().First()))
		},
	}
}

func (m command) currentCommand() *cli.Command {
	return &cli.Command{
		Name:  "current",
		Usage: "Show the SDK selected by WindowsSdkDir and WindowsSdkVersion",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			current := m.newLocator(cfg).FromEnv()
			if current == nil {
				fmt.Println(theme.WarningMessage("No Windows SDK is selected"))
				fmt.Println(theme.Faint.Render("  Run 'winsdk use' to select one"))
				return nil
			}

			fmt.Printf("%s %s\n", theme.LabelStyle.Render("Current SDK:"), theme.CurrentStyle.Render(current.ProductVersion))
			fmt.Printf("%s %s\n", theme.LabelStyle.Render("Folder:     "), theme.PathStyle.Render(current.InstallationFolder))
			if !current.Exists() {
				fmt.Println(theme.WarningMessage("The selected folder does not exist"))
			}
			if _, ok := os.LookupEnv(sdk.EnvSdkDir); !ok {
				fmt.Println()
				fmt.Println(theme.InfoMessage(" The SDK is set system-wide, but not visible in this session"))
				fmt.Println(theme.Faint.Render("  Restart your terminal to pick up environment changes"))
			}
			return nil
		},
	}
}

// printOne writes a single record, or a warning when info is nil
func (m command) printOne(info *sdk.Info, format report.Format, missing string) error {
	if format != report.FormatTable {
		var infos []sdk.Info
		if info != nil {
			infos = append(infos, *info)
		}
		return report.Write(os.Stdout, infos, format, nil)
	}

	if info == nil {
		fmt.Println(theme.WarningMessage(missing))
		return nil
	}

	box := fmt.Sprintf("%s %s\n%s %s",
		theme.LabelStyle.Render("Version:"), theme.CurrentStyle.Render(info.ProductVersion),
		theme.LabelStyle.Render("Folder: "), theme.PathStyle.Render(info.InstallationFolder))
	box += fmt.Sprintf("\n%s %s", theme.LabelStyle.Render("Name:   "), info.DisplayName())
	box += fmt.Sprintf("\n%s %s", theme.LabelStyle.Render("Source: "), string(info.Source))

	fmt.Println(theme.Box.Render(box))
	return nil
}
