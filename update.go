package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	cli "github.com/urfave/cli/v2"

	"winsdk/internal/config"
	"winsdk/internal/theme"
	"winsdk/internal/updater"
)

func (m command) updateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Update winsdk to the latest release",
		Action: func(c *cli.Context) error {
			return m.update(c.Context)
		},
	}
}

func (m command) update(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.UpdateConfig.Enabled {
		fmt.Println(theme.WarningMessage("Updates are disabled in configuration."))
		fmt.Println(theme.Faint.Render(fmt.Sprintf("To enable, edit %s and set update_config.enabled to true", cfg.Path())))
		return nil
	}

	upd, err := updater.NewUpdater(cfg, Version, m.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize updater: %w", err)
	}

	updater.ShowCheckingForUpdates()

	ctx, cancel := context.WithTimeout(ctx, updater.UpdateTimeout)
	defer cancel()

	release, err := upd.CheckForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if release == nil {
		updater.ShowAlreadyUpToDate(Version)
		return nil
	}

	action, err := upd.PromptForUpdate(release)
	if err != nil {
		fmt.Println(theme.WarningMessage("Update cancelled."))
		return nil
	}

	switch action {
	case updater.ActionUpdate:
	case updater.ActionSkip:
		fmt.Println(theme.InfoMessage(fmt.Sprintf("Skipped version %s", release.Version())))
		return nil
	default:
		fmt.Println(theme.InfoMessage("Update postponed"))
		return nil
	}

	updater.ShowDownloadingUpdate(release.Version())
	if err := upd.PerformUpdate(ctx, release); err != nil {
		fmt.Println()
		fmt.Println(theme.Faint.Render("Please try again or download manually from:"))
		fmt.Println(theme.Faint.Render("https://github.com/" + updater.GitHubRepo + "/releases"))
		return fmt.Errorf("update failed: %w", err)
	}

	updater.ShowUpdateSuccess(release.Version())
	return nil
}

func (m command) versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the winsdk version",
		Action: func(c *cli.Context) error {
			printVersion()
			return nil
		},
	}
}

func printVersion() {
	banner := `██╗    ██╗██╗███╗   ██╗███████╗██████╗ ██╗  ██╗
██║    ██║██║████╗  ██║██╔════╝██╔══██╗██║ ██╔╝
██║ █╗ ██║██║██╔██╗ ██║███████╗██║  ██║█████╔╝
██║███╗██║██║██║╚██╗██║╚════██║██║  ██║██╔═██╗
╚███╔███╔╝██║██║ ╚████║███████║██████╔╝██║  ██╗
 ╚══╝╚══╝ ╚═╝╚═╝  ╚═══╝╚══════╝╚═════╝ ╚═╝  ╚═╝`

	linkStyle := lipgloss.NewStyle().
		Foreground(theme.Info).
		Underline(true)

	fmt.Println(theme.Banner.Render(banner))
	fmt.Printf("%s %s %s\n",
		theme.Subtitle.Render("Windows SDK Locator (winsdk)"),
		theme.Faint.Render("version"),
		theme.HighlightText(Version))
	fmt.Println(linkStyle.Render("https://github.com/" + updater.GitHubRepo))
}
