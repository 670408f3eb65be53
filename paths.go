package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	cli "github.com/urfave/cli/v2"

	"winsdk/internal/config"
	"winsdk/internal/sdk"
	"winsdk/internal/theme"
)

func (m command) addPathCommand() *cli.Command {
	return &cli.Command{
		Name:      "add-path",
		Usage:     "Add a Windows Kits root to scan for SDKs",
		ArgsUsage: "<directory>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				fmt.Println(theme.InfoStyle.Render(`Example: winsdk add-path D:\SDKs\Windows Kits\10`))
				fmt.Println()
				fmt.Println(theme.Faint.Render("This adds a directory whose Include folder is scanned for SDK versions."))
				return errors.New("usage: winsdk add-path <directory>")
			}
			return m.addPath(c.Args().First())
		},
	}
}

func (m command) addPath(path string) error {
	if !sdk.IsKitsRoot(path) {
		fmt.Println(theme.Faint.Render("Make sure the path exists and contains an Include folder."))
		return fmt.Errorf("not a Windows Kits root: %s", path)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.HasSearchPath(path) {
		fmt.Println(theme.WarningMessage("This search path is already configured."))
		return nil
	}

	confirmed, err := confirmAction(
		"Add search path?",
		fmt.Sprintf("Path: %s\n\nThe locator will scan this directory for Windows SDK versions.", path),
	)
	if err != nil || !confirmed {
		fmt.Println(theme.WarningMessage("Operation cancelled."))
		return nil
	}

	cfg.AddSearchPath(path)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	m.logger.WithField("path", path).Debug("Added search path")

	fmt.Println(theme.SuccessMessage("Added search path:"))
	fmt.Println("  " + theme.PathStyle.Render(path))
	fmt.Println(theme.Faint.Render("Run ") + theme.Code.Render("winsdk list") + theme.Faint.Render(" to see detected versions"))
	return nil
}

func (m command) removePathCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove-path",
		Usage:     "Remove a custom search path",
		ArgsUsage: "[directory]",
		Action: func(c *cli.Context) error {
			return m.removePath(c.Args().First())
		},
	}
}

func (m command) removePath(path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if path == "" {
		if len(cfg.SearchPaths) == 0 {
			fmt.Println(theme.InfoMessage("No custom search paths to remove"))
			fmt.Println("  " + theme.Faint.Render("Use ") + theme.Code.Render("winsdk add-path <directory>") + theme.Faint.Render(" to add one"))
			return nil
		}

		path, err = selectSearchPath(cfg.SearchPaths)
		if err != nil {
			fmt.Println(theme.WarningMessage(fmt.Sprintf("Selection cancelled: %v", err)))
			return nil
		}
	}

	if !cfg.HasSearchPath(path) {
		fmt.Println(theme.WarningMessage("This path is not in the search paths list."))
		return nil
	}

	confirmed, err := confirmAction("Remove search path?", fmt.Sprintf("Path: %s", path))
	if err != nil || !confirmed {
		fmt.Println(theme.WarningMessage("Operation cancelled."))
		return nil
	}

	cfg.RemoveSearchPath(path)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println(theme.SuccessMessage("Removed search path."))
	return nil
}

func selectSearchPath(paths []string) (string, error) {
	maxW := 0
	for _, p := range paths {
		if w := lipgloss.Width(p); w > maxW {
			maxW = w
		}
	}

	options := make([]huh.Option[string], len(paths))
	for i, p := range paths {
		status := theme.Faint.Render("Not found")
		if sdk.IsKitsRoot(p) {
			status = theme.SuccessStyle.Render("✓ Exists")
		}
		label := fmt.Sprintf("%s%s  %s", theme.CurrentStyle.Render(p), strings.Repeat(" ", maxW-lipgloss.Width(p)), status)
		options[i] = huh.NewOption(label, p)
	}

	var selected string
	err := huh.NewSelect[string]().
		Title(theme.Subtitle.Render("Select Search Path to Remove")).
		Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
		Options(options...).
		Value(&selected).
		Run()

	return selected, err
}

func (m command) listPathsCommand() *cli.Command {
	return &cli.Command{
		Name:  "list-paths",
		Usage: "Show the Windows Kits roots that are scanned",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			fmt.Println(theme.Title.Render("Windows Kits Search Paths"))
			fmt.Println()

			fmt.Println(theme.LabelStyle.Render("Standard Paths (built-in):"))
			fmt.Println()
			fmt.Println(pathsTable(sdk.StandardSearchPaths, false))
			fmt.Println()

			if len(cfg.SearchPaths) == 0 {
				fmt.Println(theme.InfoMessage("No custom search paths configured."))
				fmt.Println(theme.Faint.Render("Use 'winsdk add-path <directory>' to add one."))
				fmt.Println()
				return nil
			}

			fmt.Println(theme.LabelStyle.Render("Custom Search Paths:"))
			fmt.Println()
			fmt.Println(pathsTable(cfg.SearchPaths, true))
			fmt.Println()
			return nil
		},
	}
}

// pathsTable renders paths with their status. Missing custom paths are shown as errors.
func pathsTable(paths []string, custom bool) string {
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Left,
		theme.TableHeader.Width(58).Render("Path"),
		theme.TableHeader.Render("Status"),
	)}

	for _, p := range paths {
		status := theme.TableCell.Faint(true).Render("Not found")
		switch {
		case sdk.IsKitsRoot(p):
			status = theme.SuccessStyle.Padding(0, 1).Render("✓ Exists")
		case custom:
			status = theme.ErrorStyle.Padding(0, 1).Render("✗ Not found")
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left,
			theme.TableCell.Width(58).Render(p),
			status,
		))
	}

	return theme.TableStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
