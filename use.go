package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	cli "github.com/urfave/cli/v2"

	"winsdk/internal/config"
	"winsdk/internal/env"
	"winsdk/internal/report"
	"winsdk/internal/sdk"
	"winsdk/internal/theme"
)

func (m command) useCommand() *cli.Command {
	return &cli.Command{
		Name:      "use",
		Usage:     "Select an SDK system-wide (requires administrator)",
		ArgsUsage: "[version]",
		Action: func(c *cli.Context) error {
			return m.use(c.Args().First())
		},
	}
}

func (m command) use(version string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	locator := m.newLocator(cfg)
	infos, err := locator.FindAll()
	if err != nil {
		return fmt.Errorf("failed to find Windows SDKs: %w", err)
	}
	if len(infos) == 0 {
		return errors.New("no Windows SDK installations found")
	}

	current := locator.FromEnv()

	var target *sdk.Info
	if version == "" {
		target, err = selectSdk(infos, current)
		if err != nil {
			fmt.Println(theme.WarningMessage(fmt.Sprintf("Selection cancelled: %v", err)))
			return nil
		}
	} else {
		target = matchVersion(infos, version)
		if target == nil {
			fmt.Println(theme.Faint.Render("Use 'winsdk list' to see available versions."))
			return fmt.Errorf("Windows SDK version %q not found", version)
		}
	}

	if report.IsCurrent(*target, current) {
		fmt.Println(theme.InfoMessage(fmt.Sprintf("Already using Windows SDK %s. No changes needed.", target.ProductVersion)))
		return nil
	}

	confirmed, err := confirmAction(
		fmt.Sprintf("Switch to Windows SDK %s?", target.ProductVersion),
		fmt.Sprintf("Folder: %s", target.InstallationFolder),
	)
	if err != nil || !confirmed {
		fmt.Println(theme.WarningMessage("Operation cancelled."))
		return nil
	}

	m.logger.WithField("version", target.ProductVersion).Debug("Updating system environment")
	if err := env.SetSdk(*target); err != nil {
		fmt.Println(theme.WarningMessage("This command requires administrator privileges."))
		fmt.Println(theme.Faint.Render("Please run your terminal as Administrator and try again."))
		return err
	}

	fmt.Println(theme.SuccessMessage(fmt.Sprintf("Now using Windows SDK %s", target.ProductVersion)))
	fmt.Println()
	fmt.Println(theme.Faint.Render("Note: You may need to restart your terminal or applications for changes to take effect."))
	return nil
}

// matchVersion prefers an exact version match, then the newest SDK whose leading
// version segments equal want
func matchVersion(infos []sdk.Info, want string) *sdk.Info {
	for i := range infos {
		if sdk.SameVersion(infos[i].ProductVersion, want) {
			return &infos[i]
		}
	}
	for i := range infos {
		if hasVersionPrefix(infos[i].ProductVersion, want) {
			return &infos[i]
		}
	}
	return nil
}

// hasVersionPrefix matches whole segments only, so "10.0.2" does not match "10.0.22621"
func hasVersionPrefix(version, prefix string) bool {
	rest, ok := strings.CutPrefix(version, strings.TrimSuffix(prefix, "."))
	return ok && (rest == "" || rest[0] == '.')
}

func selectSdk(infos []sdk.Info, current *sdk.Info) (*sdk.Info, error) {
	// current first
	ordered := make([]sdk.Info, 0, len(infos))
	for _, info := range infos {
		if report.IsCurrent(info, current) {
			ordered = append(ordered, info)
		}
	}
	for _, info := range infos {
		if !report.IsCurrent(info, current) {
			ordered = append(ordered, info)
		}
	}

	options := make([]huh.Option[int], len(ordered))
	for i, info := range ordered {
		options[i] = huh.NewOption(sdkOptionLabel(info, current), i)
	}

	var selected int
	err := huh.NewSelect[int]().
		Title(theme.Subtitle.Render("Select Windows SDK")).
		Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
		Options(options...).
		Value(&selected).
		Run()
	if err != nil {
		return nil, err
	}

	return &ordered[selected], nil
}

// sdkOptionLabel renders one select row. Only the current SDK is highlighted.
func sdkOptionLabel(info sdk.Info, current *sdk.Info) string {
	isCurrent := report.IsCurrent(info, current)

	versionPart := info.ProductVersion
	if isCurrent {
		versionPart = theme.CurrentStyle.Render(info.ProductVersion)
	}

	pad := 0
	if w := lipgloss.Width(versionPart); w < 16 {
		pad = 16 - w
	}

	label := fmt.Sprintf("%s%s %s %s", versionPart, strings.Repeat(" ", pad), info.InstallationFolder, theme.Faint.Render("("+string(info.Source)+")"))
	if isCurrent {
		label += " " + theme.Faint.Render("[current]")
	}
	return label
}

// confirmAction shows a confirmation prompt
func confirmAction(title, description string) (bool, error) {
	var confirmed bool

	err := huh.NewConfirm().
		Title(theme.Subtitle.Render(title)).
		Description(theme.Faint.Render(description)).
		Affirmative(theme.SuccessStyle.Render("Yes")).
		Negative(theme.ErrorStyle.Render("No")).
		Value(&confirmed).
		Run()

	return confirmed, err
}
