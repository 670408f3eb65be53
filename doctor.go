package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v2"

	"winsdk/internal/config"
	"winsdk/internal/env"
	"winsdk/internal/report"
	"winsdk/internal/sdk"
	"winsdk/internal/theme"
)

type diagnosis struct {
	issues   []string
	warnings []string
}

func (d *diagnosis) issue(format string, args ...any) {
	d.issues = append(d.issues, fmt.Sprintf(format, args...))
}

func (d *diagnosis) warn(format string, args ...any) {
	d.warnings = append(d.warnings, fmt.Sprintf(format, args...))
}

func (m command) doctorCommand() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Diagnose the Windows SDK setup",
		Action: func(c *cli.Context) error {
			m.doctor()
			return nil
		},
	}
}

func (m command) doctor() {
	fmt.Println(theme.Title.Render("Windows SDK Locator - System Diagnostics"))
	fmt.Println()

	d := &diagnosis{}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = &config.Config{}
	}
	locator := m.newLocator(cfg)
	current := locator.FromEnv()

	// 1. Selected SDK
	fmt.Println(theme.LabelStyle.Render("Checking WindowsSdkDir and WindowsSdkVersion..."))
	switch {
	case current == nil:
		fmt.Println("  " + theme.ErrorMessage("No Windows SDK is selected"))
		d.issue("WindowsSdkDir and WindowsSdkVersion are not both set")
	case !current.Exists():
		fmt.Printf("  %s %s\n", theme.ErrorStyle.Render("✗ WindowsSdkDir points to a missing folder:"), theme.PathStyle.Render(current.InstallationFolder))
		d.issue("WindowsSdkDir points to invalid location: %s", current.InstallationFolder)
	case !hasIncludeDir(*current):
		fmt.Printf("  %s %s\n", theme.WarningMessage("No headers for the selected version:"), theme.PathStyle.Render(current.ProductVersion))
		d.warn("Include folder missing for Windows SDK %s", current.ProductVersion)
	default:
		fmt.Printf("  %s %s %s\n", theme.SuccessMessage("Windows SDK selected:"), theme.CurrentStyle.Render(current.ProductVersion), theme.PathStyle.Render(current.InstallationFolder))
	}
	if current != nil && !matchesSystemSelection(*current) {
		fmt.Println("  " + theme.WarningMessage("This session differs from the system-wide selection"))
		d.warn("Restart your terminal to pick up the system-wide Windows SDK selection")
	}
	fmt.Println()

	// 2. Path
	fmt.Println(theme.LabelStyle.Render("Checking Path..."))
	binPath := ""
	if current != nil {
		binPath = env.Variables(*current)[env.VarSdkVerBinPath]
	}
	if pathHasSdkBin(os.Getenv("Path"), binPath) {
		fmt.Println("  " + theme.SuccessMessage("%WindowsSdkVerBinPath% is in Path"))
	} else {
		fmt.Println("  " + theme.WarningMessage("No Windows SDK tools found in Path"))
		d.warn("Windows SDK tools are not in Path. Run 'winsdk use' to add them.")
	}
	fmt.Println()

	// 3. Registry entries
	fmt.Println(theme.LabelStyle.Render("Checking registry..."))
	for _, release := range []struct {
		name string
		find func() (*sdk.Info, error)
	}{
		{"10", locator.Win10},
		{"8.1", locator.Win81},
	} {
		info, err := release.find()
		switch {
		case err != nil:
			fmt.Printf("  %s %v\n", theme.ErrorStyle.Render(fmt.Sprintf("✗ Error reading Windows %s SDK key:", release.name)), err)
			d.issue("Registry error for Windows %s SDK: %v", release.name, err)
		case info == nil:
			fmt.Println("  " + theme.Faint.Render(fmt.Sprintf("Windows %s SDK is not registered", release.name)))
		default:
			fmt.Printf("  %s %s\n", theme.SuccessMessage(fmt.Sprintf("Windows %s SDK registered:", release.name)), theme.HighlightText(info.ProductVersion))
		}
	}
	fmt.Println()

	// 4. Installations
	fmt.Println(theme.LabelStyle.Render("Checking Windows SDK installations..."))
	infos, err := locator.FindAll()
	switch {
	case err != nil:
		fmt.Printf("  %s %v\n", theme.ErrorStyle.Render("✗ Error finding Windows SDKs:"), err)
		d.issue("Error detecting Windows SDK installations: %v", err)
	case len(infos) == 0:
		fmt.Println("  " + theme.WarningMessage("No Windows SDK installations found"))
		d.warn("No Windows SDK installations detected. Install one with the Visual Studio Installer.")
	default:
		fmt.Println("  " + theme.SuccessMessage(fmt.Sprintf("Found installations: %d", len(infos))))
		fmt.Println(report.Table(infos, current))
	}
	fmt.Println()

	// 5. Configuration
	fmt.Println(theme.LabelStyle.Render("Checking configuration..."))
	if cfgErr != nil {
		fmt.Printf("  %s %v\n", theme.ErrorStyle.Render("✗ Error loading config:"), cfgErr)
		d.issue("Configuration file error: %v", cfgErr)
	} else {
		if _, err := os.Stat(cfg.Path()); os.IsNotExist(err) {
			fmt.Println("  " + theme.WarningMessage("Configuration file does not exist (will be created when needed)"))
		} else {
			fmt.Println("  " + theme.SuccessMessage("Configuration file exists and is valid"))
		}
		for _, p := range cfg.SearchPaths {
			if !sdk.IsKitsRoot(p) {
				fmt.Printf("  %s %s\n", theme.WarningMessage("Search path is not a Windows Kits root:"), theme.PathStyle.Render(p))
				d.warn("Search path %s has no Include folder", p)
			}
		}
		if cfg.MinVersion != "" {
			if _, err := sdk.ParseVersion(cfg.MinVersion); err != nil {
				fmt.Println("  " + theme.ErrorMessage(err.Error()))
				d.issue("min_version in %s is invalid", cfg.Path())
			}
		}
	}
	fmt.Println()

	// 6. Privileges
	fmt.Println(theme.LabelStyle.Render("Checking privileges..."))
	if env.IsAdmin() {
		fmt.Println("  " + theme.SuccessMessage("Running with administrator privileges"))
	} else {
		fmt.Println("  " + theme.WarningMessage("Not running as administrator (some operations require admin)"))
		d.warn("Administrator privileges are required for 'winsdk use'")
	}
	fmt.Println()

	fmt.Println(theme.Title.Render("Diagnostics Summary"))
	fmt.Println()
	fmt.Println(d.summary())
}

func (d *diagnosis) summary() string {
	if len(d.issues) == 0 && len(d.warnings) == 0 {
		return theme.SuccessBox.Render(theme.SuccessMessage("All checks passed!") + "\n\nYour Windows SDK environment is properly configured.")
	}

	var b strings.Builder
	if len(d.issues) > 0 {
		b.WriteString(theme.ErrorStyle.Render(fmt.Sprintf("Issues Found: %d", len(d.issues))) + "\n\n")
		for _, issue := range d.issues {
			b.WriteString(theme.ErrorMessage(issue) + "\n")
		}
	}
	if len(d.warnings) > 0 {
		if len(d.issues) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(theme.WarningStyle.Render(fmt.Sprintf("Warnings: %d", len(d.warnings))) + "\n\n")
		for _, warning := range d.warnings {
			b.WriteString(theme.WarningMessage(warning) + "\n")
		}
	}
	if len(d.issues) > 0 {
		b.WriteString("\n" + theme.InfoMessage(" Run 'winsdk use' to select a valid SDK"))
		b.WriteString("\n" + theme.Faint.Render("  (Note: requires administrator privileges)"))
	}

	return theme.Box.Render(b.String())
}

// matchesSystemSelection reports whether current agrees with the SDK stored in the
// system environment. It is true when the system environment cannot be read.
func matchesSystemSelection(current sdk.Info) bool {
	dir, err := env.GetSdkDir()
	if err != nil {
		return true
	}
	version, err := env.GetSdkVersion()
	if err != nil {
		return true
	}
	return strings.EqualFold(dir, sdk.EnvDir(current)) && strings.EqualFold(version, sdk.EnvVersion(current))
}

func hasIncludeDir(info sdk.Info) bool {
	version := strings.TrimSuffix(sdk.EnvVersion(info), `\`)
	st, err := os.Stat(filepath.Join(info.InstallationFolder, "Include", version))
	return err == nil && st.IsDir()
}

// pathHasSdkBin reports whether pathEnv references the SDK bin folder, either
// through the variable or through an expanded entry below binPath
func pathHasSdkBin(pathEnv, binPath string) bool {
	prefix := strings.ToLower(binPath)
	for _, entry := range strings.Split(pathEnv, ";") {
		e := strings.ToLower(strings.TrimSpace(strings.Trim(entry, `"`)))
		if e == "" {
			continue
		}
		if strings.Contains(e, strings.ToLower("%"+env.VarSdkVerBinPath+"%")) {
			return true
		}
		if prefix != "" && strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}
