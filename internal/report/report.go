// Package report renders SDK installation records for the terminal and for scripts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"sigs.k8s.io/yaml"

	"winsdk/internal/sdk"
	"winsdk/internal/theme"
)

// Format selects how records are written
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates an --output value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table, json or yaml)", s)
	}
}

// Write renders infos to w. current marks the active installation in tables and may be nil.
func Write(w io.Writer, infos []sdk.Info, format Format, current *sdk.Info) error {
	if infos == nil {
		infos = []sdk.Info{}
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case FormatYAML:
		data, err := yaml.Marshal(infos)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		_, err = w.Write(data)
		return err

	default:
		_, err := fmt.Fprintln(w, Table(infos, current))
		return err
	}
}

// Table renders infos as a bordered table
func Table(infos []sdk.Info, current *sdk.Info) string {
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		theme.TableHeader.Width(9).Render("Current"),
		theme.TableHeader.Width(16).Render("Version"),
		theme.TableHeader.Width(50).Render("Path"),
		theme.TableHeader.Width(10).Render("Source"),
		theme.TableHeader.Render("Name"),
	)

	rows := lo.Map(infos, func(info sdk.Info, _ int) string {
		mark := ""
		version := info.ProductVersion
		if IsCurrent(info, current) {
			mark = theme.SuccessMessage("")
			version = theme.CurrentStyle.Render(version)
		}

		return lipgloss.JoinHorizontal(lipgloss.Left,
			theme.TableCell.Width(9).Align(lipgloss.Center).Render(mark),
			theme.TableCell.Width(16).Render(version),
			theme.TableCell.Width(50).Render(info.InstallationFolder),
			theme.TableCell.Width(10).Render(sourceStyle(info.Source).Render(string(info.Source))),
			theme.TableCell.Render(theme.Faint.Render(info.ProductName)),
		)
	})

	return theme.TableStyle.Render(lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, rows...)...))
}

// IsCurrent reports whether info is the installation described by current
func IsCurrent(info sdk.Info, current *sdk.Info) bool {
	return current != nil && sdk.SameInstallation(info, *current)
}

func sourceStyle(source sdk.Source) lipgloss.Style {
	switch source {
	case sdk.SourceEnv:
		return theme.SuccessStyle
	case sdk.SourceRegistry:
		return theme.InfoStyle
	default:
		return theme.Faint
	}
}
