package updater

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/huh"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/dustin/go-humanize"

	"winsdk/internal/theme"
)

// Action is the user's answer to an update prompt
type Action string

const (
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
	ActionLater  Action = "later"
)

const notesPreviewLen = 400

// PromptForUpdate asks whether to install release. Choosing to skip is persisted.
func (u *Updater) PromptForUpdate(release *selfupdate.Release) (Action, error) {
	description := fmt.Sprintf("Download size: %s\n\n%s",
		humanize.Bytes(uint64(release.AssetByteSize)),
		summarizeNotes(release.ReleaseNotes, notesPreviewLen))

	var action Action
	err := huh.NewSelect[Action]().
		Title(theme.Subtitle.Render(fmt.Sprintf("winsdk %s is available (you have %s)", release.Version(), u.version))).
		Description(theme.Faint.Render(description)).
		Options(
			huh.NewOption(theme.SuccessStyle.Render("Update now"), ActionUpdate),
			huh.NewOption(theme.InfoStyle.Render("Skip this version"), ActionSkip),
			huh.NewOption(theme.WarningStyle.Render("Remind me later"), ActionLater),
		).
		Value(&action).
		Run()
	if err != nil {
		return "", err
	}

	if action == ActionSkip {
		if err := u.SkipVersion(release.Version()); err != nil {
			u.log.WithError(err).Warn("Failed to save skipped version")
		}
	}
	return action, nil
}

// ShowUpdateNotification writes the one-line hint shown after other commands.
// Callers pass stderr so piped json or yaml output stays parseable.
func ShowUpdateNotification(w io.Writer, currentVersion, latestVersion string) {
	fmt.Fprintf(w, "\n%s winsdk %s → %s %s\n\n",
		theme.InfoStyle.Render("ℹ"),
		theme.Faint.Render(currentVersion),
		theme.CurrentStyle.Render(latestVersion),
		theme.Faint.Render("(run 'winsdk update')"))
}

func ShowUpdateSuccess(version string) {
	fmt.Println()
	fmt.Println(theme.SuccessBox.Render(theme.SuccessMessage("winsdk " + version + " installed")))
	fmt.Println(theme.Faint.Render("The new version is used from the next run."))
	fmt.Println()
}

func ShowAlreadyUpToDate(version string) {
	fmt.Println(theme.SuccessMessage(fmt.Sprintf("winsdk %s is the latest release", version)))
}

func ShowCheckingForUpdates() {
	fmt.Println(theme.InfoMessage("Checking for updates..."))
}

func ShowDownloadingUpdate(version string) {
	fmt.Println()
	fmt.Println(theme.InfoMessage(fmt.Sprintf("Downloading and verifying winsdk %s...", version)))
}

// summarizeNotes flattens markdown release notes into plain lines and cuts them
// at a line or word boundary no longer than maxLen
func summarizeNotes(notes string, maxLen int) string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(notes, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "See the release page on GitHub for details."
	}

	text := strings.Join(lines, "\n")
	if len(text) <= maxLen {
		return text
	}

	end := maxLen
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	cut := text[:end]
	if i := strings.LastIndexAny(cut, "\n "); i > maxLen/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
