package sdk

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type scanFinishedMsg struct {
	found   int
	elapsed time.Duration
}

// scanModel shows which sources are being searched and, once done, how many
// SDKs turned up
type scanModel struct {
	spinner spinner.Model
	roots   int
	result  *scanFinishedMsg
	aborted bool
}

var scanStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8e8e93"))

func newScanModel(roots int) scanModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#0078d4"))

	return scanModel{spinner: s, roots: roots}
}

func (m scanModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.aborted = true
			return m, tea.Quit
		}
		return m, nil

	case scanFinishedMsg:
		m.result = &msg
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m scanModel) View() string {
	switch {
	case m.aborted:
		return ""
	case m.result != nil:
		return scanStatusStyle.Render(fmt.Sprintf(" Found %s in %s", plural(m.result.found, "SDK"), m.result.elapsed.Round(time.Millisecond))) + "\n"
	}
	return fmt.Sprintf(" %s Searching the registry and %s...\n", m.spinner.View(), plural(m.roots, "Windows Kits root"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// FindAllWithProgress runs find while a spinner names the sources being
// searched, then leaves a one-line summary behind.
func (l *Locator) FindAllWithProgress(find func() ([]Info, error)) ([]Info, error) {
	p := tea.NewProgram(newScanModel(len(l.searchPaths)))

	var (
		infos   []Info
		findErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		start := time.Now()
		infos, findErr = find()
		p.Send(scanFinishedMsg{found: len(infos), elapsed: time.Since(start)})
	}()

	_, err := p.Run()
	<-done
	if err != nil {
		l.log.WithError(err).Debug("Progress display failed")
	}
	return infos, findErr
}
