package sdk

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanModel_View(t *testing.T) {
	m := newScanModel(3)
	assert.Contains(t, m.View(), "Searching the registry and 3 Windows Kits roots...")

	next, cmd := m.Update(scanFinishedMsg{found: 1, elapsed: 1234 * time.Microsecond})
	require.NotNil(t, cmd)
	assert.Contains(t, next.View(), "Found 1 SDK in 1ms")
}

func TestScanModel_CtrlC(t *testing.T) {
	next, cmd := newScanModel(1).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Empty(t, next.View())

	next, cmd = newScanModel(1).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Nil(t, cmd)
	assert.Contains(t, next.View(), "1 Windows Kits root...")
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 SDKs", plural(0, "SDK"))
	assert.Equal(t, "1 SDK", plural(1, "SDK"))
	assert.Equal(t, "4 SDKs", plural(4, "SDK"))
}
