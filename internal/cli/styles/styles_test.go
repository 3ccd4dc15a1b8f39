package styles_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/geoprompt/internal/cli/styles"
	"github.com/bnema/geoprompt/internal/domain/entity"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m styles.PermissionPromptModel, msg tea.Msg) (styles.PermissionPromptModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(styles.PermissionPromptModel)
	require.True(t, ok)
	return pm, cmd
}

func TestPermissionPrompt_Shortcuts(t *testing.T) {
	tests := []struct {
		key        string
		allowed    bool
		persistent bool
	}{
		{key: "a", allowed: true, persistent: false},
		{key: "A", allowed: true, persistent: true},
		{key: "d", allowed: false, persistent: false},
		{key: "D", allowed: false, persistent: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := styles.NewPermissionPrompt(styles.NewTheme(), "Allow Location Access?", "This page wants to use your location.")
			m, cmd := update(t, m, runes(tt.key))

			assert.True(t, m.Done())
			assert.NotNil(t, cmd)
			assert.Equal(t, tt.allowed, m.Choice().Allowed())
			assert.Equal(t, tt.persistent, m.Choice().Persistent())
		})
	}
}

func TestPermissionPrompt_NavigateAndConfirm(t *testing.T) {
	m := styles.NewPermissionPrompt(styles.NewTheme(), "Allow Location Access?", "https://example.com wants to use your location.")
	assert.Contains(t, m.View(), "https://example.com wants to use your location.")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Nil(t, cmd)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.True(t, m.Done())
	assert.NotNil(t, cmd)
	assert.Equal(t, styles.ChoiceAllowOnce, m.Choice())
	assert.Empty(t, m.View())
}

func TestPermissionPrompt_LeftWraps(t *testing.T) {
	m := styles.NewPermissionPrompt(styles.NewTheme(), "h", "b")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, styles.ChoiceAlwaysAllow, m.Choice())
}

func TestPermissionPrompt_EscapeDeniesOnce(t *testing.T) {
	m := styles.NewPermissionPrompt(styles.NewTheme(), "h", "b")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, m.Canceled())
	assert.False(t, m.Choice().Allowed())
	assert.False(t, m.Choice().Persistent())

	m, cmd := update(t, m, runes("A"))
	assert.Nil(t, cmd, "answered prompt ignores further keys")
	assert.Equal(t, styles.ChoiceDeny, m.Choice())
}

func TestPermissionRow(t *testing.T) {
	row := styles.PermissionRow(&entity.PermissionRecord{
		Origin: "",
		Type:   entity.PermissionTypeGeolocation,
		State:  entity.PermissionGranted,
	})
	assert.Equal(t, styles.OpaqueOriginLabel, row[0])
	assert.Equal(t, "geolocation", row[1])
	assert.Equal(t, "granted", row[2])
	assert.Equal(t, "-", row[3])
}

func TestRenderPermissionTable(t *testing.T) {
	out := styles.RenderPermissionTable(styles.NewTheme(), []*entity.PermissionRecord{
		{Origin: "https://maps.example", Type: entity.PermissionTypeGeolocation, State: entity.PermissionDenied, UpdatedAt: 1700000000},
	})
	assert.Contains(t, out, "Origin")
	assert.Contains(t, out, "https://maps.example")
	assert.Contains(t, out, "denied")
}

func TestRenderRunSummary(t *testing.T) {
	out := styles.RenderRunSummary(styles.NewTheme(), styles.RunSummary{Dispatched: 1, Granted: 1, Successes: 1, ScriptErrors: 2})
	assert.Contains(t, out, styles.OpaqueOriginLabel)
	assert.Contains(t, out, "prompts")
	assert.Contains(t, out, "2 uncaught script error(s)")
}
